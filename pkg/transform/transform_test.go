// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package transform

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInputID(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "music")

	tests := []struct {
		name    string
		dir     string
		file    string
		want    string
		wantErr string
	}{
		{name: "valid", dir: root, file: "album/a.flac", want: filepath.Join("album", "a.flac")},
		{name: "cleaned", dir: root, file: "album/./x/../a.flac", want: filepath.Join("album", "a.flac")},
		{name: "relative_dir", dir: "music", file: "a.flac", wantErr: "must be absolute"},
		{name: "absolute_file", dir: root, file: filepath.Join(root, "a.flac"), wantErr: "must be relative"},
		{name: "escapes", dir: root, file: "../etc/passwd", wantErr: "escapes"},
		{name: "dot", dir: root, file: ".", wantErr: "escapes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewInputID(tt.dir, tt.file)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id.File)
			assert.Equal(t, filepath.Join(root, tt.want), id.Abs())
		})
	}
}

func TestStemID(t *testing.T) {
	tests := []struct {
		file string
		want OutputID
	}{
		{file: "song.flac", want: "song"},
		{file: "album/song.flac", want: "album/song"},
		{file: "archive.tar.gz", want: "archive.tar"},
		{file: ".bashrc", want: ".bashrc"},
		{file: "noext", want: "noext"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			id := InputID{Dir: "/in", File: filepath.FromSlash(tt.file)}
			assert.Equal(t, tt.want, StemID(id))
		})
	}
}

func TestWithExt(t *testing.T) {
	assert.Equal(t, "song.ogg", withExt("song.flac", "ogg"))
	assert.Equal(t, "song.ogg", withExt("song.flac", ".ogg"))
	assert.Equal(t, "song", withExt("song.flac", ""))
	assert.Equal(t, ".bashrc.bak", withExt(".bashrc", "bak"))
}
