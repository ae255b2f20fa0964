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

package input

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/condenser/pkg/fault"
	"github.com/walteh/condenser/pkg/filter"
)

// writeTree creates files (relative, slash separated) under root
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(f), 0644))
	}
}

func TestEnumerateFiles(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		chain func(t *testing.T) *filter.Chain
		want  []string
	}{
		{
			name:  "accept_all",
			files: []string{"a.flac", "album/b.flac", "album/cover.jpg"},
			chain: func(t *testing.T) *filter.Chain {
				c := filter.NewChain()
				c.AcceptUnmatched = true
				return c
			},
			want: []string{"a.flac", "album/b.flac", "album/cover.jpg"},
		},
		{
			name:  "new_chain_rejects_everything",
			files: []string{"a.flac", "album/b.flac"},
			chain: func(t *testing.T) *filter.Chain {
				return filter.NewChain()
			},
			want: nil,
		},
		{
			name:  "glob_filter",
			files: []string{"a.flac", "album/b.flac", "album/cover.jpg"},
			chain: func(t *testing.T) *filter.Chain {
				c := filter.NewChain()
				require.NoError(t, c.AppendGlob("**/*.flac", filter.Accept))
				return c
			},
			want: []string{"a.flac", "album/b.flac"},
		},
		{
			name:  "directories_are_descended_even_if_rejected",
			files: []string{"skip/a.flac", "keep.flac"},
			chain: func(t *testing.T) *filter.Chain {
				c := filter.NewChain()
				require.NoError(t, c.AppendRegex(`^skip$`, filter.Reject))
				c.AcceptUnmatched = true
				return c
			},
			want: []string{"keep.flac", "skip/a.flac"},
		},
	}

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeTree(t, root, tt.files...)

			dir, err := New(100, root, tt.chain(t))
			require.NoError(t, err)

			got, err := dir.EnumerateFiles(ctx)
			require.NoError(t, err)

			var want []string
			for _, w := range tt.want {
				want = append(want, filepath.FromSlash(w))
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestEnumerateFilesIsFresh(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeTree(t, root, "a.txt")

	chain := filter.NewChain()
	chain.AcceptUnmatched = true
	dir, err := New(1, root, chain)
	require.NoError(t, err)

	first, err := dir.EnumerateFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, first)

	writeTree(t, root, "b.txt")
	second, err := dir.EnumerateFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, second, "results should not be cached")
}

func TestEnumerateFilesSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	ctx := context.Background()
	root := t.TempDir()
	writeTree(t, root, "real.txt", "sub/inner.txt")
	require.NoError(t, os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling")))
	require.NoError(t, os.Symlink(filepath.Join(root, "sub"), filepath.Join(root, "subl")))

	chain := filter.NewChain()
	chain.AcceptUnmatched = true
	dir, err := New(1, root, chain)
	require.NoError(t, err)

	got, err := dir.EnumerateFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"link.txt", "real.txt", filepath.Join("sub", "inner.txt")}, got)
}

func TestEnumerateFilesMissingRoot(t *testing.T) {
	dir, err := New(1, filepath.Join(t.TempDir(), "nope"), nil)
	require.NoError(t, err)

	files, err := dir.EnumerateFiles(context.Background())
	require.Error(t, err)
	assert.Nil(t, files)
	assert.Contains(t, err.Error(), "enumerating")
}

func TestEnumerateFilesUnreadableSubdirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	writeTree(t, root, "a.txt", "locked/b.txt")
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	chain := filter.NewChain()
	chain.AcceptUnmatched = true
	dir, err := New(1, root, chain)
	require.NoError(t, err)

	files, err := dir.EnumerateFiles(context.Background())
	require.Error(t, err, "a subdirectory failure aborts the whole walk")
	assert.Nil(t, files)
}

func TestNewMakesPathAbsolute(t *testing.T) {
	dir, err := New(7, "relative/../music", nil)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir.Path))
	assert.Equal(t, "music", filepath.Base(dir.Path))
	assert.Equal(t, uint32(7), dir.Priority)
	assert.NotNil(t, dir.Filters)
}

func TestEnumerateFilesSymlinkedRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	target := t.TempDir()
	writeTree(t, target, "a.flac", "album/b.flac")
	root := filepath.Join(t.TempDir(), "music")
	require.NoError(t, os.Symlink(target, root))

	chain := filter.NewChain()
	chain.AcceptUnmatched = true
	dir, err := New(1, root, chain)
	require.NoError(t, err)

	got, err := dir.EnumerateFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.flac", filepath.Join("album", "b.flac")}, got)
	assert.Equal(t, root, dir.Path, "the configured path is kept")
}

func TestEnumerateFilesRootNotADirectory(t *testing.T) {
	tests := []struct {
		name string
		root func(t *testing.T) string
	}{
		{
			name: "regular_file",
			root: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "music.flac")
				require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
				return path
			},
		},
		{
			name: "symlink_to_file",
			root: func(t *testing.T) string {
				if runtime.GOOS == "windows" {
					t.Skip("symlinks need privileges on windows")
				}
				base := t.TempDir()
				target := filepath.Join(base, "music.flac")
				require.NoError(t, os.WriteFile(target, []byte("x"), 0644))
				link := filepath.Join(base, "music")
				require.NoError(t, os.Symlink(target, link))
				return link
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, err := New(1, tt.root(t), &filter.Chain{AcceptUnmatched: true})
			require.NoError(t, err)

			files, err := dir.EnumerateFiles(context.Background())
			require.Error(t, err)
			assert.Nil(t, files)
			assert.ErrorIs(t, err, ErrNotDirectory)
			assert.Equal(t, fault.KindIO, fault.KindOf(err))
		})
	}
}
