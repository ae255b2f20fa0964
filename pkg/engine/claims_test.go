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

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/walteh/condenser/pkg/transform"
)

func TestClaimsFirstClaimWins(t *testing.T) {
	claims := NewClaims()

	ok, prev := claims.TryClaim("music/song", "music/song.ogg", "opus")
	assert.True(t, ok)
	assert.Empty(t, prev)

	ok, holder := claims.TryClaim("music/song", "music/song.mp3", "mp3")
	assert.False(t, ok, "second claim on the same id must lose")
	assert.Equal(t, "opus", holder)

	owner, found := claims.Owner("music/song")
	assert.True(t, found)
	assert.Equal(t, "opus", owner)

	assert.True(t, claims.Contains("music/song.ogg"))
	assert.False(t, claims.Contains("music/song.mp3"), "losing claim must not record its path")
	assert.Equal(t, 1, claims.Len())
}

func TestClaimsSharedPath(t *testing.T) {
	claims := NewClaims()

	ok, _ := claims.TryClaim("a", "shared.txt", "first")
	assert.True(t, ok)

	ok, prev := claims.TryClaim("b", "shared.txt", "second")
	assert.True(t, ok, "distinct ids are both claimable")
	assert.Equal(t, "first", prev)

	assert.Equal(t, []string{"shared.txt"}, claims.OutputPaths())
	assert.Equal(t, []transform.OutputID{"a", "b"}, claims.OutputIDs())
}

func TestClaimsContainsCleansPaths(t *testing.T) {
	claims := NewClaims()
	claims.TryClaim("x", "dir/./x.txt", "copy")

	assert.True(t, claims.Contains("dir/x.txt"))
	assert.True(t, claims.Contains("dir//x.txt"))
	assert.False(t, claims.Contains("x.txt"))
}

func TestClaimsOutputPathsSorted(t *testing.T) {
	claims := NewClaims()
	claims.TryClaim("c", "c.txt", "copy")
	claims.TryClaim("a", "a.txt", "copy")
	claims.TryClaim("b", "b/b.txt", "copy")

	assert.Equal(t, []string{"a.txt", "b/b.txt", "c.txt"}, claims.OutputPaths())
}
