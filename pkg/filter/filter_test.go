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

package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/condenser/pkg/fault"
)

var foodPaths = []string{
	"pizza/cheese/mozzarella",
	"pizza/cheese/parmesan",
	"sandwich/cheese/colby",
	"sandwich/cheese/provolone",
}

func TestChainRegex(t *testing.T) {
	chain := NewChain()
	require.NoError(t, chain.AppendRegex("pizza", Accept))

	assert.True(t, chain.IsAcceptable(foodPaths[0]))
	assert.True(t, chain.IsAcceptable(foodPaths[1]))
	assert.False(t, chain.IsAcceptable(foodPaths[2]))
	assert.False(t, chain.IsAcceptable(foodPaths[3]))
}

func TestChainGlob(t *testing.T) {
	chain := NewChain()
	require.NoError(t, chain.AppendGlob("pizza/**", Accept))

	assert.True(t, chain.IsAcceptable(foodPaths[0]))
	assert.True(t, chain.IsAcceptable(foodPaths[1]))
	assert.False(t, chain.IsAcceptable(foodPaths[2]))
	assert.False(t, chain.IsAcceptable(foodPaths[3]))
}

func TestChainUnmatched(t *testing.T) {
	tests := []struct {
		name            string
		acceptUnmatched bool
		rules           []string
		action          Action
		want            bool
	}{
		{
			name:            "empty_accepts_unmatched",
			acceptUnmatched: true,
			want:            true,
		},
		{
			name:            "empty_rejects_unmatched",
			acceptUnmatched: false,
			want:            false,
		},
		{
			name:            "populated_accepts_unmatched",
			acceptUnmatched: true,
			rules:           []string{"garlic bread", "spaghetti"},
			action:          Reject,
			want:            true,
		},
		{
			name:            "populated_rejects_unmatched",
			acceptUnmatched: false,
			rules:           []string{"garlic bread", "spaghetti"},
			action:          Accept,
			want:            false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := NewChain()
			chain.AcceptUnmatched = tt.acceptUnmatched
			for _, r := range tt.rules {
				require.NoError(t, chain.AppendRegex(r, tt.action))
			}
			assert.Equal(t, tt.want, chain.IsAcceptable(foodPaths[0]))
		})
	}
}

func TestChainFirstMatchWins(t *testing.T) {
	chain := NewChain()
	require.NoError(t, chain.AppendGlob("**/*.tmp.flac", Reject))
	require.NoError(t, chain.AppendGlob("**/*.flac", Accept))
	chain.AcceptUnmatched = true

	assert.False(t, chain.IsAcceptable("music/a.tmp.flac"), "earlier reject should win")
	assert.True(t, chain.IsAcceptable("music/a.flac"))
	assert.True(t, chain.IsAcceptable("music/cover.jpg"), "unmatched falls through to default")

	reversed := NewChain()
	require.NoError(t, reversed.AppendGlob("**/*.flac", Accept))
	require.NoError(t, reversed.AppendGlob("**/*.tmp.flac", Reject))
	assert.True(t, reversed.IsAcceptable("music/a.tmp.flac"), "order of append is evaluation order")
}

func TestGlobDoesNotCrossDirectories(t *testing.T) {
	g, err := NewGlob("*.flac")
	require.NoError(t, err)
	assert.True(t, g.Match("a.flac"))
	assert.False(t, g.Match("album/a.flac"))
}

func TestRegexRejectsInvalidUTF8(t *testing.T) {
	r, err := NewRegex(".*")
	require.NoError(t, err)
	assert.True(t, r.Match("ok.txt"))
	assert.False(t, r.Match("bad\xff.txt"), "non-text paths never match")
}

func TestInvalidPatterns(t *testing.T) {
	chain := NewChain()

	err := chain.AppendGlob("[unclosed", Accept)
	require.Error(t, err)
	assert.Equal(t, fault.KindPattern, fault.KindOf(err))

	err = chain.AppendRegex("(unclosed", Accept)
	require.Error(t, err)
	assert.Equal(t, fault.KindPattern, fault.KindOf(err))

	assert.Equal(t, 0, chain.Len(), "failed appends leave the chain untouched")
}

func TestNilChainRejects(t *testing.T) {
	var chain *Chain
	assert.False(t, chain.IsAcceptable("anything"))
	assert.Equal(t, 0, chain.Len())
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("")
	require.NoError(t, err)
	assert.Equal(t, Accept, a)

	a, err = ParseAction("Reject")
	require.NoError(t, err)
	assert.Equal(t, Reject, a)

	_, err = ParseAction("maybe")
	assert.Error(t, err)
}

func TestChainString(t *testing.T) {
	chain := NewChain()
	require.NoError(t, chain.AppendGlob("**/*.flac", Accept))
	require.NoError(t, chain.AppendRegex(`\.tmp$`, Reject))

	assert.Equal(t, "2 filters (unmatched: false)\n\t(accept (glob: **/*.flac))\n\t(reject (regex: \\.tmp$))", chain.String())
}
