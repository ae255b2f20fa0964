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
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/condenser/pkg/filter"
	"github.com/walteh/condenser/pkg/input"
	"github.com/walteh/condenser/pkg/transform"
)

// 🎭 mockTransformer is a testify mock of transform.Transformer
type mockTransformer struct {
	mock.Mock
}

func (m *mockTransformer) CanHandle(ctx context.Context, in transform.InputID) bool {
	return m.Called(ctx, in).Bool(0)
}

func (m *mockTransformer) OutputID(in transform.InputID) transform.OutputID {
	return m.Called(in).Get(0).(transform.OutputID)
}

func (m *mockTransformer) OutputPath(in transform.InputID) string {
	return m.Called(in).String(0)
}

func (m *mockTransformer) Transform(ctx context.Context, input, output string) error {
	return m.Called(ctx, input, output).Error(0)
}

// 🔁 extTransformer copies content, prefixed with its name, into a path
// with ext replacing the input extension. Inputs outside exts are refused.
type extTransformer struct {
	name string
	exts []string // accepted input extensions, empty for all
	ext  string   // output extension, empty keeps the input path

	mu    sync.Mutex
	calls []string
}

func (e *extTransformer) CanHandle(_ context.Context, in transform.InputID) bool {
	if len(e.exts) == 0 {
		return true
	}
	for _, ext := range e.exts {
		if filepath.Ext(in.File) == ext {
			return true
		}
	}
	return false
}

func (e *extTransformer) OutputID(in transform.InputID) transform.OutputID {
	return transform.StemID(in)
}

func (e *extTransformer) OutputPath(in transform.InputID) string {
	if e.ext == "" {
		return in.File
	}
	return string(transform.StemID(in)) + e.ext
}

func (e *extTransformer) Transform(_ context.Context, input, output string) error {
	e.mu.Lock()
	e.calls = append(e.calls, input)
	e.mu.Unlock()

	content, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return err
	}
	return os.WriteFile(output, append([]byte(e.name+":"), content...), 0644)
}

func (e *extTransformer) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	calls := append([]string(nil), e.calls...)
	sort.Strings(calls)
	return calls
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func acceptAll() *filter.Chain {
	return &filter.Chain{AcceptUnmatched: true}
}

func globChain(t *testing.T, patterns ...string) *filter.Chain {
	chain := filter.NewChain()
	for _, p := range patterns {
		require.NoError(t, chain.AppendGlob(p, filter.Accept))
	}
	return chain
}

// writeTree creates files under root with their name as content
func writeTree(t *testing.T, root string, files ...string) {
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(f), 0644))
	}
}

func newDir(t *testing.T, priority uint32, root string) *input.Directory {
	dir, err := input.New(priority, root, acceptAll())
	require.NoError(t, err)
	return dir
}

func setMtime(t *testing.T, path string, mtime time.Time) {
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func readFile(t *testing.T, path string) string {
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}
