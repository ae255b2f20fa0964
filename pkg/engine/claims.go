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

// Package engine assigns input files to transformer instances, executes the
// resulting queues into a single output tree and removes stale outputs.
package engine

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/walteh/condenser/pkg/transform"
)

// 📌 Claims is the run-scoped record of every claimed output. Each key is
// written at most once.
type Claims struct {
	mu    sync.Mutex
	ids   map[transform.OutputID]string // OutputID -> owning instance
	paths map[string]string             // cleaned OutputPath -> owning instance
}

// 🏭 NewClaims creates an empty claim set for one run
func NewClaims() *Claims {
	return &Claims{
		ids:   make(map[transform.OutputID]string),
		paths: make(map[string]string),
	}
}

// TryClaim records id and path for owner unless id is already claimed.
// It reports whether the claim was taken. On a lost claim other is the
// instance holding id. On a taken claim other names the earlier owner of
// path when it was already claimed under a different id, and is empty
// otherwise.
func (c *Claims) TryClaim(id transform.OutputID, path, owner string) (ok bool, other string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if holder, taken := c.ids[id]; taken {
		return false, holder
	}
	path = filepath.Clean(path)
	other = c.paths[path]

	c.ids[id] = owner
	if other == "" {
		c.paths[path] = owner
	}
	return true, other
}

// Owner returns the instance that claimed id
func (c *Claims) Owner(id transform.OutputID) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	owner, ok := c.ids[id]
	return owner, ok
}

// Contains reports whether path, relative to the output root, is claimed
func (c *Claims) Contains(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.paths[filepath.Clean(path)]
	return ok
}

// Len returns the number of claimed OutputIDs
func (c *Claims) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ids)
}

// OutputIDs returns every claimed OutputID, sorted
func (c *Claims) OutputIDs() []transform.OutputID {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]transform.OutputID, 0, len(c.ids))
	for id := range c.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// OutputPaths returns every claimed OutputPath, sorted
func (c *Claims) OutputPaths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	paths := make([]string, 0, len(c.paths))
	for p := range c.paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
