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

// Package input enumerates the eligible files under an input directory.
package input

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/condenser/pkg/fault"
	"github.com/walteh/condenser/pkg/filter"
	"gitlab.com/tozd/go/errors"
)

// 📂 Directory is a prioritized root whose files are offered to transformers
type Directory struct {
	// Priority is informational; the engine visits directories in the
	// order it is given unless asked to sort them.
	Priority uint32

	// Path is the absolute path to the directory
	Path string

	// Filters decide which files under Path are eligible
	Filters *filter.Chain
}

// ErrNotDirectory marks a root that resolves to something other than a directory
var ErrNotDirectory = errors.New("not a directory")

// 🏭 New creates a directory, making path absolute
func New(priority uint32, path string, filters *filter.Chain) (*Directory, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Errorf("resolving input directory %s: %w", path, err)
	}
	if filters == nil {
		filters = filter.NewChain()
	}
	return &Directory{
		Priority: priority,
		Path:     filepath.Clean(abs),
		Filters:  filters,
	}, nil
}

// 🔍 EnumerateFiles walks the directory and returns the relative paths of
// every regular file the filters accept. Directories are always descended
// into; filters apply to files only. Any read failure aborts the walk and no
// partial result is returned.
func (d *Directory) EnumerateFiles(ctx context.Context) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	root, err := ResolveRoot(d.Path)
	if err != nil {
		return nil, errors.Errorf("enumerating %s: %w", d.Path, err)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fault.IO(path, err)
		}
		if entry.IsDir() {
			return nil
		}

		regular, err := IsRegular(path, entry)
		if err != nil {
			return err
		}
		if !regular {
			logger.Trace().Str("path", path).Msg("skipping non-regular entry")
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fault.IO(path, err)
		}
		if d.Filters.IsAcceptable(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("enumerating %s: %w", d.Path, err)
	}

	return files, nil
}

// 🔗 ResolveRoot follows symlinks in root and returns the directory they lead
// to. A root that is missing or is not a directory is an I/O fault.
func ResolveRoot(root string) (string, error) {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", fault.IO(root, err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", fault.IO(root, err)
	}
	if !info.IsDir() {
		return "", fault.IO(root, ErrNotDirectory)
	}
	return resolved, nil
}

// IsRegular reports whether entry is a regular file, following symlinks to
// their target. Symlinked directories are not descended into.
func IsRegular(path string, entry fs.DirEntry) (bool, error) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.Type().IsRegular(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// dangling link
			return false, nil
		}
		return false, fault.IO(path, err)
	}
	return info.Mode().IsRegular(), nil
}
