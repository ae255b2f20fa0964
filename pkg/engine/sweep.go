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
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/condenser/pkg/fault"
	"github.com/walteh/condenser/pkg/input"
	"github.com/walteh/condenser/pkg/log"
)

// 🧹 SweepResult lists what an orphan sweep removed and what it could not
type SweepResult struct {
	Deleted  []string // Paths relative to the output root
	Failures []error
}

// Sweep deletes every regular file under outputRoot whose relative path is
// not claimed. A symlinked root is followed; a root that is missing or not a
// directory is recorded as the only failure. Past the root it is
// best-effort: an unreadable directory or undeletable file is recorded and
// the walk continues. In dry-run mode orphans are reported but left in place.
func Sweep(ctx context.Context, outputRoot string, claims *Claims, dryRun bool) SweepResult {
	logger := zerolog.Ctx(ctx).With().Str("output_root", outputRoot).Logger()
	console := log.FromContext(ctx)

	var result SweepResult
	root, err := input.ResolveRoot(outputRoot)
	if err != nil {
		result.Failures = append(result.Failures, err)
		logger.Debug().Err(err).Msg("sweep root unusable")
		return result
	}

	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			result.Failures = append(result.Failures, fault.IO(path, err))
			logger.Debug().Err(err).Str("path", path).Msg("sweep walk failed")
			if path == root {
				return filepath.SkipAll
			}
			// nil entry means lstat failed; a non-nil one is an unreadable directory
			return nil
		}
		if entry.IsDir() {
			return nil
		}

		regular, err := input.IsRegular(path, entry)
		if err != nil {
			result.Failures = append(result.Failures, err)
			return nil
		}
		if !regular {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			result.Failures = append(result.Failures, fault.IO(path, err))
			return nil
		}
		if claims.Contains(rel) {
			return nil
		}

		if dryRun {
			result.Deleted = append(result.Deleted, rel)
			console.LogFileOperation(log.FileOperation{Path: rel, Op: log.OpOrphan})
			return nil
		}

		if err := os.Remove(path); err != nil {
			result.Failures = append(result.Failures, fault.IO(path, err))
			console.LogFileOperation(log.FileOperation{Path: rel, Op: log.OpFailed})
			return nil
		}
		result.Deleted = append(result.Deleted, rel)
		console.LogFileOperation(log.FileOperation{Path: rel, Op: log.OpDeleted})
		return nil
	})

	return result
}
