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
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/condenser/pkg/filter"
	"github.com/walteh/condenser/pkg/input"
	"github.com/walteh/condenser/pkg/log"
	"github.com/walteh/condenser/pkg/transform"
)

// 🧩 Instance is a named, prioritized transformer with its own filters,
// overwrite policy and queue of claimed files
type Instance struct {
	Priority    uint32
	Name        string
	Filters     *filter.Chain
	Overwrite   OverwritePolicy
	Transformer transform.Transformer

	// queue maps an input directory to its claimed relative paths, in
	// claim order. order records the directories in first-claim order.
	queue map[string][]string
	order []string
}

// 🏭 NewInstance creates an instance with an empty queue
func NewInstance(priority uint32, name string, filters *filter.Chain, policy OverwritePolicy, t transform.Transformer) *Instance {
	if filters == nil {
		filters = filter.NewChain()
	}
	return &Instance{
		Priority:    priority,
		Name:        name,
		Filters:     filters,
		Overwrite:   policy,
		Transformer: t,
		queue:       make(map[string][]string),
	}
}

// 🎯 Claim takes every pending file of dir this instance accepts, can handle
// and whose OutputID is still free. It returns the files left pending, in
// their original order, and how many were claimed.
func (i *Instance) Claim(ctx context.Context, dir *input.Directory, pending []string, claims *Claims) (remaining []string, claimed int) {
	logger := zerolog.Ctx(ctx).With().Str("instance", i.Name).Str("dir", dir.Path).Logger()

	remaining = make([]string, 0, len(pending))
	for _, rel := range pending {
		if !i.Filters.IsAcceptable(rel) {
			remaining = append(remaining, rel)
			continue
		}

		id, err := transform.NewInputID(dir.Path, rel)
		if err != nil {
			logger.Warn().Err(err).Str("file", rel).Msg("skipping invalid input path")
			remaining = append(remaining, rel)
			continue
		}

		if !i.Transformer.CanHandle(ctx, id) {
			remaining = append(remaining, rel)
			continue
		}

		outputID := i.Transformer.OutputID(id)
		outputPath := i.Transformer.OutputPath(id)
		ok, other := claims.TryClaim(outputID, outputPath, i.Name)
		if !ok {
			logger.Trace().Str("file", rel).Str("output_id", string(outputID)).Str("owner", other).Msg("output already claimed")
			remaining = append(remaining, rel)
			continue
		}
		if other != "" {
			logger.Warn().Str("file", rel).Str("output_path", outputPath).Str("owner", other).Msg("output path already claimed under another output id")
		}

		if _, seen := i.queue[dir.Path]; !seen {
			i.order = append(i.order, dir.Path)
		}
		i.queue[dir.Path] = append(i.queue[dir.Path], rel)
		claimed++
	}

	return remaining, claimed
}

// Queued returns the number of files waiting to be processed
func (i *Instance) Queued() int {
	n := 0
	for _, files := range i.queue {
		n += len(files)
	}
	return n
}

// ❌ Failure is one file an instance could not process
type Failure struct {
	Instance string
	Input    string // Absolute input path
	Err      error
}

// Error implements error
func (f Failure) Error() string {
	return f.Input + ": " + f.Err.Error()
}

// Unwrap returns the underlying error
func (f Failure) Unwrap() error {
	return f.Err
}

// ⚡ ProcessQueue drains the queue, applying the overwrite policy before
// each transformation. A failure is recorded and processing moves on to the
// next file. In dry-run mode the policy is evaluated but nothing is written.
func (i *Instance) ProcessQueue(ctx context.Context, outputRoot string, dryRun bool) []Failure {
	logger := zerolog.Ctx(ctx).With().Str("instance", i.Name).Logger()
	console := log.FromContext(ctx)

	var failures []Failure
	for len(i.order) > 0 {
		dir := i.order[0]
		i.order = i.order[1:]
		files := i.queue[dir]
		delete(i.queue, dir)

		for _, rel := range files {
			id := transform.InputID{Dir: dir, File: rel}
			in := id.Abs()
			outRel := i.Transformer.OutputPath(id)
			out := filepath.Join(outputRoot, outRel)

			write, err := i.Overwrite.ShouldWrite(in, out)
			if err != nil {
				logger.Debug().Err(err).Str("file", in).Msg("checking overwrite policy")
				failures = append(failures, Failure{Instance: i.Name, Input: in, Err: err})
				continue
			}
			if !write {
				console.LogFileOperation(log.FileOperation{Path: outRel, Instance: i.Name, Op: log.OpSkipped})
				continue
			}
			if dryRun {
				console.LogFileOperation(log.FileOperation{Path: outRel, Instance: i.Name, Op: log.OpPlanned})
				continue
			}

			if err := i.Transformer.Transform(ctx, in, out); err != nil {
				logger.Debug().Err(err).Str("file", in).Msg("transforming")
				failures = append(failures, Failure{Instance: i.Name, Input: in, Err: err})
				continue
			}
			console.LogFileOperation(log.FileOperation{Path: outRel, Instance: i.Name, Op: log.OpWritten})
		}
	}

	return failures
}
