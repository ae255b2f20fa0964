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
	"sort"

	"github.com/rs/zerolog"
	"github.com/walteh/condenser/pkg/input"
	"github.com/walteh/condenser/pkg/log"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// ⚙️ Options tune a run
type Options struct {
	// Jobs bounds how many instances execute at once. Values below one
	// mean one.
	Jobs int

	// DryRun claims and plans but writes and deletes nothing
	DryRun bool
}

// 🎼 Orchestrator runs the claim, sweep and execute phases in order
type Orchestrator struct {
	Instances []*Instance
	Options   Options
}

// 🏭 New creates an orchestrator over instances, in registration order
func New(instances []*Instance, opts Options) *Orchestrator {
	return &Orchestrator{
		Instances: instances,
		Options:   opts,
	}
}

// SortDirectories orders dirs by priority, highest first, keeping the given
// order among equals. The engine never calls it on its own.
func SortDirectories(dirs []*input.Directory) {
	sort.SliceStable(dirs, func(a, b int) bool {
		return dirs[a].Priority > dirs[b].Priority
	})
}

// sortedInstances returns the instances by priority, highest first, with
// registration order breaking ties
func (o *Orchestrator) sortedInstances() []*Instance {
	sorted := make([]*Instance, len(o.Instances))
	copy(sorted, o.Instances)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Priority > sorted[b].Priority
	})
	return sorted
}

// 🚀 Run claims the files of dirs, in the order given, sweeps orphans from
// outputRoot and executes every instance's queue. Per-file failures are
// collected in the report. The only error returned is failing to resolve or
// create the output root.
func (o *Orchestrator) Run(ctx context.Context, dirs []*input.Directory, outputRoot string) (*Report, error) {
	logger := zerolog.Ctx(ctx)
	console := log.FromContext(ctx)

	root, err := filepath.Abs(outputRoot)
	if err != nil {
		return nil, errors.Errorf("resolving output root %s: %w", outputRoot, err)
	}

	instances := o.sortedInstances()
	report := &Report{
		OutputRoot: root,
		DryRun:     o.Options.DryRun,
		Instances:  make([]InstanceReport, len(instances)),
	}
	for idx, inst := range instances {
		report.Instances[idx] = InstanceReport{Name: inst.Name, Priority: inst.Priority}
	}

	// claim
	claims := NewClaims()
	for _, dir := range dirs {
		files, err := dir.EnumerateFiles(ctx)
		if err != nil {
			report.Enumeration = append(report.Enumeration, DirFailure{Dir: dir.Path, Err: err})
			console.Errorf("skipping %s: %v", dir.Path, err)
			continue
		}

		console.ClaimStart(dir.Path, len(files))
		pending := files
		for idx, inst := range instances {
			var n int
			pending, n = inst.Claim(ctx, dir, pending, claims)
			report.Instances[idx].Claimed += n
			console.ClaimResult(inst.Name, n, len(pending))
		}

		report.Unclaimed += len(pending)
		for _, rel := range pending {
			logger.Debug().Str("dir", dir.Path).Str("file", rel).Msg("no instance claimed file")
		}
	}

	// ensure output root
	sweep := true
	if o.Options.DryRun {
		if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
			logger.Debug().Str("output_root", root).Msg("output root does not exist yet, nothing to sweep")
			sweep = false
		}
	} else if err := os.MkdirAll(root, 0o755); err != nil {
		return report, errors.Errorf("creating output root %s: %w", root, err)
	}

	// sweep
	if sweep {
		report.Sweep = Sweep(ctx, root, claims, o.Options.DryRun)
		for _, err := range report.Sweep.Failures {
			console.Warningf("sweep: %v", err)
		}
	}

	// execute
	console.Infof("running %d transformer instance(s)", len(instances))
	jobs := o.Options.Jobs
	if jobs < 1 {
		jobs = 1
	}
	results := make([][]Failure, len(instances))
	var g errgroup.Group
	g.SetLimit(jobs)
	for idx, inst := range instances {
		idx, inst := idx, inst // per-iteration copies (go < 1.22 loop semantics)
		g.Go(func() error {
			results[idx] = inst.ProcessQueue(ctx, root, o.Options.DryRun)
			return nil
		})
	}
	_ = g.Wait()

	// report
	for idx, inst := range instances {
		report.Instances[idx].Failures = results[idx]
		console.InstanceResult(inst.Name, len(results[idx]))
		for _, f := range results[idx] {
			console.Failure(f.Input, f.Err)
		}
	}

	return report, nil
}
