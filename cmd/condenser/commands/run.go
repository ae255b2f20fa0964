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

package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/condenser/cmd/condenser/opts"
	"github.com/walteh/condenser/pkg/engine"
	"github.com/walteh/condenser/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewRunCmd creates a new run command
func NewRunCmd(o *opts.RootOpts) *cobra.Command {
	var (
		jobs       int
		dryRun     bool
		reportPath string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Transform input directories into the output tree",
		Long: `Run claims every eligible input file for the highest priority transformer
that accepts it, removes output files no claim refers to, and then runs each
transformer over the files it claimed.
It will:
1. Load and validate the configuration
2. Claim files, directory by directory
3. Delete orphaned output files
4. Transform claimed files, honoring each transformer's overwrite policy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, runErr := Execute(cmd.Context(), o, engine.Options{Jobs: jobs, DryRun: dryRun})
			if reportPath != "" && report != nil {
				if err := writeReport(reportPath, report); err != nil {
					return errors.Errorf("writing report: %w", err)
				}
			}
			return runErr
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "transformers to run at once (overrides the config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "claim and report without writing or deleting")
	cmd.Flags().StringVar(&reportPath, "report", "", "write a machine-readable report (.json, .yaml or .msgpack)")

	return cmd
}

// Execute loads the plan and runs it. Options with a zero Jobs keep the
// configured value. A run with failures returns its report and an error.
func Execute(ctx context.Context, o *opts.RootOpts, overrides engine.Options) (*engine.Report, error) {
	console := log.FromContext(ctx)

	cfg, plan, err := o.LoadPlan(ctx)
	if err != nil {
		return nil, err
	}

	options := plan.Options
	if overrides.Jobs > 0 {
		options.Jobs = overrides.Jobs
	}
	options.DryRun = overrides.DryRun

	mode := "run"
	if options.DryRun {
		mode = "plan"
	}
	console.Header(mode + " " + cfg.String())

	report, err := engine.New(plan.Instances, options).Run(ctx, plan.Dirs, plan.OutputDir)
	if err != nil {
		return report, errors.Errorf("running: %w", err)
	}

	console.Summary(report.SummaryRows())
	if report.Unclaimed > 0 {
		console.Infof("%d file(s) matched no transformer", report.Unclaimed)
	}

	if n := report.FailureCount(); n > 0 {
		console.Errorf("finished with %d failure(s)", n)
		return report, errors.Errorf("%d failure(s)", n)
	}

	if options.DryRun {
		console.Successf("plan complete, %d orphan(s) would be deleted", len(report.Sweep.Deleted))
	} else {
		console.Successf("run complete, %d orphan(s) deleted", len(report.Sweep.Deleted))
	}
	return report, nil
}

func writeReport(path string, report *engine.Report) error {
	format, err := engine.FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Errorf("creating %s: %w", path, err)
	}
	if err := engine.WriteReport(f, format, report); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
