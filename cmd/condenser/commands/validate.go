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
	"github.com/spf13/cobra"
	"github.com/walteh/condenser/cmd/condenser/opts"
	"github.com/walteh/condenser/pkg/log"
)

// NewValidateCmd creates a new validate command
func NewValidateCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration file",
		Long: `Validate loads the configuration, compiles every filter pattern and builds
every transformer without reading the input directories.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			console := log.FromContext(ctx)

			cfg, plan, err := o.LoadPlan(ctx)
			if err != nil {
				return err
			}

			console.Successf("%s is valid: %s", o.ConfigFile, cfg)
			for _, inst := range plan.Instances {
				console.Infof("transformer '%s' priority %d, overwrite %s, %d filter(s)", inst.Name, inst.Priority, inst.Overwrite, inst.Filters.Len())
			}
			return nil
		},
	}

	return cmd
}
