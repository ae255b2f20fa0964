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

package opts

import (
	"context"

	"github.com/walteh/condenser/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Debug      bool
	Verbose    bool
}

// LoadPlan loads, validates and builds the configuration file
func (o *RootOpts) LoadPlan(ctx context.Context) (*config.Config, *config.Plan, error) {
	cfg, err := config.LoadConfig(ctx, o.ConfigFile)
	if err != nil {
		return nil, nil, errors.Errorf("loading config: %w", err)
	}

	plan, err := config.Build(ctx, cfg)
	if err != nil {
		return nil, nil, errors.Errorf("building config: %w", err)
	}

	return cfg, plan, nil
}
