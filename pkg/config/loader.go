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

package config

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/condenser/pkg/fault"
	"gitlab.com/tozd/go/errors"
)

// 🎯 LoadConfig loads and validates a configuration file. The format is
// determined by the file extension:
// - .json for JSON
// - .yaml or .yml for YAML
// - .hcl for HCL
//
// Relative paths in the document are resolved against its directory.
func LoadConfig(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.New(fault.KindConfig, path, errors.Errorf("reading config file: %w", err))
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, fault.New(fault.KindConfig, path, errors.New("no parser found for file extension"))
	}

	// Parse config
	cfg, err := p.Parse(ctx, path, data)
	if err != nil {
		return nil, fault.New(fault.KindConfig, path, err)
	}
	cfg.location = path

	// Validate
	if err := Validate(ctx, cfg); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Stringer("config", cfg).Msg("configuration loaded")

	return cfg, nil
}
