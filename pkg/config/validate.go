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
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/condenser/pkg/engine"
	"github.com/walteh/condenser/pkg/fault"
	"github.com/walteh/condenser/pkg/filter"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Validate checks the configuration, normalizes enumerations, fills in
// defaults and cleans paths. Relative paths are resolved against the
// directory of the file the config was loaded from. Every problem found is
// reported, not just the first.
func Validate(ctx context.Context, cfg *Config) error {
	logger := zerolog.Ctx(ctx)

	base := ""
	if cfg.location != "" {
		abs, err := filepath.Abs(cfg.location)
		if err != nil {
			return fault.New(fault.KindConfig, cfg.location, errors.Errorf("resolving config location: %w", err))
		}
		base = filepath.Dir(abs)
	}
	resolve := func(p string) string {
		p = filepath.Clean(p)
		if base != "" && !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		return p
	}

	var errs []error
	bad := func(format string, args ...interface{}) {
		errs = append(errs, errors.Errorf(format, args...))
	}

	// Check required fields
	if strings.TrimSpace(cfg.OutputDir) == "" {
		bad("output_dir is required")
	} else {
		cfg.OutputDir = resolve(cfg.OutputDir)
	}

	// Set defaults
	if cfg.Jobs < 0 {
		bad("jobs must not be negative, got %d", cfg.Jobs)
	}
	if cfg.Jobs == 0 {
		cfg.Jobs = 1
	}

	if len(cfg.InputDirs) == 0 {
		bad("at least one input dir is required")
	}
	for i := range cfg.InputDirs {
		d := &cfg.InputDirs[i]
		where := "input_dirs[" + strconv.Itoa(i) + "]"
		if strings.TrimSpace(d.Path) == "" {
			bad("%s.path is required", where)
		} else {
			d.Path = resolve(d.Path)
		}
		errs = append(errs, validateFilters(where, d.Filters)...)
	}

	if len(cfg.Transformers) == 0 {
		bad("at least one transformer is required")
	}
	seen := make(map[string]int, len(cfg.Transformers))
	for i := range cfg.Transformers {
		t := &cfg.Transformers[i]
		where := "transformers[" + strconv.Itoa(i) + "]"

		if strings.TrimSpace(t.Name) == "" {
			bad("%s.name is required", where)
		} else if prev, dup := seen[t.Name]; dup {
			bad("%s.name %q is already used by transformers[%d]", where, t.Name, prev)
		} else {
			seen[t.Name] = i
		}

		policy, err := engine.ParseOverwritePolicy(t.Overwrite)
		if err != nil {
			bad("%s.overwrite: %w", where, err)
		} else {
			t.Overwrite = policy.String()
		}

		t.Kind = strings.ToLower(strings.TrimSpace(t.Kind))
		switch t.Kind {
		case KindCopy:
			if t.Command != nil {
				bad("%s.command is only valid for kind %q", where, KindCommand)
			}
		case KindCommand:
			switch {
			case t.Command == nil:
				bad("%s.command is required for kind %q", where, KindCommand)
			case strings.TrimSpace(t.Command.Transform.Program) == "":
				bad("%s.command.transform.program is required", where)
			case t.Command.Check != nil && strings.TrimSpace(t.Command.Check.Program) == "":
				bad("%s.command.check.program is required", where)
			}
		case "":
			bad("%s.kind is required, one of %q or %q", where, KindCopy, KindCommand)
		default:
			bad("%s.kind %q is unknown, want %q or %q", where, t.Kind, KindCopy, KindCommand)
		}

		errs = append(errs, validateFilters(where, t.Filters)...)
	}

	if len(errs) > 0 {
		return fault.New(fault.KindConfig, cfg.location, errors.Join(errs...))
	}

	logger.Debug().Str("output_dir", cfg.OutputDir).Int("input_dirs", len(cfg.InputDirs)).Int("transformers", len(cfg.Transformers)).Msg("configuration valid")
	return nil
}

func validateFilters(where string, rules []FilterRule) []error {
	var errs []error
	for i, r := range rules {
		at := where + ".filters[" + strconv.Itoa(i) + "]"
		if _, err := filter.ParseAction(r.Action); err != nil {
			errs = append(errs, errors.Errorf("%s.action: %w", at, err))
		}
		switch {
		case r.Glob != "" && r.Regex != "":
			errs = append(errs, errors.Errorf("%s: only one of glob or regex may be set", at))
		case r.Glob != "":
			if _, err := filter.NewGlob(r.Glob); err != nil {
				errs = append(errs, errors.Errorf("%s.glob: %w", at, err))
			}
		case r.Regex != "":
			if _, err := filter.NewRegex(r.Regex); err != nil {
				errs = append(errs, errors.Errorf("%s.regex: %w", at, err))
			}
		default:
			errs = append(errs, errors.Errorf("%s: one of glob or regex is required", at))
		}
	}
	return errs
}
