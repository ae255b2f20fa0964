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
	"strconv"

	"github.com/rs/zerolog"
	"github.com/walteh/condenser/pkg/engine"
	"github.com/walteh/condenser/pkg/fault"
	"github.com/walteh/condenser/pkg/filter"
	"github.com/walteh/condenser/pkg/input"
	"github.com/walteh/condenser/pkg/transform"
	"gitlab.com/tozd/go/errors"
)

// 📦 Plan is a configuration compiled into engine structures
type Plan struct {
	OutputDir string
	Dirs      []*input.Directory
	Instances []*engine.Instance
	Options   engine.Options
}

// 🏗️ Build compiles a validated configuration. Directories keep their
// document order unless sort_input_dirs is set.
func Build(ctx context.Context, cfg *Config) (*Plan, error) {
	logger := zerolog.Ctx(ctx)

	plan := &Plan{
		OutputDir: cfg.OutputDir,
		Options:   engine.Options{Jobs: cfg.Jobs},
	}

	for i, d := range cfg.InputDirs {
		where := "input_dirs[" + strconv.Itoa(i) + "]"
		chain, err := buildChain(d.Filters, d.AcceptUnmatched)
		if err != nil {
			return nil, errors.Errorf("%s: %w", where, err)
		}
		dir, err := input.New(d.Priority, d.Path, chain)
		if err != nil {
			return nil, fault.New(fault.KindConfig, d.Path, errors.Errorf("%s: %w", where, err))
		}
		logger.Debug().Str("dir", dir.Path).Uint32("priority", dir.Priority).Stringer("filters", chain).Msg("input dir")
		plan.Dirs = append(plan.Dirs, dir)
	}
	if cfg.SortInputDirs {
		engine.SortDirectories(plan.Dirs)
	}

	for i, t := range cfg.Transformers {
		where := "transformers[" + strconv.Itoa(i) + "]"
		chain, err := buildChain(t.Filters, t.AcceptUnmatched)
		if err != nil {
			return nil, errors.Errorf("%s: %w", where, err)
		}
		policy, err := engine.ParseOverwritePolicy(t.Overwrite)
		if err != nil {
			return nil, errors.Errorf("%s: %w", where, err)
		}
		tr, err := buildTransformer(t)
		if err != nil {
			return nil, errors.Errorf("%s: %w", where, err)
		}
		logger.Debug().Str("instance", t.Name).Uint32("priority", t.Priority).Stringer("overwrite", policy).Stringer("filters", chain).Msg("transformer instance")
		plan.Instances = append(plan.Instances, engine.NewInstance(t.Priority, t.Name, chain, policy, tr))
	}

	return plan, nil
}

func buildChain(rules []FilterRule, acceptUnmatched bool) (*filter.Chain, error) {
	chain := filter.NewChain()
	chain.AcceptUnmatched = acceptUnmatched
	for _, r := range rules {
		action, err := filter.ParseAction(r.Action)
		if err != nil {
			return nil, fault.New(fault.KindConfig, "", err)
		}
		if r.Regex != "" {
			err = chain.AppendRegex(r.Regex, action)
		} else {
			err = chain.AppendGlob(r.Glob, action)
		}
		if err != nil {
			return nil, err
		}
	}
	return chain, nil
}

func buildInvocation(inv Invocation) transform.Invocation {
	return transform.Invocation{
		Program: inv.Program,
		Args:    transform.ParseArgs(inv.Args),
	}
}

func buildTransformer(t Transformer) (transform.Transformer, error) {
	switch t.Kind {
	case KindCopy:
		return transform.Copy{}, nil
	case KindCommand:
		if t.Command == nil {
			return nil, fault.New(fault.KindConfig, "", errors.Errorf("kind %q needs a command block", KindCommand))
		}
		cmd := &transform.Command{
			Exec:      buildInvocation(t.Command.Transform),
			OutputExt: t.Command.OutputExt,
		}
		if t.Command.Check != nil {
			check := buildInvocation(*t.Command.Check)
			cmd.Check = &check
		}
		return cmd, nil
	default:
		return nil, fault.New(fault.KindConfig, "", errors.Errorf("unknown transformer kind %q", t.Kind))
	}
}
