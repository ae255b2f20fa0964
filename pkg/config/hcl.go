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

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return hasExt(filename, ".hcl")
}

type hclFilter struct {
	Glob   string `hcl:"glob,optional"`
	Regex  string `hcl:"regex,optional"`
	Action string `hcl:"action,optional"`
}

type hclInvocation struct {
	Program string   `hcl:"program"`
	Args    []string `hcl:"args,optional"`
}

type hclConfig struct {
	OutputDir     string `hcl:"output_dir"`
	Jobs          int    `hcl:"jobs,optional"`
	SortInputDirs bool   `hcl:"sort_input_dirs,optional"`
	InputDirs     []struct {
		Priority        uint32      `hcl:"priority,optional"`
		Path            string      `hcl:"path"`
		AcceptUnmatched bool        `hcl:"accept_unmatched,optional"`
		Filters         []hclFilter `hcl:"filter,block"`
	} `hcl:"input_dir,block"`
	Transformers []struct {
		Name            string      `hcl:"name,label"`
		Priority        uint32      `hcl:"priority,optional"`
		Overwrite       string      `hcl:"overwrite,optional"`
		AcceptUnmatched bool        `hcl:"accept_unmatched,optional"`
		Kind            string      `hcl:"kind"`
		Filters         []hclFilter `hcl:"filter,block"`
		Command         *struct {
			OutputExt string         `hcl:"output_ext,optional"`
			Transform hclInvocation  `hcl:"transform,block"`
			Check     *hclInvocation `hcl:"check,block"`
		} `hcl:"command,block"`
	} `hcl:"transformer,block"`
}

func convertFilters(in []hclFilter) []FilterRule {
	if len(in) == 0 {
		return nil
	}
	out := make([]FilterRule, 0, len(in))
	for _, f := range in {
		out = append(out, FilterRule(f))
	}
	return out
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, filename string, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		OutputDir:     hclCfg.OutputDir,
		Jobs:          hclCfg.Jobs,
		SortInputDirs: hclCfg.SortInputDirs,
	}

	for _, d := range hclCfg.InputDirs {
		cfg.InputDirs = append(cfg.InputDirs, InputDir{
			Priority:        d.Priority,
			Path:            d.Path,
			AcceptUnmatched: d.AcceptUnmatched,
			Filters:         convertFilters(d.Filters),
		})
	}

	for _, t := range hclCfg.Transformers {
		tr := Transformer{
			Name:            t.Name,
			Priority:        t.Priority,
			Overwrite:       t.Overwrite,
			AcceptUnmatched: t.AcceptUnmatched,
			Kind:            t.Kind,
			Filters:         convertFilters(t.Filters),
		}
		if t.Command != nil {
			tr.Command = &CommandArgs{
				OutputExt: t.Command.OutputExt,
				Transform: Invocation(t.Command.Transform),
			}
			if t.Command.Check != nil {
				check := Invocation(*t.Command.Check)
				tr.Command.Check = &check
			}
		}
		cfg.Transformers = append(cfg.Transformers, tr)
	}

	return cfg, nil
}
