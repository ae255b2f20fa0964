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
	"fmt"
	"strings"
)

// 🔍 FilterRule is one accept/reject rule; exactly one of Glob and Regex is set
type FilterRule struct {
	Glob   string `json:"glob,omitempty" yaml:"glob,omitempty"`
	Regex  string `json:"regex,omitempty" yaml:"regex,omitempty"`
	Action string `json:"action,omitempty" yaml:"action,omitempty"` // accept (default) or reject
}

// 📂 InputDir describes one prioritized input directory
type InputDir struct {
	Priority        uint32       `json:"priority" yaml:"priority"`
	Path            string       `json:"path" yaml:"path"`
	AcceptUnmatched bool         `json:"accept_unmatched,omitempty" yaml:"accept_unmatched,omitempty"`
	Filters         []FilterRule `json:"filters,omitempty" yaml:"filters,omitempty"`
}

// 🚀 Invocation is an external program and its arguments. Arguments equal to
// !INPUTPATH! or !OUTPUTPATH! are substituted per file.
type Invocation struct {
	Program string   `json:"program" yaml:"program"`
	Args    []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// ⚙️ CommandArgs configures a command transformer
type CommandArgs struct {
	Transform Invocation  `json:"transform" yaml:"transform"`
	Check     *Invocation `json:"check,omitempty" yaml:"check,omitempty"`
	OutputExt string      `json:"output_ext,omitempty" yaml:"output_ext,omitempty"`
}

// Transformer kinds
const (
	KindCopy    = "copy"
	KindCommand = "command"
)

// 🧩 Transformer describes one transformer instance
type Transformer struct {
	Name            string       `json:"name" yaml:"name"`
	Priority        uint32       `json:"priority" yaml:"priority"`
	Overwrite       string       `json:"overwrite,omitempty" yaml:"overwrite,omitempty"` // always, never or if_newer (default)
	AcceptUnmatched bool         `json:"accept_unmatched,omitempty" yaml:"accept_unmatched,omitempty"`
	Filters         []FilterRule `json:"filters,omitempty" yaml:"filters,omitempty"`
	Kind            string       `json:"kind" yaml:"kind"`
	Command         *CommandArgs `json:"command,omitempty" yaml:"command,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	OutputDir     string        `json:"output_dir" yaml:"output_dir"`
	Jobs          int           `json:"jobs,omitempty" yaml:"jobs,omitempty"`
	SortInputDirs bool          `json:"sort_input_dirs,omitempty" yaml:"sort_input_dirs,omitempty"`
	InputDirs     []InputDir    `json:"input_dirs" yaml:"input_dirs"`
	Transformers  []Transformer `json:"transformers" yaml:"transformers"`

	// location is the file the config was loaded from
	location string
}

// Location returns the file the config was loaded from, if any
func (cfg *Config) Location() string {
	return cfg.location
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	names := make([]string, 0, len(cfg.Transformers))
	for _, t := range cfg.Transformers {
		names = append(names, t.Name)
	}
	return fmt.Sprintf("%d input dir(s) -> %s via [%s]", len(cfg.InputDirs), cfg.OutputDir, strings.Join(names, ", "))
}
