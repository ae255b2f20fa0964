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

package transform

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/condenser/pkg/fault"
	"gitlab.com/tozd/go/errors"
)

// Placeholders substituted in command arguments at invocation time
const (
	InputPathPlaceholder  = "!INPUTPATH!"
	OutputPathPlaceholder = "!OUTPUTPATH!"
)

// maxStderr bounds how much captured stderr ends up in an error message
const maxStderr = 512

// 🧩 ArgKind says how an argument is produced
type ArgKind int

const (
	ArgLiteral ArgKind = iota
	ArgInputPath
	ArgOutputPath
)

// Arg is a single command argument
type Arg struct {
	Kind  ArgKind
	Value string // Only used by ArgLiteral
}

// ParseArgs turns raw strings into arguments, recognizing the placeholders
func ParseArgs(raw []string) []Arg {
	args := make([]Arg, 0, len(raw))
	for _, r := range raw {
		switch r {
		case InputPathPlaceholder:
			args = append(args, Arg{Kind: ArgInputPath})
		case OutputPathPlaceholder:
			args = append(args, Arg{Kind: ArgOutputPath})
		default:
			args = append(args, Arg{Kind: ArgLiteral, Value: r})
		}
	}
	return args
}

// 🖥️ Invocation is a program and its ordered arguments
type Invocation struct {
	Program string
	Args    []Arg
}

// Resolve substitutes input and output into the argument list
func (inv Invocation) Resolve(input, output string) []string {
	out := make([]string, 0, len(inv.Args))
	for _, a := range inv.Args {
		switch a.Kind {
		case ArgInputPath:
			out = append(out, input)
		case ArgOutputPath:
			out = append(out, output)
		default:
			out = append(out, a.Value)
		}
	}
	return out
}

// Run executes the program and waits for it. A spawn failure is a
// KindSpawn fault, a non-zero exit a KindExitStatus fault.
func (inv Invocation) Run(ctx context.Context, input, output string) error {
	args := inv.Resolve(input, output)
	zerolog.Ctx(ctx).Debug().Str("program", inv.Program).Strs("args", args).Msg("running command")

	cmd := exec.CommandContext(ctx, inv.Program, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > maxStderr {
			msg = "..." + msg[len(msg)-maxStderr:]
		}
		if msg != "" {
			return fault.New(fault.KindExitStatus, input, errors.Errorf("%s %s: %s", inv.Program, exitErr, msg))
		}
		return fault.New(fault.KindExitStatus, input, errors.Errorf("%s %s", inv.Program, exitErr))
	}
	return fault.New(fault.KindSpawn, input, errors.Errorf("starting %s: %w", inv.Program, err))
}

// ⚙️ Command transforms files by running an external program
type Command struct {
	// Exec is run once per claimed file
	Exec Invocation

	// Check decides CanHandle when set: exit status zero means the file can
	// be handled. The output placeholder receives the relative output path.
	Check *Invocation

	// OutputExt replaces the input's extension in the output path; the
	// input's name is kept when empty
	OutputExt string
}

var _ Transformer = (*Command)(nil)

func (c *Command) CanHandle(ctx context.Context, input InputID) bool {
	if c.Check == nil {
		return true
	}
	if err := c.Check.Run(ctx, input.Abs(), c.OutputPath(input)); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("file", input.File).Msg("check command rejected file")
		return false
	}
	return true
}

func (c *Command) OutputID(input InputID) OutputID {
	return StemID(input)
}

func (c *Command) OutputPath(input InputID) string {
	if c.OutputExt == "" {
		return input.File
	}
	return withExt(input.File, c.OutputExt)
}

// Transform creates the output's parent directories and runs the program
func (c *Command) Transform(ctx context.Context, input, output string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fault.IO(output, errors.Errorf("creating parent directories: %w", err))
	}
	return c.Exec.Run(ctx, input, output)
}
