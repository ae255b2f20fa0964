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

// Package fault defines the closed set of failure kinds produced by condenser.
//
// Every error that reaches a report is either a *fault.Error or wraps one, so
// callers can switch exhaustively on Kind instead of inspecting error strings.
package fault

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Kind classifies a failure
type Kind int

const (
	KindUnknown    Kind = iota
	KindIO              // Reading, writing, creating or deleting a file failed
	KindTimestamp       // A modification time could not be read
	KindSpawn           // An external program could not be started
	KindExitStatus      // An external program exited non-zero
	KindPattern         // A glob or regex failed to compile
	KindConfig          // The configuration document is invalid
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindTimestamp:
		return "timestamp"
	case KindSpawn:
		return "spawn"
	case KindExitStatus:
		return "exit-status"
	case KindPattern:
		return "pattern"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// ❌ Error is a failure tagged with its kind and the path it concerns
type Error struct {
	Kind Kind
	Path string // Path or pattern the failure concerns, may be empty
	Err  error  // Underlying cause
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// 🏭 New tags err with kind and path
func New(kind Kind, path string, err error) error {
	if err == nil {
		err = errors.New("unspecified failure")
	}
	return &Error{Kind: kind, Path: path, Err: err}
}

// 🔧 IO tags err as an I/O failure on path
func IO(path string, err error) error {
	return New(KindIO, path, err)
}

// 🔍 KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var ferr *Error
	if errors.As(err, &ferr) {
		return ferr.Kind
	}
	return KindUnknown
}
