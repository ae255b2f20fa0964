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

package engine

import (
	"io/fs"
	"os"
	"strings"

	"github.com/walteh/condenser/pkg/fault"
	"gitlab.com/tozd/go/errors"
)

// 🔒 OverwritePolicy gates a transformation when its output already exists
type OverwritePolicy int

const (
	OverwriteIfNewer OverwritePolicy = iota // Write when the input is strictly newer
	OverwriteAlways                         // Always write
	OverwriteNever                          // Never replace an existing output
)

// String returns a string representation of OverwritePolicy
func (p OverwritePolicy) String() string {
	switch p {
	case OverwriteAlways:
		return "always"
	case OverwriteNever:
		return "never"
	case OverwriteIfNewer:
		return "if_newer"
	default:
		return "unknown"
	}
}

// ParseOverwritePolicy parses a policy name. The empty string is if_newer.
func ParseOverwritePolicy(s string) (OverwritePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "if_newer", "if-newer", "ifnewer":
		return OverwriteIfNewer, nil
	case "always":
		return OverwriteAlways, nil
	case "never":
		return OverwriteNever, nil
	default:
		return 0, fault.New(fault.KindConfig, "", errors.Errorf("unknown overwrite policy %q", s))
	}
}

// ShouldWrite reports whether input may be transformed into output.
// Timestamps are only read under if_newer, and failing to read one is an
// error rather than a skip.
func (p OverwritePolicy) ShouldWrite(input, output string) (bool, error) {
	switch p {
	case OverwriteAlways:
		return true, nil

	case OverwriteNever:
		_, err := os.Stat(output)
		if err == nil {
			return false, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, fault.IO(output, err)

	case OverwriteIfNewer:
		out, err := os.Stat(output)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return true, nil
			}
			return false, fault.New(fault.KindTimestamp, output, err)
		}
		in, err := os.Stat(input)
		if err != nil {
			return false, fault.New(fault.KindTimestamp, input, err)
		}
		return in.ModTime().After(out.ModTime()), nil

	default:
		return false, fault.New(fault.KindConfig, "", errors.Errorf("unknown overwrite policy %d", int(p)))
	}
}
