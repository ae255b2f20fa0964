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
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/condenser/pkg/fault"
	"gitlab.com/tozd/go/errors"
)

// 📋 Copy copies the input byte for byte to the output
type Copy struct{}

var _ Transformer = Copy{}

func (Copy) CanHandle(ctx context.Context, input InputID) bool {
	return true
}

func (Copy) OutputID(input InputID) OutputID {
	return StemID(input)
}

func (Copy) OutputPath(input InputID) string {
	return input.File
}

// Transform copies input to output through a temp file in the output's
// directory, then renames it into place
func (Copy) Transform(ctx context.Context, input, output string) error {
	zerolog.Ctx(ctx).Debug().Str("input", input).Str("output", output).Msg("copying file")

	src, err := os.Open(input)
	if err != nil {
		return fault.IO(input, errors.Errorf("opening source file: %w", err))
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fault.IO(input, errors.Errorf("reading source file info: %w", err))
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fault.IO(output, errors.Errorf("creating parent directories: %w", err))
	}

	tmp, err := os.CreateTemp(filepath.Dir(output), "."+filepath.Base(output)+".*.tmp")
	if err != nil {
		return fault.IO(output, errors.Errorf("creating temp file: %w", err))
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fault.IO(output, errors.Errorf("copying file content: %w", err))
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fault.IO(output, errors.Errorf("setting file mode: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fault.IO(output, errors.Errorf("closing temp file: %w", err))
	}

	if err := os.Rename(tmpPath, output); err != nil {
		os.Remove(tmpPath)
		return fault.IO(output, errors.Errorf("renaming temp file: %w", err))
	}

	return nil
}
