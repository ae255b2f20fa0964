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

// Package transform defines the Transformer capability and its built-in
// variants: a pass-through copy and an external program invocation.
package transform

import (
	"context"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🆔 InputID identifies a candidate file by its input directory and its path
// relative to that directory
type InputID struct {
	Dir  string // Absolute input directory
	File string // Relative path under Dir
}

// NewInputID validates that dir is absolute and file is a relative path that
// stays inside dir
func NewInputID(dir, file string) (InputID, error) {
	if !filepath.IsAbs(dir) {
		return InputID{}, errors.Errorf("input directory must be absolute: %s", dir)
	}
	if filepath.IsAbs(file) {
		return InputID{}, errors.Errorf("input file must be relative: %s", file)
	}
	clean := filepath.Clean(file)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return InputID{}, errors.Errorf("input file escapes its directory: %s", file)
	}
	return InputID{Dir: dir, File: clean}, nil
}

// Abs returns the absolute path of the input file
func (id InputID) Abs() string {
	return filepath.Join(id.Dir, id.File)
}

// 🏷️ OutputID is the logical identity of a transformation's output. Two
// inputs with equal OutputIDs conflict and only one may be claimed.
type OutputID string

// 🔄 Transformer turns one input file into one output file
type Transformer interface {
	// CanHandle reports whether this transformer can process the input
	CanHandle(ctx context.Context, input InputID) bool

	// OutputID returns the logical output identity of the input
	OutputID(input InputID) OutputID

	// OutputPath returns the output path relative to the output root
	OutputPath(input InputID) string

	// Transform writes output from input. The input is never modified and
	// any existing file at output is overwritten.
	Transform(ctx context.Context, input, output string) error
}

// StemID returns the relative path without its final extension, slash
// separated. Both built-in transformers use it as their OutputID, so
// "song.flac" and "song.mp3" compete for the same output.
func StemID(input InputID) OutputID {
	return OutputID(filepath.ToSlash(trimExt(input.File)))
}

// trimExt removes the final extension of path. A leading dot on the base
// name (".bashrc") is not an extension.
func trimExt(path string) string {
	ext := filepath.Ext(path)
	if ext == filepath.Base(path) {
		return path
	}
	return strings.TrimSuffix(path, ext)
}

// withExt replaces the final extension of path with ext
func withExt(path, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return trimExt(path)
	}
	return trimExt(path) + "." + ext
}
