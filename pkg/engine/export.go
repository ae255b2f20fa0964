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
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/walteh/condenser/pkg/fault"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 📄 Format is a machine-readable report encoding
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// FormatFromPath picks a format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".msgpack", ".mpk":
		return FormatMsgpack, nil
	default:
		return "", errors.Errorf("no report format for %q, want .json, .yaml or .msgpack", path)
	}
}

// FailureDoc is one failure in a ReportDoc
type FailureDoc struct {
	Path  string `json:"path" yaml:"path" msgpack:"path"`
	Kind  string `json:"kind" yaml:"kind" msgpack:"kind"`
	Error string `json:"error" yaml:"error" msgpack:"error"`
}

// InstanceDoc is one instance in a ReportDoc
type InstanceDoc struct {
	Name     string       `json:"name" yaml:"name" msgpack:"name"`
	Priority uint32       `json:"priority" yaml:"priority" msgpack:"priority"`
	Claimed  int          `json:"claimed" yaml:"claimed" msgpack:"claimed"`
	Failures []FailureDoc `json:"failures,omitempty" yaml:"failures,omitempty" msgpack:"failures,omitempty"`
}

// 📦 ReportDoc is the serializable form of a Report
type ReportDoc struct {
	OutputRoot    string        `json:"output_root" yaml:"output_root" msgpack:"output_root"`
	DryRun        bool          `json:"dry_run" yaml:"dry_run" msgpack:"dry_run"`
	Failures      int           `json:"failures" yaml:"failures" msgpack:"failures"`
	Unclaimed     int           `json:"unclaimed" yaml:"unclaimed" msgpack:"unclaimed"`
	Instances     []InstanceDoc `json:"instances" yaml:"instances" msgpack:"instances"`
	Enumeration   []FailureDoc  `json:"enumeration,omitempty" yaml:"enumeration,omitempty" msgpack:"enumeration,omitempty"`
	Deleted       []string      `json:"deleted,omitempty" yaml:"deleted,omitempty" msgpack:"deleted,omitempty"`
	SweepFailures []FailureDoc  `json:"sweep_failures,omitempty" yaml:"sweep_failures,omitempty" msgpack:"sweep_failures,omitempty"`
}

func failureDoc(path string, err error) FailureDoc {
	doc := FailureDoc{Path: path, Kind: fault.KindOf(err).String()}
	if err != nil {
		doc.Error = err.Error()
	}
	return doc
}

// Doc converts the report to its serializable form
func (r *Report) Doc() ReportDoc {
	doc := ReportDoc{
		OutputRoot: r.OutputRoot,
		DryRun:     r.DryRun,
		Failures:   r.FailureCount(),
		Unclaimed:  r.Unclaimed,
		Instances:  make([]InstanceDoc, 0, len(r.Instances)),
		Deleted:    r.Sweep.Deleted,
	}
	for _, inst := range r.Instances {
		idoc := InstanceDoc{Name: inst.Name, Priority: inst.Priority, Claimed: inst.Claimed}
		for _, f := range inst.Failures {
			idoc.Failures = append(idoc.Failures, failureDoc(f.Input, f.Err))
		}
		doc.Instances = append(doc.Instances, idoc)
	}
	for _, e := range r.Enumeration {
		doc.Enumeration = append(doc.Enumeration, failureDoc(e.Dir, e.Err))
	}
	for _, err := range r.Sweep.Failures {
		var path string
		var ferr *fault.Error
		if errors.As(err, &ferr) {
			path = ferr.Path
		}
		doc.SweepFailures = append(doc.SweepFailures, failureDoc(path, err))
	}
	return doc
}

// 💾 WriteReport encodes the report to w
func WriteReport(w io.Writer, format Format, r *Report) error {
	doc := r.Doc()

	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "\t")
		err = enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(doc)
		if err == nil {
			err = enc.Close()
		}
	case FormatMsgpack:
		err = msgpack.NewEncoder(w).Encode(doc)
	default:
		return errors.Errorf("unknown report format %q", format)
	}
	if err != nil {
		return errors.Errorf("encoding %s report: %w", format, err)
	}
	return nil
}
