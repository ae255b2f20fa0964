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
	"github.com/walteh/condenser/pkg/log"
)

// 📊 InstanceReport is the outcome of one instance
type InstanceReport struct {
	Name     string
	Priority uint32
	Claimed  int
	Failures []Failure
}

// DirFailure is an input directory that could not be enumerated
type DirFailure struct {
	Dir string
	Err error
}

// 📋 Report is the externally observable result of a run
type Report struct {
	OutputRoot  string
	DryRun      bool
	Instances   []InstanceReport // Highest priority first
	Enumeration []DirFailure
	Unclaimed   int // Eligible files no instance claimed
	Sweep       SweepResult
}

// FailureCount counts every failure of the run: unreadable directories,
// per-file execution failures and sweep failures
func (r *Report) FailureCount() int {
	n := len(r.Enumeration) + len(r.Sweep.Failures)
	for _, inst := range r.Instances {
		n += len(inst.Failures)
	}
	return n
}

// Claimed returns how many files the named instance claimed
func (r *Report) Claimed(name string) int {
	for _, inst := range r.Instances {
		if inst.Name == name {
			return inst.Claimed
		}
	}
	return 0
}

// SummaryRows converts the report for log.Logger.Summary
func (r *Report) SummaryRows() []log.SummaryRow {
	rows := make([]log.SummaryRow, 0, len(r.Instances))
	for _, inst := range r.Instances {
		rows = append(rows, log.SummaryRow{
			Instance: inst.Name,
			Priority: inst.Priority,
			Claimed:  inst.Claimed,
			Failed:   len(inst.Failures),
		})
	}
	return rows
}
