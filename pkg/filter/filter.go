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

// Package filter decides whether a candidate path is eligible for an input
// directory or transformer instance.
//
// A Chain is an ordered list of (pattern, action) rules. The first rule whose
// pattern matches decides the verdict; when nothing matches the chain falls
// back to AcceptUnmatched, which is false for a new chain. Append order is
// evaluation order, so loaders must preserve the order rules were written in.
package filter

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/condenser/pkg/fault"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Action is what happens to a path that matches a filter
type Action int

const (
	Accept Action = iota
	Reject
)

// String returns a string representation of Action
func (a Action) String() string {
	if a == Reject {
		return "reject"
	}
	return "accept"
}

// 🔍 ParseAction parses "accept" or "reject", empty means accept
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "accept":
		return Accept, nil
	case "reject":
		return Reject, nil
	default:
		return Accept, errors.Errorf("unknown filter action %q", s)
	}
}

// 🧩 Pattern is a path predicate
type Pattern interface {
	// Match reports whether the relative path matches
	Match(path string) bool
	String() string
}

// Glob matches paths with shell-style patterns. Paths are compared with
// forward slashes; "**" spans directories, "*" does not.
type Glob struct {
	pattern string
}

// NewGlob validates and returns a glob pattern
func NewGlob(pattern string) (*Glob, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fault.New(fault.KindPattern, pattern, doublestar.ErrBadPattern)
	}
	return &Glob{pattern: pattern}, nil
}

func (g *Glob) Match(path string) bool {
	// the pattern was validated, so the only possible error cannot occur
	ok, _ := doublestar.Match(g.pattern, filepath.ToSlash(path))
	return ok
}

func (g *Glob) String() string {
	return fmt.Sprintf("(glob: %s)", g.pattern)
}

// Regex matches a regular expression anywhere in the path. Paths that are
// not valid UTF-8 never match.
type Regex struct {
	re *regexp.Regexp
}

// NewRegex compiles and returns a regex pattern
func NewRegex(pattern string) (*Regex, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fault.New(fault.KindPattern, pattern, err)
	}
	return &Regex{re: re}, nil
}

func (r *Regex) Match(path string) bool {
	if !utf8.ValidString(path) {
		return false
	}
	return r.re.MatchString(filepath.ToSlash(path))
}

func (r *Regex) String() string {
	return fmt.Sprintf("(regex: %s)", r.re.String())
}

// 📏 Filter pairs a pattern with the action taken when it matches
type Filter struct {
	Pattern Pattern
	Action  Action
}

// Test returns the filter's action and true if path matches
func (f Filter) Test(path string) (Action, bool) {
	if f.Pattern.Match(path) {
		return f.Action, true
	}
	return Accept, false
}

func (f Filter) String() string {
	return fmt.Sprintf("(%s %s)", f.Action, f.Pattern)
}

// ⛓️ Chain is an ordered set of filters with a verdict for unmatched paths
type Chain struct {
	filters []Filter

	// AcceptUnmatched is returned for paths no filter matches
	AcceptUnmatched bool
}

// NewChain creates an empty chain that rejects unmatched paths
func NewChain() *Chain {
	return &Chain{}
}

// Append adds a filter to the end of the chain
func (c *Chain) Append(p Pattern, a Action) {
	c.filters = append(c.filters, Filter{Pattern: p, Action: a})
}

// AppendGlob compiles pattern as a glob and appends it
func (c *Chain) AppendGlob(pattern string, a Action) error {
	g, err := NewGlob(pattern)
	if err != nil {
		return errors.Errorf("appending glob filter: %w", err)
	}
	c.Append(g, a)
	return nil
}

// AppendRegex compiles pattern as a regex and appends it
func (c *Chain) AppendRegex(pattern string, a Action) error {
	r, err := NewRegex(pattern)
	if err != nil {
		return errors.Errorf("appending regex filter: %w", err)
	}
	c.Append(r, a)
	return nil
}

// IsAcceptable reports whether path passes the chain
func (c *Chain) IsAcceptable(path string) bool {
	if c == nil {
		return false
	}
	for _, f := range c.filters {
		if action, ok := f.Test(path); ok {
			return action == Accept
		}
	}
	return c.AcceptUnmatched
}

// Len returns the number of filters in the chain
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.filters)
}

func (c *Chain) String() string {
	if c == nil {
		return "0 filters"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d filters (unmatched: %t)", len(c.filters), c.AcceptUnmatched)
	for _, f := range c.filters {
		fmt.Fprintf(&b, "\n\t%s", f)
	}
	return b.String()
}
