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

// Package log writes condenser's human-readable progress and summary stream.
//
// Every console line is mirrored into a zerolog logger at debug level so a
// run can be replayed from structured logs with --debug.
package log

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent     = 4  // spaces to indent file entries
	nameWidth      = 35 // Base width for filename
	instanceWidth  = 15 // Width for instance name
	statusWidth    = 15 // Width for status text
	failureIndent  = 6  // spaces to indent failure entries
	instanceIndent = 2  // spaces to indent instance entries
)

// 🏷️ Op is what happened to a file
type Op int

const (
	OpWritten Op = iota // Transformation ran
	OpSkipped           // Overwrite policy kept the existing output
	OpPlanned           // Dry run: would have been written
	OpDeleted           // Orphan removed
	OpOrphan            // Dry run: orphan would have been removed
	OpFailed            // Transformation or deletion failed
)

// String returns a string representation of Op
func (o Op) String() string {
	switch o {
	case OpWritten:
		return "written"
	case OpSkipped:
		return "up to date"
	case OpPlanned:
		return "planned"
	case OpDeleted:
		return "deleted"
	case OpOrphan:
		return "orphan"
	case OpFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 🎯 FileOperation represents a file operation for logging
type FileOperation struct {
	Path     string // Path relative to its root
	Instance string // Transformer instance, empty for sweep operations
	Op       Op
}

// 📊 SummaryRow is one line of the final summary table
type SummaryRow struct {
	Instance string
	Priority uint32
	Claimed  int
	Failed   int
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	verbose bool
	mu      sync.Mutex
}

// 🏭 New creates a new logger. When verbose is false, per-file lines for
// written, skipped and planned files go to zerolog only.
func New(console io.Writer, zlog zerolog.Logger, verbose bool) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		verbose: verbose,
	}
}

// Discard returns a logger that writes nowhere
func Discard() *Logger {
	return New(io.Discard, zerolog.Nop(), false)
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a discarding logger when
// none was attached
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return Discard()
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func (l *Logger) println(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, line)
}

func opStyle(op Op) (rune, *color.Color) {
	switch op {
	case OpWritten:
		return '✓', color.New(color.FgGreen)
	case OpSkipped:
		return '•', color.New(color.FgCyan)
	case OpPlanned:
		return '⟳', color.New(color.FgBlue)
	case OpDeleted, OpOrphan:
		return '✗', color.New(color.FgRed)
	case OpFailed:
		return '!', color.New(color.FgRed, color.Bold)
	default:
		return '-', color.New(color.FgYellow)
	}
}

// 📝 formatFileOperation formats a file operation for display
func formatFileOperation(op FileOperation) string {
	symbol, symbolColor := opStyle(op.Op)
	instance := op.Instance
	if instance == "" {
		instance = "-"
	}

	return fmt.Sprintf("%*s%s %-*s %s %-*s",
		fileIndent, "",
		symbolColor.Sprint(string(symbol)),
		nameWidth, op.Path,
		color.New(color.FgMagenta).Sprintf("%-*s", instanceWidth, instance),
		statusWidth, op.Op)
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(op FileOperation) {
	l.zlog.Debug().
		Str("file", op.Path).
		Str("instance", op.Instance).
		Str("op", op.Op.String()).
		Msg("file operation")

	switch op.Op {
	case OpWritten, OpSkipped, OpPlanned:
		if !l.verbose {
			return
		}
	}
	l.println(formatFileOperation(op))
}

// 📝 ClaimStart logs the start of the claiming pass over a directory
func (l *Logger) ClaimStart(dir string, files int) {
	l.println(fmt.Sprintf("%s claiming %s files in %s",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(files),
		color.New(color.FgCyan).Sprint(dir)))
	l.zlog.Debug().Str("dir", dir).Int("files", files).Msg("claiming files")
}

// 📝 ClaimResult logs how many files an instance claimed from a directory
func (l *Logger) ClaimResult(instance string, claimed, remaining int) {
	l.println(fmt.Sprintf("%*sinstance '%s' claimed %d files - %d remaining",
		instanceIndent, "", color.New(color.FgMagenta).Sprint(instance), claimed, remaining))
	l.zlog.Debug().Str("instance", instance).Int("claimed", claimed).Int("remaining", remaining).Msg("claimed files")
}

// 📝 InstanceResult logs the outcome of an instance's execution pass
func (l *Logger) InstanceResult(instance string, failures int) {
	status := color.New(color.FgGreen).Sprintf("%d failure(s)", failures)
	if failures > 0 {
		status = color.New(color.FgRed).Sprintf("%d failure(s)", failures)
	}
	l.println(fmt.Sprintf("%*sinstance '%s' processing completed - %s",
		instanceIndent, "", color.New(color.FgMagenta).Sprint(instance), status))
	l.zlog.Debug().Str("instance", instance).Int("failures", failures).Msg("instance completed")
}

// 📝 Failure logs one failed file
func (l *Logger) Failure(path string, err error) {
	l.println(fmt.Sprintf("%*s%s %s - %v",
		failureIndent, "", color.New(color.FgRed, color.Bold).Sprint("!"), path, err))
	l.zlog.Debug().Err(err).Str("file", path).Msg("file failed")
}

// 📝 Summary renders the final per-instance table
func (l *Logger) Summary(rows []SummaryRow) {
	data := pterm.TableData{{"instance", "priority", "claimed", "failed"}}
	for _, r := range rows {
		data = append(data, []string{
			r.Instance,
			strconv.FormatUint(uint64(r.Priority), 10),
			strconv.Itoa(r.Claimed),
			strconv.Itoa(r.Failed),
		})
		l.zlog.Debug().
			Str("instance", r.Instance).
			Uint32("priority", r.Priority).
			Int("claimed", r.Claimed).
			Int("failed", r.Failed).
			Msg("summary")
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		l.zlog.Debug().Err(err).Msg("rendering summary table")
		return
	}
	l.println("")
	l.println(table)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	name := color.New(color.Bold, color.FgCyan).Sprint("condenser")
	l.println(fmt.Sprintf("\n%s %s\n", name, color.New(color.Faint).Sprint("• "+msg)))
	l.zlog.Debug().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.println(fmt.Sprintf("✅ %s", color.New(color.FgGreen).Sprint(msg)))
	l.zlog.Debug().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.println(fmt.Sprintf("⚠️  %s", color.New(color.FgYellow).Sprint(msg)))
	l.zlog.Debug().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.println(fmt.Sprintf("❌ %s", color.New(color.FgRed).Sprint(msg)))
	l.zlog.Debug().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.println(fmt.Sprintf("ℹ️  %s", color.New(color.FgCyan).Sprint(msg)))
	l.zlog.Debug().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
