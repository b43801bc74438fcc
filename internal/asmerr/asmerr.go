/*
 * asm1802 - Assembly diagnostics
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package asmerr carries structured per-line diagnostics and accumulates
// them into a de-duplicated, severity-counted log.
package asmerr

import "fmt"

// Severity distinguishes a fatal diagnostic from an advisory one.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic is one structured assembly-time error or warning.
type Diagnostic struct {
	File      string
	Line      int
	MacroName string
	MacroLine int
	Message   string
	Severity  Severity
}

func (d Diagnostic) key() Diagnostic {
	k := d
	return k
}

func (d Diagnostic) String() string {
	loc := fmt.Sprintf("%s:%d", d.File, d.Line)
	if d.MacroName != "" {
		loc = fmt.Sprintf("%s (in macro %s:%d)", loc, d.MacroName, d.MacroLine)
	}
	return fmt.Sprintf("%s: %s: %s", loc, d.Severity, d.Message)
}

// Log accumulates diagnostics, de-duplicating on the full tuple of
// location, macro context, message and severity, and keeps per-severity
// counts for pass-boundary abort decisions.
type Log struct {
	diagnostics []Diagnostic
	seen        map[Diagnostic]bool
	warnings    int
	errors      int
}

// NewLog creates an empty Log.
func NewLog() *Log {
	return &Log{seen: make(map[Diagnostic]bool)}
}

// Add records d unless an identical diagnostic was already recorded.
// Returns true if it was newly recorded.
func (l *Log) Add(d Diagnostic) bool {
	k := d.key()
	if l.seen[k] {
		return false
	}
	l.seen[k] = true
	l.diagnostics = append(l.diagnostics, d)
	if d.Severity == Error {
		l.errors++
	} else {
		l.warnings++
	}
	return true
}

// Errorf is a convenience wrapper building and adding an Error-severity
// Diagnostic.
func (l *Log) Errorf(file string, line int, format string, args ...any) {
	l.Add(Diagnostic{File: file, Line: line, Message: fmt.Sprintf(format, args...), Severity: Error})
}

// Warnf is a convenience wrapper building and adding a Warning-severity
// Diagnostic.
func (l *Log) Warnf(file string, line int, format string, args ...any) {
	l.Add(Diagnostic{File: file, Line: line, Message: fmt.Sprintf(format, args...), Severity: Warning})
}

// Diagnostics returns every recorded diagnostic in the order first seen.
func (l *Log) Diagnostics() []Diagnostic {
	return l.diagnostics
}

// ErrorCount returns the number of Error-severity diagnostics recorded.
func (l *Log) ErrorCount() int {
	return l.errors
}

// WarningCount returns the number of Warning-severity diagnostics recorded.
func (l *Log) WarningCount() int {
	return l.warnings
}

// HasErrors reports whether any Error-severity diagnostic was recorded.
func (l *Log) HasErrors() bool {
	return l.errors > 0
}
