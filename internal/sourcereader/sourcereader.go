/*
 * asm1802 - Source reader pushdown stack
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

// Package sourcereader implements the assembler's line source as a pushdown
// stack: a file-backed entry at the bottom, with macro-expansion entries
// pushed on top of it for the duration of an expansion.
package sourcereader

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// entry is one level of the pushdown stack.
type entry interface {
	nextLine() (string, bool)
	inMacro() bool
	fileName() string
	lineNumber() int
}

type fileEntry struct {
	name    string
	scanner *bufio.Scanner
	line    int
}

func (f *fileEntry) nextLine() (string, bool) {
	if !f.scanner.Scan() {
		return "", false
	}
	f.line++
	return f.scanner.Text(), true
}

func (f *fileEntry) inMacro() bool    { return false }
func (f *fileEntry) fileName() string { return f.name }
func (f *fileEntry) lineNumber() int  { return f.line }

type macroEntry struct {
	name  string
	lines []string
	pos   int
	// outerFile/outerLine record the file location the expansion was
	// invoked from, reported while this entry is live.
	outerFile string
	outerLine int
}

func (m *macroEntry) nextLine() (string, bool) {
	if m.pos >= len(m.lines) {
		return "", false
	}
	line := m.lines[m.pos]
	m.pos++
	return line, true
}

func (m *macroEntry) inMacro() bool    { return true }
func (m *macroEntry) fileName() string { return m.outerFile }
func (m *macroEntry) lineNumber() int  { return m.outerLine }

// Stack is the core's LineSource: NextLine/InMacro plus the file/line
// bookkeeping the listing and error log need.
type Stack struct {
	entries []entry
	// lineOverride/fileOverride hold the most recent "#line" marker seen
	// from the (external) preprocessor output, taking precedence over the
	// physical file/line until the next marker.
	fileOverride string
	lineOverride int
	haveOverride bool
	macroLine    int
}

// NewFromReader creates a Stack reading name from r.
func NewFromReader(name string, r io.Reader) *Stack {
	s := &Stack{}
	s.entries = []entry{&fileEntry{name: name, scanner: bufio.NewScanner(r)}}
	return s
}

// NextLine returns the next source line, popping exhausted macro
// expansions until either a line is available or the stack is empty.
func (s *Stack) NextLine() (string, bool) {
	for len(s.entries) > 0 {
		top := s.entries[len(s.entries)-1]
		line, ok := top.nextLine()
		if ok {
			if top.inMacro() {
				s.macroLine++
			}
			return line, true
		}
		if len(s.entries) == 1 {
			return "", false
		}
		s.entries = s.entries[:len(s.entries)-1]
	}
	return "", false
}

// InMacro reports whether the line last returned by NextLine came from a
// macro expansion.
func (s *Stack) InMacro() bool {
	if len(s.entries) == 0 {
		return false
	}
	return s.entries[len(s.entries)-1].inMacro()
}

// PushMacroExpansion pushes body (already parameter-substituted) as a new
// source stream above the current input.
func (s *Stack) PushMacroExpansion(name, body string) {
	lines := strings.Split(body, "\n")
	var outerFile string
	var outerLine int
	if len(s.entries) > 0 {
		top := s.entries[len(s.entries)-1]
		outerFile, outerLine = top.fileName(), top.lineNumber()
	}
	s.entries = append(s.entries, &macroEntry{
		name: name, lines: lines, outerFile: outerFile, outerLine: outerLine,
	})
	s.macroLine = 0
}

// SetLineMarker applies a "#line" directive from the preprocessor, setting
// the reported file and line number for subsequent diagnostics.
func (s *Stack) SetLineMarker(file string, line int) {
	s.fileOverride = file
	s.lineOverride = line
	s.haveOverride = true
}

// FileName returns the currently reported source file path.
func (s *Stack) FileName() string {
	if s.haveOverride {
		return s.fileOverride
	}
	if len(s.entries) > 0 {
		return s.entries[0].fileName()
	}
	return ""
}

// LineNumber returns the currently reported source line number.
func (s *Stack) LineNumber() int {
	if s.haveOverride {
		return s.lineOverride
	}
	if len(s.entries) > 0 {
		return s.entries[0].lineNumber()
	}
	return 0
}

// MacroLine returns the current line number within the innermost active
// macro expansion, or 0 outside one.
func (s *Stack) MacroLine() int {
	if !s.InMacro() {
		return 0
	}
	return s.entries[len(s.entries)-1].(*macroEntry).pos
}

// MacroName returns the name of the innermost active macro expansion, or
// "" outside one.
func (s *Stack) MacroName() string {
	if len(s.entries) == 0 {
		return ""
	}
	top := s.entries[len(s.entries)-1]
	if m, ok := top.(*macroEntry); ok {
		return m.name
	}
	return ""
}

// ParseLineMarker recognizes a #line "FILE" N preprocessor marker. Returns
// ok=false if line is not such a marker.
func ParseLineMarker(line string) (file string, number int, ok bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#line") {
		return "", 0, false
	}
	rest := strings.TrimSpace(trimmed[len("#line"):])
	if !strings.HasPrefix(rest, "\"") {
		return "", 0, false
	}
	end := strings.IndexByte(rest[1:], '"')
	if end < 0 {
		return "", 0, false
	}
	file = rest[1 : end+1]
	numPart := strings.TrimSpace(rest[end+2:])
	var n int
	if _, err := fmt.Sscanf(numPart, "%d", &n); err != nil {
		return "", 0, false
	}
	return file, n, true
}
