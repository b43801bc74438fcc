/*
 * asm1802 - Logical line splitter
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

// Package lineparse splits one logical source line into an optional label,
// a mnemonic and its comma-separated operand list, honoring quoted strings
// and parenthesis nesting the way operand expressions may.
package lineparse

import (
	"strings"
)

// Line is the result of splitting one source line.
type Line struct {
	Label    string
	Mnemonic string
	Operands []string
}

func isLabelStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isLabelChar(c byte) bool {
	return isLabelStart(c) || (c >= '0' && c <= '9')
}

// StripComment trims trailing whitespace and a trailing unquoted ';...'
// comment, honoring single/double-quoted regions with backslash escapes.
func StripComment(line string) string {
	inSingle, inDouble, escaped := false, false, false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && (inSingle || inDouble):
			escaped = true
		case c == '\'' && !inDouble:
			inSingle = !inSingle
		case c == '"' && !inSingle:
			inDouble = !inDouble
		case c == ';' && !inSingle && !inDouble:
			return strings.TrimRight(line[:i], " \t\r\n")
		}
	}
	return strings.TrimRight(line, " \t\r\n")
}

// Split parses a logical line (comment already stripped) into label,
// mnemonic and operands. The label is upper-cased; the mnemonic is
// upper-cased; the operand text is split into Operands by SplitOperands.
func Split(line string) Line {
	var out Line
	i := 0
	n := len(line)

	if n == 0 {
		return out
	}

	if isLabelStart(line[0]) {
		start := 0
		for i < n && isLabelChar(line[i]) {
			i++
		}
		out.Label = strings.ToUpper(line[start:i])
		if i < n && line[i] == ':' {
			i++
		}
	}

	for i < n && (line[i] == ' ' || line[i] == '\t') {
		i++
	}

	mnemStart := i
	for i < n && line[i] != ' ' && line[i] != '\t' {
		i++
	}
	out.Mnemonic = strings.ToUpper(line[mnemStart:i])

	for i < n && (line[i] == ' ' || line[i] == '\t') {
		i++
	}

	if i < n {
		out.Operands = SplitOperands(line[i:])
	}

	return out
}

// SplitOperands splits a comma-separated operand list at top level only,
// honoring single/double quotes (with backslash escapes) and balanced
// parentheses. Each operand has surrounding whitespace trimmed.
func SplitOperands(text string) []string {
	var operands []string
	var cur strings.Builder
	depth := 0
	inSingle, inDouble, escaped := false, false, false

	flush := func() {
		operands = append(operands, strings.TrimSpace(cur.String()))
		cur.Reset()
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if escaped {
			cur.WriteByte(c)
			escaped = false
			continue
		}
		switch {
		case c == '\\' && (inSingle || inDouble):
			cur.WriteByte(c)
			escaped = true
		case c == '\'' && !inDouble:
			inSingle = !inSingle
			cur.WriteByte(c)
		case c == '"' && !inSingle:
			inDouble = !inDouble
			cur.WriteByte(c)
		case c == '(' && !inSingle && !inDouble:
			depth++
			cur.WriteByte(c)
		case c == ')' && !inSingle && !inDouble:
			if depth > 0 {
				depth--
			}
			cur.WriteByte(c)
		case c == ',' && !inSingle && !inDouble && depth == 0:
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return operands
}
