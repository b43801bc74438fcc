/*
 * asm1802 - Macro expander
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

// Package macro substitutes call-site arguments into a stored macro body,
// leaving the re-lexing of the resulting text to the caller.
package macro

import (
	"fmt"
	"strings"

	"github.com/Mark-Clegg/asm1802-sub000/internal/symtab"
)

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// Expand substitutes def's parameters with args (positional, same count
// required) into def.Body. Substitution only happens on whole identifier
// runs that case-insensitively match a parameter name, and never inside
// single-quoted, double-quoted, or backslash-escaped regions.
func Expand(def *symtab.MacroDef, args []string) (string, error) {
	if len(args) != len(def.Params) {
		return "", fmt.Errorf("macro expects %d argument(s), got %d", len(def.Params), len(args))
	}

	paramValue := make(map[string]string, len(def.Params))
	for i, p := range def.Params {
		paramValue[strings.ToUpper(p)] = args[i]
	}

	var out strings.Builder
	body := def.Body
	inSingle, inDouble, escaped := false, false, false

	for i := 0; i < len(body); {
		c := body[i]
		if escaped {
			out.WriteByte(c)
			escaped = false
			i++
			continue
		}
		switch {
		case c == '\\' && (inSingle || inDouble):
			out.WriteByte(c)
			escaped = true
			i++
		case c == '\'' && !inDouble:
			inSingle = !inSingle
			out.WriteByte(c)
			i++
		case c == '"' && !inSingle:
			inDouble = !inDouble
			out.WriteByte(c)
			i++
		case !inSingle && !inDouble && isIdentStart(c):
			start := i
			for i < len(body) && isIdentChar(body[i]) {
				i++
			}
			ident := body[start:i]
			if v, ok := paramValue[strings.ToUpper(ident)]; ok {
				out.WriteString(v)
			} else {
				out.WriteString(ident)
			}
		default:
			out.WriteByte(c)
			i++
		}
	}

	return out.String(), nil
}

// ValidParamName reports whether name is a legal macro parameter name:
// [A-Z_][A-Z0-9_]* after case folding.
func ValidParamName(name string) bool {
	if name == "" {
		return false
	}
	upper := strings.ToUpper(name)
	if !isIdentStart(upper[0]) {
		return false
	}
	for i := 1; i < len(upper); i++ {
		if !isIdentChar(upper[i]) {
			return false
		}
	}
	return true
}
