/*
 * asm1802 - Textual preprocessor
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

// Package preprocess implements the textual front end consumed by
// internal/assemble: #define/#undef substitution, #if/#ifdef/#ifndef/
// #else/#elseif/#endif conditional inclusion, #include flattening and
// #error, grounded in preprocessor.cpp. Its output is a flat line stream
// annotated with "#line \"FILE\" N" markers whenever the originating file
// or line number changes; any "#..." line it does not itself recognize
// (notably #processor, #list and #symbols) passes through unchanged for
// the core to interpret.
package preprocess

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Mark-Clegg/asm1802-sub000/internal/asmerr"
	"github.com/Mark-Clegg/asm1802-sub000/internal/cpuvariant"
	"github.com/Mark-Clegg/asm1802-sub000/internal/eval"
	"github.com/Mark-Clegg/asm1802-sub000/internal/symtab"
)

type directiveKind int

const (
	dirNone directiveKind = iota
	dirDefine
	dirUndef
	dirIf
	dirIfdef
	dirIfndef
	dirElse
	dirElseif
	dirEndif
	dirInclude
	dirError
)

var directiveNames = map[string]directiveKind{
	"DEFINE":  dirDefine,
	"UNDEF":   dirUndef,
	"IF":      dirIf,
	"IFDEF":   dirIfdef,
	"IFNDEF":  dirIfndef,
	"ELSE":    dirElse,
	"ELSEIF":  dirElseif,
	"ENDIF":   dirEndif,
	"INCLUDE": dirInclude,
	"ERROR":   dirError,
}

const maxIncludeDepth = 100

// Preprocessor holds the live #define table across an entire run, since
// definitions are cumulative and visible to every file an #include pulls
// in, matching PreProcessor::Defines.
type Preprocessor struct {
	Defines map[string]string
	read    func(path string) ([]byte, error)
}

// New creates a Preprocessor seeded with the original's standard
// alignment defines and the __DATE__/__TIME__/__TIMESTAMP__ bookkeeping
// constants (there is no __FILE__ define). read loads one source file's contents; pass
// os.ReadFile for real filesystem access.
func New(read func(path string) ([]byte, error)) *Preprocessor {
	now := time.Now()
	return &Preprocessor{
		read: read,
		Defines: map[string]string{
			"WORD":      "2",
			"DWORD":     "4",
			"QWORD":     "8",
			"PAGE":      "256",
			"__DATE__":  now.Format(`"Jan 2 2006"`),
			"__TIME__":  now.Format(`"15:04:05"`),
			"__TIMESTAMP__": now.Format(`"Mon Jan 2 15:04:05 2006"`),
		},
	}
}

// Define records name=value as though by a "#define name value" line,
// for CLI-level -D options.
func (p *Preprocessor) Define(name, value string) {
	p.Defines[strings.ToUpper(name)] = value
}

// Run flattens mainFile (and everything it #includes) into one annotated
// line stream. Diagnostics are accumulated in the returned log; a
// non-empty error count means the output should not be assembled.
func (p *Preprocessor) Run(mainFile string) (string, *asmerr.Log) {
	log := asmerr.NewLog()
	var out strings.Builder
	p.process(mainFile, &out, log, 0)
	return out.String(), log
}

func writeMarker(out *strings.Builder, file string, line int) {
	fmt.Fprintf(out, "#line %q %d\n", file, line)
}

func (p *Preprocessor) process(name string, out *strings.Builder, log *asmerr.Log, depth int) {
	if depth > maxIncludeDepth {
		log.Add(asmerr.Diagnostic{File: name, Message: "include nesting limit exceeded", Severity: asmerr.Error})
		return
	}

	data, err := p.read(name)
	if err != nil {
		log.Add(asmerr.Diagnostic{File: name, Message: fmt.Sprintf("cannot open %q: %s", name, err), Severity: asmerr.Error})
		return
	}

	lines := strings.Split(string(data), "\n")
	writeMarker(out, name, 1)

	ifDepth := 0
	for i := 0; i < len(lines); {
		line := strings.TrimRight(lines[i], "\r")
		i++
		lineNo := i
		trimmed := strings.TrimSpace(line)

		// Directive lines are recognized on their raw text: a #define's or
		// #undef's own name must never be substituted by an existing define
		// of the same name before the directive gets to see it, an easy
		// self-inflicted footgun ("#define FOO 1" then "#undef FOO" would
		// otherwise read as "#undef 1"). #if/#elseif expressions don't need
		// substitution either: evalCondition resolves defined names as
		// symbols directly. Only ordinary source lines get expandDefines.
		dir, expr, ok := parseDirective(trimmed)
		if !ok {
			p.expandDefines(&line)
			writeMarker(out, name, lineNo)
			out.WriteString(line)
			out.WriteByte('\n')
			continue
		}

		switch dir {
		case dirDefine:
			key, value := splitDefine(expr)
			if key == "" {
				log.Add(asmerr.Diagnostic{File: name, Line: lineNo, Message: "#define requires a name", Severity: asmerr.Error})
				continue
			}
			p.Defines[strings.ToUpper(key)] = value

		case dirUndef:
			delete(p.Defines, strings.ToUpper(strings.TrimSpace(expr)))

		case dirIf:
			ifDepth++
			if expr == "" {
				log.Add(asmerr.Diagnostic{File: name, Line: lineNo, Message: "#if requires an expression", Severity: asmerr.Error})
			} else if p.evalCondition(expr, name, lineNo, log) == 0 {
				if p.skipTo(lines, &i, true, name, log) == dirEndif {
					ifDepth--
				}
			}

		case dirIfdef:
			ifDepth++
			if expr == "" {
				log.Add(asmerr.Diagnostic{File: name, Line: lineNo, Message: "#ifdef requires a name", Severity: asmerr.Error})
			} else if _, defined := p.Defines[strings.ToUpper(strings.TrimSpace(expr))]; !defined {
				if p.skipTo(lines, &i, true, name, log) == dirEndif {
					ifDepth--
				}
			}

		case dirIfndef:
			ifDepth++
			if expr == "" {
				log.Add(asmerr.Diagnostic{File: name, Line: lineNo, Message: "#ifndef requires a name", Severity: asmerr.Error})
			} else if _, defined := p.Defines[strings.ToUpper(strings.TrimSpace(expr))]; defined {
				if p.skipTo(lines, &i, true, name, log) == dirEndif {
					ifDepth--
				}
			}

		case dirElse, dirElseif:
			if ifDepth <= 0 {
				log.Add(asmerr.Diagnostic{File: name, Line: lineNo, Message: "#else/#elseif without a preceding #if", Severity: asmerr.Error})
				continue
			}
			if p.skipTo(lines, &i, false, name, log) == dirEndif {
				ifDepth--
			}

		case dirEndif:
			if ifDepth <= 0 {
				log.Add(asmerr.Diagnostic{File: name, Line: lineNo, Message: "#endif without a preceding #if", Severity: asmerr.Error})
				continue
			}
			ifDepth--

		case dirError:
			log.Add(asmerr.Diagnostic{File: name, Line: lineNo, Message: fmt.Sprintf("#error: %s", expr), Severity: asmerr.Error})

		case dirInclude:
			path, ok := parseIncludeTarget(expr)
			if !ok {
				log.Add(asmerr.Diagnostic{File: name, Line: lineNo, Message: "unable to interpret #include filename, expected <file> or \"file\"", Severity: asmerr.Error})
				continue
			}
			p.process(path, out, log, depth+1)
			writeMarker(out, name, lineNo+1)
		}
	}

	if ifDepth != 0 {
		log.Add(asmerr.Diagnostic{File: name, Line: len(lines), Message: "unterminated #if/#ifdef/#ifndef", Severity: asmerr.Warning})
	}
}

// skipTo advances *i past a conditional region, honoring nesting. When
// stopAtElse is true it returns on the first #else/#elseif/#endif found at
// nesting level 0 (the "condition was false" search); an #elseif whose own
// expression is true is treated as newly taken and returned as dirElseif.
// When stopAtElse is false it returns only on #endif (the "this taken
// branch just ended" search after encountering #else/#elseif directly).
func (p *Preprocessor) skipTo(lines []string, i *int, stopAtElse bool, name string, log *asmerr.Log) directiveKind {
	level := 0
	for *i < len(lines) {
		raw := strings.TrimRight(lines[*i], "\r")
		*i++
		lineNo := *i
		trimmed := strings.TrimSpace(raw)

		dir, expr, ok := parseDirective(trimmed)
		if !ok {
			continue
		}
		switch dir {
		case dirIf, dirIfdef, dirIfndef:
			level++
		case dirElse:
			if level == 0 && stopAtElse {
				return dirElse
			}
		case dirElseif:
			if level == 0 && stopAtElse {
				if expr == "" {
					log.Add(asmerr.Diagnostic{File: name, Line: lineNo, Message: "#elseif requires an expression", Severity: asmerr.Error})
					return dirEndif
				}
				if p.evalCondition(expr, name, lineNo, log) != 0 {
					return dirElseif
				}
			}
		case dirEndif:
			if level == 0 {
				return dirEndif
			}
			level--
		}
	}
	log.Add(asmerr.Diagnostic{File: name, Line: len(lines), Message: "unterminated #if/#ifdef/#ifndef", Severity: asmerr.Warning})
	return dirEndif
}

// evalCondition evaluates a #if/#elseif expression, reusing the same
// evaluator the core uses for operands and ASSERT: a throwaway global
// table seeds every current #define as a symbol (numeric value when the
// define text parses as one, else 0) so ISDEF/ISNDEF and arithmetic on
// defined names both work, with no PC and no local scope.
func (p *Preprocessor) evalCondition(expr, file string, line int, log *asmerr.Log) int64 {
	g := symtab.New("")
	for name, value := range p.Defines {
		n, err := strconv.ParseInt(strings.TrimSpace(value), 0, 64)
		if err != nil {
			n = 0
		}
		g.Define(name, uint16(n))
	}
	ev := eval.New(g, nil, 0, cpuvariant.CPU1806A)
	v, err := ev.Eval(strings.ToUpper(expr))
	if err != nil {
		log.Add(asmerr.Diagnostic{File: file, Line: line, Message: err.Error(), Severity: asmerr.Error})
		return 0
	}
	return v
}

// expandDefines replaces every whole-identifier occurrence of a current
// #define name with its value, never inside quoted regions. Each define is
// applied once, in map iteration order (which is not defined), so a value
// that names another define is expanded only if that define happens to be
// applied later; the line is not rescanned until nothing changes.
func (p *Preprocessor) expandDefines(line *string) {
	for name, value := range p.Defines {
		*line = substituteIdent(*line, name, value)
	}
}

func substituteIdent(line, name, value string) string {
	var out strings.Builder
	inSingle, inDouble, escaped := false, false, false

	for i := 0; i < len(line); {
		c := line[i]
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
			for i < len(line) && isIdentChar(line[i]) {
				i++
			}
			ident := line[start:i]
			if strings.EqualFold(ident, name) {
				out.WriteString(value)
			} else {
				out.WriteString(ident)
			}
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// parseDirective recognizes a "#word [rest]" line and resolves word to a
// directiveKind this package handles. Any "#..." line whose word is not
// one of define/undef/if/ifdef/ifndef/else/elseif/endif/include/error is
// reported as ok=false so the caller passes it through untouched.
func parseDirective(trimmed string) (directiveKind, string, bool) {
	if !strings.HasPrefix(trimmed, "#") {
		return dirNone, "", false
	}
	rest := trimmed[1:]
	i := 0
	for i < len(rest) && isIdentChar(rest[i]) {
		i++
	}
	if i == 0 {
		return dirNone, "", false
	}
	word := strings.ToUpper(rest[:i])
	kind, ok := directiveNames[word]
	if !ok {
		return dirNone, "", false
	}
	return kind, strings.TrimSpace(rest[i:]), true
}

// splitDefine splits "#define" text into its name and value: the first
// whitespace-delimited token is the name; everything after is the value,
// verbatim. A name with no following value defines it as "1".
func splitDefine(expr string) (string, string) {
	expr = strings.TrimSpace(expr)
	idx := strings.IndexAny(expr, " \t")
	if idx < 0 {
		return expr, "1"
	}
	return expr[:idx], strings.TrimSpace(expr[idx+1:])
}

// parseIncludeTarget extracts the path from "<path>" or "\"path\"".
func parseIncludeTarget(expr string) (string, bool) {
	expr = strings.TrimSpace(expr)
	if len(expr) < 2 {
		return "", false
	}
	open, close := expr[0], expr[len(expr)-1]
	if (open == '<' && close == '>') || (open == '"' && close == '"') {
		return expr[1 : len(expr)-1], true
	}
	return "", false
}
