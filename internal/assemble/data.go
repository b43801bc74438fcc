/*
 * asm1802 - Data and reserve pseudo-operations
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

package assemble

import (
	"strings"

	"github.com/Mark-Clegg/asm1802-sub000/internal/lineparse"
	"github.com/Mark-Clegg/asm1802-sub000/internal/opcode"
)

// dataWidth returns the byte width of one DB/DW/DL/DQ element.
func dataWidth(op opcode.Pseudo) int {
	switch op {
	case opcode.Db:
		return 1
	case opcode.Dw:
		return 2
	case opcode.Dl:
		return 4
	case opcode.Dq:
		return 8
	}
	return 1
}

// pseudoData handles DB, DW, DL and DQ: each operand is either a quoted
// string (DB only, one byte per character), a "@\"file\"" include (DB
// only, the raw bytes of the named file) or an expression truncated or
// zero-extended to width bytes, big-endian.
func pseudoData(passNum int, st *state, src LineSource, line lineparse.Line, op opcode.Pseudo, rawText string) outcome {
	width := dataWidth(op)
	bindLabelAtPC(st, src, line.Label)

	if len(line.Operands) == 0 {
		st.errorf(src, "%s requires at least one operand", line.Mnemonic)
		emitListing(st, src, rawText, nil, nil)
		return cont
	}

	var out []byte
	for _, raw := range line.Operands {
		o := strings.TrimSpace(raw)
		switch {
		case op == opcode.Db && strings.HasPrefix(o, "@"):
			name := strings.Trim(strings.TrimPrefix(o, "@"), `"`)
			if st.read == nil {
				st.errorf(src, "no file reader configured for %s", o)
				continue
			}
			data, err := st.read(name)
			if err != nil {
				st.errorf(src, "cannot read %q: %s", name, err)
				continue
			}
			out = append(out, data...)
		case op == opcode.Db && isQuotedString(o):
			out = append(out, []byte(unquoteString(o))...)
		default:
			if passNum >= 2 {
				v, err := st.evaluator().Eval(o)
				if err != nil {
					st.errorf(src, "%s", err)
					out = append(out, make([]byte, width)...)
					continue
				}
				out = append(out, bigEndian(uint64(v), width)...)
			} else {
				out = append(out, make([]byte, width)...)
			}
		}
	}

	switch passNum {
	case 1:
		addSize(st, len(out))
	case 2:
		st.PC += uint16(len(out))
	case 3:
		pc := st.PC
		st.Code.Append(st.PC, out)
		st.PC += uint16(len(out))
		emitListing(st, src, rawText, &pc, out)
		return cont
	}
	emitListing(st, src, rawText, nil, nil)
	return cont
}

// pseudoReserve handles RB, RW, RL and RQ: a single count expression
// reserves count*width bytes, leaving a genuine hole in the code map
// rather than zero-filling it.
func pseudoReserve(passNum int, st *state, src LineSource, line lineparse.Line, op opcode.Pseudo, rawText string) outcome {
	width := dataWidth(op)
	bindLabelAtPC(st, src, line.Label)

	if len(line.Operands) == 0 {
		st.errorf(src, "%s requires a count expression", line.Mnemonic)
		emitListing(st, src, rawText, nil, nil)
		return cont
	}

	count := 0
	if passNum >= 1 {
		v, err := st.evaluator().Eval(line.Operands[0])
		if err != nil {
			if passNum >= 2 {
				st.errorf(src, "%s", err)
			}
		} else if v < 0 {
			st.errorf(src, "%s count %d cannot be negative", line.Mnemonic, v)
		} else {
			count = int(v)
		}
	}
	n := count * width

	switch passNum {
	case 1:
		addSize(st, n)
	case 2:
		st.PC += uint16(n)
	case 3:
		if n > 0 {
			st.Code.Break()
		}
		st.PC += uint16(n)
	}
	emitListing(st, src, rawText, nil, nil)
	return cont
}

// bigEndian renders v as width bytes, most-significant first, matching
// spec §4.7's DW/DL/DQ encoding (DB is always one byte, so width==1 is
// endianness-agnostic here too).
func bigEndian(v uint64, width int) []byte {
	out := make([]byte, width)
	for i := 0; i < width; i++ {
		out[width-1-i] = byte(v >> (8 * uint(i)))
	}
	return out
}

func isQuotedString(s string) bool {
	return len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\''))
}

// unquoteString strips the surrounding quotes and resolves backslash
// escapes the way lineparse's quote scanning recognizes them.
func unquoteString(s string) string {
	inner := s[1 : len(s)-1]
	var b strings.Builder
	escaped := false
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if escaped {
			switch c {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '0':
				b.WriteByte(0)
			default:
				b.WriteByte(c)
			}
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
