/*
 * asm1802 - Subroutine lifecycle (SUB/ENDSUB)
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
	"github.com/Mark-Clegg/asm1802-sub000/internal/symtab"
)

func pseudoSub(passNum int, st *state, src LineSource, line lineparse.Line, rawText string) outcome {
	if strings.TrimSpace(line.Label) == "" {
		st.errorf(src, "SUB requires a subroutine label")
		emitListing(st, src, rawText, nil, nil)
		return cont
	}
	label := strings.ToUpper(strings.TrimSpace(line.Label))

	if st.known[label] {
		skipSubroutineBody(src)
		return cont
	}

	if st.InSubroutine {
		st.errorf(src, "nested SUB %q inside %q is not allowed", label, st.CurrentSub)
	}

	opt, err := parseSubOptions(line.Operands)
	if err != nil {
		st.errorf(src, "%s", err)
	}

	var tbl *symtab.Table
	if passNum == 1 {
		tbl = symtab.New(label)
		tbl.IsStatic = opt.static
		st.Subroutines[label] = tbl
		st.Global.Lookup(label)
	} else {
		var ok bool
		tbl, ok = st.Subroutines[label]
		if !ok {
			tbl = symtab.New(label)
			st.Subroutines[label] = tbl
			st.errorf(src, "subroutine %q missing pass-1 sizing", label)
		}
		tbl.IsStatic = opt.static
	}

	if passNum >= 2 {
		newPC := st.PC
		if opt.haveAlig {
			if opt.align.auto {
				size := tbl.CodeSize
				if size > 0 {
					lastByte := st.PC + size - 1
					if (st.PC & 0xFF00) != (lastByte & 0xFF00) {
						newPC = alignUp(st.PC, 256)
					}
				}
			} else {
				newPC = alignUp(st.PC, opt.align.k)
			}
		}
		if passNum == 3 && newPC != st.PC {
			if opt.pad {
				st.Code.Append(st.PC, bytesOf(opt.padByte, int(newPC-st.PC)))
			} else {
				st.Code.Break()
			}
		}
		st.PC = newPC
		st.Global.Define(label, st.PC)
	}

	st.InSubroutine = true
	st.CurrentSub = label
	st.Local = tbl
	st.AutoAlignedSub = opt.haveAlig && opt.align.auto

	emitListing(st, src, rawText, nil, nil)
	return cont
}

func pseudoEndSub(passNum int, st *state, src LineSource, line lineparse.Line, rawText string) outcome {
	if !st.InSubroutine {
		st.errorf(src, "ENDSUB without matching SUB")
		emitListing(st, src, rawText, nil, nil)
		return cont
	}

	label := st.CurrentSub
	if passNum >= 2 && len(line.Operands) > 0 {
		v, err := st.evaluator().Eval(line.Operands[0])
		if err != nil {
			st.errorf(src, "%s", err)
		} else if v < 0 || v > 0xFFFF {
			st.errorf(src, "ENDSUB entry point %d out of range", v)
		} else {
			st.Global.Define(label, uint16(v))
		}
	}

	st.InSubroutine = false
	st.AutoAlignedSub = false
	st.Local = nil
	st.CurrentSub = ""

	emitListing(st, src, rawText, nil, nil)
	return cont
}
