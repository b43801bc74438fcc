/*
 * asm1802 - Pseudo-operation handlers
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
	"strconv"
	"strings"

	"github.com/Mark-Clegg/asm1802-sub000/internal/lineparse"
	"github.com/Mark-Clegg/asm1802-sub000/internal/opcode"
)

// dispatchPseudo handles one pseudo-operation line for the given pass,
// matching spec §4.5's (pass, pseudo-op) dispatch.
func dispatchPseudo(passNum int, st *state, src LineSource, line lineparse.Line, spec opcode.Spec, rawText string) outcome {
	switch spec.PseudoOp {
	case opcode.Equ:
		return pseudoEqu(passNum, st, src, line, rawText)
	case opcode.Sub:
		return pseudoSub(passNum, st, src, line, rawText)
	case opcode.EndSub:
		return pseudoEndSub(passNum, st, src, line, rawText)
	case opcode.Org:
		return pseudoOrg(passNum, st, src, line, rawText)
	case opcode.Align:
		return pseudoAlign(passNum, st, src, line, rawText)
	case opcode.Db, opcode.Dw, opcode.Dl, opcode.Dq:
		return pseudoData(passNum, st, src, line, spec.PseudoOp, rawText)
	case opcode.Rb, opcode.Rw, opcode.Rl, opcode.Rq:
		return pseudoReserve(passNum, st, src, line, spec.PseudoOp, rawText)
	case opcode.Processor:
		bindLabelAtPC(st, src, line.Label)
		if len(line.Operands) > 0 {
			setProcessor(st, src, line.Operands[0])
		} else {
			st.errorf(src, "PROCESSOR requires a variant operand")
		}
		emitListing(st, src, rawText, nil, nil)
		return cont
	case opcode.Assert:
		return pseudoAssert(passNum, st, src, line, rawText)
	case opcode.Macro:
		return pseudoMacroBegin(st, src, line, rawText)
	case opcode.EndMacro:
		st.errorf(src, "ENDMACRO without matching MACRO")
		return cont
	case opcode.End:
		return pseudoEnd(passNum, st, src, line, rawText)
	default:
		st.errorf(src, "unimplemented pseudo-op %s", line.Mnemonic)
		return cont
	}
}

func pseudoEqu(passNum int, st *state, src LineSource, line lineparse.Line, rawText string) outcome {
	if line.Label == "" {
		st.errorf(src, "EQU requires a label")
		return cont
	}
	if len(line.Operands) == 0 {
		st.errorf(src, "EQU requires a value expression")
		return cont
	}
	if passNum == 2 {
		v, err := st.evaluator().Eval(line.Operands[0])
		if err != nil {
			st.errorf(src, "%s", err)
		} else {
			scope := st.scope()
			if sym, ok := scope.Find(line.Label); ok && sym.Value != nil {
				st.errorf(src, "symbol %q already defined", line.Label)
			}
			scope.Define(line.Label, uint16(v))
		}
	}
	emitListing(st, src, rawText, nil, nil)
	return cont
}

func pseudoOrg(passNum int, st *state, src LineSource, line lineparse.Line, rawText string) outcome {
	if st.InSubroutine {
		st.errorf(src, "ORG is not allowed inside a SUB")
		emitListing(st, src, rawText, nil, nil)
		return cont
	}
	if len(line.Operands) == 0 {
		st.errorf(src, "ORG requires an address expression")
		emitListing(st, src, rawText, nil, nil)
		return cont
	}
	if passNum >= 2 {
		v, err := st.evaluator().Eval(line.Operands[0])
		if err != nil {
			st.errorf(src, "%s", err)
		} else if v < 0 || v > 0xFFFF {
			st.errorf(src, "ORG address %d out of range 0..0xFFFF", v)
		} else {
			st.PC = uint16(v)
			if passNum == 3 {
				st.Code.Break()
			}
		}
	}
	bindLabelAtPC(st, src, line.Label)
	emitListing(st, src, rawText, nil, nil)
	return cont
}

func pseudoAlign(passNum int, st *state, src LineSource, line lineparse.Line, rawText string) outcome {
	if st.AutoAlignedSub {
		st.errorf(src, "ALIGN is not allowed inside an ALIGN=AUTO subroutine")
		emitListing(st, src, rawText, nil, nil)
		return cont
	}
	if len(line.Operands) == 0 {
		st.errorf(src, "ALIGN requires a boundary expression")
		emitListing(st, src, rawText, nil, nil)
		return cont
	}
	if passNum >= 2 {
		v, err := st.evaluator().Eval(line.Operands[0])
		if err != nil {
			st.errorf(src, "%s", err)
		} else {
			k := uint32(v)
			if k == 0 || (k&(k-1)) != 0 || k > 256 {
				st.errorf(src, "ALIGN value %d is not a power of two up to 256", k)
			} else {
				pad, padByte := parseAlignPad(line.Operands[1:])
				newPC := alignUp(st.PC, k)
				if passNum == 3 {
					if pad {
						if newPC > st.PC {
							st.Code.Append(st.PC, bytesOf(padByte, int(newPC-st.PC)))
						}
					} else {
						st.Code.Break()
					}
				}
				st.PC = newPC
			}
		}
	}
	bindLabelAtPC(st, src, line.Label)
	emitListing(st, src, rawText, nil, nil)
	return cont
}

func parseAlignPad(rest []string) (bool, byte) {
	for _, raw := range rest {
		o := strings.TrimSpace(raw)
		upper := strings.ToUpper(o)
		if strings.HasPrefix(upper, "PAD=") {
			return true, parseByteOrZero(o[len("PAD="):])
		}
		if upper == "PAD" {
			return true, 0
		}
	}
	return false, 0
}

func parseByteOrZero(s string) byte {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 0, 8)
	if err != nil {
		return 0
	}
	return byte(n)
}

func bytesOf(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}

func pseudoAssert(passNum int, st *state, src LineSource, line lineparse.Line, rawText string) outcome {
	if passNum == 3 {
		if len(line.Operands) == 0 {
			st.errorf(src, "ASSERT requires an expression")
		} else {
			v, err := st.evaluator().Eval(line.Operands[0])
			if err != nil {
				st.errorf(src, "%s", err)
			} else if v == 0 {
				msg := "assertion failed"
				if len(line.Operands) > 1 {
					msg = strings.Trim(strings.TrimSpace(line.Operands[1]), `"`)
				}
				st.errorf(src, "%s", msg)
			}
		}
	}
	emitListing(st, src, rawText, nil, nil)
	return cont
}

func pseudoEnd(passNum int, st *state, src LineSource, line lineparse.Line, rawText string) outcome {
	if passNum == 3 {
		if len(line.Operands) > 0 {
			v, err := st.evaluator().Eval(line.Operands[0])
			if err != nil {
				st.errorf(src, "%s", err)
			} else if v < 0 || v > 0xFFFF {
				st.errorf(src, "END entry point %d out of range", v)
			} else {
				entry := uint16(v)
				st.EntryPoint = &entry
			}
		}
		st.EntrySeen = true
	}
	emitListing(st, src, rawText, nil, nil)
	return stopPass
}
