/*
 * asm1802 - Per-line pass dispatch
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

	"github.com/Mark-Clegg/asm1802-sub000/internal/cpuvariant"
	"github.com/Mark-Clegg/asm1802-sub000/internal/lineparse"
	"github.com/Mark-Clegg/asm1802-sub000/internal/listing"
	"github.com/Mark-Clegg/asm1802-sub000/internal/opcode"
	"github.com/Mark-Clegg/asm1802-sub000/internal/sourcereader"
)

// runPass streams every line of a fresh LineSource once, dispatching each
// to the pseudo-op or opcode-form handler for passNum. It returns only on
// an I/O-level failure opening the source; per-line semantic errors are
// recorded in st.log and do not stop the pass.
func runPass(passNum int, newSrc NewSource, st *state) error {
	src, err := newSrc()
	if err != nil {
		return err
	}

	st.pass = passNum
	st.PC = 0
	st.Local = nil
	st.CurrentSub = ""
	st.InSubroutine = false
	st.AutoAlignedSub = false
	st.capturing = false

	for {
		raw, ok := src.NextLine()
		if !ok {
			break
		}

		if file, n, ok := sourcereader.ParseLineMarker(raw); ok {
			src.SetLineMarker(file, n)
			continue
		}

		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "#") {
			handleDirective(passNum, st, src, trimmed)
			continue
		}

		stripped := lineparse.StripComment(raw)
		if st.capturing {
			if captureMacroLine(st, src, stripped) {
				continue
			}
		}

		line := lineparse.Split(stripped)
		if line.Label == "" && line.Mnemonic == "" {
			emitListing(st, src, stripped, nil, nil)
			continue
		}

		done := dispatchLine(passNum, st, src, line, stripped)
		if done == stopPass {
			break
		}
	}

	return nil
}

type outcome int

const (
	cont outcome = iota
	stopPass
)

// handleDirective processes the preprocessor-facing "#..." lines the core
// still consumes directly: #processor toggles the active CPU variant,
// #list and #symbols toggle listing state. Any other "#..." token is only
// an error during pass 1's initial scan, matching spec §6.
func handleDirective(passNum int, st *state, src LineSource, trimmed string) {
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return
	}
	switch strings.ToLower(fields[0]) {
	case "#processor":
		if len(fields) < 2 {
			st.errorf(src, "#processor requires a variant name")
			return
		}
		setProcessor(st, src, fields[1])
	case "#list":
		if len(fields) >= 2 {
			st.ListOn = strings.EqualFold(fields[1], "on")
		}
	case "#symbols":
		if len(fields) >= 2 {
			st.SymbolsOn = strings.EqualFold(fields[1], "on")
		}
	default:
		if passNum == 1 {
			st.errorf(src, "unknown directive %q", fields[0])
		}
	}
}

func setProcessor(st *state, src LineSource, name string) {
	name = strings.ToUpper(strings.Trim(name, `"`))
	v, ok := cpuvariant.Parse(name)
	if !ok {
		st.errorf(src, "unknown processor %q", name)
		return
	}
	st.Processor = v
}

// dispatchLine handles one parsed line: label binding, pseudo-ops, macro
// expansion sites and ordinary opcode forms.
func dispatchLine(passNum int, st *state, src LineSource, line lineparse.Line, rawText string) outcome {
	spec, isOp := opcode.Lookup(line.Mnemonic)

	if line.Mnemonic == "" {
		bindLabelAtPC(st, src, line.Label)
		emitListing(st, src, rawText, nil, nil)
		return cont
	}

	if isOp && spec.Form == opcode.PseudoOp {
		return dispatchPseudo(passNum, st, src, line, spec, rawText)
	}

	if !isOp {
		return dispatchMacroSite(st, src, line, rawText)
	}

	bindLabelAtPC(st, src, line.Label)
	return dispatchOpcode(passNum, st, src, line, spec, rawText)
}

// bindLabelAtPC defines line's label, if any, at the current PC in the
// current scope (subroutine-local if one is open, else global).
func bindLabelAtPC(st *state, src LineSource, label string) {
	if label == "" {
		return
	}
	scope := st.scope()
	if st.pass == 2 {
		if sym, ok := scope.Find(label); ok && sym.Value != nil {
			st.errorf(src, "symbol %q already defined", label)
		}
		scope.Define(label, st.PC)
	}
}

func dispatchOpcode(passNum int, st *state, src LineSource, line lineparse.Line, spec opcode.Spec, rawText string) outcome {
	if spec.MinCPU > st.Processor {
		st.errorf(src, "%s requires CPU %s or later (current %s)", line.Mnemonic, spec.MinCPU, st.Processor)
	}

	length := spec.Form.Length()
	switch passNum {
	case 1:
		addSize(st, length)
	case 2:
		st.PC += uint16(length)
	case 3:
		ev := st.evaluator()
		bytes, err := encodeInstruction(line.Mnemonic, spec, line.Operands, ev)
		if err != nil {
			st.errorf(src, "%s", err)
			bytes = make([]byte, length)
		}
		pc := st.PC
		st.Code.Append(st.PC, bytes)
		st.PC += uint16(length)
		emitListing(st, src, rawText, &pc, bytes)
		return cont
	}
	emitListing(st, src, rawText, nil, nil)
	return cont
}

// addSize accumulates n bytes into the currently open subroutine's size
// during pass 1. Code outside any subroutine does not contribute to a
// code_size total (only SUB...ENDSUB bodies are sized).
func addSize(st *state, n int) {
	if st.InSubroutine && st.CurrentSub != "" {
		if tbl, ok := st.Subroutines[st.CurrentSub]; ok {
			tbl.CodeSize += uint16(n)
		}
	}
}

// emitListing forwards one listing.Event to the configured sink, honoring
// #list off. Only pass 3 emits (it is the pass that carries PC/byte
// information); calls made during passes 1 and 2 record nothing.
func emitListing(st *state, src LineSource, text string, pc *uint16, bytes []byte) {
	if st.pass != 3 || !st.ListOn || st.list == nil {
		return
	}
	st.list.Emit(listing.Event{
		File: src.FileName(), FileLine: src.LineNumber(),
		StreamName: src.FileName(), StreamLine: src.LineNumber(),
		Text: text, InMacro: src.InMacro(), PC: pc, Bytes: bytes,
	})
}
