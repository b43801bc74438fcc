/*
 * asm1802 - Macro definition capture and call-site expansion
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
	"github.com/Mark-Clegg/asm1802-sub000/internal/macro"
	"github.com/Mark-Clegg/asm1802-sub000/internal/opcode"
	"github.com/Mark-Clegg/asm1802-sub000/internal/symtab"
)

// pseudoMacroBegin opens body capture for a "NAME MACRO param, ..." line.
// The raw body text is kept verbatim (per the "re-lex on each expansion"
// design note); it is re-parsed fresh at every call site.
func pseudoMacroBegin(st *state, src LineSource, line lineparse.Line, rawText string) outcome {
	name := strings.ToUpper(strings.TrimSpace(line.Label))
	switch {
	case name == "":
		st.errorf(src, "MACRO requires a name label")
	case opcode.IsReserved(name):
		st.errorf(src, "macro name %q collides with a reserved mnemonic", name)
	}

	for _, raw := range line.Operands {
		p := strings.TrimSpace(raw)
		if p == "" {
			continue
		}
		if !macro.ValidParamName(p) {
			st.errorf(src, "invalid macro parameter %q", p)
		} else if opcode.IsReserved(strings.ToUpper(p)) {
			st.errorf(src, "macro parameter %q collides with a reserved mnemonic", p)
		}
	}

	st.capturing = true
	st.captureName = name
	st.captureParm = append([]string(nil), line.Operands...)
	st.captureBody = nil
	st.captureFile = src.FileName()

	emitListing(st, src, rawText, nil, nil)
	return cont
}

// captureMacroLine consumes one raw line while a MACRO body is being
// captured. It reports true when the line was consumed (always, while
// capturing), closing out the definition on the matching ENDMACRO/ENDM.
// A definition must not span source files, and a label on a body line is
// rejected, matching spec §4.5's MACRO...ENDMACRO constraints.
func captureMacroLine(st *state, src LineSource, stripped string) bool {
	if src.FileName() != st.captureFile {
		st.errorf(src, "MACRO %s definition must not span source files", st.captureName)
	}
	line := lineparse.Split(stripped)
	if strings.EqualFold(line.Mnemonic, "ENDMACRO") || strings.EqualFold(line.Mnemonic, "ENDM") {
		finishMacroCapture(st)
		emitListing(st, src, stripped, nil, nil)
		return true
	}
	if line.Label != "" {
		st.errorf(src, "label %q is not allowed inside a MACRO body", line.Label)
	}
	st.captureBody = append(st.captureBody, stripped)
	return true
}

func finishMacroCapture(st *state) {
	if st.captureName != "" {
		def := &symtab.MacroDef{
			Params: append([]string(nil), st.captureParm...),
			Body:   strings.Join(st.captureBody, "\n"),
		}
		st.scope().DefineMacro(st.captureName, def)
	}
	st.capturing = false
	st.captureName = ""
	st.captureParm = nil
	st.captureBody = nil
	st.captureFile = ""
}

// dispatchMacroSite handles a line whose mnemonic is not a known opcode or
// pseudo-op: it must name a macro, local scope taking precedence over
// global, matching spec §9's scoped-lookup design note.
func dispatchMacroSite(st *state, src LineSource, line lineparse.Line, rawText string) outcome {
	def, _ := st.findMacro(line.Mnemonic)
	if def == nil {
		st.errorf(src, "undefined mnemonic or macro %q", line.Mnemonic)
		bindLabelAtPC(st, src, line.Label)
		emitListing(st, src, rawText, nil, nil)
		return cont
	}

	bindLabelAtPC(st, src, line.Label)

	body, err := macro.Expand(def, line.Operands)
	if err != nil {
		st.errorf(src, "%s", err)
		emitListing(st, src, rawText, nil, nil)
		return cont
	}

	src.PushMacroExpansion(line.Mnemonic, body)
	return cont
}
