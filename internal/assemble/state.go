/*
 * asm1802 - Shared pass state
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
	"fmt"
	"strconv"
	"strings"

	"github.com/Mark-Clegg/asm1802-sub000/internal/asmerr"
	"github.com/Mark-Clegg/asm1802-sub000/internal/codemap"
	"github.com/Mark-Clegg/asm1802-sub000/internal/cpuvariant"
	"github.com/Mark-Clegg/asm1802-sub000/internal/eval"
	"github.com/Mark-Clegg/asm1802-sub000/internal/listing"
	"github.com/Mark-Clegg/asm1802-sub000/internal/symtab"
)

// state bundles every field the pass handlers read or mutate, per the
// "shared mutable driver state" design note: one record threaded through
// dispatch rather than a dozen loose parameters.
type state struct {
	opts Options
	log  *asmerr.Log
	list listing.Sink
	read func(string) ([]byte, error)

	// known holds subroutine names dropped by a prior attempt; their
	// bodies are fast-forwarded through without sizing or emission.
	known map[string]bool

	Global      *symtab.Table
	Local       *symtab.Table
	CurrentSub  string
	Subroutines map[string]*symtab.Table

	PC             uint16
	Processor      cpuvariant.Variant
	InSubroutine   bool
	AutoAlignedSub bool

	Code       *codemap.Map
	EntryPoint *uint16
	EntrySeen  bool

	ListOn    bool
	SymbolsOn bool

	// pass is the pass currently executing; handlers branch on it when
	// their behavior differs between sizing, layout and emission.
	pass int

	// macro capture, live across MACRO...ENDMACRO
	capturing   bool
	captureFile string
	captureName string
	captureParm []string
	captureBody []string
}

func newState(opts Options, log *asmerr.Log, list listing.Sink, read func(string) ([]byte, error), known map[string]bool, code *codemap.Map) *state {
	code.Reset()
	st := &state{
		opts:        opts,
		log:         log,
		list:        list,
		read:        read,
		known:       known,
		Global:      symtab.New(""),
		Subroutines: make(map[string]*symtab.Table),
		Processor:   opts.StartProcessor,
		Code:        code,
		ListOn:      true,
		SymbolsOn:   opts.DumpSymbols,
	}
	seedRegisters(st.Global, opts)
	return st
}

// seedRegisters binds R0..R15 and P1..P7, hidden from the listing, unless
// disabled, matching the original Assembler constructor's NoRegisters and
// NoPorts switches.
func seedRegisters(g *symtab.Table, opts Options) {
	if !opts.NoRegisters {
		for i := 0; i <= 15; i++ {
			for _, name := range registerSpellings(i) {
				g.Define(name, uint16(i)).HideFromListing = true
			}
		}
	}
	if !opts.NoPorts {
		for i := 1; i <= 7; i++ {
			g.Define(fmt.Sprintf("P%d", i), uint16(i)).HideFromListing = true
		}
	}
}

// registerSpellings returns both the decimal and hex-suffixed spellings of
// register n, e.g. "R10" and "RA".
func registerSpellings(n int) []string {
	dec := fmt.Sprintf("R%d", n)
	hex := fmt.Sprintf("R%X", n)
	if dec == hex {
		return []string{dec}
	}
	return []string{dec, hex}
}

// scope returns the table symbols and macros are currently resolved
// against: the open subroutine's table, or the global table.
func (st *state) scope() *symtab.Table {
	if st.Local != nil {
		return st.Local
	}
	return st.Global
}

// evaluator builds an expression evaluator over the current scope, PC and
// CPU variant.
func (st *state) evaluator() *eval.Evaluator {
	return eval.New(st.Global, st.Local, st.PC, st.Processor)
}

// findMacro resolves a macro call site: local scope first, then global.
func (st *state) findMacro(name string) (*symtab.MacroDef, *symtab.Table) {
	if st.Local != nil {
		if m, ok := st.Local.FindMacro(name); ok {
			return m, st.Local
		}
	}
	if m, ok := st.Global.FindMacro(name); ok {
		return m, st.Global
	}
	return nil, nil
}

// errorf records an Error-severity diagnostic at the current source
// location, including macro context when src reports one.
func (st *state) errorf(src LineSource, format string, args ...any) {
	st.log.Add(asmerr.Diagnostic{
		File: src.FileName(), Line: src.LineNumber(),
		MacroName: src.MacroName(), MacroLine: src.MacroLine(),
		Message: fmt.Sprintf(format, args...), Severity: asmerr.Error,
	})
}

// warnf records a Warning-severity diagnostic.
func (st *state) warnf(src LineSource, format string, args ...any) {
	st.log.Add(asmerr.Diagnostic{
		File: src.FileName(), Line: src.LineNumber(),
		MacroName: src.MacroName(), MacroLine: src.MacroLine(),
		Message: fmt.Sprintf(format, args...), Severity: asmerr.Warning,
	})
}

// alignUp returns the smallest multiple of k that is >= pc.
func alignUp(pc uint16, k uint32) uint16 {
	if k == 0 {
		return pc
	}
	rem := uint32(pc) % k
	if rem == 0 {
		return pc
	}
	return uint16(uint32(pc) + (k - rem))
}

// alignOption is one parsed SUB/ALIGN option.
type alignOption struct {
	auto bool
	k    uint32
}

// namedAlignments maps the named ALIGN=<name> spellings to their byte
// boundary, matching the original's WORD/DWORD/QWORD/PARA/PAGE synonyms.
var namedAlignments = map[string]uint32{
	"WORD":  2,
	"DWORD": 4,
	"QWORD": 8,
	"PARA":  16,
	"PAGE":  256,
}

// parseAlignValue resolves the right-hand side of "ALIGN=<value>" to an
// alignOption. Numeric values must be a power of two up to 256.
func parseAlignValue(v string) (alignOption, error) {
	v = strings.ToUpper(strings.TrimSpace(v))
	if v == "AUTO" {
		return alignOption{auto: true}, nil
	}
	if k, ok := namedAlignments[v]; ok {
		return alignOption{k: k}, nil
	}
	n, err := strconv.ParseUint(v, 0, 32)
	if err != nil {
		return alignOption{}, fmt.Errorf("invalid ALIGN value %q", v)
	}
	k := uint32(n)
	if k == 0 || (k&(k-1)) != 0 || k > 256 {
		return alignOption{}, fmt.Errorf("ALIGN value %d is not a power of two up to 256", k)
	}
	return alignOption{k: k}, nil
}

// subOptions is the parsed option set from a SUB line's trailing operands.
type subOptions struct {
	align    alignOption
	haveAlig bool
	static   bool
	pad      bool
	padByte  byte
}

func parseSubOptions(operands []string) (subOptions, error) {
	var opt subOptions
	for _, raw := range operands {
		o := strings.TrimSpace(raw)
		if o == "" {
			continue
		}
		upper := strings.ToUpper(o)
		switch {
		case upper == "STATIC":
			opt.static = true
		case upper == "PAD":
			opt.pad = true
			opt.padByte = 0
		case strings.HasPrefix(upper, "PAD="):
			n, err := strconv.ParseUint(strings.TrimSpace(o[len("PAD="):]), 0, 8)
			if err != nil {
				return opt, fmt.Errorf("invalid PAD value %q", o)
			}
			opt.pad = true
			opt.padByte = byte(n)
		case strings.HasPrefix(upper, "ALIGN="):
			a, err := parseAlignValue(o[len("ALIGN="):])
			if err != nil {
				return opt, err
			}
			opt.align = a
			opt.haveAlig = true
		default:
			return opt, fmt.Errorf("unrecognised SUB option %q", raw)
		}
	}
	return opt, nil
}
