/*
 * asm1802 - Pass driver
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

// Package assemble is the multi-pass orchestrator: the assembly engine's
// core. It drives up to three passes over a source line stream plus, at
// most once, a replay of all three after a dead-code-elimination restart,
// dispatching each line to pseudo-op and opcode-form handlers that share one
// mutable state record (symbol tables, macro tables, program counter, code
// map and error log).
package assemble

import (
	"fmt"
	"os"

	"github.com/Mark-Clegg/asm1802-sub000/internal/asmerr"
	"github.com/Mark-Clegg/asm1802-sub000/internal/codemap"
	"github.com/Mark-Clegg/asm1802-sub000/internal/cpuvariant"
	"github.com/Mark-Clegg/asm1802-sub000/internal/listing"
	"github.com/Mark-Clegg/asm1802-sub000/internal/symtab"
)

// LineSource is the core's required input primitive: a pushdown stack of
// raw lines (file plus macro expansions) with a predicate for whether the
// current line came from inside a macro, matching spec §1's description of
// what the core consumes from its external source-reader collaborator.
type LineSource interface {
	NextLine() (string, bool)
	InMacro() bool
	FileName() string
	LineNumber() int
	MacroName() string
	MacroLine() int
	SetLineMarker(file string, line int)
	PushMacroExpansion(name, body string)
}

// NewSource produces a fresh LineSource positioned at the start of the
// top-level input, one call per pass (and per replayed pass after a DCE
// restart), since passes re-stream the same source from the beginning.
type NewSource func() (LineSource, error)

// Options configures one Run.
type Options struct {
	// StartProcessor is the CPU variant in effect before any #processor
	// directive or PROCESSOR/CPU pseudo-op is seen.
	StartProcessor cpuvariant.Variant
	// NoRegisters suppresses the pre-pass R0..R15 bindings.
	NoRegisters bool
	// NoPorts suppresses the pre-pass P1..P7 bindings.
	NoPorts bool
	// Listing receives listing events as they are produced. If nil, an
	// in-memory Buffer is used and its events are returned in Result.
	Listing listing.Sink
	// ReadFile loads a file embedded by "DB @path". Defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)
	// DumpSymbols requests an end-of-run symbol table snapshot in Result,
	// mirroring the "#symbols on" directive applied for the whole run.
	DumpSymbols bool
}

// Result is everything a downstream serializer or listing writer needs.
type Result struct {
	Code           *codemap.Map
	EntryPoint     *uint16
	Global         *symtab.Table
	Subroutines    map[string]*symtab.Table
	Log            *asmerr.Log
	OptimizedBytes uint16
	DroppedSubs    []string
	Listing        []listing.Event
	Symbols        []listing.SymbolEntry
	Restarted      bool
}

// Run drives the assembly to completion: up to three passes, then, if pass
// 3 finds unreferenced non-static subroutines and recorded zero errors, one
// replay of all three passes with those subroutines skipped entirely. At
// most one such restart ever happens.
func Run(newSrc NewSource, opts Options) (*Result, error) {
	log := asmerr.NewLog()

	var buf *listing.Buffer
	sink := opts.Listing
	if sink == nil {
		buf = listing.NewBuffer()
		sink = buf
	}

	readFile := opts.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}

	unreferenced := map[string]bool{}
	var optimizedBytes uint16
	var droppedNames []string
	code := codemap.New()

	for attempt := 0; ; attempt++ {
		st := newState(opts, log, sink, readFile, unreferenced, code)

		if err := runPass(1, newSrc, st); err != nil {
			return nil, fmt.Errorf("pass 1: %w", err)
		}
		if log.HasErrors() {
			break
		}

		if err := runPass(2, newSrc, st); err != nil {
			return nil, fmt.Errorf("pass 2: %w", err)
		}
		if log.HasErrors() {
			break
		}

		if err := runPass(3, newSrc, st); err != nil {
			return nil, fmt.Errorf("pass 3: %w", err)
		}
		if log.HasErrors() {
			break
		}

		endOfRunChecks(st, log)

		dead := findDeadSubs(st, unreferenced)
		if len(dead) == 0 || attempt >= 1 {
			symbols := []listing.SymbolEntry(nil)
			if st.SymbolsOn {
				symbols = dumpSymbols(st)
			}
			return &Result{
				Code:           st.Code,
				EntryPoint:     st.EntryPoint,
				Global:         st.Global,
				Subroutines:    st.Subroutines,
				Log:            log,
				OptimizedBytes: optimizedBytes,
				DroppedSubs:    droppedNames,
				Listing:        bufferedEvents(buf),
				Symbols:        symbols,
				Restarted:      attempt > 0,
			}, nil
		}

		for _, name := range dead {
			unreferenced[name] = true
			droppedNames = append(droppedNames, name)
			optimizedBytes += st.Subroutines[name].CodeSize
		}
		if buf != nil {
			buf.Reset()
		}
	}

	symbols := []listing.SymbolEntry(nil)
	return &Result{
		Log:         log,
		DroppedSubs: droppedNames,
		Listing:     bufferedEvents(buf),
		Symbols:     symbols,
	}, nil
}

func bufferedEvents(buf *listing.Buffer) []listing.Event {
	if buf == nil {
		return nil
	}
	return buf.Events()
}

// findDeadSubs returns the names of subroutines that became newly dead at
// the end of this attempt: non-static, not already known unreferenced, and
// whose global label was never looked up by the evaluator.
func findDeadSubs(st *state, known map[string]bool) []string {
	var dead []string
	for name, tbl := range st.Subroutines {
		if tbl.IsStatic || known[name] {
			continue
		}
		sym, ok := st.Global.Find(name)
		if !ok || sym.RefCount > 0 {
			continue
		}
		dead = append(dead, name)
	}
	return dead
}

func dumpSymbols(st *state) []listing.SymbolEntry {
	entries := make([]listing.SymbolEntry, 0, len(st.Global.Symbols))
	for name, sym := range st.Global.Symbols {
		if sym.HideFromListing {
			continue
		}
		entries = append(entries, listing.SymbolEntry{Scope: "", Name: name, Value: sym.Value})
	}
	for subName, tbl := range st.Subroutines {
		for name, sym := range tbl.Symbols {
			if sym.HideFromListing {
				continue
			}
			entries = append(entries, listing.SymbolEntry{Scope: subName, Name: name, Value: sym.Value})
		}
	}
	return entries
}
