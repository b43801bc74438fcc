/*
 * asm1802 - Pass driver integration tests
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
	"testing"

	"github.com/Mark-Clegg/asm1802-sub000/internal/cpuvariant"
	"github.com/Mark-Clegg/asm1802-sub000/internal/sourcereader"
)

func newSrcFor(text string) NewSource {
	return func() (LineSource, error) {
		return sourcereader.NewFromReader("test.asm", strings.NewReader(text)), nil
	}
}

func run(t *testing.T, src string, opts Options) *Result {
	t.Helper()
	if opts.StartProcessor == 0 && opts.StartProcessor != cpuvariant.CPU1802 {
		opts.StartProcessor = cpuvariant.CPU1802
	}
	res, err := Run(newSrcFor(src), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func requireNoErrors(t *testing.T, res *Result) {
	t.Helper()
	if res.Log.HasErrors() {
		for _, d := range res.Log.Diagnostics() {
			t.Logf("diag: %s", d.String())
		}
		t.Fatalf("unexpected errors: %d", res.Log.ErrorCount())
	}
}

func firstSegmentBytes(t *testing.T, res *Result) []byte {
	t.Helper()
	segs := res.Code.Segments()
	if len(segs) == 0 {
		t.Fatal("expected at least one code segment")
	}
	return segs[0].Bytes
}

func TestBasicInstructionEncoding(t *testing.T) {
	src := "        ORG 0\n        LDI 42\n        SEP 4\n        NOP\n"
	res := run(t, src, Options{})
	requireNoErrors(t, res)

	got := firstSegmentBytes(t, res)
	want := []byte{0xF8, 42, 0xD4, 0xC4}
	if string(got) != string(want) {
		t.Errorf("got % X, want % X", got, want)
	}
}

func TestEquAndLabelResolution(t *testing.T) {
	src := "COUNT   EQU 10\n" +
		"        ORG 0\n" +
		"START:  LDI COUNT\n" +
		"        BR  START\n"
	res := run(t, src, Options{})
	requireNoErrors(t, res)

	got := firstSegmentBytes(t, res)
	want := []byte{0xF8, 10, 0x30, 0x00}
	if string(got) != string(want) {
		t.Errorf("got % X, want % X", got, want)
	}
}

func TestDataDirectives(t *testing.T) {
	src := "        ORG 0\n" +
		"        DB 1, 2, 3\n" +
		"        DW 0x1234\n" +
		"        DL 0x11223344\n"
	res := run(t, src, Options{})
	requireNoErrors(t, res)

	got := firstSegmentBytes(t, res)
	want := []byte{1, 2, 3, 0x12, 0x34, 0x11, 0x22, 0x33, 0x44}
	if string(got) != string(want) {
		t.Errorf("got % X, want % X", got, want)
	}
}

func TestSubroutineLifecycle(t *testing.T) {
	src := "        ORG 0\n" +
		"        LDI SUBR\n" +
		"SUBR    SUB\n" +
		"        LDI 1\n" +
		"        ENDSUB\n"
	res := run(t, src, Options{})
	requireNoErrors(t, res)

	if res.Restarted {
		t.Error("referenced subroutine must not trigger dead-code elimination")
	}
	if len(res.DroppedSubs) != 0 {
		t.Errorf("expected no dropped subroutines, got %v", res.DroppedSubs)
	}
}

func TestDeadCodeEliminationDropsUnreferencedSubroutine(t *testing.T) {
	src := "        ORG 0\n" +
		"        LDI 1\n" +
		"UNUSED  SUB\n" +
		"        LDI 2\n" +
		"        ENDSUB\n"
	res := run(t, src, Options{})
	requireNoErrors(t, res)

	if !res.Restarted {
		t.Fatal("expected a dead-code elimination restart")
	}
	found := false
	for _, name := range res.DroppedSubs {
		if name == "UNUSED" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected UNUSED to be dropped, got %v", res.DroppedSubs)
	}

	got := firstSegmentBytes(t, res)
	want := []byte{0xF8, 1}
	if string(got) != string(want) {
		t.Errorf("got % X, want % X", got, want)
	}
}

func TestStaticSubroutineIsNeverDropped(t *testing.T) {
	src := "        ORG 0\n" +
		"        LDI 1\n" +
		"KEEPME  SUB STATIC\n" +
		"        LDI 2\n" +
		"        ENDSUB\n"
	res := run(t, src, Options{})
	requireNoErrors(t, res)

	if res.Restarted {
		t.Error("a STATIC subroutine must never be eliminated as dead code")
	}
}

func TestAlignDirective(t *testing.T) {
	src := "        ORG 0\n" +
		"        DB 1\n" +
		"        ALIGN 4\n" +
		"        DB 2\n"
	res := run(t, src, Options{})
	requireNoErrors(t, res)

	segs := res.Code.Segments()
	var found bool
	for _, seg := range segs {
		for i, b := range seg.Bytes {
			if b == 2 && int(seg.Start)+i == 4 {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("expected the second DB to land at address 4 after ALIGN 4, segments: %+v", segs)
	}
}

func TestMacroExpansion(t *testing.T) {
	src := "TWO_NOPS MACRO\n" +
		"        NOP\n" +
		"        NOP\n" +
		"        ENDM\n" +
		"        ORG 0\n" +
		"        TWO_NOPS\n"
	res := run(t, src, Options{})
	requireNoErrors(t, res)

	got := firstSegmentBytes(t, res)
	want := []byte{0xC4, 0xC4}
	if string(got) != string(want) {
		t.Errorf("got % X, want % X", got, want)
	}
}

func TestMacroBodyRejectsLabel(t *testing.T) {
	src := "BAD     MACRO\n" +
		"HERE:   NOP\n" +
		"        ENDM\n" +
		"        ORG 0\n" +
		"        BAD\n"
	res := run(t, src, Options{})
	if !res.Log.HasErrors() {
		t.Fatal("expected a label inside a MACRO body to be rejected")
	}
}

func TestUndefinedSymbolIsAnError(t *testing.T) {
	src := "        ORG 0\n        LDI NOPE\n"
	res := run(t, src, Options{})
	if !res.Log.HasErrors() {
		t.Fatal("expected an error referencing an undefined symbol")
	}
}

func TestAssertFailureIsAnError(t *testing.T) {
	src := "        ORG 0\n        ASSERT 1 == 2\n"
	res := run(t, src, Options{})
	if !res.Log.HasErrors() {
		t.Fatal("expected ASSERT 1 == 2 to fail")
	}
}

func TestDumpSymbolsPopulatesResult(t *testing.T) {
	src := "LABEL   EQU 5\n        ORG 0\n        LDI LABEL\n"
	res := run(t, src, Options{DumpSymbols: true})
	requireNoErrors(t, res)

	found := false
	for _, s := range res.Symbols {
		if s.Name == "LABEL" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected LABEL in dumped symbols, got %+v", res.Symbols)
	}
}
