/*
 * asm1802 - Expression evaluator tests
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

package eval

import (
	"testing"

	"github.com/Mark-Clegg/asm1802-sub000/internal/cpuvariant"
	"github.com/Mark-Clegg/asm1802-sub000/internal/symtab"
)

func newTestEvaluator(pc uint16) *Evaluator {
	global := symtab.New("")
	global.Define("FOO", 0x20)
	global.Define("ZERO", 0)
	global.Lookup("FORWARD") // declared but never assigned a value
	local := symtab.New("SUBR")
	local.Define("BAR", 0x05)

	return New(global, local, pc, cpuvariant.CPU1806)
}

func TestPrecedenceLevels(t *testing.T) {
	e := newTestEvaluator(0)
	cases := []struct {
		name string
		expr string
		want int64
	}{
		{"logical or", "0 || 5", -1},
		{"logical or both false", "0 || 0", 0},
		{"logical and", "1 && 2", -1},
		{"logical and short false", "0 && 1", 0},
		{"bitwise or", "0x0F | 0xF0", 0xFF},
		{"bitwise xor", "0xFF ^ 0x0F", 0xF0},
		{"bitwise and", "0xFF & 0x0F", 0x0F},
		{"equal", "3 == 3", -1},
		{"not equal", "3 != 4", -1},
		{"less", "1 < 2", -1},
		{"less or equal", "2 <= 2", -1},
		{"greater", "3 > 2", -1},
		{"greater or equal", "2 >= 3", 0},
		{"shift left", "1 << 4", 0x10},
		{"shift right", "0x80 >> 4", 0x08},
		{"add", "2 + 3", 5},
		{"subtract", "5 - 8", -3},
		{"multiply", "6 * 7", 42},
		{"divide", "20 / 3", 6},
		{"remainder", "20 % 3", 2},
		{"unary minus", "-5", -5},
		{"unary plus", "+5", 5},
		{"bitwise not", "~0", -1},
		{"logical not of zero", "!0", -1},
		{"logical not of nonzero", "!3", 0},
		{"parenthesised grouping", "(1 + 2) * 3", 9},
		{"precedence without parens", "1 + 2 * 3", 7},
		{"mixed precedence chain", "1 | 2 & 3 == 3", 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := e.Eval(c.expr)
			if err != nil {
				t.Fatalf("Eval(%q): unexpected error: %s", c.expr, err)
			}
			if got != c.want {
				t.Errorf("Eval(%q) = %d, want %d", c.expr, got, c.want)
			}
		})
	}
}

func TestProgramCounterAtoms(t *testing.T) {
	e := newTestEvaluator(0x1234)
	for _, expr := range []string{"$", "."} {
		got, err := e.Eval(expr)
		if err != nil {
			t.Fatalf("Eval(%q): unexpected error: %s", expr, err)
		}
		if got != 0x1234 {
			t.Errorf("Eval(%q) = %#x, want 0x1234", expr, got)
		}
	}
}

func TestProgramCounterInExpression(t *testing.T) {
	e := newTestEvaluator(0x1000)
	got, err := e.Eval(". + 5")
	if err != nil {
		t.Fatalf("Eval: unexpected error: %s", err)
	}
	if got != 0x1005 {
		t.Errorf("Eval(\". + 5\") = %#x, want 0x1005", got)
	}
}

func TestByteSelect(t *testing.T) {
	e := newTestEvaluator(0)
	cases := []struct {
		expr string
		want int64
	}{
		{"0x1234.0", 0x34},
		{"0x1234.1", 0x12},
		{"0x12345678.3", 0x12},
	}
	for _, c := range cases {
		got, err := e.Eval(c.expr)
		if err != nil {
			t.Fatalf("Eval(%q): unexpected error: %s", c.expr, err)
		}
		if got != c.want {
			t.Errorf("Eval(%q) = %#x, want %#x", c.expr, got, c.want)
		}
	}
}

func TestByteSelectOnProgramCounter(t *testing.T) {
	e := newTestEvaluator(0x1234)
	got, err := e.Eval("..0")
	if err != nil {
		t.Fatalf("Eval: unexpected error: %s", err)
	}
	if got != 0x34 {
		t.Errorf("Eval(\"..0\") = %#x, want 0x34", got)
	}
}

func TestHighLow(t *testing.T) {
	e := newTestEvaluator(0)
	if got, err := e.Eval("HIGH(0x1234)"); err != nil || got != 0x12 {
		t.Errorf("HIGH(0x1234) = %#x, %v, want 0x12, nil", got, err)
	}
	if got, err := e.Eval("LOW(0x1234)"); err != nil || got != 0x34 {
		t.Errorf("LOW(0x1234) = %#x, %v, want 0x34, nil", got, err)
	}
}

func TestIsDefAndIsNDef(t *testing.T) {
	e := newTestEvaluator(0)
	cases := []struct {
		expr string
		want int64
	}{
		{"ISDEF(FOO)", -1},
		{"ISDEF(BAR)", -1},
		{"ISDEF(FORWARD)", -1},
		{"ISDEF(NOPE)", 0},
		{"ISNDEF(NOPE)", -1},
		{"ISNDEF(FOO)", 0},
	}
	for _, c := range cases {
		got, err := e.Eval(c.expr)
		if err != nil {
			t.Fatalf("Eval(%q): unexpected error: %s", c.expr, err)
		}
		if got != c.want {
			t.Errorf("Eval(%q) = %d, want %d", c.expr, got, c.want)
		}
	}
}

func TestCpuProcessor(t *testing.T) {
	e := newTestEvaluator(0) // built at CPU1806
	cases := []struct {
		expr string
		want int64
	}{
		{"CPU(1802)", -1},
		{"CPU(1806)", -1},
		{"PROCESSOR(1806A)", 0},
	}
	for _, c := range cases {
		got, err := e.Eval(c.expr)
		if err != nil {
			t.Fatalf("Eval(%q): unexpected error: %s", c.expr, err)
		}
		if got != c.want {
			t.Errorf("Eval(%q) = %d, want %d", c.expr, got, c.want)
		}
	}
}

func TestLocalShadowsGlobal(t *testing.T) {
	e := newTestEvaluator(0)
	got, err := e.Eval("BAR")
	if err != nil {
		t.Fatalf("Eval: unexpected error: %s", err)
	}
	if got != 0x05 {
		t.Errorf("Eval(\"BAR\") = %#x, want 0x05", got)
	}
}

func TestDivisionByZeroIsAnError(t *testing.T) {
	e := newTestEvaluator(0)
	if _, err := e.Eval("1 / 0"); err == nil {
		t.Fatal("expected an error for division by zero")
	}
	if _, err := e.Eval("1 % 0"); err == nil {
		t.Fatal("expected an error for remainder by zero")
	}
}

func TestUndefinedSymbolIsAnError(t *testing.T) {
	e := newTestEvaluator(0)
	if _, err := e.Eval("NOPE"); err == nil {
		t.Fatal("expected an error for an undefined symbol")
	}
}

func TestForwardReferenceWithoutValueIsAnError(t *testing.T) {
	e := newTestEvaluator(0)
	if _, err := e.Eval("FORWARD"); err == nil {
		t.Fatal("expected an error resolving a symbol with no assigned value yet")
	}
}

func TestTrailingCharactersAreAnError(t *testing.T) {
	e := newTestEvaluator(0)
	if _, err := e.Eval("1 + 2 garbage"); err == nil {
		t.Fatal("expected an error for trailing characters after a complete expression")
	}
}
