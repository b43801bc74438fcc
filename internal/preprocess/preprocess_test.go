/*
 * asm1802 - Preprocessor tests
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

package preprocess

import (
	"fmt"
	"strings"
	"testing"
)

func fileSet(files map[string]string) func(string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		data, ok := files[name]
		if !ok {
			return nil, fmt.Errorf("no such file %q", name)
		}
		return []byte(data), nil
	}
}

func TestDefineSubstitution(t *testing.T) {
	p := New(fileSet(map[string]string{
		"main.asm": "#define COUNT 5\nLDI COUNT\n",
	}))
	out, log := p.Run("main.asm")
	if log.HasErrors() {
		t.Fatalf("unexpected errors: %v", log.Diagnostics())
	}
	if !strings.Contains(out, "LDI 5") {
		t.Errorf("expected substituted operand, got:\n%s", out)
	}
	if strings.Contains(out, "#define") {
		t.Errorf("directive line leaked into output:\n%s", out)
	}
}

func TestUndef(t *testing.T) {
	p := New(fileSet(map[string]string{
		"main.asm": "#define FOO 1\n#undef FOO\nLDI FOO\n",
	}))
	out, log := p.Run("main.asm")
	if log.HasErrors() {
		t.Fatalf("unexpected errors: %v", log.Diagnostics())
	}
	if !strings.Contains(out, "LDI FOO") {
		t.Errorf("expected FOO to remain unexpanded after #undef, got:\n%s", out)
	}
}

func TestIfDefNdef(t *testing.T) {
	p := New(fileSet(map[string]string{
		"main.asm": "#define DEBUG 1\n" +
			"#ifdef DEBUG\nLDI 1\n#endif\n" +
			"#ifndef DEBUG\nLDI 2\n#endif\n" +
			"#ifndef RELEASE\nLDI 3\n#endif\n",
	}))
	out, log := p.Run("main.asm")
	if log.HasErrors() {
		t.Fatalf("unexpected errors: %v", log.Diagnostics())
	}
	if !strings.Contains(out, "LDI 1") {
		t.Errorf("expected #ifdef DEBUG branch kept:\n%s", out)
	}
	if strings.Contains(out, "LDI 2") {
		t.Errorf("expected #ifndef DEBUG branch dropped:\n%s", out)
	}
	if !strings.Contains(out, "LDI 3") {
		t.Errorf("expected #ifndef RELEASE branch kept:\n%s", out)
	}
}

func TestIfElseElseif(t *testing.T) {
	cases := []struct {
		value string
		want  string
		avoid []string
	}{
		{"1", "LDI 10", []string{"LDI 20", "LDI 30"}},
		{"2", "LDI 20", []string{"LDI 10", "LDI 30"}},
		{"3", "LDI 30", []string{"LDI 10", "LDI 20"}},
	}
	for _, c := range cases {
		src := fmt.Sprintf("#define MODE %s\n"+
			"#if MODE == 1\nLDI 10\n#elseif MODE == 2\nLDI 20\n#else\nLDI 30\n#endif\n", c.value)
		p := New(fileSet(map[string]string{"main.asm": src}))
		out, log := p.Run("main.asm")
		if log.HasErrors() {
			t.Fatalf("MODE=%s: unexpected errors: %v", c.value, log.Diagnostics())
		}
		if !strings.Contains(out, c.want) {
			t.Errorf("MODE=%s: expected %q in output:\n%s", c.value, c.want, out)
		}
		for _, bad := range c.avoid {
			if strings.Contains(out, bad) {
				t.Errorf("MODE=%s: unexpected %q in output:\n%s", c.value, bad, out)
			}
		}
	}
}

func TestNestedIf(t *testing.T) {
	p := New(fileSet(map[string]string{
		"main.asm": "#define A 1\n#define B 0\n" +
			"#if A\n#if B\nLDI 1\n#else\nLDI 2\n#endif\n#endif\n",
	}))
	out, log := p.Run("main.asm")
	if log.HasErrors() {
		t.Fatalf("unexpected errors: %v", log.Diagnostics())
	}
	if !strings.Contains(out, "LDI 2") || strings.Contains(out, "LDI 1") {
		t.Errorf("nested #if/#else resolved incorrectly:\n%s", out)
	}
}

func TestInclude(t *testing.T) {
	p := New(fileSet(map[string]string{
		"main.asm": "#include \"sub.inc\"\nLDI 1\n",
		"sub.inc":  "LDI 2\n",
	}))
	out, log := p.Run("main.asm")
	if log.HasErrors() {
		t.Fatalf("unexpected errors: %v", log.Diagnostics())
	}
	if !strings.Contains(out, "LDI 2") || !strings.Contains(out, "LDI 1") {
		t.Errorf("expected both included and main file content:\n%s", out)
	}
}

func TestErrorDirective(t *testing.T) {
	p := New(fileSet(map[string]string{
		"main.asm": "#error something is wrong\n",
	}))
	_, log := p.Run("main.asm")
	if !log.HasErrors() {
		t.Fatal("expected #error to raise an error diagnostic")
	}
}

func TestUnbalancedIfWarns(t *testing.T) {
	p := New(fileSet(map[string]string{
		"main.asm": "#if 1\nLDI 1\n",
	}))
	_, log := p.Run("main.asm")
	if log.HasErrors() {
		t.Fatalf("unterminated #if should warn, not error: %v", log.Diagnostics())
	}
	if log.WarningCount() == 0 {
		t.Error("expected a warning for the unterminated #if")
	}
}

func TestPredefinedConstants(t *testing.T) {
	p := New(fileSet(map[string]string{
		"main.asm": "DW WORD\nDW DWORD\nDW QWORD\nDW PAGE\n",
	}))
	out, log := p.Run("main.asm")
	if log.HasErrors() {
		t.Fatalf("unexpected errors: %v", log.Diagnostics())
	}
	for _, want := range []string{"DW 2", "DW 4", "DW 8", "DW 256"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}
