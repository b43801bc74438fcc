/*
 * asm1802 - Expression evaluator
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

// Package eval implements the signed 64-bit recursive-descent expression
// evaluator shared by operand expressions, #if directives and ASSERT.
package eval

import (
	"fmt"
	"strconv"

	"github.com/Mark-Clegg/asm1802-sub000/internal/cpuvariant"
	"github.com/Mark-Clegg/asm1802-sub000/internal/symtab"
	"github.com/Mark-Clegg/asm1802-sub000/internal/token"
)

// Evaluator resolves expressions against a global symbol table, an optional
// subroutine-local table, the current program counter and the active CPU
// variant. Local lookups shadow global ones.
type Evaluator struct {
	Global    *symtab.Table
	Local     *symtab.Table
	PC        uint16
	Processor cpuvariant.Variant
}

// New creates an Evaluator. local may be nil outside a subroutine body.
func New(global, local *symtab.Table, pc uint16, processor cpuvariant.Variant) *Evaluator {
	return &Evaluator{Global: global, Local: local, PC: pc, Processor: processor}
}

// Eval parses and evaluates expr in full, erroring if trailing tokens remain.
func (e *Evaluator) Eval(expr string) (int64, error) {
	t := token.New(expr)
	v, err := e.logicalOr(t)
	if err != nil {
		return 0, err
	}
	tok, err := t.Peek()
	if err != nil {
		return 0, err
	}
	if tok.Kind != token.End {
		return 0, fmt.Errorf("unexpected characters at end of expression")
	}
	return v, nil
}

func b2i(b bool) int64 {
	if b {
		return -1
	}
	return 0
}

func (e *Evaluator) logicalOr(t *token.Tokenizer) (int64, error) {
	v, err := e.logicalAnd(t)
	if err != nil {
		return 0, err
	}
	for {
		tok, err := t.Peek()
		if err != nil {
			return 0, err
		}
		if tok.Kind != token.LogicalOr {
			return v, nil
		}
		t.Get()
		rhs, err := e.logicalAnd(t)
		if err != nil {
			return 0, err
		}
		v = b2i(v != 0 || rhs != 0)
	}
}

func (e *Evaluator) logicalAnd(t *token.Tokenizer) (int64, error) {
	v, err := e.bitwiseOr(t)
	if err != nil {
		return 0, err
	}
	for {
		tok, err := t.Peek()
		if err != nil {
			return 0, err
		}
		if tok.Kind != token.LogicalAnd {
			return v, nil
		}
		t.Get()
		rhs, err := e.bitwiseOr(t)
		if err != nil {
			return 0, err
		}
		v = b2i(v != 0 && rhs != 0)
	}
}

func (e *Evaluator) bitwiseOr(t *token.Tokenizer) (int64, error) {
	v, err := e.bitwiseXor(t)
	if err != nil {
		return 0, err
	}
	for {
		tok, err := t.Peek()
		if err != nil {
			return 0, err
		}
		if tok.Kind != token.BitwiseOr {
			return v, nil
		}
		t.Get()
		rhs, err := e.bitwiseXor(t)
		if err != nil {
			return 0, err
		}
		v |= rhs
	}
}

func (e *Evaluator) bitwiseXor(t *token.Tokenizer) (int64, error) {
	v, err := e.bitwiseAnd(t)
	if err != nil {
		return 0, err
	}
	for {
		tok, err := t.Peek()
		if err != nil {
			return 0, err
		}
		if tok.Kind != token.BitwiseXor {
			return v, nil
		}
		t.Get()
		rhs, err := e.bitwiseAnd(t)
		if err != nil {
			return 0, err
		}
		v ^= rhs
	}
}

func (e *Evaluator) bitwiseAnd(t *token.Tokenizer) (int64, error) {
	v, err := e.equality(t)
	if err != nil {
		return 0, err
	}
	for {
		tok, err := t.Peek()
		if err != nil {
			return 0, err
		}
		if tok.Kind != token.BitwiseAnd {
			return v, nil
		}
		t.Get()
		rhs, err := e.equality(t)
		if err != nil {
			return 0, err
		}
		v &= rhs
	}
}

func (e *Evaluator) equality(t *token.Tokenizer) (int64, error) {
	v, err := e.relational(t)
	if err != nil {
		return 0, err
	}
	for {
		tok, err := t.Peek()
		if err != nil {
			return 0, err
		}
		switch tok.Kind {
		case token.Equal:
			t.Get()
			rhs, err := e.relational(t)
			if err != nil {
				return 0, err
			}
			v = b2i(v == rhs)
		case token.NotEqual:
			t.Get()
			rhs, err := e.relational(t)
			if err != nil {
				return 0, err
			}
			v = b2i(v != rhs)
		default:
			return v, nil
		}
	}
}

func (e *Evaluator) relational(t *token.Tokenizer) (int64, error) {
	v, err := e.shift(t)
	if err != nil {
		return 0, err
	}
	for {
		tok, err := t.Peek()
		if err != nil {
			return 0, err
		}
		switch tok.Kind {
		case token.Less:
			t.Get()
			rhs, err := e.shift(t)
			if err != nil {
				return 0, err
			}
			v = b2i(v < rhs)
		case token.LessOrEqual:
			t.Get()
			rhs, err := e.shift(t)
			if err != nil {
				return 0, err
			}
			v = b2i(v <= rhs)
		case token.Greater:
			t.Get()
			rhs, err := e.shift(t)
			if err != nil {
				return 0, err
			}
			v = b2i(v > rhs)
		case token.GreaterOrEqual:
			t.Get()
			rhs, err := e.shift(t)
			if err != nil {
				return 0, err
			}
			v = b2i(v >= rhs)
		default:
			return v, nil
		}
	}
}

func (e *Evaluator) shift(t *token.Tokenizer) (int64, error) {
	v, err := e.additive(t)
	if err != nil {
		return 0, err
	}
	for {
		tok, err := t.Peek()
		if err != nil {
			return 0, err
		}
		switch tok.Kind {
		case token.ShiftLeft:
			t.Get()
			rhs, err := e.additive(t)
			if err != nil {
				return 0, err
			}
			v <<= uint(rhs & 63)
		case token.ShiftRight:
			t.Get()
			rhs, err := e.additive(t)
			if err != nil {
				return 0, err
			}
			v >>= uint(rhs & 63)
		default:
			return v, nil
		}
	}
}

func (e *Evaluator) additive(t *token.Tokenizer) (int64, error) {
	v, err := e.multiplicative(t)
	if err != nil {
		return 0, err
	}
	for {
		tok, err := t.Peek()
		if err != nil {
			return 0, err
		}
		switch tok.Kind {
		case token.Plus:
			t.Get()
			rhs, err := e.multiplicative(t)
			if err != nil {
				return 0, err
			}
			v += rhs
		case token.Minus:
			t.Get()
			rhs, err := e.multiplicative(t)
			if err != nil {
				return 0, err
			}
			v -= rhs
		default:
			return v, nil
		}
	}
}

func (e *Evaluator) multiplicative(t *token.Tokenizer) (int64, error) {
	v, err := e.unary(t)
	if err != nil {
		return 0, err
	}
	for {
		tok, err := t.Peek()
		if err != nil {
			return 0, err
		}
		switch tok.Kind {
		case token.Multiply:
			t.Get()
			rhs, err := e.unary(t)
			if err != nil {
				return 0, err
			}
			v *= rhs
		case token.Divide:
			t.Get()
			rhs, err := e.unary(t)
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			v /= rhs
		case token.Remainder:
			t.Get()
			rhs, err := e.unary(t)
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			v %= rhs
		default:
			return v, nil
		}
	}
}

func (e *Evaluator) unary(t *token.Tokenizer) (int64, error) {
	tok, err := t.Peek()
	if err != nil {
		return 0, err
	}
	switch tok.Kind {
	case token.Minus:
		t.Get()
		v, err := e.unary(t)
		if err != nil {
			return 0, err
		}
		return -v, nil
	case token.Plus:
		t.Get()
		return e.unary(t)
	case token.BitwiseNot:
		t.Get()
		v, err := e.unary(t)
		if err != nil {
			return 0, err
		}
		return ^v, nil
	case token.LogicalNot:
		t.Get()
		v, err := e.unary(t)
		if err != nil {
			return 0, err
		}
		return b2i(v == 0), nil
	default:
		return e.postfix(t)
	}
}

func (e *Evaluator) postfix(t *token.Tokenizer) (int64, error) {
	v, err := e.atom(t)
	if err != nil {
		return 0, err
	}
	for {
		tok, err := t.Peek()
		if err != nil {
			return 0, err
		}
		if tok.Kind != token.Dot {
			return v, nil
		}
		t.Get()
		sel, err := t.Get()
		if err != nil {
			return 0, err
		}
		if sel.Kind != token.Number {
			return 0, fmt.Errorf("expected byte-select index after '.'")
		}
		v = (v >> uint(8*sel.IntValue)) & 0xff
	}
}

func (e *Evaluator) atom(t *token.Tokenizer) (int64, error) {
	tok, err := t.Get()
	if err != nil {
		return 0, err
	}
	switch tok.Kind {
	case token.Number:
		return tok.IntValue, nil
	case token.Dollar, token.Dot:
		return int64(e.PC), nil
	case token.OpenBrace:
		v, err := e.logicalOr(t)
		if err != nil {
			return 0, err
		}
		closeTok, err := t.Get()
		if err != nil {
			return 0, err
		}
		if closeTok.Kind != token.CloseBrace {
			return 0, fmt.Errorf("expected ')'")
		}
		return v, nil
	case token.Label:
		return e.labelOrFunction(t, tok.StringValue)
	default:
		return 0, fmt.Errorf("unexpected token in expression")
	}
}

func (e *Evaluator) labelOrFunction(t *token.Tokenizer, name string) (int64, error) {
	peeked, err := t.Peek()
	if err != nil {
		return 0, err
	}
	if peeked.Kind != token.OpenBrace {
		return e.symbolValue(name)
	}

	switch name {
	case "HIGH", "LOW":
		args, err := e.functionArgs(t, 1)
		if err != nil {
			return 0, err
		}
		if name == "HIGH" {
			return (args[0] >> 8) & 0xff, nil
		}
		return args[0] & 0xff, nil
	case "ISDEF", "ISNDEF":
		t.Get()
		labelTok, err := t.Get()
		if err != nil {
			return 0, err
		}
		if labelTok.Kind != token.Label {
			return 0, fmt.Errorf("%s requires a label argument", name)
		}
		closeTok, err := t.Get()
		if err != nil {
			return 0, err
		}
		if closeTok.Kind != token.CloseBrace {
			return 0, fmt.Errorf("expected ')'")
		}
		defined := e.isDefined(labelTok.StringValue)
		if name == "ISNDEF" {
			defined = !defined
		}
		return b2i(defined), nil
	case "CPU", "PROCESSOR":
		t.Get()
		argTok, err := t.Get()
		if err != nil {
			return 0, err
		}
		var spec string
		switch argTok.Kind {
		case token.Label:
			spec = argTok.StringValue
		case token.Number:
			spec = strconv.FormatInt(argTok.IntValue, 10)
			if next, err := t.Peek(); err == nil && next.Kind == token.Label {
				t.Get()
				spec += next.StringValue
			}
		default:
			return 0, fmt.Errorf("%s requires a processor name argument", name)
		}
		closeTok, err := t.Get()
		if err != nil {
			return 0, err
		}
		if closeTok.Kind != token.CloseBrace {
			return 0, fmt.Errorf("expected ')'")
		}
		variant, ok := cpuvariant.Parse(spec)
		if !ok {
			return 0, fmt.Errorf("unknown processor %q", spec)
		}
		return b2i(e.Processor >= variant), nil
	default:
		return 0, fmt.Errorf("unknown function %q", name)
	}
}

func (e *Evaluator) functionArgs(t *token.Tokenizer, n int) ([]int64, error) {
	t.Get()
	args := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		v, err := e.logicalOr(t)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		if i < n-1 {
			comma, err := t.Get()
			if err != nil {
				return nil, err
			}
			if comma.Kind != token.Comma {
				return nil, fmt.Errorf("expected ','")
			}
		}
	}
	closeTok, err := t.Get()
	if err != nil {
		return nil, err
	}
	if closeTok.Kind != token.CloseBrace {
		return nil, fmt.Errorf("expected ')'")
	}
	return args, nil
}

// isDefined reports whether name is present in the current-local-then-global
// scope at all, whether or not it has been assigned a value yet: a symbol
// created by a forward reference counts as defined for ISDEF purposes.
func (e *Evaluator) isDefined(name string) bool {
	if e.Local != nil {
		if _, ok := e.Local.Find(name); ok {
			return true
		}
	}
	_, ok := e.Global.Find(name)
	return ok
}

// symbolValue resolves a bare label: local table first, then global,
// incrementing RefCount on whichever symbol satisfies the lookup so
// dead-code elimination can see it was referenced.
func (e *Evaluator) symbolValue(name string) (int64, error) {
	if e.Local != nil {
		if s, ok := e.Local.Find(name); ok {
			s.RefCount++
			if s.Value == nil {
				return 0, fmt.Errorf("symbol %q not yet assigned a value", name)
			}
			return int64(*s.Value), nil
		}
	}
	if s, ok := e.Global.Find(name); ok {
		s.RefCount++
		if s.Value == nil {
			return 0, fmt.Errorf("symbol %q not yet assigned a value", name)
		}
		return int64(*s.Value), nil
	}
	return 0, fmt.Errorf("undefined symbol %q", name)
}
