/*
 * asm1802 - Expression tokenizer
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

// Package token lexes the arithmetic/logical expression grammar shared by
// the assembler and its #if preprocessor directives.
package token

import (
	"errors"
	"strings"
)

// Kind identifies a lexical token class.
type Kind int

const (
	End Kind = iota
	OpenBrace
	CloseBrace
	Label
	Number
	Dot
	Dollar
	Plus
	Minus
	Multiply
	Divide
	Remainder
	ShiftLeft
	ShiftRight
	BitwiseAnd
	BitwiseOr
	BitwiseXor
	BitwiseNot
	LogicalAnd
	LogicalOr
	LogicalNot
	Equal
	NotEqual
	Greater
	GreaterOrEqual
	Less
	LessOrEqual
	Comma
)

// Token is one lexed unit. Number and character-literal tokens populate
// IntValue; Label tokens populate StringValue (already upper-cased).
type Token struct {
	Kind       Kind
	IntValue   int64
	StringValue string
}

// Tokenizer lexes one expression string at a time. Peek does not consume;
// repeated Peek calls without an intervening Get return the same token.
type Tokenizer struct {
	input     string
	pos       int
	peekValid bool
	peeked    Token
}

// New creates a Tokenizer over expr.
func New(expr string) *Tokenizer {
	return &Tokenizer{input: expr}
}

// Reset re-initializes the tokenizer over a new expression, reusing the struct.
func (t *Tokenizer) Reset(expr string) {
	t.input = expr
	t.pos = 0
	t.peekValid = false
}

// Peek returns the next token without consuming it.
func (t *Tokenizer) Peek() (Token, error) {
	if !t.peekValid {
		savedPos := t.pos
		tok, err := t.Get()
		if err != nil {
			t.pos = savedPos
			return Token{}, err
		}
		t.peeked = tok
		t.peekValid = true
	}
	return t.peeked, nil
}

func (t *Tokenizer) eof() bool {
	return t.pos >= len(t.input)
}

func (t *Tokenizer) peekByte() byte {
	if t.eof() {
		return 0
	}
	return t.input[t.pos]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool {
	return isAlpha(c) || isDigit(c)
}

func hexVal(c byte) int64 {
	switch {
	case c >= '0' && c <= '9':
		return int64(c - '0')
	case c >= 'a' && c <= 'f':
		return int64(c-'a') + 10
	default:
		return int64(c-'A') + 10
	}
}

// Get consumes and returns the next token.
func (t *Tokenizer) Get() (Token, error) {
	if t.peekValid {
		t.peekValid = false
		return t.peeked, nil
	}

	for !t.eof() && isSpace(t.peekByte()) {
		t.pos++
	}

	if t.eof() {
		return Token{Kind: End}, nil
	}

	c := t.input[t.pos]
	t.pos++

	switch c {
	case '(':
		return Token{Kind: OpenBrace}, nil
	case ')':
		return Token{Kind: CloseBrace}, nil
	case '.':
		return Token{Kind: Dot}, nil
	case ',':
		return Token{Kind: Comma}, nil
	case '+':
		return Token{Kind: Plus}, nil
	case '-':
		return Token{Kind: Minus}, nil
	case '*':
		return Token{Kind: Multiply}, nil
	case '/':
		return Token{Kind: Divide}, nil
	case '%':
		return Token{Kind: Remainder}, nil
	case '~':
		return Token{Kind: BitwiseNot}, nil
	case '^':
		return Token{Kind: BitwiseXor}, nil
	case '&':
		if t.peekByte() == '&' {
			t.pos++
			return Token{Kind: LogicalAnd}, nil
		}
		return Token{Kind: BitwiseAnd}, nil
	case '|':
		if t.peekByte() == '|' {
			t.pos++
			return Token{Kind: LogicalOr}, nil
		}
		return Token{Kind: BitwiseOr}, nil
	case '=':
		if t.peekByte() == '=' {
			t.pos++
		}
		return Token{Kind: Equal}, nil
	case '!':
		if t.peekByte() == '=' {
			t.pos++
			return Token{Kind: NotEqual}, nil
		}
		return Token{Kind: LogicalNot}, nil
	case '<':
		switch t.peekByte() {
		case '<':
			t.pos++
			return Token{Kind: ShiftLeft}, nil
		case '=':
			t.pos++
			return Token{Kind: LessOrEqual}, nil
		default:
			return Token{Kind: Less}, nil
		}
	case '>':
		switch t.peekByte() {
		case '>':
			t.pos++
			return Token{Kind: ShiftRight}, nil
		case '=':
			t.pos++
			return Token{Kind: GreaterOrEqual}, nil
		default:
			return Token{Kind: Greater}, nil
		}
	case '$':
		if !isHexDigit(t.peekByte()) {
			return Token{Kind: Dollar}, nil
		}
		var v int64
		for !t.eof() && isHexDigit(t.peekByte()) {
			v = (v << 4) + hexVal(t.input[t.pos])
			t.pos++
		}
		return Token{Kind: Number, IntValue: v}, nil
	case '\'':
		return t.charLiteral()
	default:
		switch {
		case isAlpha(c) || c == '_':
			start := t.pos - 1
			for !t.eof() && (isAlnum(t.peekByte()) || t.peekByte() == '_') {
				t.pos++
			}
			return Token{Kind: Label, StringValue: strings.ToUpper(t.input[start:t.pos])}, nil
		case isDigit(c):
			return t.numberLiteral(c)
		default:
			return Token{}, errors.New("unrecognised token in expression")
		}
	}
}

func (t *Tokenizer) numberLiteral(first byte) (Token, error) {
	if first == '0' {
		if t.peekByte() == 'x' || t.peekByte() == 'X' {
			t.pos++
			var v int64
			for !t.eof() && isHexDigit(t.peekByte()) {
				v = (v << 4) + hexVal(t.input[t.pos])
				t.pos++
			}
			return Token{Kind: Number, IntValue: v}, nil
		}
		var v int64
		for !t.eof() && isDigit(t.peekByte()) {
			d := int64(t.input[t.pos] - '0')
			if d > 7 {
				return Token{}, errors.New("invalid digit in octal constant")
			}
			v = (v << 3) + d
			t.pos++
		}
		return Token{Kind: Number, IntValue: v}, nil
	}
	v := int64(first - '0')
	for !t.eof() && isDigit(t.peekByte()) {
		v = v*10 + int64(t.input[t.pos]-'0')
		t.pos++
	}
	return Token{Kind: Number, IntValue: v}, nil
}

func (t *Tokenizer) charLiteral() (Token, error) {
	if t.eof() {
		return Token{}, errors.New("unterminated character constant")
	}
	if t.peekByte() == '\'' {
		return Token{}, errors.New("empty character constant")
	}
	var v int64
	if t.peekByte() == '\\' {
		t.pos++
		if t.eof() {
			return Token{}, errors.New("unterminated character constant")
		}
		esc := t.input[t.pos]
		t.pos++
		if t.eof() {
			return Token{}, errors.New("unterminated character constant")
		}
		if t.input[t.pos] != '\'' {
			return Token{}, errors.New("character constant too long")
		}
		t.pos++
		switch esc {
		case '\'':
			v = 0x27
		case '"':
			v = 0x22
		case '?':
			v = 0x3F
		case '\\':
			v = 0x5C
		case 'a':
			v = 0x07
		case 'b':
			v = 0x08
		case 'f':
			v = 0x0C
		case 'n':
			v = 0x0A
		case 'r':
			v = 0x0D
		case 't':
			v = 0x09
		case 'v':
			v = 0x0B
		default:
			return Token{}, errors.New("unrecognised escape sequence")
		}
	} else {
		v = int64(t.input[t.pos])
		t.pos++
		if t.eof() {
			return Token{}, errors.New("unterminated character constant")
		}
		if t.input[t.pos] != '\'' {
			return Token{}, errors.New("character constant too long")
		}
		t.pos++
	}
	return Token{Kind: Number, IntValue: v}, nil
}
