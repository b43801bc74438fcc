/*
 * asm1802 - Instruction encoder
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

	"github.com/Mark-Clegg/asm1802-sub000/internal/eval"
	"github.com/Mark-Clegg/asm1802-sub000/internal/opcode"
)

// encodeInstruction produces the 1-4 byte encoding of one non-pseudo
// opcode form, per spec §4.7's table. ev carries the current scope and PC;
// the PC it holds is the address of the instruction's first byte.
func encodeInstruction(mnemonic string, spec opcode.Spec, operands []string, ev *eval.Evaluator) ([]byte, error) {
	switch spec.Form {
	case opcode.Basic:
		return []byte{spec.Opcode}, nil

	case opcode.Register:
		r, err := evalOperand(ev, operands, 0, "register")
		if err != nil {
			return nil, err
		}
		lo, hi := 0, 15
		if mnemonic == "LDN" {
			lo = 1 // LDN R0 overlaps IDL's opcode.
		}
		if r < int64(lo) || r > int64(hi) {
			return nil, fmt.Errorf("register %d out of range %d..%d for %s", r, lo, hi, mnemonic)
		}
		return []byte{spec.Opcode | byte(r&0xF)}, nil

	case opcode.Immediate:
		b, err := evalImmediateByte(ev, operands)
		if err != nil {
			return nil, err
		}
		return []byte{spec.Opcode, b}, nil

	case opcode.ShortBranch:
		addr, err := evalAddress(ev, operands)
		if err != nil {
			return nil, err
		}
		if (int(ev.PC)+1)&0xFF00 != int(addr)&0xFF00 {
			return nil, fmt.Errorf("short branch target %04X out of page for %s", addr, mnemonic)
		}
		return []byte{spec.Opcode, byte(addr & 0xFF)}, nil

	case opcode.LongBranch:
		addr, err := evalAddress(ev, operands)
		if err != nil {
			return nil, err
		}
		return []byte{spec.Opcode, byte(addr >> 8), byte(addr & 0xFF)}, nil

	case opcode.Io:
		port, err := evalOperand(ev, operands, 0, "port")
		if err != nil {
			return nil, err
		}
		if port < 1 || port > 7 {
			return nil, fmt.Errorf("I/O port %d out of range 1..7 for %s", port, mnemonic)
		}
		return []byte{spec.Opcode | byte(port&0xF)}, nil

	case opcode.Extended:
		return []byte{opcode.ExtendedPrefix, spec.Opcode}, nil

	case opcode.ExtendedRegister:
		r, err := evalOperand(ev, operands, 0, "register")
		if err != nil {
			return nil, err
		}
		if r < 0 || r > 15 {
			return nil, fmt.Errorf("register %d out of range 0..15 for %s", r, mnemonic)
		}
		return []byte{opcode.ExtendedPrefix, spec.Opcode | byte(r&0xF)}, nil

	case opcode.ExtendedImmediate:
		b, err := evalImmediateByte(ev, operands)
		if err != nil {
			return nil, err
		}
		return []byte{opcode.ExtendedPrefix, spec.Opcode, b}, nil

	case opcode.ExtendedShortBranch:
		addr, err := evalAddress(ev, operands)
		if err != nil {
			return nil, err
		}
		if (int(ev.PC)+2)&0xFF00 != int(addr)&0xFF00 {
			return nil, fmt.Errorf("short branch target %04X out of page for %s", addr, mnemonic)
		}
		return []byte{opcode.ExtendedPrefix, spec.Opcode, byte(addr & 0xFF)}, nil

	case opcode.ExtendedRegisterImm16:
		r, err := evalOperand(ev, operands, 0, "register")
		if err != nil {
			return nil, err
		}
		if r < 0 || r > 15 {
			return nil, fmt.Errorf("register %d out of range 0..15 for %s", r, mnemonic)
		}
		addr, err := evalAddress16(ev, operands, 1)
		if err != nil {
			return nil, err
		}
		return []byte{opcode.ExtendedPrefix, spec.Opcode | byte(r&0xF), byte(addr >> 8), byte(addr & 0xFF)}, nil

	default:
		return nil, fmt.Errorf("unsupported encoding form for %s", mnemonic)
	}
}

func evalOperand(ev *eval.Evaluator, operands []string, idx int, what string) (int64, error) {
	if idx >= len(operands) {
		return 0, fmt.Errorf("missing %s operand", what)
	}
	return ev.Eval(operands[idx])
}

// evalImmediateByte evaluates operand 0 and narrows it to a byte, accepting
// the signed range -128..255 as well as its 16-bit sign-extended spelling
// 0xFF80..0xFFFF.
func evalImmediateByte(ev *eval.Evaluator, operands []string) (byte, error) {
	v, err := evalOperand(ev, operands, 0, "immediate")
	if err != nil {
		return 0, err
	}
	switch {
	case v >= -128 && v <= 255:
		return byte(v & 0xFF), nil
	case v >= 0xFF80 && v <= 0xFFFF:
		return byte(v & 0xFF), nil
	default:
		return 0, fmt.Errorf("immediate value %d out of range", v)
	}
}

func evalAddress(ev *eval.Evaluator, operands []string) (uint16, error) {
	return evalAddress16(ev, operands, 0)
}

func evalAddress16(ev *eval.Evaluator, operands []string, idx int) (uint16, error) {
	v, err := evalOperand(ev, operands, idx, "address")
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 0xFFFF {
		return 0, fmt.Errorf("address %d out of range 0..0xFFFF", v)
	}
	return uint16(v), nil
}
