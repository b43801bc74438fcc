/*
 * asm1802 - Opcode catalog
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

// Package opcode holds the mnemonic table for the 1802/1806/1806A family:
// every instruction's encoding byte(s), addressing form and minimum CPU
// variant, plus the pseudo-operation names the assembler dispatches on.
package opcode

import "github.com/Mark-Clegg/asm1802-sub000/internal/cpuvariant"

// Form identifies how an instruction's operand(s) are encoded.
type Form int

const (
	Basic Form = iota
	Register
	Immediate
	ShortBranch
	LongBranch
	Io
	Extended
	ExtendedRegister
	ExtendedImmediate
	ExtendedShortBranch
	ExtendedRegisterImm16
	PseudoOp
)

// Length returns the instruction byte count for a Form, matching
// OpCodeTable::OpCodeBytes.
func (f Form) Length() int {
	switch f {
	case Basic, Register, Io:
		return 1
	case Immediate, ShortBranch, Extended, ExtendedRegister:
		return 2
	case LongBranch, ExtendedImmediate, ExtendedShortBranch:
		return 3
	case ExtendedRegisterImm16:
		return 4
	default:
		return 0
	}
}

// Pseudo identifies a pseudo-operation, dispatched directly by the pass
// driver rather than encoded as instruction bytes.
type Pseudo int

const (
	NotPseudo Pseudo = iota
	Equ
	Sub
	EndSub
	Org
	Db
	Dw
	Dl
	Dq
	Rb
	Rw
	Rl
	Rq
	Processor
	Align
	Assert
	Macro
	EndMacro
	End
)

// Spec describes one mnemonic's encoding.
type Spec struct {
	// Opcode is the instruction's opcode byte. For the 16-bit 1806/1806A
	// extended encodings this is the second byte following the 0x68
	// prefix; Extended-family forms always emit 0x68 first.
	Opcode byte
	Form   Form
	MinCPU cpuvariant.Variant
	// PseudoOp is set when Form == PseudoOp.
	PseudoOp Pseudo
}

// ExtendedPrefix is the lead-in byte for every 1806/1806A EXTENDED* form.
const ExtendedPrefix = 0x68

// Table maps every mnemonic, and every alias of it, to its Spec.
var Table = map[string]Spec{
	"IDL": {0x00, Basic, cpuvariant.CPU1802, NotPseudo},
	"LDN": {0x00, Register, cpuvariant.CPU1802, NotPseudo},
	"INC": {0x10, Register, cpuvariant.CPU1802, NotPseudo},
	"DEC": {0x20, Register, cpuvariant.CPU1802, NotPseudo},

	"BR":  {0x30, ShortBranch, cpuvariant.CPU1802, NotPseudo},
	"BQ":  {0x31, ShortBranch, cpuvariant.CPU1802, NotPseudo},
	"BZ":  {0x32, ShortBranch, cpuvariant.CPU1802, NotPseudo},
	"BDF": {0x33, ShortBranch, cpuvariant.CPU1802, NotPseudo},
	"BPZ": {0x33, ShortBranch, cpuvariant.CPU1802, NotPseudo},
	"BGE": {0x33, ShortBranch, cpuvariant.CPU1802, NotPseudo},
	"B1":  {0x34, ShortBranch, cpuvariant.CPU1802, NotPseudo},
	"B2":  {0x35, ShortBranch, cpuvariant.CPU1802, NotPseudo},
	"B3":  {0x36, ShortBranch, cpuvariant.CPU1802, NotPseudo},
	"B4":  {0x37, ShortBranch, cpuvariant.CPU1802, NotPseudo},
	"NBR": {0x38, Basic, cpuvariant.CPU1802, NotPseudo},
	"SKP": {0x38, Basic, cpuvariant.CPU1802, NotPseudo},
	"BNQ": {0x39, ShortBranch, cpuvariant.CPU1802, NotPseudo},
	"BNZ": {0x3A, ShortBranch, cpuvariant.CPU1802, NotPseudo},
	"BNF": {0x3B, ShortBranch, cpuvariant.CPU1802, NotPseudo},
	"BM":  {0x3B, ShortBranch, cpuvariant.CPU1802, NotPseudo},
	"BL":  {0x3B, ShortBranch, cpuvariant.CPU1802, NotPseudo},
	"BN1": {0x3C, ShortBranch, cpuvariant.CPU1802, NotPseudo},
	"BN2": {0x3D, ShortBranch, cpuvariant.CPU1802, NotPseudo},
	"BN3": {0x3E, ShortBranch, cpuvariant.CPU1802, NotPseudo},
	"BN4": {0x3F, ShortBranch, cpuvariant.CPU1802, NotPseudo},

	"LDA": {0x40, Register, cpuvariant.CPU1802, NotPseudo},
	"STR": {0x50, Register, cpuvariant.CPU1802, NotPseudo},
	"IRX": {0x60, Basic, cpuvariant.CPU1802, NotPseudo},
	"OUT": {0x60, Io, cpuvariant.CPU1802, NotPseudo},
	"INP": {0x68, Io, cpuvariant.CPU1802, NotPseudo},

	"RET":  {0x70, Basic, cpuvariant.CPU1802, NotPseudo},
	"DIS":  {0x71, Basic, cpuvariant.CPU1802, NotPseudo},
	"LDXA": {0x72, Basic, cpuvariant.CPU1802, NotPseudo},
	"STXD": {0x73, Basic, cpuvariant.CPU1802, NotPseudo},
	"ADC":  {0x74, Basic, cpuvariant.CPU1802, NotPseudo},
	"SDB":  {0x75, Basic, cpuvariant.CPU1802, NotPseudo},
	"SHRC": {0x76, Basic, cpuvariant.CPU1802, NotPseudo},
	"RSHR": {0x76, Basic, cpuvariant.CPU1802, NotPseudo},
	"SMB":  {0x77, Basic, cpuvariant.CPU1802, NotPseudo},
	"SAV":  {0x78, Basic, cpuvariant.CPU1802, NotPseudo},
	"MARK": {0x79, Basic, cpuvariant.CPU1802, NotPseudo},
	"REQ":  {0x7A, Basic, cpuvariant.CPU1802, NotPseudo},
	"SEQ":  {0x7B, Basic, cpuvariant.CPU1802, NotPseudo},
	"ADCI": {0x7C, Immediate, cpuvariant.CPU1802, NotPseudo},
	"SDBI": {0x7D, Immediate, cpuvariant.CPU1802, NotPseudo},
	"SHLC": {0x7E, Basic, cpuvariant.CPU1802, NotPseudo},
	"RSHL": {0x7E, Basic, cpuvariant.CPU1802, NotPseudo},
	"SMBI": {0x7F, Immediate, cpuvariant.CPU1802, NotPseudo},

	"GLO": {0x80, Register, cpuvariant.CPU1802, NotPseudo},
	"GHI": {0x90, Register, cpuvariant.CPU1802, NotPseudo},
	"PLO": {0xA0, Register, cpuvariant.CPU1802, NotPseudo},
	"PHI": {0xB0, Register, cpuvariant.CPU1802, NotPseudo},

	"LBR":  {0xC0, LongBranch, cpuvariant.CPU1802, NotPseudo},
	"LBQ":  {0xC1, LongBranch, cpuvariant.CPU1802, NotPseudo},
	"LBZ":  {0xC2, LongBranch, cpuvariant.CPU1802, NotPseudo},
	"LBDF": {0xC3, LongBranch, cpuvariant.CPU1802, NotPseudo},
	"NOP":  {0xC4, Basic, cpuvariant.CPU1802, NotPseudo},
	"LSNQ": {0xC5, Basic, cpuvariant.CPU1802, NotPseudo},
	"LSNZ": {0xC6, Basic, cpuvariant.CPU1802, NotPseudo},
	"LSNF": {0xC7, Basic, cpuvariant.CPU1802, NotPseudo},
	"LSKP": {0xC8, Basic, cpuvariant.CPU1802, NotPseudo},
	"NLBR": {0xC9, Basic, cpuvariant.CPU1802, NotPseudo},
	"LBNQ": {0xC9, LongBranch, cpuvariant.CPU1802, NotPseudo},
	"LBNZ": {0xCA, LongBranch, cpuvariant.CPU1802, NotPseudo},
	"LBNF": {0xCB, LongBranch, cpuvariant.CPU1802, NotPseudo},
	"LSIE": {0xCC, Basic, cpuvariant.CPU1802, NotPseudo},
	"LSQ":  {0xCD, Basic, cpuvariant.CPU1802, NotPseudo},
	"LSZ":  {0xCE, Basic, cpuvariant.CPU1802, NotPseudo},
	"LSDF": {0xCF, Basic, cpuvariant.CPU1802, NotPseudo},

	"SEP": {0xD0, Register, cpuvariant.CPU1802, NotPseudo},
	"SEX": {0xE0, Register, cpuvariant.CPU1802, NotPseudo},

	"LDX": {0xF0, Basic, cpuvariant.CPU1802, NotPseudo},
	"OR":  {0xF1, Basic, cpuvariant.CPU1802, NotPseudo},
	"AND": {0xF2, Basic, cpuvariant.CPU1802, NotPseudo},
	"XOR": {0xF3, Basic, cpuvariant.CPU1802, NotPseudo},
	"ADD": {0xF4, Basic, cpuvariant.CPU1802, NotPseudo},
	"SD":  {0xF5, Basic, cpuvariant.CPU1802, NotPseudo},
	"SHR": {0xF6, Basic, cpuvariant.CPU1802, NotPseudo},
	"SM":  {0xF7, Basic, cpuvariant.CPU1802, NotPseudo},
	"LDI": {0xF8, Immediate, cpuvariant.CPU1802, NotPseudo},
	"ORI": {0xF9, Immediate, cpuvariant.CPU1802, NotPseudo},
	"ANI": {0xFA, Immediate, cpuvariant.CPU1802, NotPseudo},
	"XRI": {0xFB, Immediate, cpuvariant.CPU1802, NotPseudo},
	"ADI": {0xFC, Immediate, cpuvariant.CPU1802, NotPseudo},
	"SDI": {0xFD, Immediate, cpuvariant.CPU1802, NotPseudo},
	"SHL": {0xFE, Basic, cpuvariant.CPU1802, NotPseudo},
	"SMI": {0xFF, Immediate, cpuvariant.CPU1802, NotPseudo},

	// 1806 additions. Opcode holds the second byte; the driver always
	// emits ExtendedPrefix (0x68) first for every EXTENDED* form.
	"STPC": {0x00, Extended, cpuvariant.CPU1806, NotPseudo},
	"DTC":  {0x01, Extended, cpuvariant.CPU1806, NotPseudo},
	"SPM2": {0x02, Extended, cpuvariant.CPU1806, NotPseudo},
	"SCM2": {0x03, Extended, cpuvariant.CPU1806, NotPseudo},
	"SPM1": {0x04, Extended, cpuvariant.CPU1806, NotPseudo},
	"SCM1": {0x05, Extended, cpuvariant.CPU1806, NotPseudo},
	"LDC":  {0x06, Extended, cpuvariant.CPU1806, NotPseudo},
	"STM":  {0x07, Extended, cpuvariant.CPU1806, NotPseudo},
	"GEC":  {0x08, Extended, cpuvariant.CPU1806, NotPseudo},
	"GEX":  {0x08, Extended, cpuvariant.CPU1806, NotPseudo},
	"ETQ":  {0x09, Extended, cpuvariant.CPU1806, NotPseudo},
	"XIE":  {0x0A, Extended, cpuvariant.CPU1806, NotPseudo},
	"XID":  {0x0B, Extended, cpuvariant.CPU1806, NotPseudo},
	"CIE":  {0x0C, Extended, cpuvariant.CPU1806, NotPseudo},
	"CID":  {0x0D, Extended, cpuvariant.CPU1806, NotPseudo},
	"BCI":  {0x3E, ExtendedShortBranch, cpuvariant.CPU1806, NotPseudo},
	"BXI":  {0x3F, ExtendedShortBranch, cpuvariant.CPU1806, NotPseudo},
	"RLXA": {0x60, ExtendedRegister, cpuvariant.CPU1806, NotPseudo},
	"SCAL": {0x80, ExtendedRegisterImm16, cpuvariant.CPU1806, NotPseudo},
	"SRET": {0x90, ExtendedRegister, cpuvariant.CPU1806, NotPseudo},
	"RSXD": {0xA0, ExtendedRegister, cpuvariant.CPU1806, NotPseudo},
	"RNX":  {0xB0, ExtendedRegister, cpuvariant.CPU1806, NotPseudo},
	"RLDI": {0xC0, ExtendedRegisterImm16, cpuvariant.CPU1806, NotPseudo},

	// 1806A additions.
	"DBNZ": {0x20, ExtendedRegisterImm16, cpuvariant.CPU1806A, NotPseudo},
	"DADC": {0x74, Extended, cpuvariant.CPU1806A, NotPseudo},
	"DSAV": {0x76, Extended, cpuvariant.CPU1806A, NotPseudo},
	"DSMB": {0x77, Extended, cpuvariant.CPU1806A, NotPseudo},
	"DACI": {0x7C, ExtendedImmediate, cpuvariant.CPU1806A, NotPseudo},
	"DSBI": {0x7F, ExtendedImmediate, cpuvariant.CPU1806A, NotPseudo},
	"DADD": {0xF4, Extended, cpuvariant.CPU1806A, NotPseudo},
	"DSM":  {0xF7, Extended, cpuvariant.CPU1806A, NotPseudo},
	"DADI": {0xFC, ExtendedImmediate, cpuvariant.CPU1806A, NotPseudo},
	"DSMI": {0xFF, ExtendedImmediate, cpuvariant.CPU1806A, NotPseudo},

	// Pseudo-operations.
	"EQU":        {0, PseudoOp, cpuvariant.CPU1802, Equ},
	"SUB":        {0, PseudoOp, cpuvariant.CPU1802, Sub},
	"SUBROUTINE": {0, PseudoOp, cpuvariant.CPU1802, Sub},
	"ENDSUB":     {0, PseudoOp, cpuvariant.CPU1802, EndSub},
	"ORG":        {0, PseudoOp, cpuvariant.CPU1802, Org},
	"DB":         {0, PseudoOp, cpuvariant.CPU1802, Db},
	"DW":         {0, PseudoOp, cpuvariant.CPU1802, Dw},
	"DL":         {0, PseudoOp, cpuvariant.CPU1802, Dl},
	"DQ":         {0, PseudoOp, cpuvariant.CPU1802, Dq},
	"RB":         {0, PseudoOp, cpuvariant.CPU1802, Rb},
	"RW":         {0, PseudoOp, cpuvariant.CPU1802, Rw},
	"RL":         {0, PseudoOp, cpuvariant.CPU1802, Rl},
	"RQ":         {0, PseudoOp, cpuvariant.CPU1802, Rq},
	"CPU":        {0, PseudoOp, cpuvariant.CPU1802, Processor},
	"PROCESSOR":  {0, PseudoOp, cpuvariant.CPU1802, Processor},
	"ALIGN":      {0, PseudoOp, cpuvariant.CPU1802, Align},
	"ASSERT":     {0, PseudoOp, cpuvariant.CPU1802, Assert},
	"MACRO":      {0, PseudoOp, cpuvariant.CPU1802, Macro},
	"ENDMACRO":   {0, PseudoOp, cpuvariant.CPU1802, EndMacro},
	"ENDM":       {0, PseudoOp, cpuvariant.CPU1802, EndMacro},
	"END":        {0, PseudoOp, cpuvariant.CPU1802, End},
}

// Lookup returns the Spec for an upper-cased mnemonic.
func Lookup(mnemonic string) (Spec, bool) {
	s, ok := Table[mnemonic]
	return s, ok
}

// IsReserved reports whether name names an opcode or pseudo-op and so
// cannot be used as a macro name or macro parameter.
func IsReserved(name string) bool {
	_, ok := Table[name]
	return ok
}
