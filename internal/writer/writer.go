/*
 * asm1802 - Output binary writers
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

// Package writer serializes an assembled internal/codemap.Map to one of the
// four output formats the original BinaryWriter subclasses implement:
// Intel HEX, Idiot/4, ELF/OS and raw binary.
package writer

import (
	"fmt"
	"io"

	"github.com/Mark-Clegg/asm1802-sub000/internal/codemap"
)

// Format selects which of the four writers Write dispatches to.
type Format int

const (
	IntelHex Format = iota
	Idiot4
	ElfOS
	Binary
)

// Names maps each CLI spelling accepted by -f/--format to its Format.
var Names = map[string]Format{
	"hex":    IntelHex,
	"idiot4": Idiot4,
	"elfos":  ElfOS,
	"bin":    Binary,
}

// Write serializes code in the given format, writing an entry-point record
// where the format supports one.
func Write(format Format, code *codemap.Map, entry *uint16, out io.Writer) error {
	switch format {
	case IntelHex:
		return WriteIntelHex(code, entry, out)
	case Idiot4:
		return WriteIdiot4(code, entry, out)
	case ElfOS:
		return WriteElfOS(code, entry, out)
	case Binary:
		return WriteBinary(code, entry, out)
	default:
		return fmt.Errorf("unknown output format %d", format)
	}
}
