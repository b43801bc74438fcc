/*
 * asm1802 - Intel HEX writer
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

package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/Mark-Clegg/asm1802-sub000/internal/codemap"
	"github.com/Mark-Clegg/asm1802-sub000/internal/hexfmt"
)

// WriteIntelHex emits type-00 data records of at most 16 bytes each, a
// type-03 plus type-05 start-address record pair when entry is non-nil,
// and the final ":00000001FF" end record. Grounded in
// binarywriter_intelhex.cpp's BinaryWriter_IntelHex::Write.
func WriteIntelHex(code *codemap.Map, entry *uint16, out io.Writer) error {
	for _, seg := range code.Segments() {
		if len(seg.Bytes) == 0 {
			continue
		}
		for off := 0; off < len(seg.Bytes); off += 16 {
			end := off + 16
			if end > len(seg.Bytes) {
				end = len(seg.Bytes)
			}
			chunk := seg.Bytes[off:end]
			addr := seg.Start + uint16(off)
			record := append([]byte{byte(len(chunk)), byte(addr >> 8), byte(addr)}, 0)
			record = append(record, chunk...)
			if err := writeHexRecord(out, record); err != nil {
				return err
			}
		}
	}

	if entry != nil {
		type3 := []byte{4, 0, 0, 3, 0, 0, byte(*entry >> 8), byte(*entry)}
		if err := writeHexRecord(out, type3); err != nil {
			return err
		}
		type5 := []byte{4, 0, 0, 5, 0, 0, byte(*entry >> 8), byte(*entry)}
		if err := writeHexRecord(out, type5); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(out, ":00000001FF")
	return err
}

func writeHexRecord(out io.Writer, record []byte) error {
	sum := 0
	for _, b := range record {
		sum += int(b)
	}
	checksum := byte((-sum) & 0xFF)

	var line strings.Builder
	line.WriteByte(':')
	hexfmt.Bytes(&line, false, record)
	hexfmt.Byte(&line, checksum)
	_, err := fmt.Fprintln(out, line.String())
	return err
}
