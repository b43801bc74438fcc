/*
 * asm1802 - Idiot/4 writer
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

// WriteIdiot4 emits one "!M<AAAA> BB BB …" line per 16-byte (or shorter)
// chunk of each segment. entry is accepted for interface symmetry with the
// other writers but ignored: the Idiot/4 loader format carries no start
// address. Grounded in binarywriter_idiot4.cpp.
func WriteIdiot4(code *codemap.Map, entry *uint16, out io.Writer) error {
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

			var line strings.Builder
			line.WriteString("!M")
			hexfmt.Addr(&line, addr)
			line.WriteByte(' ')
			hexfmt.Bytes(&line, true, chunk)
			if _, err := fmt.Fprintln(out, line.String()); err != nil {
				return err
			}
		}
	}
	return nil
}
