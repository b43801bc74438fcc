/*
 * asm1802 - Raw binary writer
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
	"io"

	"github.com/Mark-Clegg/asm1802-sub000/internal/codemap"
)

// WriteBinary emits the segments concatenated in address order with no
// header, zero-filling any gap between one segment's end and the next
// segment's start relative to the first non-empty segment. entry is
// accepted for interface symmetry but unused: raw binary carries no start
// address. Grounded in binarywriter_binary.cpp.
func WriteBinary(code *codemap.Map, entry *uint16, out io.Writer) error {
	var next uint16
	first := true

	for _, seg := range code.Segments() {
		if len(seg.Bytes) == 0 {
			continue
		}
		if first {
			next = seg.Start
			first = false
		}
		if seg.Start > next {
			if _, err := out.Write(make([]byte, seg.Start-next)); err != nil {
				return err
			}
		}
		if _, err := out.Write(seg.Bytes); err != nil {
			return err
		}
		next = seg.Start + uint16(len(seg.Bytes))
	}
	return nil
}
