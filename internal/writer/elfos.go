/*
 * asm1802 - ELF/OS writer
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

// WriteElfOS emits the 6-byte {load, size, exec} big-endian header the
// ELF/OS loader expects, followed by the payload from the lowest segment
// start through the highest segment end, zero-filling any gap between
// segments. Grounded in binarywriter_elfos.cpp.
func WriteElfOS(code *codemap.Map, entry *uint16, out io.Writer) error {
	segs := code.Segments()

	var load uint16 = 0xFFFF
	var end uint16
	have := false
	for _, seg := range segs {
		if len(seg.Bytes) == 0 {
			continue
		}
		have = true
		if seg.Start < load {
			load = seg.Start
		}
		segEnd := seg.Start + uint16(len(seg.Bytes))
		if segEnd > end {
			end = segEnd
		}
	}
	if !have {
		load = 0
	}
	size := end - load

	var exec uint16
	if entry != nil {
		exec = *entry
	}

	header := []byte{
		byte(load >> 8), byte(load),
		byte(size >> 8), byte(size),
		byte(exec >> 8), byte(exec),
	}
	if _, err := out.Write(header); err != nil {
		return err
	}

	next := load
	for _, seg := range segs {
		if len(seg.Bytes) == 0 {
			continue
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
