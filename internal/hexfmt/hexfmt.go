/*
 * asm1802 - Hex digit formatting helpers
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

// Package hexfmt renders addresses and byte slices as upper-case hex digit
// strings without round-tripping through fmt.Sprintf at every call site.
package hexfmt

import "strings"

const hexMap = "0123456789ABCDEF"

// Addr writes a 4-digit hex address, e.g. 0x0100 -> "0100".
func Addr(str *strings.Builder, addr uint16) {
	str.WriteByte(hexMap[(addr>>12)&0xf])
	str.WriteByte(hexMap[(addr>>8)&0xf])
	str.WriteByte(hexMap[(addr>>4)&0xf])
	str.WriteByte(hexMap[addr&0xf])
}

// Byte writes a 2-digit hex byte.
func Byte(str *strings.Builder, b byte) {
	str.WriteByte(hexMap[(b>>4)&0xf])
	str.WriteByte(hexMap[b&0xf])
}

// Bytes writes each byte as a 2-digit hex pair, space-separated when sep is true.
func Bytes(str *strings.Builder, sep bool, data []byte) {
	for i, b := range data {
		if sep && i > 0 {
			str.WriteByte(' ')
		}
		Byte(str, b)
	}
}

// AddrString is a convenience wrapper returning Addr's output as a string.
func AddrString(addr uint16) string {
	var b strings.Builder
	Addr(&b, addr)
	return b.String()
}

// ByteString is a convenience wrapper returning Byte's output as a string.
func ByteString(v byte) string {
	var b strings.Builder
	Byte(&b, v)
	return b.String()
}
