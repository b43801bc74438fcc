/*
 * asm1802 - CPU variant ordering
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

// Package cpuvariant defines the RCA 1802 family variants and their total
// order, used to gate instructions by minimum required CPU.
package cpuvariant

// Variant identifies one member of the 1802/1806/1806A family. The
// underlying values are ordered so Variant comparison is a superset check.
type Variant int

const (
	CPU1802 Variant = iota
	CPU1806
	CPU1806A
)

func (v Variant) String() string {
	switch v {
	case CPU1802:
		return "1802"
	case CPU1806:
		return "1806"
	case CPU1806A:
		return "1806A"
	default:
		return "unknown"
	}
}

// names maps every spelling accepted on a #processor directive or a
// CPU()/PROCESSOR() expression call to its Variant. Bare and CDP-prefixed
// forms of 1804/1805/1806 alias to CPU1806; their "A" suffixed forms alias
// to CPU1806A, matching OpCodeTable::CPUTable in the original implementation.
var names = map[string]Variant{
	"1802":     CPU1802,
	"1804":     CPU1806,
	"1805":     CPU1806,
	"1806":     CPU1806,
	"1804A":    CPU1806A,
	"1805A":    CPU1806A,
	"1806A":    CPU1806A,
	"CDP1802":  CPU1802,
	"CDP1804":  CPU1806,
	"CDP1805":  CPU1806,
	"CDP1806":  CPU1806,
	"CDP1804A": CPU1806A,
	"CDP1805A": CPU1806A,
	"CDP1806A": CPU1806A,
}

// Parse resolves a processor designation (case-sensitive, already upper-cased
// by the caller) to its Variant.
func Parse(name string) (Variant, bool) {
	v, ok := names[name]
	return v, ok
}
