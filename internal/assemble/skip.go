/*
 * asm1802 - Subroutine-skip micro-parser
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
	"strings"

	"github.com/Mark-Clegg/asm1802-sub000/internal/lineparse"
	"github.com/Mark-Clegg/asm1802-sub000/internal/sourcereader"
)

// skipSubroutineBody fast-forwards src past a SUB body dropped by dead-code
// elimination, honoring "#line" markers so error locations stay truthful but
// never evaluating expressions or touching the program counter, per spec
// §4.6. It stops having consumed the matching ENDSUB line.
func skipSubroutineBody(src LineSource) {
	for {
		raw, ok := src.NextLine()
		if !ok {
			return
		}
		if file, n, ok := sourcereader.ParseLineMarker(raw); ok {
			src.SetLineMarker(file, n)
			continue
		}
		stripped := lineparse.StripComment(raw)
		line := lineparse.Split(stripped)
		if strings.EqualFold(line.Mnemonic, "ENDSUB") {
			return
		}
	}
}
