/*
 * asm1802 - End-of-run diagnostics
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

	"github.com/Mark-Clegg/asm1802-sub000/internal/asmerr"
)

// endOfRunChecks records the warnings that only make sense once a pass 3
// has completed with zero errors: a missing entry point, and any pair of
// code segments whose address ranges overlap.
func endOfRunChecks(st *state, log *asmerr.Log) {
	if !st.EntrySeen {
		log.Add(asmerr.Diagnostic{
			Message:  "END was never reached; no entry point recorded",
			Severity: asmerr.Warning,
		})
	} else if st.EntryPoint == nil {
		log.Add(asmerr.Diagnostic{
			Message:  "END has no entry point operand",
			Severity: asmerr.Warning,
		})
	}

	for _, ov := range st.Code.Overlaps() {
		log.Add(asmerr.Diagnostic{
			Message: fmt.Sprintf("code segment at 0x%04X overlaps segment at 0x%04X",
				ov.A.Start, ov.B.Start),
			Severity: asmerr.Warning,
		})
	}
}
