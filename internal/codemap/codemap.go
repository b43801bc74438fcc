/*
 * asm1802 - Ordered code segment map
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

// Package codemap holds the assembler's output as an ordered set of
// non-overlapping byte segments, each keyed by its starting address.
package codemap

import "sort"

// Segment is one contiguous run of emitted bytes.
type Segment struct {
	Start uint16
	Bytes []byte
}

// Overlap describes two segments whose address ranges intersect.
type Overlap struct {
	A, B Segment
}

// Map is the ordered segment set. A new segment is created by StartSegment;
// Append extends the most recently started segment.
type Map struct {
	segments []*Segment
	current  *Segment
}

// New creates an empty Map.
func New() *Map {
	return &Map{}
}

// StartSegment opens a fresh segment at addr. Subsequent Append calls extend
// it until the next StartSegment.
func (m *Map) StartSegment(addr uint16) {
	s := &Segment{Start: addr}
	m.segments = append(m.segments, s)
	m.current = s
}

// Append writes b to the current segment, opening one at pc if none is open.
func (m *Map) Append(pc uint16, b []byte) {
	if m.current == nil {
		m.StartSegment(pc)
	}
	m.current.Bytes = append(m.current.Bytes, b...)
}

// Break closes the current segment without starting a new one, so the next
// Append opens a fresh segment instead of silently extending the last one.
// Used after ORG, an un-padded ALIGN, and reserve pseudo-ops, which leave
// genuine holes rather than zero-filled gaps.
func (m *Map) Break() {
	m.current = nil
}

// Segments returns the segments in ascending start-address order.
func (m *Map) Segments() []Segment {
	out := make([]Segment, len(m.segments))
	for i, s := range m.segments {
		out[i] = *s
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// Reset discards all segments, used when a DCE restart replays pass 3.
func (m *Map) Reset() {
	m.segments = nil
	m.current = nil
}

// Overlaps reports every pair of segments whose address ranges intersect.
func (m *Map) Overlaps() []Overlap {
	segs := m.Segments()
	var overlaps []Overlap
	for i := 0; i < len(segs); i++ {
		aEnd := int(segs[i].Start) + len(segs[i].Bytes)
		for j := i + 1; j < len(segs); j++ {
			if int(segs[j].Start) >= aEnd {
				break
			}
			overlaps = append(overlaps, Overlap{A: segs[i], B: segs[j]})
		}
	}
	return overlaps
}
