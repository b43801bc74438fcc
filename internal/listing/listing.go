/*
 * asm1802 - Listing event stream
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

// Package listing defines the structured per-line event stream the pass
// driver emits, consumed by an external listing-file writer.
package listing

// Event is one processed source line.
type Event struct {
	File       string
	FileLine   int
	StreamName string
	StreamLine int
	Text       string
	InMacro    bool
	PC         *uint16
	Bytes      []byte
}

// Sink receives listing events as they are produced.
type Sink interface {
	Emit(Event)
}

// Buffer is an in-memory Sink that records events in order, with Reset for
// the dead-code-elimination restart, which discards everything buffered so
// far and replays from a clean pass 1.
type Buffer struct {
	events []Event
}

// NewBuffer creates an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Emit appends e to the buffer.
func (b *Buffer) Emit(e Event) {
	b.events = append(b.events, e)
}

// Events returns the buffered events in emission order.
func (b *Buffer) Events() []Event {
	return b.events
}

// Reset discards all buffered events.
func (b *Buffer) Reset() {
	b.events = nil
}

// SymbolEntry is one row of an end-of-run symbol table dump.
type SymbolEntry struct {
	Scope string
	Name  string
	Value *uint16
}
