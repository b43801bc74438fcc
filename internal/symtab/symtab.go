/*
 * asm1802 - Symbol table model
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

// Package symtab holds the global symbol table and the per-subroutine local
// tables, plus the macro definitions that are scoped alongside them.
package symtab

// Symbol is one assembly-time name binding. Value is nil until the symbol
// has been assigned an address or EQU'd value; RefCount tracks how many
// times the expression evaluator has resolved it, used by dead-code
// elimination to decide whether a subroutine is reachable.
type Symbol struct {
	Value           *uint16
	HideFromListing bool
	RefCount        uint32
}

// MacroDef is a stored macro definition: its formal parameter names and its
// raw, unexpanded body text.
type MacroDef struct {
	Params []string
	Body   string
}

// Table is either the global symbol table or one subroutine's local table.
// Name is empty for the global table. IsStatic subroutines are never
// dead-code eliminated.
type Table struct {
	Name     string
	CodeSize uint16
	IsStatic bool
	Symbols  map[string]*Symbol
	Macros   map[string]*MacroDef
}

// New creates an empty table.
func New(name string) *Table {
	return &Table{
		Name:    name,
		Symbols: make(map[string]*Symbol),
		Macros:  make(map[string]*MacroDef),
	}
}

// Lookup returns the named symbol, creating it unset if it does not exist.
func (t *Table) Lookup(name string) *Symbol {
	s, ok := t.Symbols[name]
	if !ok {
		s = &Symbol{}
		t.Symbols[name] = s
	}
	return s
}

// Find returns the named symbol without creating it.
func (t *Table) Find(name string) (*Symbol, bool) {
	s, ok := t.Symbols[name]
	return s, ok
}

// Define sets name to value, creating the symbol if necessary. Returns the
// symbol so callers can further mark HideFromListing.
func (t *Table) Define(name string, value uint16) *Symbol {
	s := t.Lookup(name)
	v := value
	s.Value = &v
	return s
}

// DefineMacro records a macro definition, replacing any prior one.
func (t *Table) DefineMacro(name string, def *MacroDef) {
	t.Macros[name] = def
}

// FindMacro returns the named macro definition.
func (t *Table) FindMacro(name string) (*MacroDef, bool) {
	m, ok := t.Macros[name]
	return m, ok
}
