// Package equ implements the `.equ` dependency-tracked expression
// sub-language: capturing a signed linear combination of literals and
// symbols at definition time, then resolving it against the symbol table
// once the single pass over the source completes.
package equ

import "github.com/Manu343726/asm16/pkg/asm16/symtab"

// Term is one signed symbol reference inside an `.equ` expression that could
// not be folded at capture time, either because the symbol was not yet
// defined or because it is itself another `.equ`.
type Term struct {
	Symbol int
	Sign   symtab.Sign
}

// Entry is one `.equ` definition: a running value, a classification of
// which sections (or none) its already-folded terms belong to, and the
// still-unresolved terms.
type Entry struct {
	SymbolNumber int
	Value        int16
	ClassTable   map[int]int
	Pending      []Term
	Resolved     bool
}

func newEntry(symbolNumber int) *Entry {
	return &Entry{SymbolNumber: symbolNumber, ClassTable: make(map[int]int)}
}

// addClass adjusts the classification count for section by sign, pruning
// zeroed-out entries so ClassTable only ever holds nonzero counts.
func (e *Entry) addClass(section int, sign symtab.Sign) {
	e.ClassTable[section] += int(sign)
	if e.ClassTable[section] == 0 {
		delete(e.ClassTable, section)
	}
}

// Valid reports whether the class table satisfies the linearity constraint:
// every index the C++ original would have recorded is in {-1,0,+1} and at
// most one is non-zero. Because addClass prunes zero entries, this reduces
// to "no entry outside {-1,+1} and at most one entry present".
func (e *Entry) Valid() bool {
	if len(e.ClassTable) > 1 {
		return false
	}
	for _, count := range e.ClassTable {
		if count != 1 && count != -1 {
			return false
		}
	}
	return true
}

// EntryNotZero returns the unique non-zero class-table section (the EQU's
// effective section) and true, or 0 and false if the table is all-zero
// (the symbol is absolute/external).
func (e *Entry) EntryNotZero() (int, bool) {
	for section := range e.ClassTable {
		return section, true
	}
	return 0, false
}
