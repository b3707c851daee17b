package equ

import (
	"github.com/Manu343726/asm16/pkg/asm16"
	"github.com/Manu343726/asm16/pkg/asm16/symtab"
)

// Resolver owns every `.equ` entry captured during the pass and runs the
// two-phase fixpoint once the pass is complete.
type Resolver struct {
	registry *symtab.Registry
	entries  map[int]*Entry
	order    []int
}

// New creates a Resolver backed by registry.
func New(registry *symtab.Registry) *Resolver {
	return &Resolver{registry: registry, entries: make(map[int]*Entry)}
}

// CaptureTerm is one signed element of a captured `.equ name, expr` source
// line, either an integer literal or a symbol reference.
type CaptureTerm struct {
	Sign    symtab.Sign
	Literal int16
	IsSym   bool
	Symbol  string
}

// Capture records a `.equ name, expr` definition: literal terms fold
// directly into the running value; symbol terms that are already defined
// and not themselves an EQU fold in and update the class table; every other
// symbol term is deferred as a pending Term.
func (r *Resolver) Capture(name string, terms []CaptureTerm) (*symtab.Symbol, error) {
	sym := r.registry.LookupOrReference(name, nil)
	sym.IsEqu = true

	entry, ok := r.entries[sym.Number]
	if !ok {
		entry = newEntry(sym.Number)
		r.entries[sym.Number] = entry
		r.order = append(r.order, sym.Number)
	}

	for _, term := range terms {
		if !term.IsSym {
			entry.Value += int16(term.Sign) * term.Literal
			continue
		}
		depSym := r.registry.LookupOrReference(term.Symbol, nil)
		if depSym.Defined && !depSym.IsEqu {
			entry.Value += int16(term.Sign) * depSym.Value
			entry.addClass(depSym.Section, term.Sign)
			continue
		}
		entry.Pending = append(entry.Pending, Term{Symbol: depSym.Number, Sign: term.Sign})
	}

	sym.Value = entry.Value
	return sym, nil
}

// removePending removes the term at index i in place and returns the
// shortened slice. The element shifted into index i must be re-examined in
// the same pass, so the caller decrements its loop cursor.
func removePending(pending []Term, i int) []Term {
	return append(pending[:i], pending[i+1:]...)
}

// finalize validates entry's class table and, if valid, marks its symbol
// defined with the effective section (or EXTERN if absolute).
func (r *Resolver) finalize(entry *Entry) error {
	sym := r.registry.Symbol(entry.SymbolNumber)
	if !entry.Valid() {
		return asm16.NewEquInvalidExpr(sym.Name)
	}
	if section, ok := entry.EntryNotZero(); ok {
		sym.Section = section
	} else {
		sym.Scope = symtab.Extern
		sym.Section = symtab.UndefinedSection
	}
	sym.Value = entry.Value
	sym.Defined = true
	entry.Resolved = true
	return nil
}

// ResolveP1 runs Phase P1: folds any pending term whose symbol is now
// defined and non-EQU. Entries left with an empty pending list are
// finalized immediately.
func (r *Resolver) ResolveP1() error {
	for _, number := range r.order {
		entry := r.entries[number]
		for i := 0; i < len(entry.Pending); i++ {
			term := entry.Pending[i]
			depSym := r.registry.Symbol(term.Symbol)
			if depSym.Defined && !depSym.IsEqu {
				entry.Value += int16(term.Sign) * depSym.Value
				entry.addClass(depSym.Section, term.Sign)
				entry.Pending = removePending(entry.Pending, i)
				i--
			}
		}
		if len(entry.Pending) == 0 {
			if err := r.finalize(entry); err != nil {
				return err
			}
		}
	}
	return nil
}

// ResolveP2 runs Phase P2: repeats a worklist pass over still-unresolved
// entries, folding terms whose symbol has since become defined (possibly
// itself another EQU, via its effective section from EntryNotZero), until a
// full pass makes no progress. Returns ErrEquCircular naming every entry
// still unresolved at that point.
func (r *Resolver) ResolveP2() error {
	for {
		progressed := false
		for _, number := range r.order {
			entry := r.entries[number]
			if entry.Resolved {
				continue
			}
			for i := 0; i < len(entry.Pending); i++ {
				term := entry.Pending[i]
				depSym := r.registry.Symbol(term.Symbol)
				if !depSym.Defined {
					continue
				}
				if depSym.IsEqu {
					depEntry := r.entries[depSym.Number]
					if !depEntry.Resolved {
						continue
					}
					if section, ok := depEntry.EntryNotZero(); ok {
						entry.addClass(section, term.Sign)
					}
					entry.Value += int16(term.Sign) * depSym.Value
				} else {
					entry.Value += int16(term.Sign) * depSym.Value
					entry.addClass(depSym.Section, term.Sign)
				}
				entry.Pending = removePending(entry.Pending, i)
				i--
				progressed = true
			}
			if len(entry.Pending) == 0 && !entry.Resolved {
				if err := r.finalize(entry); err != nil {
					return err
				}
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}

	var stuck []string
	for _, number := range r.order {
		entry := r.entries[number]
		if !entry.Resolved {
			stuck = append(stuck, r.registry.Symbol(number).Name)
		}
	}
	if len(stuck) > 0 {
		return asm16.NewEquCircular(stuck)
	}
	return nil
}

// Entry returns the captured entry for symbol number, or nil if none exists.
func (r *Resolver) Entry(number int) *Entry {
	return r.entries[number]
}

// Symbols returns the symbol numbers of every captured `.equ`, in
// first-definition order.
func (r *Resolver) Symbols() []int {
	return r.order
}
