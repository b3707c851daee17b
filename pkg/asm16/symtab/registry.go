package symtab

import "github.com/Manu343726/asm16/pkg/asm16"

// Registry is the single owner of the symbol table for one assembly run.
// Symbol numbers serve as stable handles: every inter-table reference
// (forward refs, relocations, EQU dependencies) is by number, not by pointer.
type Registry struct {
	symbols []*Symbol // index i holds symbol number i+1
	byName  map[string]int
	line    int
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// SetLine records the current source line, used only to annotate errors
// raised by subsequent calls.
func (r *Registry) SetLine(line int) {
	r.line = line
}

// Symbol returns the symbol with the given number, or nil if out of range.
func (r *Registry) Symbol(number int) *Symbol {
	if number <= 0 || number > len(r.symbols) {
		return nil
	}
	return r.symbols[number-1]
}

// Symbols returns all symbols in creation order. The caller must not mutate
// the returned slice's identities, only read them.
func (r *Registry) Symbols() []*Symbol {
	return r.symbols
}

func (r *Registry) insert(name string) *Symbol {
	sym := &Symbol{
		Number: len(r.symbols) + 1,
		Name:   name,
		Scope:  Local,
	}
	r.symbols = append(r.symbols, sym)
	r.byName[name] = sym.Number
	return sym
}

// LookupOrReference returns the symbol named name, creating an undefined
// LOCAL symbol on first mention. If fwd is non-nil it is appended to the
// symbol's forward-reference list (whether the symbol already existed or
// was just created).
func (r *Registry) LookupOrReference(name string, fwd *ForwardRef) *Symbol {
	sym, ok := r.lookup(name)
	if !ok {
		sym = r.insert(name)
	}
	if fwd != nil {
		sym.ForwardRefs = append(sym.ForwardRefs, *fwd)
	}
	return sym
}

// LookupByName returns the symbol named name without creating it.
func (r *Registry) LookupByName(name string) (*Symbol, bool) {
	return r.lookup(name)
}

func (r *Registry) lookup(name string) (*Symbol, bool) {
	number, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.symbols[number-1], true
}

// DefineLabel defines name as a label at (section, value). If the symbol is
// already defined, returns ErrMultipleDefinition. If it exists but
// undefined (forward-referenced), it is defined in place; otherwise a new
// defined symbol is inserted.
func (r *Registry) DefineLabel(name string, section int, value int16) (*Symbol, error) {
	sym, ok := r.lookup(name)
	if ok {
		if sym.Defined {
			return nil, asm16.NewMultipleDefinition(name, r.line)
		}
		sym.Defined = true
		sym.Section = section
		sym.Value = value
		return sym, nil
	}
	sym = r.insert(name)
	sym.Defined = true
	sym.Section = section
	sym.Value = value
	return sym, nil
}

// Declare handles .global/.extern: scope promotion to Global, or to Extern
// when extern is true. Declaring extern on an already-defined non-extern
// symbol is an error.
func (r *Registry) Declare(name string, extern bool) (*Symbol, error) {
	sym, ok := r.lookup(name)
	if !ok {
		sym = r.insert(name)
		if extern {
			sym.Scope = Extern
			sym.Section = UndefinedSection
		} else {
			sym.Scope = Global
		}
		return sym, nil
	}
	if extern {
		if sym.Defined && sym.Scope != Extern {
			return nil, asm16.NewExternConflict(name, r.line)
		}
		sym.Scope = Extern
	} else {
		sym.Scope = Global
	}
	return sym, nil
}

// DefineSection returns the section number for name, creating a new section
// symbol (whose Number equals its own Section) on first mention. A non-section
// symbol already using that name is an error.
func (r *Registry) DefineSection(name string) (int, error) {
	sym, ok := r.lookup(name)
	if ok {
		if !sym.IsSection() {
			return 0, asm16.NewSectionNameConflict(name, r.line)
		}
		return sym.Number, nil
	}
	sym = r.insert(name)
	sym.Defined = true
	sym.Section = sym.Number
	return sym.Number, nil
}
