package section

import "github.com/Manu343726/asm16/pkg/asm16/symtab"

// Emitter is the arbiter that writes bytes into the current section while
// simultaneously enqueuing forward references or emitting relocations, per
// the symbol-operand resolution rules below.
type Emitter struct {
	registry *symtab.Registry
	sections map[int]*Section
	order    []int
	current  *Section
}

// New creates an Emitter backed by registry for symbol lookups.
func New(registry *symtab.Registry) *Emitter {
	return &Emitter{
		registry: registry,
		sections: make(map[int]*Section),
	}
}

// SwitchTo makes section number the current section, creating it (with a
// fresh zero location counter) on first entry and resuming its saved
// location counter on every later re-entry.
func (e *Emitter) SwitchTo(number int) *Section {
	sec, ok := e.sections[number]
	if !ok {
		sec = newSection(number)
		e.sections[number] = sec
		e.order = append(e.order, number)
	}
	e.current = sec
	return sec
}

// Current returns the currently selected section, or nil if none has been
// entered yet.
func (e *Emitter) Current() *Section {
	return e.current
}

// Section returns section number's state, or nil if it has never been entered.
func (e *Emitter) Section(number int) *Section {
	return e.sections[number]
}

// Sections returns all sections in first-entry order.
func (e *Emitter) Sections() []*Section {
	out := make([]*Section, 0, len(e.order))
	for _, n := range e.order {
		out = append(out, e.sections[n])
	}
	return out
}

// EmitByte writes one byte into the current section.
func (e *Emitter) EmitByte(b byte) {
	e.current.WriteByte(b)
}

// EmitZeros writes n zero bytes into the current section (.skip).
func (e *Emitter) EmitZeros(n int) {
	for i := 0; i < n; i++ {
		e.current.WriteByte(0)
	}
}

// EmitLiteralWord writes a symbol-independent literal payload: 1 byte if
// oneByte is true, 2 little-endian bytes otherwise.
func (e *Emitter) EmitLiteralWord(value uint16, oneByte bool) {
	if oneByte {
		e.current.WriteByte(byte(value))
		return
	}
	e.current.WriteWord(value)
}

// EmitSymbolOperand resolves a symbol operand at the current location
// counter, implementing the six-case resolution below:
//
//  1. lookup/create the symbol.
//  2. undefined -> zero payload (-2 if PC-relative), relocation of relocType,
//     forward reference at the patch offset.
//  3. defined LOCAL non-PC-relative -> payload = value, relocation naming the symbol.
//  4. defined LOCAL PC-relative same-section -> payload = value - patch - 2, no relocation.
//  5. defined LOCAL PC-relative different-section -> payload = value - 2, PC_RELATIVE relocation.
//  6. defined GLOBAL/EXTERN -> payload = 0 or -2, relocation naming the symbol.
func (e *Emitter) EmitSymbolOperand(name string, relocType RelocType) *symtab.Symbol {
	patch := e.current.LocationCounter
	sym := e.registry.LookupOrReference(name, nil)

	if !sym.Defined {
		sym.ForwardRefs = append(sym.ForwardRefs, symtab.ForwardRef{
			Patch:   patch,
			Section: e.current.Number,
			Sign:    symtab.Plus,
			Width:   2,
		})
		e.current.Relocations = append(e.current.Relocations, Relocation{Offset: patch, Type: relocType, Symbol: sym.Number})
		// A PC-relative placeholder pre-bakes the -2 instruction-length
		// constant: neither the forward-ref add below nor the intra-section
		// relocation fold ever applies it.
		var placeholder uint16
		if relocType == PCRelative {
			placeholder = 0xFFFE
		}
		e.current.WriteWord(placeholder)
		return sym
	}

	pcRel := relocType == PCRelative
	switch sym.Scope {
	case symtab.Local:
		if pcRel && sym.Section == e.current.Number {
			payload := sym.Value - int16(patch) - 2
			e.current.WriteWord(uint16(payload))
			return sym
		}
		payload := sym.Value
		if pcRel {
			payload -= 2
		}
		e.current.Relocations = append(e.current.Relocations, Relocation{Offset: patch, Type: relocType, Symbol: sym.Number})
		e.current.WriteWord(uint16(payload))
	default: // Global or Extern
		var payload int16
		if pcRel {
			payload = -2
		}
		e.current.Relocations = append(e.current.Relocations, Relocation{Offset: patch, Type: relocType, Symbol: sym.Number})
		e.current.WriteWord(uint16(payload))
	}
	return sym
}

// EmitDataSymbol implements the symbol-term rule for .byte/.word: writes the
// symbol's value immediately (with an ABSOLUTE relocation) if defined, or
// zeros plus a forward reference if undefined. width is 1 for .byte or 2
// for .word.
func (e *Emitter) EmitDataSymbol(name string, width int) *symtab.Symbol {
	patch := e.current.LocationCounter
	sym := e.registry.LookupOrReference(name, nil)

	if !sym.Defined {
		sym.ForwardRefs = append(sym.ForwardRefs, symtab.ForwardRef{
			Patch:   patch,
			Section: e.current.Number,
			Sign:    symtab.Plus,
			Width:   width,
		})
	}
	e.current.Relocations = append(e.current.Relocations, Relocation{Offset: patch, Type: Absolute, Symbol: sym.Number})

	var value uint16
	if sym.Defined {
		value = uint16(sym.Value)
	}
	if width == 1 {
		e.current.WriteByte(byte(value))
	} else {
		e.current.WriteWord(value)
	}
	return sym
}
