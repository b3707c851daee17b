package assembler

import (
	"github.com/Manu343726/asm16/pkg/asm16/section"
	"github.com/Manu343726/asm16/pkg/asm16/symtab"
)

// backpatchPhase runs one pass of the two-phase back-patcher: equOnly
// selects whether this call patches EQU symbols (run after Phase P2) or
// every other defined symbol (run after Phase P1).
func (a *Assembler) backpatchPhase(equOnly bool) {
	for _, sym := range a.Registry.Symbols() {
		if !sym.Defined || sym.IsEqu != equOnly {
			continue
		}
		a.patchForwardRefs(sym)
		a.rewriteRelocations(sym)
	}
}

func (a *Assembler) patchForwardRefs(sym *symtab.Symbol) {
	for _, ref := range sym.ForwardRefs {
		sec := a.Emitter.Section(ref.Section)
		if sec == nil {
			continue
		}
		if ref.Width == 1 {
			old := sec.ReadByte(ref.Patch)
			sec.PatchByte(ref.Patch, byte(int16(old)+int16(ref.Sign)*sym.Value))
			continue
		}
		old := sec.ReadWord(ref.Patch)
		sec.PatchWord(ref.Patch, uint16(int16(old)+int16(ref.Sign)*sym.Value))
	}
}

// effectiveSection reports the section a relocation naming sym should be
// rewritten to, and whether sym behaves as a local (section-bound) symbol
// for relocation-rewriting purposes. A non-EQU LOCAL symbol always has one;
// an EQU symbol has one only if its class table resolved to a unique
// non-zero section (absolute EQUs report ok=false).
func effectiveSection(sym *symtab.Symbol) (number int, ok bool) {
	if sym.IsEqu {
		if sym.Section != symtab.UndefinedSection {
			return sym.Section, true
		}
		return 0, false
	}
	if sym.Scope == symtab.Local {
		return sym.Section, true
	}
	return 0, false
}

func (a *Assembler) rewriteRelocations(sym *symtab.Symbol) {
	// Section symbols already name themselves; their relocations are the
	// rewritten output of other symbols and must not be touched again.
	if sym.IsSection() {
		return
	}
	sec, hasSection := effectiveSection(sym)

	for _, owner := range a.Emitter.Sections() {
		kept := owner.Relocations[:0]
		for _, reloc := range owner.Relocations {
			if reloc.Symbol != sym.Number {
				kept = append(kept, reloc)
				continue
			}

			switch {
			case hasSection && reloc.Type == section.Absolute:
				reloc.Symbol = sec
				kept = append(kept, reloc)
			case hasSection && reloc.Type == section.PCRelative:
				if owner.Number == sec {
					owner.PatchWord(reloc.Offset, owner.ReadWord(reloc.Offset)-uint16(reloc.Offset))
					continue // intra-section: fold, drop relocation
				}
				reloc.Symbol = sec
				kept = append(kept, reloc)
			case !hasSection && sym.IsEqu && reloc.Type == section.Absolute:
				continue // absolute EQU with no effective section: drop
			default:
				// GLOBAL/EXTERN symbols (and PC-relative on an absolute
				// EQU): keep the relocation naming the symbol itself.
				kept = append(kept, reloc)
			}
		}
		owner.Relocations = kept
	}
}
