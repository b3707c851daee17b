// Package object assembles the finished Symbol Registry and Section
// Emitter state into a relocatable object description, and renders it both
// as a fixed textual dump and as a YAML snapshot.
package object

import (
	"github.com/Manu343726/asm16/pkg/asm16/section"
	"github.com/Manu343726/asm16/pkg/asm16/symtab"
)

// SymbolRow is one row of the object's symbol table.
type SymbolRow struct {
	Number  int    `yaml:"number"`
	Name    string `yaml:"name"`
	Section int    `yaml:"section"`
	Value   int16  `yaml:"value"`
	Scope   string `yaml:"scope"`
}

// SectionDump is one section's emitted bytes and relocation table.
type SectionDump struct {
	Number      int                 `yaml:"number"`
	Bytes       []byte              `yaml:"bytes"`
	Relocations []section.Relocation `yaml:"relocations"`
}

// Object is the complete output of one assembly run.
type Object struct {
	Symbols  []SymbolRow
	Sections []SectionDump
}

// Build snapshots registry and emitter into an Object. Call only after the
// assembler has finished both back-patch phases.
func Build(registry *symtab.Registry, emitter *section.Emitter) *Object {
	obj := &Object{}
	for _, sym := range registry.Symbols() {
		obj.Symbols = append(obj.Symbols, SymbolRow{
			Number:  sym.Number,
			Name:    sym.Name,
			Section: sym.Section,
			Value:   sym.Value,
			Scope:   sym.Scope.String(),
		})
	}
	for _, sec := range emitter.Sections() {
		obj.Sections = append(obj.Sections, SectionDump{
			Number:      sec.Number,
			Bytes:       sec.Bytes,
			Relocations: sec.Relocations,
		})
	}
	return obj
}
