// Package symtab implements the assembler's Symbol Registry: a symbol table
// with deferred forward references, keyed by dense, monotonically assigned
// symbol numbers.
package symtab

// Scope classifies the visibility of a symbol.
type Scope int

const (
	Local Scope = iota
	Global
	Extern
)

func (s Scope) String() string {
	switch s {
	case Local:
		return "LOCAL"
	case Global:
		return "GLOBAL"
	case Extern:
		return "EXTERN"
	default:
		return "UNKNOWN"
	}
}

// Sign is the polarity a forward reference must apply to the symbol's value.
type Sign int8

const (
	Minus Sign = -1
	Plus  Sign = 1
)

// UndefinedSection is the sentinel section number meaning "no section / extern".
const UndefinedSection = 0

// ForwardRef is a pending location whose contents must be adjusted by
// sign*value once the owning symbol's value is known. Width is the number
// of bytes the placeholder occupies: 2 for every instruction-operand and
// .word reference, or 1 for a .byte reference. A zero Width means 2, so
// existing two-byte-only construction sites need no change.
type ForwardRef struct {
	Patch   int
	Section int
	Sign    Sign
	Width   int
}

// Symbol is a named entity in the assembly: a label, a section, a global,
// an extern, or an .equ definition. Symbol numbers are dense and 1-based,
// assigned in first-mention order.
type Symbol struct {
	Number      int
	Name        string
	Section     int // UndefinedSection if not yet known
	Value       int16
	Scope       Scope
	Defined     bool
	IsEqu       bool
	ForwardRefs []ForwardRef
}

// IsSection reports whether this symbol denotes a section (its own identity test).
func (s *Symbol) IsSection() bool {
	return s.Section == s.Number && s.Number != 0
}
