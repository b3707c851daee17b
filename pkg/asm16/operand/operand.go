// Package operand classifies and parses instruction operand strings into
// one of the eight addressing-syntax variants the assembler recognizes.
package operand

import (
	"regexp"
	"strconv"

	"github.com/Manu343726/asm16/pkg/asm16"
	"github.com/Manu343726/asm16/pkg/asm16/opcodes"
)

// Variant names one of the eight operand syntax shapes.
type Variant int

const (
	ImmediateLit Variant = iota
	MemLit
	ImmediateSym
	MemSym
	RegDir
	RegInd
	RegIndLitOff
	RegIndSymOff
)

// Operand is a parsed operand: its syntax variant, the register and/or
// symbol/literal it names, and whether it was written with the memory
// dereference `*` prefix.
type Operand struct {
	Variant     Variant
	Dereference bool
	Register    int
	Symbol      string
	Literal     int64
	PCRelative  bool // register 7 denoted via %pc rather than %r7
}

// Recognition patterns for each operand syntax, mirroring the anchored
// regexes of the line grammar.
var (
	literalPattern = regexp.MustCompile(`^(\$|\*)?(0[xX][0-9a-fA-F]+|[1-9][0-9]*|0)$`)
	symbolPattern  = regexp.MustCompile(`^(\*|\$)?([a-zA-Z]\w*)$`)
	regDirPattern  = regexp.MustCompile(`^(\*)?%r([0-7])$`)
	regIndPattern  = regexp.MustCompile(`^(\*)?\(%r([0-7])\)$`)
	litOffPattern  = regexp.MustCompile(`^(\*)?(0[xX][0-9a-fA-F]+|[1-9][0-9]*|0)\(%r([0-7])\)$`)
	symOffPattern  = regexp.MustCompile(`^(\*)?([a-zA-Z]\w*)\((%r([0-7])|%pc/%r7)\)$`)
)

func parseLiteral(text string) int64 {
	if len(text) > 1 && (text[0] == '0') && len(text) > 2 && (text[1] == 'x' || text[1] == 'X') {
		v, _ := strconv.ParseInt(text[2:], 16, 64)
		return v
	}
	v, _ := strconv.ParseInt(text, 10, 64)
	return v
}

// Parse classifies text into an Operand. line is used only to annotate a
// syntax error.
func Parse(text string, line int) (Operand, error) {
	if m := symOffPattern.FindStringSubmatch(text); m != nil {
		op := Operand{Variant: RegIndSymOff, Dereference: m[1] == "*", Symbol: m[2]}
		if m[3] == "%pc/%r7" {
			op.Register = 7
			op.PCRelative = true
		} else {
			n, _ := strconv.Atoi(m[4])
			op.Register = n
		}
		return op, nil
	}
	if m := litOffPattern.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[3])
		return Operand{Variant: RegIndLitOff, Dereference: m[1] == "*", Literal: parseLiteral(m[2]), Register: n}, nil
	}
	if m := regIndPattern.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[2])
		return Operand{Variant: RegInd, Dereference: m[1] == "*", Register: n}, nil
	}
	if m := regDirPattern.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[2])
		return Operand{Variant: RegDir, Dereference: m[1] == "*", Register: n}, nil
	}
	if m := literalPattern.FindStringSubmatch(text); m != nil {
		switch m[1] {
		case "$":
			return Operand{Variant: ImmediateLit, Literal: parseLiteral(m[2])}, nil
		case "*":
			return Operand{Variant: MemLit, Dereference: true, Literal: parseLiteral(m[2])}, nil
		default:
			return Operand{Variant: MemLit, Literal: parseLiteral(m[2])}, nil
		}
	}
	if m := symbolPattern.FindStringSubmatch(text); m != nil {
		switch m[1] {
		case "$":
			return Operand{Variant: ImmediateSym, Symbol: m[2]}, nil
		case "*":
			return Operand{Variant: MemSym, Dereference: true, Symbol: m[2]}, nil
		default:
			return Operand{Variant: MemSym, Symbol: m[2]}, nil
		}
	}
	return Operand{}, asm16.NewSyntaxError(line, text)
}

// AddrMode returns the addressing-mode code for the operand, aware of
// whether it appears as a branch's sole operand: a bare literal or symbol
// there encodes as immediate (branch-direct), not memory.
func (o Operand) AddrMode(isBranch bool) opcodes.AddrMode {
	switch o.Variant {
	case ImmediateLit, ImmediateSym:
		return opcodes.Immed
	case MemLit, MemSym:
		if isBranch && !o.Dereference {
			return opcodes.Immed
		}
		return opcodes.Mem
	case RegDir:
		return opcodes.RegDir
	case RegInd:
		return opcodes.RegInd
	case RegIndLitOff, RegIndSymOff:
		return opcodes.RegIndOff
	default:
		return opcodes.Immed
	}
}

// IsImmediate reports whether this operand uses immediate addressing,
// forbidden in some instruction operand positions.
func (o Operand) IsImmediate(isBranch bool) bool {
	return o.AddrMode(isBranch) == opcodes.Immed
}
