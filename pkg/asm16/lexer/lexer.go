// Package lexer recognizes each source line as one of the line-grammar
// shapes of the source language, using the same kind of anchored regular
// expressions as the reference implementation's line classifier.
package lexer

import (
	"regexp"
	"strings"
)

// Kind names which line-grammar shape a line matched.
type Kind int

const (
	Blank Kind = iota
	Label
	Global
	Extern
	Section
	Byte
	Word
	Skip
	Equ
	NoOperandInstr
	BranchInstr
	OneOperandInstr
	TwoOperandInstr
	Unknown
)

// Line is one classified source line.
type Line struct {
	Kind Kind
	Line int
	Text string

	// Label
	LabelName string
	Rest      string // trailing text after "label:"

	// Global/Extern
	Idents []string

	// Section
	SectionName string

	// Byte/Word/Skip
	Items []string

	// Equ
	EquName string
	EquExpr string

	// Instructions
	Mnemonic string
	Operands []string
}

var (
	labelPattern   = regexp.MustCompile(`^([a-zA-Z]\w*):\s*(.*)$`)
	globalPattern  = regexp.MustCompile(`^\.global\s+(.+)$`)
	externPattern  = regexp.MustCompile(`^\.extern\s+(.+)$`)
	sectionPattern = regexp.MustCompile(`^\.section\s+([a-zA-Z]\w*):\s*$`)
	bytePattern    = regexp.MustCompile(`^\.byte\s+(.+)$`)
	wordPattern    = regexp.MustCompile(`^\.word\s+(.+)$`)
	skipPattern    = regexp.MustCompile(`^\.skip\s+(\S+)\s*$`)
	equPattern     = regexp.MustCompile(`^\.equ\s+([a-zA-Z]\w*)\s*,\s*(.+)$`)

	noOperandPattern   = regexp.MustCompile(`^(halt|iret|ret)\s*$`)
	branchPattern      = regexp.MustCompile(`^(int|call|jmp|jeq|jne|jgt)\s+(\S+)\s*$`)
	oneOperandPattern  = regexp.MustCompile(`^(push|pop)\s+(\S+)\s*$`)
	twoOperandPattern  = regexp.MustCompile(`^(xchg|mov|add|sub|mul|div|cmp|not|and|or|xor|test|shl|shr)\s+(\S+)\s*,\s*(\S+)\s*$`)
	identListSplitter  = regexp.MustCompile(`\s*,\s*`)
)

// Classify recognizes one source line. lineNumber is echoed back on the
// result for downstream diagnostics.
func Classify(text string, lineNumber int) Line {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Line{Kind: Blank, Line: lineNumber, Text: text}
	}

	if m := labelPattern.FindStringSubmatch(trimmed); m != nil {
		return Line{Kind: Label, Line: lineNumber, Text: text, LabelName: m[1], Rest: strings.TrimSpace(m[2])}
	}
	if m := globalPattern.FindStringSubmatch(trimmed); m != nil {
		return Line{Kind: Global, Line: lineNumber, Text: text, Idents: identListSplitter.Split(strings.TrimSpace(m[1]), -1)}
	}
	if m := externPattern.FindStringSubmatch(trimmed); m != nil {
		return Line{Kind: Extern, Line: lineNumber, Text: text, Idents: identListSplitter.Split(strings.TrimSpace(m[1]), -1)}
	}
	if m := sectionPattern.FindStringSubmatch(trimmed); m != nil {
		return Line{Kind: Section, Line: lineNumber, Text: text, SectionName: m[1]}
	}
	if m := bytePattern.FindStringSubmatch(trimmed); m != nil {
		return Line{Kind: Byte, Line: lineNumber, Text: text, Items: identListSplitter.Split(strings.TrimSpace(m[1]), -1)}
	}
	if m := wordPattern.FindStringSubmatch(trimmed); m != nil {
		return Line{Kind: Word, Line: lineNumber, Text: text, Items: identListSplitter.Split(strings.TrimSpace(m[1]), -1)}
	}
	if m := skipPattern.FindStringSubmatch(trimmed); m != nil {
		return Line{Kind: Skip, Line: lineNumber, Text: text, Items: []string{m[1]}}
	}
	if m := equPattern.FindStringSubmatch(trimmed); m != nil {
		return Line{Kind: Equ, Line: lineNumber, Text: text, EquName: m[1], EquExpr: strings.TrimSpace(m[2])}
	}
	if m := noOperandPattern.FindStringSubmatch(trimmed); m != nil {
		return Line{Kind: NoOperandInstr, Line: lineNumber, Text: text, Mnemonic: m[1]}
	}
	if m := branchPattern.FindStringSubmatch(trimmed); m != nil {
		return Line{Kind: BranchInstr, Line: lineNumber, Text: text, Mnemonic: m[1], Operands: []string{m[2]}}
	}
	if m := oneOperandPattern.FindStringSubmatch(trimmed); m != nil {
		return Line{Kind: OneOperandInstr, Line: lineNumber, Text: text, Mnemonic: m[1], Operands: []string{m[2]}}
	}
	if m := twoOperandPattern.FindStringSubmatch(trimmed); m != nil {
		return Line{Kind: TwoOperandInstr, Line: lineNumber, Text: text, Mnemonic: m[1], Operands: []string{m[2], m[3]}}
	}
	return Line{Kind: Unknown, Line: lineNumber, Text: text}
}

// SplitExpr tokenizes an `.equ` expression's right-hand side into signed
// terms: operands separated by `+`/`−`, the leading sign optional and
// defaulting to `+`.
var exprTermPattern = regexp.MustCompile(`([+-]?)\s*([a-zA-Z]\w*|0[xX][0-9a-fA-F]+|[1-9][0-9]*|0)`)

// ExprTerm is one signed literal-or-identifier term of an `.equ` expression.
type ExprTerm struct {
	Negative bool
	Text     string
}

// SplitExpr parses expr into its signed terms.
func SplitExpr(expr string) []ExprTerm {
	matches := exprTermPattern.FindAllStringSubmatch(expr, -1)
	terms := make([]ExprTerm, 0, len(matches))
	for _, m := range matches {
		terms = append(terms, ExprTerm{Negative: m[1] == "-", Text: m[2]})
	}
	return terms
}
