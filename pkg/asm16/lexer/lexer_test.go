package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Label(t *testing.T) {
	l := Classify("start: jmp end", 1)
	require.Equal(t, Label, l.Kind)
	assert.Equal(t, "start", l.LabelName)
	assert.Equal(t, "jmp end", l.Rest)
}

func TestClassify_LabelWithNoTrailingInstruction(t *testing.T) {
	l := Classify("start:", 1)
	require.Equal(t, Label, l.Kind)
	assert.Equal(t, "start", l.LabelName)
	assert.Empty(t, l.Rest)
}

func TestClassify_GlobalAndExternSplitIdents(t *testing.T) {
	l := Classify(".global a, b, c", 1)
	require.Equal(t, Global, l.Kind)
	assert.Equal(t, []string{"a", "b", "c"}, l.Idents)

	l = Classify(".extern x", 1)
	require.Equal(t, Extern, l.Kind)
	assert.Equal(t, []string{"x"}, l.Idents)
}

func TestClassify_Section(t *testing.T) {
	l := Classify(".section text:", 1)
	require.Equal(t, Section, l.Kind)
	assert.Equal(t, "text", l.SectionName)
}

func TestClassify_ByteAndWord(t *testing.T) {
	l := Classify(".byte 1, 2, sym", 1)
	require.Equal(t, Byte, l.Kind)
	assert.Equal(t, []string{"1", "2", "sym"}, l.Items)

	l = Classify(".word 0x10", 1)
	require.Equal(t, Word, l.Kind)
	assert.Equal(t, []string{"0x10"}, l.Items)
}

func TestClassify_Skip(t *testing.T) {
	l := Classify(".skip 4", 1)
	require.Equal(t, Skip, l.Kind)
	assert.Equal(t, []string{"4"}, l.Items)
}

func TestClassify_Equ(t *testing.T) {
	l := Classify(".equ b, a + 4", 1)
	require.Equal(t, Equ, l.Kind)
	assert.Equal(t, "b", l.EquName)
	assert.Equal(t, "a + 4", l.EquExpr)
}

func TestClassify_InstructionShapes(t *testing.T) {
	l := Classify("halt", 1)
	require.Equal(t, NoOperandInstr, l.Kind)
	assert.Equal(t, "halt", l.Mnemonic)

	l = Classify("jmp end", 1)
	require.Equal(t, BranchInstr, l.Kind)
	assert.Equal(t, []string{"end"}, l.Operands)

	l = Classify("push %r0", 1)
	require.Equal(t, OneOperandInstr, l.Kind)
	assert.Equal(t, []string{"%r0"}, l.Operands)

	l = Classify("mov ext, %r0", 1)
	require.Equal(t, TwoOperandInstr, l.Kind)
	assert.Equal(t, []string{"ext", "%r0"}, l.Operands)
}

func TestClassify_BlankAndUnknown(t *testing.T) {
	l := Classify("   ", 1)
	assert.Equal(t, Blank, l.Kind)

	l = Classify("???", 1)
	assert.Equal(t, Unknown, l.Kind)
}

func TestSplitExpr_SignedTerms(t *testing.T) {
	terms := SplitExpr("a + 4 - b")
	require.Len(t, terms, 3)
	assert.Equal(t, ExprTerm{Negative: false, Text: "a"}, terms[0])
	assert.Equal(t, ExprTerm{Negative: false, Text: "4"}, terms[1])
	assert.Equal(t, ExprTerm{Negative: true, Text: "b"}, terms[2])
}

func TestSplitExpr_LeadingSignDefaultsToPlus(t *testing.T) {
	terms := SplitExpr("5 + 3 - 2")
	require.Len(t, terms, 3)
	assert.False(t, terms[0].Negative)
}
