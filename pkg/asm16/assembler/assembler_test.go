package assembler

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/Manu343726/asm16/pkg/asm16"
	"github.com/Manu343726/asm16/pkg/asm16/section"
	"github.com/Manu343726/asm16/pkg/asm16/symtab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, source string) (*Assembler, *asm16.Sink) {
	t.Helper()
	sink := asm16.NewSink(slog.New(slog.NewTextHandler(io.Discard, nil)))
	a := New(sink)
	require.NoError(t, a.Run(strings.NewReader(source)))
	return a, sink
}

// Forward reference within the same section: the relocation survives
// but is rewritten to name the section, not the symbol.
func TestAssemble_ForwardReferenceSameSection(t *testing.T) {
	a, sink := run(t, "\n.section text:\nstart:  jmp end\nend:    halt\n")
	require.False(t, sink.Failed())

	sec := a.Emitter.Section(1)
	require.NotNil(t, sec)
	assert.Equal(t, []byte{0x29, 0x00, 0x04, 0x00, 0x00}, sec.Bytes)

	require.Len(t, sec.Relocations, 1)
	assert.Equal(t, section.Absolute, sec.Relocations[0].Type)
	assert.Equal(t, 1, sec.Relocations[0].Symbol) // renamed to section "text" (number 1)
}

// Extern symbol operand: its relocation survives naming the symbol
// itself, never rewritten.
func TestAssemble_ExternSymbolOperand(t *testing.T) {
	a, sink := run(t, "\n.extern ext\n.section text:\n        mov ext, %r0\n")
	require.False(t, sink.Failed())

	ext, ok := a.Registry.LookupByName("ext")
	require.True(t, ok)
	assert.Equal(t, symtab.Extern, ext.Scope)

	sec := a.Emitter.Section(2)
	require.NotNil(t, sec)
	assert.Equal(t, []byte{0x61, 0x80, 0x00, 0x00, 0x20}, sec.Bytes)

	require.Len(t, sec.Relocations, 1)
	assert.Equal(t, section.Absolute, sec.Relocations[0].Type)
	assert.Equal(t, ext.Number, sec.Relocations[0].Symbol)
}

// An all-literal EQU resolves to an absolute (EXTERN) value.
func TestAssemble_AbsoluteEqu(t *testing.T) {
	a, sink := run(t, ".equ K, 5 + 3 - 2\n")
	require.False(t, sink.Failed())

	k, ok := a.Registry.LookupByName("K")
	require.True(t, ok)
	assert.True(t, k.Defined)
	assert.Equal(t, symtab.Extern, k.Scope)
	assert.EqualValues(t, 6, k.Value)
}

// An EQU over a local symbol takes that symbol's section.
func TestAssemble_EquOverLocal(t *testing.T) {
	a, sink := run(t, ".section data:\na:  .word 0\n.equ b, a + 4\n")
	require.False(t, sink.Failed())

	b, ok := a.Registry.LookupByName("b")
	require.True(t, ok)
	assert.True(t, b.Defined)
	assert.Equal(t, 1, b.Section)
	assert.EqualValues(t, 4, b.Value)
}

// Mutually recursive EQU definitions are diagnosed as circular.
func TestAssemble_CircularEqu(t *testing.T) {
	_, sink := run(t, ".equ x, y + 1\n.equ y, x + 1\n")
	require.True(t, sink.Failed())

	var sawCircular bool
	for _, d := range sink.Diagnostics() {
		if strings.Contains(d.Err.Error(), "circular") {
			sawCircular = true
		}
	}
	assert.True(t, sawCircular)
}

// Boundary: branch literal operands switch payload width at 0xFF/0x100.
func TestAssemble_BranchLiteralSizeBoundary(t *testing.T) {
	a, sink := run(t, ".section text:\njmp 255\njmp 256\n")
	require.False(t, sink.Failed())

	sec := a.Emitter.Section(1)
	assert.Equal(t, []byte{
		0x28, 0x00, 0xFF, // jmp 255: size_bit=0, 1-byte payload
		0x29, 0x00, 0x00, 0x01, // jmp 256: size_bit=1, 2-byte payload (LE)
	}, sec.Bytes)
}

// A bare register operand on a branch/one-operand instruction never forces
// the 2-byte size bit: only a literal above 0xFF, a dereferenced literal, a
// symbol operand, or a register-indirect-with-offset operand does.
func TestAssemble_BranchRegisterOperandKeepsSizeBitZero(t *testing.T) {
	a, sink := run(t, ".section text:\npush %r3\n")
	require.False(t, sink.Failed())

	sec := a.Emitter.Section(1)
	assert.Equal(t, []byte{0x48, 0x26}, sec.Bytes) // push=9 -> (9<<3)|0, regdir(1)<<5|3<<1
}

// .skip 0 emits no bytes and does not advance the location counter.
func TestAssemble_SkipZero(t *testing.T) {
	a, sink := run(t, ".section text:\n.skip 0\n")
	require.False(t, sink.Failed())

	sec := a.Emitter.Section(1)
	assert.Empty(t, sec.Bytes)
	assert.Equal(t, 0, sec.LocationCounter)
}

// Labels and memory directives outside any section are diagnosed.
func TestAssemble_NotInSection(t *testing.T) {
	_, sink := run(t, "start: halt\n")
	require.True(t, sink.Failed())
}

// Immediate addressing is forbidden as a two-operand destination.
func TestAssemble_BadImmediateDest(t *testing.T) {
	_, sink := run(t, ".section text:\nmov %r0, $5\n")
	require.True(t, sink.Failed())
}

// A non-EQU, non-extern symbol that is never defined is diagnosed once the
// pass completes.
func TestAssemble_UndefinedSymbol(t *testing.T) {
	_, sink := run(t, ".section text:\njmp missing\n")
	require.True(t, sink.Failed())
}

// A forward-referenced PC-relative operand must fold to value - patch - 2,
// the same as a backward reference: the -2 placeholder baked in at emit
// time has to survive both the forward-ref add and the relocation fold.
func TestAssemble_ForwardReferencePCRelativeFoldsMinusTwo(t *testing.T) {
	a, sink := run(t, ".section text:\nmov fn(%pc/%r7), %r0\nfn: halt\n")
	require.False(t, sink.Failed())

	sec := a.Emitter.Section(1)
	assert.Equal(t, []byte{
		0x61,       // mov, size_bit=1
		0x6E,       // descriptor: RegIndOff, reg 7
		0x01, 0x00, // payload: 5 - 2 - 2 = 1
		0x20, // descriptor: RegDir, reg 0
		0x00, // halt
	}, sec.Bytes)
	assert.Empty(t, sec.Relocations)
}

// An operand referencing an EQU over a local symbol: the
// payload is patched with the EQU's value and its ABSOLUTE relocation is
// rewritten to name the EQU's effective section.
func TestAssemble_EquRelocationRewrittenToSection(t *testing.T) {
	a, sink := run(t, ".section data:\na:  .word 0\n.equ b, a + 4\n.section text:\nmov b, %r0\n")
	require.False(t, sink.Failed())

	text := a.Emitter.Section(4)
	require.NotNil(t, text)
	assert.Equal(t, []byte{0x61, 0x80, 0x04, 0x00, 0x20}, text.Bytes)

	require.Len(t, text.Relocations, 1)
	assert.Equal(t, section.Absolute, text.Relocations[0].Type)
	assert.Equal(t, 1, text.Relocations[0].Symbol) // renamed to section "data"
}

// A PC-relative reference into a different section keeps its relocation,
// rewritten to name the target's section, with the -2 constant baked into
// the payload.
func TestAssemble_PCRelativeCrossSectionRelocationSurvives(t *testing.T) {
	a, sink := run(t, ".section data:\nfn: halt\n.section text:\nmov fn(%pc/%r7), %r0\n")
	require.False(t, sink.Failed())

	text := a.Emitter.Section(3)
	require.NotNil(t, text)
	assert.Equal(t, []byte{0x61, 0x6E, 0xFE, 0xFF, 0x20}, text.Bytes)

	require.Len(t, text.Relocations, 1)
	assert.Equal(t, section.PCRelative, text.Relocations[0].Type)
	assert.Equal(t, 1, text.Relocations[0].Symbol) // renamed to section "data"
}

// Re-entering a section resumes its location counter, and every section's
// byte count equals its final location counter.
func TestAssemble_SectionReentryAndByteCountInvariant(t *testing.T) {
	a, sink := run(t, ".section a:\n.byte 1\n.section b:\n.word 2\n.section a:\n.byte 3\n")
	require.False(t, sink.Failed())

	secA := a.Emitter.Section(1)
	require.NotNil(t, secA)
	assert.Equal(t, []byte{0x01, 0x03}, secA.Bytes)

	for _, sec := range a.Emitter.Sections() {
		assert.Equal(t, sec.LocationCounter, len(sec.Bytes))
	}
}

// A forward-referenced .byte must patch exactly one byte, even when its
// symbol is defined in a different section and the placeholder is the last
// byte ever written to its own section.
func TestAssemble_ForwardReferenceByteAcrossSections(t *testing.T) {
	a, sink := run(t, ".section text:\n.byte target\n.section data:\ntarget: .byte 9\n")
	require.False(t, sink.Failed())

	text := a.Emitter.Section(1)
	require.Len(t, text.Bytes, 1)
	assert.Equal(t, byte(9), text.Bytes[0])
}
