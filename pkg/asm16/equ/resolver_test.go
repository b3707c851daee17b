package equ

import (
	"testing"

	"github.com/Manu343726/asm16/pkg/asm16/symtab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func literal(sign symtab.Sign, v int16) CaptureTerm {
	return CaptureTerm{Sign: sign, Literal: v}
}

func symbol(sign symtab.Sign, name string) CaptureTerm {
	return CaptureTerm{Sign: sign, IsSym: true, Symbol: name}
}

// An all-literal expression: `.equ K, 5 + 3 - 2` resolves to an EXTERN symbol with
// value 6 and an empty (all-zero) class table.
func TestResolve_AbsoluteEqu(t *testing.T) {
	reg := symtab.New()
	r := New(reg)

	_, err := r.Capture("K", []CaptureTerm{
		literal(symtab.Plus, 5),
		literal(symtab.Plus, 3),
		literal(symtab.Minus, 2),
	})
	require.NoError(t, err)

	require.NoError(t, r.ResolveP1())
	require.NoError(t, r.ResolveP2())

	k, _ := reg.LookupByName("K")
	assert.True(t, k.Defined)
	assert.Equal(t, symtab.Extern, k.Scope)
	assert.EqualValues(t, 6, k.Value)
}

// An EQU over a local symbol: `b = a + 4` where `a` is
// a label at offset 0 in section number 7. b's effective section must be 7
// and its value 4.
func TestResolve_EquOverLocalSymbol(t *testing.T) {
	reg := symtab.New()
	r := New(reg)

	_, err := reg.DefineLabel("a", 7, 0)
	require.NoError(t, err)

	_, err = r.Capture("b", []CaptureTerm{symbol(symtab.Plus, "a"), literal(symtab.Plus, 4)})
	require.NoError(t, err)

	require.NoError(t, r.ResolveP1())
	require.NoError(t, r.ResolveP2())

	b, _ := reg.LookupByName("b")
	assert.True(t, b.Defined)
	assert.Equal(t, 7, b.Section)
	assert.EqualValues(t, 4, b.Value)
}

// A circular dependency: `x = y + 1`, `y = x + 1` never resolves.
func TestResolve_CircularEqu(t *testing.T) {
	reg := symtab.New()
	r := New(reg)

	_, err := r.Capture("x", []CaptureTerm{symbol(symtab.Plus, "y"), literal(symtab.Plus, 1)})
	require.NoError(t, err)
	_, err = r.Capture("y", []CaptureTerm{symbol(symtab.Plus, "x"), literal(symtab.Plus, 1)})
	require.NoError(t, err)

	require.NoError(t, r.ResolveP1())
	err = r.ResolveP2()
	require.Error(t, err)
}

// EQU depending on a later-defined non-EQU symbol folds during P1 once
// that symbol becomes defined, even though it was still pending at capture
// time.
func TestResolve_EquOnLaterDefinedNonEquSymbol(t *testing.T) {
	reg := symtab.New()
	r := New(reg)

	_, err := r.Capture("b", []CaptureTerm{symbol(symtab.Plus, "a"), literal(symtab.Plus, 4)})
	require.NoError(t, err)

	_, err = reg.DefineLabel("a", 3, 10)
	require.NoError(t, err)

	require.NoError(t, r.ResolveP1())

	b, _ := reg.LookupByName("b")
	assert.True(t, b.Defined)
	assert.Equal(t, 3, b.Section)
	assert.EqualValues(t, 14, b.Value)
}

func TestEntry_ValidityCheck(t *testing.T) {
	e := newEntry(1)
	e.addClass(5, symtab.Plus)
	assert.True(t, e.Valid())

	e.addClass(6, symtab.Plus)
	assert.False(t, e.Valid())
}

func TestRemovePending_ReturnsShiftedSliceInPlace(t *testing.T) {
	pending := []Term{{Symbol: 1}, {Symbol: 2}, {Symbol: 3}}
	pending = removePending(pending, 1)
	assert.Equal(t, []Term{{Symbol: 1}, {Symbol: 3}}, pending)
}
