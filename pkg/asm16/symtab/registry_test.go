package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupOrReference_CreatesUndefinedLocal(t *testing.T) {
	r := New()
	sym := r.LookupOrReference("foo", nil)

	require.NotNil(t, sym)
	assert.Equal(t, 1, sym.Number)
	assert.False(t, sym.Defined)
	assert.Equal(t, Local, sym.Scope)

	again := r.LookupOrReference("foo", nil)
	assert.Same(t, sym, again)
}

func TestLookupOrReference_AppendsForwardRef(t *testing.T) {
	r := New()
	ref := &ForwardRef{Patch: 4, Section: 1, Sign: Plus}
	sym := r.LookupOrReference("foo", ref)

	require.Len(t, sym.ForwardRefs, 1)
	assert.Equal(t, *ref, sym.ForwardRefs[0])
}

func TestDefineLabel_MultipleDefinitionError(t *testing.T) {
	r := New()
	_, err := r.DefineLabel("foo", 1, 0)
	require.NoError(t, err)

	_, err = r.DefineLabel("foo", 1, 2)
	require.Error(t, err)
}

func TestDefineLabel_ResolvesForwardReferencedSymbol(t *testing.T) {
	r := New()
	forward := r.LookupOrReference("foo", nil)
	assert.False(t, forward.Defined)

	sym, err := r.DefineLabel("foo", 1, 10)
	require.NoError(t, err)
	assert.Same(t, forward, sym)
	assert.True(t, sym.Defined)
	assert.EqualValues(t, 10, sym.Value)
}

func TestDeclare_ExternConflictOnDefinedLocal(t *testing.T) {
	r := New()
	_, err := r.DefineLabel("foo", 1, 0)
	require.NoError(t, err)

	_, err = r.Declare("foo", true)
	require.Error(t, err)
}

func TestDeclare_PromotesUndefinedToExtern(t *testing.T) {
	r := New()
	sym, err := r.Declare("foo", true)
	require.NoError(t, err)
	assert.Equal(t, Extern, sym.Scope)
	assert.Equal(t, UndefinedSection, sym.Section)
}

func TestDefineSection_FirstAndRepeatEntry(t *testing.T) {
	r := New()
	number, err := r.DefineSection("text")
	require.NoError(t, err)
	assert.Equal(t, 1, number)

	again, err := r.DefineSection("text")
	require.NoError(t, err)
	assert.Equal(t, number, again)

	sym := r.Symbol(number)
	assert.True(t, sym.IsSection())
}

func TestDefineSection_ConflictsWithNonSectionSymbol(t *testing.T) {
	r := New()
	_, err := r.DefineLabel("data", 1, 0)
	require.NoError(t, err)

	_, err = r.DefineSection("data")
	require.Error(t, err)
}
