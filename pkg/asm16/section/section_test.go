package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteWord_LittleEndian(t *testing.T) {
	s := newSection(1)
	s.WriteWord(0xABCD)

	assert.Equal(t, []byte{0xCD, 0xAB}, s.Bytes)
	assert.Equal(t, 2, s.LocationCounter)
}

func TestPatchWord_OverwritesInPlace(t *testing.T) {
	s := newSection(1)
	s.WriteWord(0)
	s.PatchWord(0, 0x1234)

	assert.Equal(t, uint16(0x1234), s.ReadWord(0))
}

func TestRelocType_Name(t *testing.T) {
	assert.Equal(t, "R_386_32", Absolute.Name())
	assert.Equal(t, "R_386_PC32", PCRelative.Name())
}
