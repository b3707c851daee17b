// Package section implements the Section Emitter: per-section location
// counters, output byte buffers, and relocation tables, plus the symbol
// operand resolution rules that decide whether a relocation entry is needed.
package section

// RelocType names the two relocation kinds a linker understands.
type RelocType int

const (
	Absolute RelocType = iota
	PCRelative
)

// Name returns the textual relocation type name used in object dumps.
func (t RelocType) Name() string {
	if t == PCRelative {
		return "R_386_PC32"
	}
	return "R_386_32"
}

// Relocation instructs a linker to adjust the word at Offset by the address
// of Symbol (Absolute) or by Symbol minus the relocation location (PCRelative).
type Relocation struct {
	Offset int
	Type   RelocType
	Symbol int
}

// Section holds one section's output state: write cursor, byte stream, and
// relocation table. Sections persist for the whole run so that re-entering a
// section with another .section directive resumes its location counter.
type Section struct {
	Number          int
	LocationCounter int
	Bytes           []byte
	Relocations     []Relocation
}

func newSection(number int) *Section {
	return &Section{Number: number}
}

// WriteByte appends one byte and advances the location counter.
func (s *Section) WriteByte(b byte) {
	s.Bytes = append(s.Bytes, b)
	s.LocationCounter++
}

// WriteWord appends the little-endian 16-bit encoding of w and advances the
// location counter by 2.
func (s *Section) WriteWord(w uint16) {
	s.WriteByte(byte(w))
	s.WriteByte(byte(w >> 8))
}

// ReadWord reads the little-endian 16-bit word at offset without mutating state.
func (s *Section) ReadWord(offset int) uint16 {
	return uint16(s.Bytes[offset]) | uint16(s.Bytes[offset+1])<<8
}

// PatchWord overwrites the little-endian 16-bit word at offset.
func (s *Section) PatchWord(offset int, w uint16) {
	s.Bytes[offset] = byte(w)
	s.Bytes[offset+1] = byte(w >> 8)
}

// ReadByte reads the single byte at offset without mutating state.
func (s *Section) ReadByte(offset int) byte {
	return s.Bytes[offset]
}

// PatchByte overwrites the single byte at offset.
func (s *Section) PatchByte(offset int, b byte) {
	s.Bytes[offset] = b
}
