// Package opcodes holds the fixed numeric assignments for instruction
// mnemonics and addressing modes, and the instruction-shape table the
// assembler uses to decide how many operands a mnemonic takes and whether
// immediate addressing is forbidden on any of them.
package opcodes

// Opcode is the 5-bit instruction opcode occupying the high bits of byte 0.
type Opcode uint8

const (
	Halt Opcode = iota
	Iret
	Ret
	Int
	Call
	Jmp
	Jeq
	Jne
	Jgt
	Push
	Pop
	Xchg
	Mov
	Add
	Sub
	Mul
	Div
	Cmp
	Not
	And
	Or
	Xor
	Test
	Shl
	Shr
)

// String returns the opcode's mnemonic.
func (op Opcode) String() string {
	return Mnemonic(op)
}

// Shape classifies how many operands a mnemonic takes and how they encode.
type Shape int

const (
	// NoOperand instructions (halt, iret, ret) emit only byte 0, size_bit=0.
	NoOperand Shape = iota
	// Branch instructions take one operand; literal operands ≤0xFF are
	// 1 byte, symbol operands are always 2 bytes with size_bit=1.
	Branch
	// OneOperand instructions (push, pop) follow the branch size rule.
	OneOperand
	// TwoOperand instructions are always size_bit=1 with 2-byte payloads,
	// immediate literals ≤0xFF included.
	TwoOperand
)

// Descriptor names one mnemonic's opcode, instruction shape, and whether
// immediate addressing is forbidden on its operands.
type Descriptor struct {
	Mnemonic        string
	Opcode          Opcode
	Shape           Shape
	ForbidImmediate []int // operand indices (0-based) where $/immediate addressing is an error
}

// AddrMode is the 3-bit addressing-mode code occupying the high bits of an
// operand descriptor byte.
type AddrMode uint8

const (
	Immed     AddrMode = 0
	RegDir    AddrMode = 1
	RegInd    AddrMode = 2
	RegIndOff AddrMode = 3
	Mem       AddrMode = 4
)

var descriptors = []Descriptor{
	{Mnemonic: "halt", Opcode: Halt, Shape: NoOperand},
	{Mnemonic: "iret", Opcode: Iret, Shape: NoOperand},
	{Mnemonic: "ret", Opcode: Ret, Shape: NoOperand},
	{Mnemonic: "int", Opcode: Int, Shape: Branch},
	{Mnemonic: "call", Opcode: Call, Shape: Branch},
	{Mnemonic: "jmp", Opcode: Jmp, Shape: Branch},
	{Mnemonic: "jeq", Opcode: Jeq, Shape: Branch},
	{Mnemonic: "jne", Opcode: Jne, Shape: Branch},
	{Mnemonic: "jgt", Opcode: Jgt, Shape: Branch},
	{Mnemonic: "push", Opcode: Push, Shape: OneOperand},
	{Mnemonic: "pop", Opcode: Pop, Shape: OneOperand, ForbidImmediate: []int{0}},
	{Mnemonic: "xchg", Opcode: Xchg, Shape: TwoOperand, ForbidImmediate: []int{0, 1}},
	{Mnemonic: "mov", Opcode: Mov, Shape: TwoOperand, ForbidImmediate: []int{1}},
	{Mnemonic: "add", Opcode: Add, Shape: TwoOperand, ForbidImmediate: []int{1}},
	{Mnemonic: "sub", Opcode: Sub, Shape: TwoOperand, ForbidImmediate: []int{1}},
	{Mnemonic: "mul", Opcode: Mul, Shape: TwoOperand, ForbidImmediate: []int{1}},
	{Mnemonic: "div", Opcode: Div, Shape: TwoOperand, ForbidImmediate: []int{1}},
	{Mnemonic: "cmp", Opcode: Cmp, Shape: TwoOperand, ForbidImmediate: []int{1}},
	{Mnemonic: "not", Opcode: Not, Shape: TwoOperand, ForbidImmediate: []int{1}},
	{Mnemonic: "and", Opcode: And, Shape: TwoOperand, ForbidImmediate: []int{1}},
	{Mnemonic: "or", Opcode: Or, Shape: TwoOperand, ForbidImmediate: []int{1}},
	{Mnemonic: "xor", Opcode: Xor, Shape: TwoOperand, ForbidImmediate: []int{1}},
	{Mnemonic: "test", Opcode: Test, Shape: TwoOperand, ForbidImmediate: []int{1}},
	{Mnemonic: "shl", Opcode: Shl, Shape: TwoOperand, ForbidImmediate: []int{1}},
	{Mnemonic: "shr", Opcode: Shr, Shape: TwoOperand, ForbidImmediate: []int{1}},
}

var byMnemonic map[string]*Descriptor

func init() {
	byMnemonic = make(map[string]*Descriptor, len(descriptors))
	for i := range descriptors {
		byMnemonic[descriptors[i].Mnemonic] = &descriptors[i]
	}
}

// Mnemonic returns op's mnemonic, or "?" if it has no descriptor.
func Mnemonic(op Opcode) string {
	for i := range descriptors {
		if descriptors[i].Opcode == op {
			return descriptors[i].Mnemonic
		}
	}
	return "?"
}

// Lookup returns the Descriptor for mnemonic, or false if it is not a
// known instruction.
func Lookup(mnemonic string) (*Descriptor, bool) {
	d, ok := byMnemonic[mnemonic]
	return d, ok
}

// ForbidsImmediate reports whether operand index (0-based) must not use
// immediate addressing on d.
func (d *Descriptor) ForbidsImmediate(index int) bool {
	for _, i := range d.ForbidImmediate {
		if i == index {
			return true
		}
	}
	return false
}
