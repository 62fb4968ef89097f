package op

import "fmt"

// Instruction is a single Redcode instruction as stored in a core cell.
// It is a value: copying it yields an independent instruction.
type Instruction struct {
	Opcode   Opcode
	Modifier Modifier
	AMode    AddressMode
	AField   int32
	BMode    AddressMode
	BField   int32
}

// New returns an instruction with the default modifier for the opcode and modes.
func New(o Opcode, aMode AddressMode, a int32, bMode AddressMode, b int32) Instruction {
	return Instruction{
		Opcode:   o,
		Modifier: DefaultModifier(o, aMode, bMode),
		AMode:    aMode,
		AField:   a,
		BMode:    bMode,
		BField:   b,
	}
}

// Dat returns DAT.F #a, #b.
func Dat(a, b int32) Instruction {
	return Instruction{Opcode: DAT, Modifier: ModF, AMode: Immediate, AField: a, BMode: Immediate, BField: b}
}

// String renders the canonical Redcode form, e.g. "MOV.I $0, $1".
func (ins Instruction) String() string {
	return fmt.Sprintf("%s.%s %c%d, %c%d", ins.Opcode, ins.Modifier, ins.AMode.Sigil(), ins.AField, ins.BMode.Sigil(), ins.BField)
}
