// Package op defines the Redcode instruction set shared by the assembler and the vm.
package op

import "fmt"

// Opcode enum type.
type Opcode int

// Opcode values.
const (
	DAT Opcode = iota // Kills the executing process.
	NOP               // No operation.
	MOV               // Copies a value or a whole instruction.
	ADD
	SUB
	MUL
	DIV
	MOD
	JMP // Unconditional jump.
	JMZ // Jump if zero.
	JMN // Jump if not zero.
	DJN // Decrement, jump if not zero.
	SEQ // Skip if equal. CMP is an alias.
	SNE // Skip if not equal.
	SLT // Skip if less than.
	SPL // Spawns a new process.
	STP // Store into private storage. Not implemented by the vm.
	LDP // Load from private storage. Not implemented by the vm.
)

func (o Opcode) String() string {
	if d, ok := opcodeTable[o]; ok {
		return d.Name
	}
	return fmt.Sprintf("Opcode(%d)", int(o))
}

// Info returns the opcode table entry.
func (o Opcode) Info() OpCode { return opcodeTable[o] }

// Opcodes returns every opcode in declaration order.
func Opcodes() []Opcode {
	out := make([]Opcode, 0, len(OpCodeTable))
	for _, d := range OpCodeTable {
		out = append(out, d.Code)
	}
	return out
}

// Lookup returns the opcode for the given upper case mnemonic.
// CMP resolves to SEQ.
func Lookup(name string) (Opcode, bool) {
	if name == "CMP" {
		return SEQ, true
	}
	for _, d := range OpCodeTable {
		if d.Name == name {
			return d.Code, true
		}
	}
	return 0, false
}
