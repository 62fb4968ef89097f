package op

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultModifier(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		op   Opcode
		a, b AddressMode
		want Modifier
	}{
		{DAT, Immediate, Immediate, ModF},
		{NOP, Direct, Direct, ModF},
		{JMP, Immediate, Direct, ModB},
		{JMZ, Direct, BIndirect, ModB},
		{JMN, Direct, Direct, ModB},
		{DJN, Direct, Direct, ModB},
		{SPL, Direct, Immediate, ModB},
		{SLT, Immediate, Direct, ModAB},
		{SLT, Direct, Immediate, ModB},
		{STP, Immediate, Direct, ModAB},
		{LDP, Direct, Direct, ModB},
		{MOV, Immediate, Direct, ModAB},
		{MOV, Direct, Immediate, ModB},
		{MOV, Direct, BIndirect, ModI},
		{SEQ, Immediate, Immediate, ModAB},
		{SNE, AIndirect, Direct, ModI},
		{ADD, Immediate, Direct, ModAB},
		{SUB, Direct, Immediate, ModB},
		{MUL, Direct, Direct, ModF},
		{DIV, BPreDecrement, BPostIncrement, ModF},
		{MOD, Immediate, Immediate, ModAB},
	}
	for _, elem := range table {
		assert.Equal(elem.want, DefaultModifier(elem.op, elem.a, elem.b), "%s %s %s", elem.op, elem.a, elem.b)
	}
}

func TestLookup(t *testing.T) {
	assert := assert.New(t)

	for _, o := range Opcodes() {
		got, ok := Lookup(o.String())
		assert.True(ok, o.String())
		assert.Equal(o, got)
	}

	got, ok := Lookup("CMP")
	assert.True(ok)
	assert.Equal(SEQ, got)

	_, ok = Lookup("mov")
	assert.False(ok)

	m, ok := LookupModifier("BA")
	assert.True(ok)
	assert.Equal(ModBA, m)
	_, ok = LookupModifier("Q")
	assert.False(ok)
}

func TestSigils(t *testing.T) {
	assert := assert.New(t)

	for i := range len(Sigils) {
		m, ok := ModeForSigil(Sigils[i])
		assert.True(ok)
		assert.Equal(Sigils[i], m.Sigil())
	}
	_, ok := ModeForSigil('!')
	assert.False(ok)
}

func TestInstructionString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("MOV.I $0, $1", New(MOV, Direct, 0, Direct, 1).String())
	assert.Equal("DAT.F #0, #-4", Dat(0, -4).String())
	assert.Equal("ADD.AB #4, $3", New(ADD, Immediate, 4, Direct, 3).String())
	assert.Equal("JMZ.X }42, #14", Instruction{Opcode: JMZ, Modifier: ModX, AMode: APostIncrement, AField: 42, BMode: Immediate, BField: 14}.String())
}

func TestInstructionIsValue(t *testing.T) {
	a := Dat(1, 2)
	b := a
	b.AField = 42
	assert.Equal(t, int32(1), a.AField)
}
