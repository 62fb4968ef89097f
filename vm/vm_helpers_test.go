package vm

import "go.creack.net/shork/op"

func testConfig(initial op.Instruction) Config {
	return Config{
		CoreSize:                  8000,
		InstructionLimit:          1000,
		InitialInstruction:        initial,
		MaximumTicks:              1000,
		MaximumProcessesPerPlayer: 64,
		MinimumSeparation:         100,
		Separation:                100,
	}
}

func newTestCorewar(initial op.Instruction) *Corewar {
	return NewCorewar(testConfig(initial))
}

// newTestProgram registers an empty program, bypassing placement.
func newTestProgram(cw *Corewar, id string) *Program {
	pr := &Program{ID: id, cw: cw}
	cw.Programs = append(cw.Programs, pr)
	return pr
}

// execAt stores ins at address 0 and runs it once with a fresh process.
func execAt(cw *Corewar, ins op.Instruction) *Process {
	cw.Core.StoreAbsolute(0, ins)
	p := newTestProgram(cw, "test").CreateProcessAt(0)
	p.tick()
	return p
}
