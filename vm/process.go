package vm

import (
	"fmt"
	"slices"
)

// Process is a thread of execution owned by a Program.
type Process struct {
	ID      int
	Program *Program
	PC      int  // Always within [0, core size).
	Dead    bool // Set once removed from its program.

	jumped bool // The executed instruction set the PC itself.
}

func (p *Process) String() string {
	return fmt.Sprintf("process %d of %q at %d", p.ID, p.Program.ID, p.PC)
}

// tick executes the instruction under the PC.
func (p *Process) tick() {
	cw := p.Program.cw
	ins := cw.Core.LoadAbsolute(p.PC)
	ops := cw.Core.resolve(p.PC, ins)
	cw.exec(p, ins, ops)
	if p.jumped {
		p.jumped = false
		return
	}
	p.PC = cw.Core.Normalize(p.PC + 1)
}

// jump moves the PC to an absolute address.
func (p *Process) jump(addr int) {
	p.PC = p.Program.cw.Core.Normalize(addr)
	p.jumped = true
}

// skip advances the PC past the next instruction.
func (p *Process) skip() {
	p.PC = p.Program.cw.Core.Normalize(p.PC + 1)
}

// Program is a player: its processes run round robin, one per tick.
type Program struct {
	ID string

	cw        *Corewar
	processes []*Process
	next      int // Index of the process to run next.
}

// Processes returns the live processes in the order they will run.
func (pr *Program) Processes() []*Process {
	out := make([]*Process, 0, len(pr.processes))
	if len(pr.processes) == 0 {
		return out
	}
	start := pr.next % len(pr.processes)
	out = append(out, pr.processes[start:]...)
	return append(out, pr.processes[:start]...)
}

// Alive reports whether the program still has a process.
func (pr *Program) Alive() bool { return len(pr.processes) > 0 }

// CreateProcessAt adds a process at the tail of the run order.
// It returns nil when the program already has the maximum number of processes.
func (pr *Program) CreateProcessAt(addr int) *Process {
	if len(pr.processes) >= pr.cw.Config.MaximumProcessesPerPlayer {
		return nil
	}
	p := &Process{
		ID:      pr.cw.nextPID,
		Program: pr,
		PC:      pr.cw.Core.Normalize(addr),
	}
	pr.cw.nextPID++

	// Inserting right before the next process to run puts the new one last in the rotation.
	pr.next = min(pr.next, len(pr.processes))
	pr.processes = slices.Insert(pr.processes, pr.next, p)
	pr.next++

	pr.cw.emit(MsgSpawn, p, fmt.Sprintf("Process %d spawned at %d", p.ID, p.PC))
	return p
}

func (pr *Program) removeProcess(p *Process) {
	i := slices.Index(pr.processes, p)
	if i == -1 {
		return
	}
	pr.processes = slices.Delete(pr.processes, i, i+1)
	if i < pr.next {
		pr.next--
	}
	p.Dead = true

	pr.cw.emit(MsgDead, p, fmt.Sprintf("Process %d died at %d", p.ID, p.PC))
	if len(pr.processes) == 0 {
		pr.cw.emit(MsgEliminated, p, fmt.Sprintf("Player %q has no process left", pr.ID))
	}
}

// tick runs the next process, bracketed for the collector.
func (pr *Program) tick() {
	if len(pr.processes) == 0 {
		return
	}
	if pr.next >= len(pr.processes) {
		pr.next = 0
	}
	p := pr.processes[pr.next]
	pr.next++

	c := pr.cw.Collector
	c.StartRoundForProgram(pr)
	c.CollectProcessDataBeforeTick(p)
	pr.cw.Core.actor, pr.cw.Core.program = p, pr
	p.tick()
	pr.cw.Core.actor, pr.cw.Core.program = nil, nil
	c.CollectProcessDataAfterTick(p)
	c.EndRoundForProgram(pr)
}
