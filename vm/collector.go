package vm

import (
	"cmp"
	"slices"

	"go.creack.net/shork/op"
)

// RoundInformation records what one program did during one tick.
// Placement is recorded the same way with ProgramCounterBefore set to -1.
type RoundInformation struct {
	PlayerID                        string `json:"playerId"`
	ProgramCounterBefore            int    `json:"programCounterBefore"`
	ProgramCounterAfter             int    `json:"programCounterAfter"`
	ProgramCountersOfOtherProcesses []int  `json:"programCountersOfOtherProcesses"`
	MemoryReads                     []int  `json:"memoryReads"`
	MemoryWrites                    []int  `json:"memoryWrites"`
	ProcessDied                     bool   `json:"processDied"`
}

// Collector observes the game. Calls for a program are bracketed by
// StartRoundForProgram and EndRoundForProgram.
type Collector interface {
	StartRoundForProgram(*Program)
	EndRoundForProgram(*Program)
	CollectProcessDataBeforeTick(*Process)
	CollectProcessDataAfterTick(*Process)
	CollectMemoryRead(addr int)
	CollectMemoryWrite(addr int, ins op.Instruction)
	GameStatistics() []RoundInformation
}

// GameDataCollector keeps one RoundInformation per bracket, in order.
type GameDataCollector struct {
	rounds []RoundInformation

	current     *Program
	reads       []int
	writes      []int
	pcBefore    int
	pcAfter     int
	ticked      *Process
	processDied bool
}

// NewGameDataCollector creates an empty collector.
func NewGameDataCollector() *GameDataCollector {
	c := &GameDataCollector{}
	c.reset()
	return c
}

func (c *GameDataCollector) reset() {
	c.current = nil
	c.reads = []int{}
	c.writes = []int{}
	c.pcBefore = -1
	c.pcAfter = -1
	c.ticked = nil
	c.processDied = false
}

func (c *GameDataCollector) StartRoundForProgram(p *Program) { c.current = p }

func (c *GameDataCollector) EndRoundForProgram(p *Program) {
	c.rounds = append(c.rounds, RoundInformation{
		PlayerID:                        p.ID,
		ProgramCounterBefore:            c.pcBefore,
		ProgramCounterAfter:             c.pcAfter,
		ProgramCountersOfOtherProcesses: c.otherPCs(p),
		MemoryReads:                     c.reads,
		MemoryWrites:                    c.writes,
		ProcessDied:                     c.processDied,
	})
	c.reset()
}

// otherPCs snapshots the program counters of every live process of the game
// but the one that ticked, oldest first.
func (c *GameDataCollector) otherPCs(p *Program) []int {
	var others []*Process
	if p.cw != nil {
		for _, pr := range p.cw.Programs {
			for _, elem := range pr.processes {
				if elem != c.ticked {
					others = append(others, elem)
				}
			}
		}
	}
	slices.SortFunc(others, func(a, b *Process) int { return cmp.Compare(a.ID, b.ID) })

	pcs := make([]int, 0, len(others))
	for _, elem := range others {
		pcs = append(pcs, elem.PC)
	}
	return pcs
}

func (c *GameDataCollector) CollectProcessDataBeforeTick(p *Process) {
	c.pcBefore = p.PC
	c.ticked = p
}

func (c *GameDataCollector) CollectProcessDataAfterTick(p *Process) {
	c.pcAfter = p.PC
	c.ticked = p
	c.processDied = p.Dead
}

// CollectMemoryRead records a read. Accesses outside of a bracket are dropped.
func (c *GameDataCollector) CollectMemoryRead(addr int) {
	if c.current != nil {
		c.reads = append(c.reads, addr)
	}
}

func (c *GameDataCollector) CollectMemoryWrite(addr int, _ op.Instruction) {
	if c.current != nil {
		c.writes = append(c.writes, addr)
	}
}

// GameStatistics returns the rounds collected so far.
func (c *GameDataCollector) GameStatistics() []RoundInformation { return c.rounds }

type nopCollector struct{}

func (nopCollector) StartRoundForProgram(*Program) {}
func (nopCollector) EndRoundForProgram(*Program) {}
func (nopCollector) CollectProcessDataBeforeTick(*Process) {}
func (nopCollector) CollectProcessDataAfterTick(*Process) {}
func (nopCollector) CollectMemoryRead(int) {}
func (nopCollector) CollectMemoryWrite(int, op.Instruction) {}
func (nopCollector) GameStatistics() []RoundInformation { return nil }
