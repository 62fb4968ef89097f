// Package vm runs Redcode programs against each other in a shared core.
package vm

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand/v2"

	"go.creack.net/shork/op"
)

var (
	// ErrInstructionLimit is returned when a program is too long to be loaded.
	ErrInstructionLimit = errors.New("instruction limit exceeded")
	// ErrNotFinished means the game loop stopped before reaching a result.
	ErrNotFinished = errors.New("game not finished")
)

// Config of a game. Values are expected to be validated by the caller.
type Config struct {
	CoreSize                  int
	InstructionLimit          int            // Maximum number of instructions per program.
	InitialInstruction        op.Instruction // Fills the core before placement.
	MaximumTicks              int            // Outer rounds before the game is a draw.
	MaximumProcessesPerPlayer int
	ReadDistance              int // 0 means CoreSize.
	WriteDistance             int // 0 means CoreSize.
	MinimumSeparation         int // Minimum free cells between two programs.
	Separation                int // Gap between two programs with sequential placement.
	RandomSeparation          bool
	Seed                      uint64 // Seed of the random placement.

	Collector Collector   // Defaults to a GameDataCollector.
	Logger    *log.Logger // Defaults to discarding.
}

// State of a game.
type State int

// State values.
const (
	StateNotStarted State = iota
	StateRunning
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// span is the area occupied by a placed program.
type span struct{ start, length int }

type Corewar struct {
	Config Config

	Core      *Core
	Programs  []*Program // In placement order, which is also the tick order.
	Collector Collector

	Tick   int // Completed outer rounds.
	State  State
	Winner *Program // Nil on a draw.

	// Messages is a channel where the VM will send messages.
	// Nil by default, when set it needs to be consumed otherwise it will block.
	Messages chan Message `json:"-"`

	log     *log.Logger
	nextPID int
	nextAt  int // Next sequential placement address.
	placed  []span
	rng     *rand.Rand
}

func NewCorewar(cfg Config) *Corewar {
	if cfg.Collector == nil {
		cfg.Collector = NewGameDataCollector()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Corewar{
		Config:    cfg,
		Core:      NewCore(cfg.CoreSize, cfg.InitialInstruction, cfg.ReadDistance, cfg.WriteDistance, cfg.Collector),
		Collector: cfg.Collector,
		log:       logger,
		nextPID:   1,
		rng:       rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x5348524b)),
	}
}

// Load places the program in the core and gives it its first process.
// The placement is recorded by the collector as a round of its own.
func (cw *Corewar) Load(id string, code []op.Instruction) (*Program, error) {
	if len(code) > cw.Config.InstructionLimit {
		return nil, fmt.Errorf("player %q: %d instructions for a limit of %d: %w", id, len(code), cw.Config.InstructionLimit, ErrInstructionLimit)
	}
	pr := &Program{ID: id, cw: cw}
	cw.Programs = append(cw.Programs, pr)

	start := cw.placement(len(code))

	cw.Collector.StartRoundForProgram(pr)
	cw.Core.program = pr
	for i, ins := range code {
		cw.Core.StoreAbsolute(start+i, ins)
	}
	cw.Core.program = nil
	if p := pr.CreateProcessAt(start); p != nil {
		cw.Collector.CollectProcessDataAfterTick(p)
	}
	cw.Collector.EndRoundForProgram(pr)

	cw.log.Printf("Player %q: %d instructions placed at %d", id, len(code), start)
	cw.emit(MsgPlace, nil, fmt.Sprintf("Player %q placed at %d", id, start))
	return pr, nil
}

// placement returns the start address of the next program.
func (cw *Corewar) placement(length int) int {
	gap := max(cw.Config.Separation, cw.Config.MinimumSeparation)
	start := -1
	if cw.Config.RandomSeparation {
		start = cw.randomPlacement(length)
	}
	if start == -1 {
		start = cw.Core.Normalize(cw.nextAt)
	}
	cw.nextAt = start + length + gap
	cw.placed = append(cw.placed, span{start: start, length: length})
	return start
}

// randomPlacement looks for a start address keeping MinimumSeparation free
// cells around every placed program. It returns -1 when it gives up.
func (cw *Corewar) randomPlacement(length int) int {
	const attempts = 64

	size := cw.Core.Size()
	for range attempts {
		start := cw.rng.IntN(size)
		if cw.fits(start, length) {
			return start
		}
	}
	return -1
}

func (cw *Corewar) fits(start, length int) bool {
	size := cw.Core.Size()
	sep := cw.Config.MinimumSeparation
	for _, s := range cw.placed {
		// Distance from the end of one to the start of the other, both ways round.
		after := ((start-(s.start+s.length))%size + size) % size
		before := ((s.start-(start+length))%size + size) % size
		if after < sep || before < sep || after+before+length+s.length != size {
			return false
		}
	}
	return true
}

// alive returns the number of programs with at least one process and the last one seen.
func (cw *Corewar) alive() (int, *Program) {
	var (
		n    int
		last *Program
	)
	for _, pr := range cw.Programs {
		if pr.Alive() {
			n++
			last = pr
		}
	}
	return n, last
}

func (cw *Corewar) finish(winner *Program) {
	cw.State = StateFinished
	cw.Winner = winner
	if winner == nil {
		cw.log.Printf("Game over after %d ticks: draw", cw.Tick)
		cw.emit(MsgGameOver, nil, fmt.Sprintf("Game over after %d ticks, draw", cw.Tick))
		return
	}
	cw.log.Printf("Game over after %d ticks: %q wins", cw.Tick, winner.ID)
	cw.emit(MsgGameOver, nil, fmt.Sprintf("Game over after %d ticks, player %q wins", cw.Tick, winner.ID))
}

// Round runs one outer tick: each program, in placement order, runs one process.
// A program alone alive before its turn wins. Returns io.EOF once the game is over.
func (cw *Corewar) Round() error {
	switch cw.State {
	case StateFinished:
		return io.EOF
	case StateNotStarted:
		cw.State = StateRunning
	}

	if n, _ := cw.alive(); n == 0 {
		cw.finish(nil)
		return io.EOF
	}
	if cw.Tick >= cw.Config.MaximumTicks {
		cw.finish(nil)
		return io.EOF
	}

	for _, pr := range cw.Programs {
		if n, last := cw.alive(); n == 1 {
			cw.finish(last)
			return io.EOF
		}
		pr.tick()
	}
	cw.Tick++
	return nil
}

// Run plays the game until it is over.
func (cw *Corewar) Run() error {
	for {
		if err := cw.Round(); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
	}
	if cw.State != StateFinished {
		return ErrNotFinished
	}
	return nil
}
