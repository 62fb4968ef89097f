package shork

import (
	"errors"
	"fmt"

	"go.creack.net/shork/asm"
	"go.creack.net/shork/op"
	"go.creack.net/shork/vm"
)

// ErrInvalidSettings is returned when Settings can't be turned into a game configuration.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings of a game as supplied by the caller.
type Settings struct {
	CoreSize           int    `json:"coreSize"`
	InstructionLimit   int    `json:"instructionLimit"`   // Longest program accepted.
	InitialInstruction string `json:"initialInstruction"` // Redcode filling the core, must be one instruction.
	MaximumTicks       int    `json:"maximumTicks"`       // Outer rounds before a draw is called.

	MaximumProcessesPerPlayer int `json:"maximumProcessesPerPlayer"`

	ReadDistance  int `json:"readDistance"`  // 0 means CoreSize.
	WriteDistance int `json:"writeDistance"` // 0 means CoreSize.

	MinimumSeparation int    `json:"minimumSeparation"`
	Separation        int    `json:"separation"`
	RandomSeparation  bool   `json:"randomSeparation"`
	Seed              uint64 `json:"seed"`
}

// DefaultSettings returns the settings used when nothing else is specified.
func DefaultSettings() Settings {
	return Settings{
		CoreSize:                  8192,
		InstructionLimit:          100000,
		InitialInstruction:        "DAT $0, $0",
		MaximumTicks:              80000,
		MaximumProcessesPerPlayer: 64,
		MinimumSeparation:         100,
		Separation:                100,
	}
}

// Config validates the settings and converts them for the vm.
func (s Settings) Config() (vm.Config, error) {
	switch {
	case s.CoreSize <= 0:
		return vm.Config{}, fmt.Errorf("%w: core size must be positive, got %d", ErrInvalidSettings, s.CoreSize)
	case s.MaximumProcessesPerPlayer <= 0:
		return vm.Config{}, fmt.Errorf("%w: maximum processes per player must be positive, got %d", ErrInvalidSettings, s.MaximumProcessesPerPlayer)
	case s.InstructionLimit < 0:
		return vm.Config{}, fmt.Errorf("%w: negative instruction limit %d", ErrInvalidSettings, s.InstructionLimit)
	case s.MaximumTicks < 0:
		return vm.Config{}, fmt.Errorf("%w: negative maximum ticks %d", ErrInvalidSettings, s.MaximumTicks)
	case s.Separation < 0 || s.MinimumSeparation < 0:
		return vm.Config{}, fmt.Errorf("%w: negative separation", ErrInvalidSettings)
	case s.ReadDistance < 0 || s.WriteDistance < 0:
		return vm.Config{}, fmt.Errorf("%w: negative read or write distance", ErrInvalidSettings)
	}

	initial, err := compileInitialInstruction(s.InitialInstruction)
	if err != nil {
		return vm.Config{}, err
	}

	return vm.Config{
		CoreSize:                  s.CoreSize,
		InstructionLimit:          s.InstructionLimit,
		InitialInstruction:        initial,
		MaximumTicks:              s.MaximumTicks,
		MaximumProcessesPerPlayer: s.MaximumProcessesPerPlayer,
		ReadDistance:              min(s.ReadDistance, s.CoreSize),
		WriteDistance:             min(s.WriteDistance, s.CoreSize),
		MinimumSeparation:         s.MinimumSeparation,
		Separation:                s.Separation,
		RandomSeparation:          s.RandomSeparation,
		Seed:                      s.Seed,
	}, nil
}

func compileInitialInstruction(src string) (op.Instruction, error) {
	res := asm.Compile("initialInstruction", src)
	if err := res.Err(); err != nil {
		return op.Instruction{}, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if len(res.Instructions) != 1 {
		return op.Instruction{}, fmt.Errorf("%w: initial instruction %q compiles to %d instructions, expected 1", ErrInvalidSettings, src, len(res.Instructions))
	}
	return res.Instructions[0], nil
}
