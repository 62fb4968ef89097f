// Package shork compiles Redcode warriors and plays them against each other.
package shork

import (
	"fmt"
	"io"
	"log"
	"slices"

	"go.creack.net/shork/asm"
	"go.creack.net/shork/vm"
)

// Diagnostic is a compiler error in a shape suited for editors.
type Diagnostic struct {
	Line        int    `json:"line"`
	Message     string `json:"message"`
	ColumnStart int    `json:"columnStart"`
	ColumnEnd   int    `json:"columnEnd"`
}

// CompileForDiagnostics compiles the source without running it
// and returns every tokenizer and parser error, ordered by position.
func CompileForDiagnostics(src string) []Diagnostic {
	res := asm.Compile("", src)
	out := []Diagnostic{}
	for _, e := range res.Errors() {
		out = append(out, Diagnostic{
			Line:        e.Line,
			Message:     e.Message,
			ColumnStart: e.ColumnStart,
			ColumnEnd:   e.ColumnEnd,
		})
	}
	return out
}

// Warrior is the source submitted by a player.
type Warrior struct {
	Player string
	Source string
}

// OutcomeKind tells how a game ended.
type OutcomeKind int

// OutcomeKind values.
const (
	Draw OutcomeKind = iota
	Win
)

func (k OutcomeKind) String() string {
	switch k {
	case Draw:
		return "DRAW"
	case Win:
		return "WIN"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the kind as WIN or DRAW.
func (k OutcomeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Outcome of a game. Winner is empty on a draw.
type Outcome struct {
	Winner string      `json:"winner,omitempty"`
	Kind   OutcomeKind `json:"kind"`
}

// GameResult is what a finished game produced.
type GameResult struct {
	Outcome Outcome               `json:"outcome"`
	Rounds  []vm.RoundInformation `json:"roundInformation"`
	Ticks   int                   `json:"ticks"`
}

type options struct {
	logger   *log.Logger
	messages chan vm.Message
}

// Option tweaks how a game is set up.
type Option func(*options)

// WithLogger sets where the game logs. Nothing is logged by default.
func WithLogger(l *log.Logger) Option { return func(o *options) { o.logger = l } }

// WithMessages makes the vm publish its events on the given channel.
// The channel needs to be consumed, the game blocks otherwise.
func WithMessages(ch chan vm.Message) Option { return func(o *options) { o.messages = ch } }

// NewGame compiles and places the warriors, in the given order, and returns the game ready to be stepped.
// Programs with compile errors are placed with whatever compiled.
// Programs exceeding the instruction limit are left out.
func NewGame(s Settings, warriors []Warrior, opts ...Option) (*vm.Corewar, error) {
	o := options{logger: log.New(io.Discard, "", 0)}
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}
	cfg.Logger = o.logger

	cw := vm.NewCorewar(cfg)
	cw.Messages = o.messages
	for _, w := range warriors {
		res := asm.Compile(w.Player, w.Source)
		o.logger.Printf("Player %q: %d instructions compiled", w.Player, len(res.Instructions))
		for _, e := range res.TokenizerErrors {
			o.logger.Printf("Player %q: tokenizer: %s", w.Player, e)
		}
		for _, e := range res.ParserErrors {
			o.logger.Printf("Player %q: parser: %s", w.Player, e)
		}
		if _, err := cw.Load(w.Player, res.Instructions); err != nil {
			o.logger.Printf("Warning: %s, skipped.", err)
		}
	}
	return cw, nil
}

// RunWarriors plays the warriors, in the given order, until the game is over.
func RunWarriors(s Settings, warriors []Warrior, opts ...Option) (*GameResult, error) {
	cw, err := NewGame(s, warriors, opts...)
	if err != nil {
		return nil, err
	}
	if err := cw.Run(); err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}

	return ResultOf(cw), nil
}

// ResultOf collects the result of a game stepped by the caller.
func ResultOf(cw *vm.Corewar) *GameResult {
	res := &GameResult{
		Outcome: Outcome{Kind: Draw},
		Rounds:  cw.Collector.GameStatistics(),
		Ticks:   cw.Tick,
	}
	if cw.Winner != nil {
		res.Outcome = Outcome{Winner: cw.Winner.ID, Kind: Win}
	}
	return res
}

// Run plays the programs, keyed by player name, until the game is over.
// Players are placed in name order so the result doesn't depend on map iteration.
func Run(s Settings, programs map[string]string, opts ...Option) (*GameResult, error) {
	players := make([]string, 0, len(programs))
	for name := range programs {
		players = append(players, name)
	}
	slices.Sort(players)

	warriors := make([]Warrior, 0, len(players))
	for _, name := range players {
		warriors = append(warriors, Warrior{Player: name, Source: programs[name]})
	}
	return RunWarriors(s, warriors, opts...)
}
