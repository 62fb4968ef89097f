package shork

import (
	"bytes"
	"encoding/json"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.creack.net/shork/vm"
)

func TestRunOnePlayerWins(t *testing.T) {
	// Impy runs forever, blahaj jumps into a DAT.
	res, err := RunWarriors(DefaultSettings(), []Warrior{
		{Player: "impy", Source: "mov 0, 1"},
		{Player: "blahaj", Source: "jmp $1, 0"},
	})
	require.NoError(t, err)
	assert.Equal(t, Outcome{Winner: "impy", Kind: Win}, res.Outcome)
	// Two placements, then impy, blahaj, impy and the fatal blahaj tick.
	assert.Len(t, res.Rounds, 6)
}

func TestRunPlacesPlayersByName(t *testing.T) {
	res, err := Run(DefaultSettings(), map[string]string{"impy": "mov 0, 1", "blahaj": "jmp $1, 0"})
	require.NoError(t, err)
	assert.Equal(t, Outcome{Winner: "impy", Kind: Win}, res.Outcome)
	// Blahaj goes first and dies on its second tick, impy wins before ticking again.
	require.Len(t, res.Rounds, 5)
	assert.Equal(t, "blahaj", res.Rounds[0].PlayerID)
	assert.Equal(t, "impy", res.Rounds[1].PlayerID)
	assert.True(t, res.Rounds[4].ProcessDied)
}

func TestRunMoreInstructionsPerPlayer(t *testing.T) {
	res, err := RunWarriors(DefaultSettings(), []Warrior{
		{Player: "impy", Source: "mov 0, 1\nmov 1, 2\nmov 2, 3"},
		{Player: "blahaj", Source: "jmp $10, 0\n mov 2, 3"},
	})
	require.NoError(t, err)
	assert.Equal(t, Outcome{Winner: "impy", Kind: Win}, res.Outcome)
	assert.Len(t, res.Rounds, 6)
}

func TestRunDatLoses(t *testing.T) {
	res, err := Run(DefaultSettings(), map[string]string{"imp": "MOV 0, 1", "dat": "DAT 0, 0"})
	require.NoError(t, err)
	assert.Equal(t, Outcome{Winner: "imp", Kind: Win}, res.Outcome)
	assert.Less(t, res.Ticks, 5)
}

func TestRunDraws(t *testing.T) {
	t.Run("no programs", func(t *testing.T) {
		res, err := Run(DefaultSettings(), map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, Outcome{Kind: Draw}, res.Outcome)
	})
	t.Run("jumping in place", func(t *testing.T) {
		res, err := Run(DefaultSettings(), map[string]string{"impy": "jmp 0, 0", "blahaj": "jmp 0, 0"})
		require.NoError(t, err)
		assert.Equal(t, Outcome{Kind: Draw}, res.Outcome)
		assert.Equal(t, 80000, res.Ticks)
	})
	t.Run("two imps", func(t *testing.T) {
		s := DefaultSettings()
		s.MaximumTicks = 2000
		res, err := Run(s, map[string]string{"a": "MOV 0, 1", "b": "MOV 0, 1"})
		require.NoError(t, err)
		assert.Equal(t, Outcome{Kind: Draw}, res.Outcome)
	})
	t.Run("two imps with default settings", func(t *testing.T) {
		res, err := Run(DefaultSettings(), map[string]string{"a": "MOV 0, 1", "b": "MOV 0, 1"})
		require.NoError(t, err)
		assert.Equal(t, Outcome{Kind: Draw}, res.Outcome)
		assert.Equal(t, DefaultSettings().MaximumTicks, res.Ticks)
	})
}

func TestRunInvalidSettings(t *testing.T) {
	s := DefaultSettings()
	s.InitialInstruction = "JMP.A $0 $0"
	_, err := Run(s, map[string]string{"impy": "mov 0, 1"})
	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestRunSkipsLongPrograms(t *testing.T) {
	var buf bytes.Buffer
	s := DefaultSettings()
	s.InstructionLimit = 2
	res, err := Run(s, map[string]string{
		"long":  "mov 0, 1\nmov 0, 1\nmov 0, 1",
		"short": "jmp 0, 0",
	}, WithLogger(log.New(&buf, "", 0)))
	require.NoError(t, err)
	assert.Equal(t, Outcome{Winner: "short", Kind: Win}, res.Outcome)
	assert.Contains(t, buf.String(), "instruction limit exceeded")
}

func TestRunRoundsChainPerPlayer(t *testing.T) {
	s := DefaultSettings()
	s.MaximumTicks = 10
	res, err := Run(s, map[string]string{"a": "MOV 0, 1", "b": "JMP 0"})
	require.NoError(t, err)

	last := map[string]int{}
	for _, elem := range res.Rounds {
		if prev, ok := last[elem.PlayerID]; ok {
			assert.Equal(t, prev, elem.ProgramCounterBefore)
		} else {
			assert.Equal(t, -1, elem.ProgramCounterBefore)
		}
		last[elem.PlayerID] = elem.ProgramCounterAfter
	}
	assert.Len(t, res.Rounds, 2+2*10)
}

func TestRunWarriorsKeepsOrder(t *testing.T) {
	res, err := RunWarriors(DefaultSettings(), []Warrior{
		{Player: "z", Source: "jmp 0"},
		{Player: "a", Source: "dat 0, 0"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Rounds)
	assert.Equal(t, "z", res.Rounds[0].PlayerID)
	assert.Equal(t, 0, res.Rounds[0].ProgramCounterAfter)
	assert.Equal(t, 101, res.Rounds[1].ProgramCounterAfter)
}

func TestNewGameMessages(t *testing.T) {
	ch := make(chan vm.Message, 16)
	cw, err := NewGame(DefaultSettings(), []Warrior{{Player: "imp", Source: "mov 0, 1"}}, WithMessages(ch))
	require.NoError(t, err)
	require.Len(t, cw.Programs, 1)
	close(ch)

	var types []vm.MessageType
	for msg := range ch {
		types = append(types, msg.Type)
	}
	assert.Equal(t, []vm.MessageType{vm.MsgSpawn, vm.MsgPlace}, types)
}

func TestGameResultJSON(t *testing.T) {
	res, err := Run(DefaultSettings(), map[string]string{"impy": "mov 0, 1", "blahaj": "jmp $1, 0"})
	require.NoError(t, err)
	buf, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(buf), `"outcome":{"winner":"impy","kind":"WIN"}`)
	assert.Contains(t, string(buf), `"programCounterBefore":-1`)
}

func TestCompileForDiagnostics(t *testing.T) {
	assert := assert.New(t)

	assert.Empty(CompileForDiagnostics(""))
	assert.Empty(CompileForDiagnostics("; only a comment\n"))
	assert.Empty(CompileForDiagnostics("mov 0, 1"))

	diags := CompileForDiagnostics("mov 0 1\ndat 0, 0\nfoo")
	require.Len(t, diags, 2)
	assert.Equal(1, diags[0].Line)
	assert.Equal(3, diags[1].Line)
	assert.Equal("Unexpected token, expected instruction, found 'foo'", diags[1].Message)
}
