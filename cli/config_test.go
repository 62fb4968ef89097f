package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.creack.net/shork"
)

func TestEvalSettings(t *testing.T) {
	assert := assert.New(t)

	src := `
def _double(x):
    return 2 * x

core_size = 8000
max_ticks = _double(defaults["max_ticks"])
initial_instruction = "JMP.A $1, $2"
random_separation = True
seed = 42
`
	s, err := EvalSettings("test.star", []byte(src), shork.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(8000, s.CoreSize)
	assert.Equal(160000, s.MaximumTicks)
	assert.Equal("JMP.A $1, $2", s.InitialInstruction)
	assert.True(s.RandomSeparation)
	assert.Equal(uint64(42), s.Seed)
	assert.Equal(64, s.MaximumProcessesPerPlayer)
}

func TestEvalSettingsErrors(t *testing.T) {
	for name, src := range map[string]string{
		"unknown":      "core = 1\n",
		"wrong type":   "core_size = \"big\"\n",
		"wrong bool":   "random_separation = 1\n",
		"syntax":       "core_size = \n",
		"frozen":       "defaults[\"core_size\"] = 1\n",
		"negative u64": "seed = -1\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := EvalSettings("test.star", []byte(src), shork.DefaultSettings())
			assert.Error(t, err)
		})
	}
}
