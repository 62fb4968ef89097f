package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.creack.net/shork/asm/parser"
	"go.creack.net/shork/op"
)

func TestCompileImp(t *testing.T) {
	r := Compile("imp", ";name: imp\nMOV 0, 1")
	require.False(t, r.ErrorsOccurred())
	require.NoError(t, r.Err())
	assert.Equal(t, []op.Instruction{op.New(op.MOV, op.Direct, 0, op.Direct, 1)}, r.Instructions)
	assert.Equal(t, op.ModI, r.Instructions[0].Modifier)
}

func TestCompileEmpty(t *testing.T) {
	for _, src := range []string{"", "; just a comment\n; and another"} {
		r := Compile("empty", src)
		assert.False(t, r.ErrorsOccurred())
		assert.Empty(t, r.Instructions)
	}
}

func TestCompileErrorsAreOrdered(t *testing.T) {
	assert := assert.New(t)

	r := Compile("broken", "MOV 0 1\nDAT ~1, 0")
	require.True(t, r.ErrorsOccurred())

	errs := r.Errors()
	require.Len(t, errs, 2)
	assert.Equal(parser.ParserError, errs[0].Kind)
	assert.Equal(1, errs[0].Line)
	assert.Equal(parser.TokenizerError, errs[1].Kind)
	assert.Equal(2, errs[1].Line)

	err := r.Err()
	require.Error(t, err)
	assert.Contains(err.Error(), "broken:1:7: Expected comma after A Address but found NUMBER")
	var ce parser.CompileError
	assert.ErrorAs(err, &ce)
}
