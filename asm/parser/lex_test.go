package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexColumns(t *testing.T) {
	table := []struct {
		input string
		want  []item
	}{
		{"", []item{
			{typ: itemEOF, line: 1, start: 1, end: 1},
		}},
		{"; This is a comment", []item{
			{typ: itemSemicolon, val: ";", line: 1, start: 1, end: 1},
			{typ: itemEOF, line: 1, start: 20, end: 20},
		}},
		{"DAT.X 42, #1337; This is a comment", []item{
			{typ: itemDAT, val: "DAT", line: 1, start: 1, end: 3},
			{typ: itemDot, val: ".", line: 1, start: 4, end: 4},
			{typ: itemModX, val: "X", line: 1, start: 5, end: 5},
			{typ: itemNumber, val: "42", literal: 42, line: 1, start: 7, end: 8},
			{typ: itemComma, val: ",", line: 1, start: 9, end: 9},
			{typ: itemHash, val: "#", line: 1, start: 11, end: 11},
			{typ: itemNumber, val: "1337", literal: 1337, line: 1, start: 12, end: 15},
			{typ: itemSemicolon, val: ";", line: 1, start: 16, end: 16},
			{typ: itemEOF, line: 1, start: 35, end: 35},
		}},
		{"MOV 10 <20", []item{
			{typ: itemMOV, val: "MOV", line: 1, start: 1, end: 3},
			{typ: itemNumber, val: "10", literal: 10, line: 1, start: 5, end: 6},
			{typ: itemLess, val: "<", line: 1, start: 8, end: 8},
			{typ: itemNumber, val: "20", literal: 20, line: 1, start: 9, end: 10},
			{typ: itemEOF, line: 1, start: 11, end: 11},
		}},
		{"SPL.AB 42, 20", []item{
			{typ: itemSPL, val: "SPL", line: 1, start: 1, end: 3},
			{typ: itemDot, val: ".", line: 1, start: 4, end: 4},
			{typ: itemModAB, val: "AB", line: 1, start: 5, end: 6},
			{typ: itemNumber, val: "42", literal: 42, line: 1, start: 8, end: 9},
			{typ: itemComma, val: ",", line: 1, start: 10, end: 10},
			{typ: itemNumber, val: "20", literal: 20, line: 1, start: 12, end: 13},
			{typ: itemEOF, line: 1, start: 14, end: 14},
		}},
		{"JMZ.X }42, #14", []item{
			{typ: itemJMZ, val: "JMZ", line: 1, start: 1, end: 3},
			{typ: itemDot, val: ".", line: 1, start: 4, end: 4},
			{typ: itemModX, val: "X", line: 1, start: 5, end: 5},
			{typ: itemRightBrace, val: "}", line: 1, start: 7, end: 7},
			{typ: itemNumber, val: "42", literal: 42, line: 1, start: 8, end: 9},
			{typ: itemComma, val: ",", line: 1, start: 10, end: 10},
			{typ: itemHash, val: "#", line: 1, start: 12, end: 12},
			{typ: itemNumber, val: "14", literal: 14, line: 1, start: 13, end: 14},
			{typ: itemEOF, line: 1, start: 15, end: 15},
		}},
		{"mov 0, 1\n  jmp -1", []item{
			{typ: itemMOV, val: "mov", line: 1, start: 1, end: 3},
			{typ: itemNumber, val: "0", line: 1, start: 5, end: 5},
			{typ: itemComma, val: ",", line: 1, start: 6, end: 6},
			{typ: itemNumber, val: "1", literal: 1, line: 1, start: 8, end: 8},
			{typ: itemJMP, val: "jmp", line: 2, start: 3, end: 5},
			{typ: itemMinus, val: "-", line: 2, start: 7, end: 7},
			{typ: itemNumber, val: "1", literal: 1, line: 2, start: 8, end: 8},
			{typ: itemEOF, line: 2, start: 9, end: 9},
		}},
	}
	for _, elem := range table {
		t.Run(elem.input, func(t *testing.T) {
			items, errs := lex(elem.input)
			assert.Empty(t, errs)
			assert.Equal(t, elem.want, items)
		})
	}
}

func TestLexKeywordsAreCaseInsensitive(t *testing.T) {
	assert := assert.New(t)

	items, errs := lex("Mov.aB cmp Org loop")
	require.Empty(t, errs)
	require.Len(t, items, 7)
	assert.Equal(itemMOV, items[0].typ)
	assert.Equal("Mov", items[0].val)
	assert.Equal(itemModAB, items[2].typ)
	assert.Equal(itemCMP, items[3].typ)
	assert.Equal(itemORG, items[4].typ)
	assert.Equal(itemIdentifier, items[5].typ)
	assert.Equal("loop", items[5].val)
}

func TestLexCommentDropsRestOfLine(t *testing.T) {
	items, errs := lex("; mov 0, 1 &&&\ndat 0")
	require.Empty(t, errs)
	assert.Equal(t, []itemType{itemSemicolon, itemDAT, itemNumber, itemEOF}, types(items))
}

func TestLexUnexpectedCharacter(t *testing.T) {
	assert := assert.New(t)

	items, errs := lex("mov 0, 1\nmov & 1")
	require.Len(t, errs, 1)
	assert.Equal(CompileError{
		Kind:        TokenizerError,
		Message:     "Unexpected character: & at pos 14",
		Line:        2,
		ColumnStart: 5,
		ColumnEnd:   5,
	}, errs[0])
	// Scanning goes on after the error.
	assert.Equal(itemNumber, items[5].typ)
	assert.Equal(2, items[5].line)
}

func TestLexNumberOverflowSaturates(t *testing.T) {
	items, errs := lex("99999999999999999999999")
	require.Empty(t, errs)
	assert.Equal(t, itemNumber, items[0].typ)
	assert.Greater(t, items[0].literal, int64(1<<31))
}

func TestItemTypeNames(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("HASHTAG", itemHash.String())
	assert.Equal("NUMBER", itemNumber.String())
	assert.Equal("LOWER_THAN", itemLess.String())
	assert.Equal("CMP", itemCMP.String())
	for typ := range itemNames {
		if typ > itemKeyword {
			assert.Equal(typ, keywords[typ.String()])
		}
	}
}

func types(items []item) []itemType {
	out := make([]itemType, 0, len(items))
	for _, it := range items {
		out = append(out, it.typ)
	}
	return out
}
