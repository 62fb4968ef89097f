package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

type itemType int

const (
	itemEOF itemType = iota // End of the input.
	itemPlus
	itemMinus
	itemStar // Also the A-indirect address mode.
	itemSlash
	itemPercent
	itemComma
	itemDot
	itemSemicolon // Start of a comment, the rest of the line is dropped.
	itemHash
	itemDollar
	itemAt
	itemLeftBrace
	itemRightBrace
	itemLess
	itemGreater
	itemNumber
	itemIdentifier

	// Keywords appear after all the rest.
	itemKeyword // Used only to delimit the keywords.

	itemModA
	itemModB
	itemModAB
	itemModBA
	itemModF
	itemModX
	itemModI

	itemDAT
	itemNOP
	itemMOV
	itemADD
	itemSUB
	itemMUL
	itemDIV
	itemMOD
	itemJMP
	itemJMZ
	itemJMN
	itemDJN
	itemSEQ
	itemSNE
	itemCMP
	itemSLT
	itemSPL
	itemSTP
	itemLDP

	itemORG
	itemEQU
	itemEND
)

var itemNames = map[itemType]string{
	itemEOF:        "EOF",
	itemPlus:       "PLUS",
	itemMinus:      "MINUS",
	itemStar:       "STAR",
	itemSlash:      "SLASH",
	itemPercent:    "MODULO",
	itemComma:      "COMMA",
	itemDot:        "DOT",
	itemSemicolon:  "SEMICOLON",
	itemHash:       "HASHTAG",
	itemDollar:     "DOLLAR",
	itemAt:         "AT",
	itemLeftBrace:  "LEFT_BRACE",
	itemRightBrace: "RIGHT_BRACE",
	itemLess:       "LOWER_THAN",
	itemGreater:    "GREATER_THAN",
	itemNumber:     "NUMBER",
	itemIdentifier: "IDENTIFIER",

	itemModA:  "A",
	itemModB:  "B",
	itemModAB: "AB",
	itemModBA: "BA",
	itemModF:  "F",
	itemModX:  "X",
	itemModI:  "I",

	itemDAT: "DAT",
	itemNOP: "NOP",
	itemMOV: "MOV",
	itemADD: "ADD",
	itemSUB: "SUB",
	itemMUL: "MUL",
	itemDIV: "DIV",
	itemMOD: "MOD",
	itemJMP: "JMP",
	itemJMZ: "JMZ",
	itemJMN: "JMN",
	itemDJN: "DJN",
	itemSEQ: "SEQ",
	itemSNE: "SNE",
	itemCMP: "CMP",
	itemSLT: "SLT",
	itemSPL: "SPL",
	itemSTP: "STP",
	itemLDP: "LDP",

	itemORG: "ORG",
	itemEQU: "EQU",
	itemEND: "END",
}

func (it itemType) String() string {
	if name, ok := itemNames[it]; ok {
		return name
	}
	return fmt.Sprintf("<unknown token %d>", it)
}

func (it itemType) isOpcode() bool    { return it >= itemDAT && it <= itemLDP }
func (it itemType) isDirective() bool { return it >= itemORG && it <= itemEND }
func (it itemType) isModifier() bool  { return it >= itemModA && it <= itemModI }

// startsStatement reports whether a statement can begin with the item.
func (it itemType) startsStatement() bool { return it.isOpcode() || it.isDirective() }

// keywords maps upper case keywords to their item type.
var keywords = func() map[string]itemType {
	m := map[string]itemType{}
	for typ, name := range itemNames {
		if typ > itemKeyword {
			m[name] = typ
		}
	}
	return m
}()

var punctuation = map[byte]itemType{
	'+': itemPlus,
	'-': itemMinus,
	'*': itemStar,
	'/': itemSlash,
	'%': itemPercent,
	',': itemComma,
	'.': itemDot,
	'#': itemHash,
	'$': itemDollar,
	'@': itemAt,
	'{': itemLeftBrace,
	'}': itemRightBrace,
	'<': itemLess,
	'>': itemGreater,
}

type item struct {
	typ     itemType // The type of this item.
	val     string   // The lexeme as written in the source.
	literal int64    // Value of an itemNumber.
	line    int      // 1-based line.
	start   int      // 1-based first column.
	end     int      // 1-based last column, inclusive.
}

func (i item) String() string {
	switch {
	case i.typ == itemEOF:
		return "EOF"
	case len(i.val) > 10:
		return fmt.Sprintf("%s %.10q...", i.typ, i.val)
	}
	return fmt.Sprintf("%s %q", i.typ, i.val)
}

var redcodeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `;[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `\p{L}[\p{L}\p{Nd}]*`},
	{Name: "Punct", Pattern: `[-+*/%,.{}<>#$@]`},
	{Name: "Invalid", Pattern: `.`},
})

var (
	symbols       = redcodeLexer.Symbols()
	symComment    = symbols["Comment"]
	symWhitespace = symbols["Whitespace"]
	symNumber     = symbols["Number"]
	symIdent      = symbols["Ident"]
	symPunct      = symbols["Punct"]
)

// lex splits the input into items, terminated by an itemEOF.
// Unknown characters are reported and skipped, scanning goes on.
func lex(input string) ([]item, []CompileError) {
	var (
		items []item
		errs  []CompileError
	)
	lastLine := input[strings.LastIndexByte(input, '\n')+1:]
	eofColumn := utf8.RuneCountInString(lastLine) + 1
	eof := item{typ: itemEOF, line: 1 + strings.Count(input, "\n"), start: eofColumn, end: eofColumn}

	l, err := redcodeLexer.LexString("", input)
	if err != nil {
		return []item{eof}, []CompileError{{Kind: TokenizerError, Message: err.Error(), Line: 1}}
	}
	for {
		tok, err := l.Next()
		if err != nil {
			errs = append(errs, CompileError{Kind: TokenizerError, Message: err.Error(), Line: eof.line})
			break
		}
		if tok.EOF() {
			break
		}

		it := item{
			val:   tok.Value,
			line:  tok.Pos.Line,
			start: tok.Pos.Column,
			end:   tok.Pos.Column + utf8.RuneCountInString(tok.Value) - 1,
		}
		switch tok.Type {
		case symWhitespace:
			continue
		case symComment:
			it.typ, it.val, it.end = itemSemicolon, ";", it.start
		case symNumber:
			it.typ = itemNumber
			// Out of range literals saturate, the parser reports them.
			it.literal, _ = strconv.ParseInt(tok.Value, 10, 64)
		case symIdent:
			it.typ = itemIdentifier
			if k, ok := keywords[strings.ToUpper(tok.Value)]; ok {
				it.typ = k
			}
		case symPunct:
			it.typ = punctuation[tok.Value[0]]
		default:
			errs = append(errs, CompileError{
				Kind:        TokenizerError,
				Message:     fmt.Sprintf("Unexpected character: %s at pos %d", tok.Value, tok.Pos.Offset+1),
				Line:        it.line,
				ColumnStart: it.start,
				ColumnEnd:   it.end,
			})
			continue
		}
		items = append(items, it)
	}
	return append(items, eof), errs
}
