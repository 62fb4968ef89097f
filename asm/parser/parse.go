package parser

import (
	"fmt"
	"math"

	"go.creack.net/shork/op"
)

var opcodes = map[itemType]op.Opcode{
	itemDAT: op.DAT,
	itemNOP: op.NOP,
	itemMOV: op.MOV,
	itemADD: op.ADD,
	itemSUB: op.SUB,
	itemMUL: op.MUL,
	itemDIV: op.DIV,
	itemMOD: op.MOD,
	itemJMP: op.JMP,
	itemJMZ: op.JMZ,
	itemJMN: op.JMN,
	itemDJN: op.DJN,
	itemSEQ: op.SEQ,
	itemCMP: op.SEQ,
	itemSNE: op.SNE,
	itemSLT: op.SLT,
	itemSPL: op.SPL,
	itemSTP: op.STP,
	itemLDP: op.LDP,
}

var modifiers = map[itemType]op.Modifier{
	itemModA:  op.ModA,
	itemModB:  op.ModB,
	itemModAB: op.ModAB,
	itemModBA: op.ModBA,
	itemModF:  op.ModF,
	itemModX:  op.ModX,
	itemModI:  op.ModI,
}

var addressModes = map[itemType]op.AddressMode{
	itemHash:       op.Immediate,
	itemDollar:     op.Direct,
	itemStar:       op.AIndirect,
	itemAt:         op.BIndirect,
	itemLeftBrace:  op.APreDecrement,
	itemRightBrace: op.APostIncrement,
	itemLess:       op.BPreDecrement,
	itemGreater:    op.BPostIncrement,
}

// Parser turns Redcode source into instructions.
// It never stops at the first error: each faulty statement is reported
// and parsing resumes at the next statement.
type Parser struct {
	items   []item
	current int

	Instructions    []op.Instruction
	TokenizerErrors []CompileError
	Errors          []CompileError
}

// NewParser creates a new parser.
func NewParser(input string) *Parser {
	items, errs := lex(input)
	return &Parser{
		items:           items,
		TokenizerErrors: errs,
	}
}

// Parse consumes the whole input.
func (p *Parser) Parse() {
	for !p.isAtEnd() {
		tok := p.peek()
		switch {
		case tok.typ.isOpcode():
			if ins, ok := p.parseInstruction(); ok {
				p.Instructions = append(p.Instructions, ins)
			}
		case tok.typ.isDirective():
			p.parseDirective()
		case tok.typ == itemSemicolon:
			p.advance()
		default:
			p.errorf(tok, "Unexpected token, expected instruction, found '%s'", tok.val)
			p.advance()
		}
	}
}

func (p *Parser) isAtEnd() bool { return p.current >= len(p.items)-1 }

func (p *Parser) peek() item { return p.items[p.current] }

// advance returns the current item and moves past it, staying on EOF once reached.
func (p *Parser) advance() item {
	tok := p.items[p.current]
	if !p.isAtEnd() {
		p.current++
	}
	return tok
}

func (p *Parser) errorf(at item, format string, args ...any) {
	p.Errors = append(p.Errors, CompileError{
		Kind:        ParserError,
		Message:     fmt.Sprintf(format, args...),
		Line:        at.line,
		ColumnStart: at.start,
		ColumnEnd:   at.end,
	})
}

// skipStatement drops items up to the next statement.
func (p *Parser) skipStatement() {
	for !p.isAtEnd() && !p.peek().typ.startsStatement() {
		p.advance()
	}
}

// ORG, EQU and END are recognized but not supported.
func (p *Parser) parseDirective() {
	tok := p.advance()
	p.errorf(tok, "%s has not been implemented yet", tok.typ)
	p.skipStatement()
}

func (p *Parser) parseInstruction() (op.Instruction, bool) {
	tok := p.advance()
	ins := op.Instruction{Opcode: opcodes[tok.typ], BMode: op.Direct}

	hasModifier := false
	if p.peek().typ == itemDot {
		p.advance()
		if next := p.peek(); next.typ.isModifier() {
			p.advance()
			ins.Modifier, hasModifier = modifiers[next.typ], true
		} else {
			p.errorf(next, "Unexpected token, expected modifier after dot")
			if next.typ == itemIdentifier {
				p.advance()
			}
		}
	}

	a, aMode, ok := p.parseField()
	if !ok {
		if p.isAtEnd() {
			p.errorf(tok, "Unexpected end of file, expected address mode and/or address for A-Field")
		} else {
			p.errorf(p.peek(), "Expected aField with modifier")
			p.skipStatement()
		}
		return op.Instruction{}, false
	}
	ins.AField, ins.AMode = a, aMode

	switch next := p.peek(); {
	case next.typ == itemComma:
		p.advance()
		if b, bMode, ok := p.parseField(); ok {
			ins.BField, ins.BMode = b, bMode
		}
	case p.isAtEnd(), next.typ.startsStatement(), next.typ == itemSemicolon:
		// B-field omitted.
	default:
		p.errorf(next, "Expected comma after A Address but found %s", next.typ)
		p.skipStatement()
		return op.Instruction{}, false
	}

	if !hasModifier {
		ins.Modifier = op.DefaultModifier(ins.Opcode, ins.AMode, ins.BMode)
	}
	return ins, true
}

// parseField reads an optional address mode followed by a signed number.
// It reports false without consuming anything when no field starts here.
func (p *Parser) parseField() (int32, op.AddressMode, bool) {
	mode := op.Direct
	if p.isAtEnd() {
		return 0, mode, false
	}
	tok := p.peek()
	m, isMode := addressModes[tok.typ]
	if !isMode && tok.typ != itemNumber && tok.typ != itemMinus && tok.typ != itemPlus {
		return 0, mode, false
	}
	if isMode {
		p.advance()
		mode = m
		tok = p.peek()
	}

	sign := int64(1)
	if tok.typ == itemMinus || tok.typ == itemPlus {
		p.advance()
		if tok.typ == itemMinus {
			sign = -1
		}
		tok = p.peek()
	}
	if tok.typ != itemNumber {
		p.errorf(tok, "Unexpected token, expected Field Value")
		return 0, mode, true
	}
	p.advance()
	if tok.literal > math.MaxInt32 {
		p.errorf(tok, "Couldn't parse as number: `%s`", tok.val)
		return 0, mode, true
	}
	return int32(sign * tok.literal), mode, true
}
