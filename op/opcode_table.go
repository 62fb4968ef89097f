package op

// Class groups opcodes sharing the same default modifier rule.
type Class int

// Class values.
const (
	ClassData       Class = iota // Always F.
	ClassJump                    // Always B.
	ClassCompare                 // AB when A is immediate, B otherwise.
	ClassMove                    // AB, B or I.
	ClassArithmetic              // AB, B or F.
)

// OpCode is the definition of instructions.
type OpCode struct {
	Name    string
	Code    Opcode
	Class   Class
	Comment string
}

var OpCodeTable = []OpCode{
	{"DAT", DAT, ClassData, "data, kills the process"},
	{"NOP", NOP, ClassData, "no operation"},
	{"MOV", MOV, ClassMove, "move"},
	{"ADD", ADD, ClassArithmetic, "addition"},
	{"SUB", SUB, ClassArithmetic, "subtraction"},
	{"MUL", MUL, ClassArithmetic, "multiplication"},
	{"DIV", DIV, ClassArithmetic, "division"},
	{"MOD", MOD, ClassArithmetic, "modulo"},
	{"JMP", JMP, ClassJump, "jump"},
	{"JMZ", JMZ, ClassJump, "jump if zero"},
	{"JMN", JMN, ClassJump, "jump if not zero"},
	{"DJN", DJN, ClassJump, "decrement and jump if not zero"},
	{"SEQ", SEQ, ClassMove, "skip if equal"},
	{"SNE", SNE, ClassMove, "skip if not equal"},
	{"SLT", SLT, ClassCompare, "skip if lower than"},
	{"SPL", SPL, ClassJump, "split"},
	{"STP", STP, ClassCompare, "store into private storage"},
	{"LDP", LDP, ClassCompare, "load from private storage"},
}

var opcodeTable = func() map[Opcode]OpCode {
	m := make(map[Opcode]OpCode, len(OpCodeTable))
	for _, d := range OpCodeTable {
		m[d.Code] = d
	}
	return m
}()

// DefaultModifier returns the modifier applied when the source omits it.
func DefaultModifier(o Opcode, a, b AddressMode) Modifier {
	switch opcodeTable[o].Class {
	case ClassJump:
		return ModB
	case ClassCompare:
		if a == Immediate {
			return ModAB
		}
		return ModB
	case ClassMove:
		switch {
		case a == Immediate:
			return ModAB
		case b == Immediate:
			return ModB
		default:
			return ModI
		}
	case ClassArithmetic:
		switch {
		case a == Immediate:
			return ModAB
		case b == Immediate:
			return ModB
		default:
			return ModF
		}
	default:
		return ModF
	}
}
