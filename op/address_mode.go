package op

// AddressMode enum type.
type AddressMode int

// AddressMode values.
const (
	Immediate      AddressMode = iota // #, the field itself.
	Direct                            // $, relative to the pc.
	AIndirect                         // *, through the A field of the referenced cell.
	BIndirect                         // @, through the B field of the referenced cell.
	APreDecrement                     // {, like * after decrementing the A field.
	APostIncrement                    // }, like * then increments the A field.
	BPreDecrement                     // <, like @ after decrementing the B field.
	BPostIncrement                    // >, like @ then increments the B field.
)

// Sigils, indexed by AddressMode.
const Sigils = "#$*@{}<>"

// Sigil returns the source character of the mode.
func (am AddressMode) Sigil() byte {
	if am < 0 || int(am) >= len(Sigils) {
		return '?'
	}
	return Sigils[am]
}

func (am AddressMode) String() string {
	switch am {
	case Immediate:
		return "immediate"
	case Direct:
		return "direct"
	case AIndirect:
		return "a-indirect"
	case BIndirect:
		return "b-indirect"
	case APreDecrement:
		return "a-predecrement"
	case APostIncrement:
		return "a-postincrement"
	case BPreDecrement:
		return "b-predecrement"
	case BPostIncrement:
		return "b-postincrement"
	default:
		return "unknown address mode"
	}
}

// ModeForSigil returns the mode matching the given source character.
func ModeForSigil(c byte) (AddressMode, bool) {
	for i := range len(Sigils) {
		if Sigils[i] == c {
			return AddressMode(i), true
		}
	}
	return 0, false
}

