package op

// Modifier selects which fields of the source and destination an instruction operates on.
type Modifier int

// Modifier values.
const (
	ModA  Modifier = iota // A to A.
	ModB                  // B to B.
	ModAB                 // A to B.
	ModBA                 // B to A.
	ModF                  // A to A and B to B.
	ModX                  // A to B and B to A.
	ModI                  // Whole instruction.
)

var modifierNames = [...]string{"A", "B", "AB", "BA", "F", "X", "I"}

func (m Modifier) String() string {
	if m < 0 || int(m) >= len(modifierNames) {
		return "unknown modifier"
	}
	return modifierNames[m]
}

// LookupModifier returns the modifier for the given upper case name.
func LookupModifier(name string) (Modifier, bool) {
	for i, n := range modifierNames {
		if n == name {
			return Modifier(i), true
		}
	}
	return 0, false
}
