package cipher

// Alphabet is an ordered, duplicate-free character set whose length
// equals its modulus. Characters map to indices 0..modulus-1.
type Alphabet struct {
	chars string
	label string
	index map[rune]int
}

// The three supported alphabets. The set is a closed enumeration:
// callers cannot extend it without a code change.
var alphabets = map[int]Alphabet{
	26: newAlphabet("ABCDEFGHIJKLMNOPQRSTUVWXYZ", "A-Z only"),
	27: newAlphabet("ABCDEFGHIJKLMNOPQRSTUVWXYZ ", "A-Z and space only"),
	37: newAlphabet("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 ", "A-Z, 0-9, and space only"),
}

func newAlphabet(chars, label string) Alphabet {
	index := make(map[rune]int, len(chars))
	for i, r := range chars {
		index[r] = i
	}
	return Alphabet{chars: chars, label: label, index: index}
}

// AlphabetFor returns the alphabet for a supported modulus.
func AlphabetFor(modulus int) (Alphabet, bool) {
	a, ok := alphabets[modulus]
	return a, ok
}

// SupportedModuli returns the supported modulus values in ascending order.
func SupportedModuli() []int {
	return []int{26, 27, 37}
}

// IndexOf returns the 0-based position of r, or false when r is not in
// the alphabet.
func (a Alphabet) IndexOf(r rune) (int, bool) {
	i, ok := a.index[r]
	return i, ok
}

// Contains reports whether r belongs to the alphabet.
func (a Alphabet) Contains(r rune) bool {
	_, ok := a.index[r]
	return ok
}

// CharAt returns the character at index i. Callers guarantee
// 0 <= i < Modulus().
func (a Alphabet) CharAt(i int) rune {
	return rune(a.chars[i])
}

// Modulus returns the alphabet length.
func (a Alphabet) Modulus() int {
	return len(a.chars)
}

// Label returns the human-readable description used in validation
// messages, e.g. "A-Z and space only".
func (a Alphabet) Label() string {
	return a.label
}

// String returns the ordered character sequence.
func (a Alphabet) String() string {
	return a.chars
}
