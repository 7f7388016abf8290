package cipher

import (
	"fmt"
	"strings"
)

// Mode selects the transform direction.
type Mode int

const (
	ModeEncode Mode = iota
	ModeDecode
)

// String returns the lower-case mode name.
func (m Mode) String() string {
	switch m {
	case ModeEncode:
		return "encode"
	case ModeDecode:
		return "decode"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts a mode name ("encode" or "decode", any case) into
// a Mode. Adapters use it to translate wire and CLI inputs.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "encode":
		return ModeEncode, nil
	case "decode":
		return ModeDecode, nil
	default:
		return Mode(0), fmt.Errorf("unknown mode %q: must be encode or decode", s)
	}
}

// Request carries one cipher computation. Text and Key are expected to
// be uppercased by the caller; the fixed alphabets are uppercase-only.
type Request struct {
	Text    string
	Key     string
	Mode    Mode
	Modulus int
}

// TraceStep records the arithmetic for one transformed character, in
// input order. It exists for pedagogical display.
type TraceStep struct {
	Index     int
	TextChar  rune
	TextValue int
	KeyChar   rune
	KeyValue  int
	OutValue  int
	Formula   string
	OutChar   rune
}

// Result is the successful outcome of Compute: the transformed text
// and one TraceStep per input character.
type Result struct {
	Output string
	Trace  []TraceStep
}

// Compute validates the request against its alphabet and applies the
// Vigenère transform. It is a pure function of the request: identical
// inputs always produce identical output and trace.
//
// Validation runs to completion before any transform work: modulus
// range, modulus support, key presence, key characters, then text
// characters. The first offending character wins. Once validation has
// passed the transform cannot fail, because every character is
// alphabet-resident and the key length is at least 1.
func Compute(req Request) (Result, error) {
	if req.Modulus < 1 {
		return Result{}, errInvalidModulus()
	}

	alphabet, ok := AlphabetFor(req.Modulus)
	if !ok {
		return Result{}, errUnsupportedModulus(req.Modulus)
	}

	if len(req.Key) == 0 {
		return Result{}, errEmptyKey()
	}

	for _, r := range req.Key {
		if !alphabet.Contains(r) {
			return Result{}, errInvalidKeyCharacter(r, alphabet.Label())
		}
	}

	textField := textFieldName(req.Mode)
	for _, r := range req.Text {
		if !alphabet.Contains(r) {
			return Result{}, errInvalidTextCharacter(textField, r, alphabet.Label())
		}
	}

	return transform(req, alphabet), nil
}

// textFieldName names the text input by its role: plaintext when
// encoding, ciphertext when decoding.
func textFieldName(mode Mode) string {
	if mode == ModeDecode {
		return "ciphertext"
	}
	return "plaintext"
}

func transform(req Request, alphabet Alphabet) Result {
	text := []rune(req.Text)
	key := []rune(req.Key)
	modulus := alphabet.Modulus()

	var out strings.Builder
	out.Grow(len(text))
	trace := make([]TraceStep, 0, len(text))

	for i, textChar := range text {
		keyChar := key[i%len(key)]

		// Validation guarantees membership for both characters.
		textVal, _ := alphabet.IndexOf(textChar)
		keyVal, _ := alphabet.IndexOf(keyChar)

		var outVal int
		var formula string
		switch req.Mode {
		case ModeDecode:
			outVal = (textVal - keyVal + modulus) % modulus
			formula = fmt.Sprintf("(%d - %d + %d) mod %d = %d", textVal, keyVal, modulus, modulus, outVal)
		default:
			outVal = (textVal + keyVal) % modulus
			formula = fmt.Sprintf("(%d + %d) mod %d = %d", textVal, keyVal, modulus, outVal)
		}

		outChar := alphabet.CharAt(outVal)
		out.WriteRune(outChar)
		trace = append(trace, TraceStep{
			Index:     i,
			TextChar:  textChar,
			TextValue: textVal,
			KeyChar:   keyChar,
			KeyValue:  keyVal,
			OutValue:  outVal,
			Formula:   formula,
			OutChar:   outChar,
		})
	}

	return Result{Output: out.String(), Trace: trace}
}
