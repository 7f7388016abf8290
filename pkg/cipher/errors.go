package cipher

import "fmt"

// ErrorKind identifies the validation failure category. The set is
// closed so adapters can branch deterministically.
type ErrorKind string

const (
	KindInvalidModulus       ErrorKind = "invalid_modulus"
	KindUnsupportedModulus   ErrorKind = "unsupported_modulus"
	KindEmptyKey             ErrorKind = "empty_key"
	KindInvalidKeyCharacter  ErrorKind = "invalid_key_character"
	KindInvalidTextCharacter ErrorKind = "invalid_text_character"
)

// ValidationError reports a rejected input. It is returned as a value,
// never panicked, and always before any transform work begins.
type ValidationError struct {
	Kind    ErrorKind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func errInvalidModulus() *ValidationError {
	return &ValidationError{
		Kind:    KindInvalidModulus,
		Field:   "mod",
		Message: "modulus must be greater than 0",
	}
}

func errUnsupportedModulus(modulus int) *ValidationError {
	return &ValidationError{
		Kind:    KindUnsupportedModulus,
		Field:   "mod",
		Message: fmt.Sprintf("unsupported modulus %d: supported values are 26, 27 and 37", modulus),
	}
}

func errEmptyKey() *ValidationError {
	return &ValidationError{
		Kind:    KindEmptyKey,
		Field:   "key",
		Message: "key must not be empty",
	}
}

func errInvalidKeyCharacter(r rune, label string) *ValidationError {
	return &ValidationError{
		Kind:    KindInvalidKeyCharacter,
		Field:   "key",
		Message: fmt.Sprintf("key contains invalid character %q (%s)", r, label),
	}
}

func errInvalidTextCharacter(field string, r rune, label string) *ValidationError {
	return &ValidationError{
		Kind:    KindInvalidTextCharacter,
		Field:   field,
		Message: fmt.Sprintf("%s contains invalid character %q (%s)", field, r, label),
	}
}
