package domain

import (
	"errors"

	"github.com/duustin25/vigenere-cipher-system/pkg/cipher"
)

// Common adapter errors
var (
	ErrBadRequest        = errors.New("malformed request")
	ErrTextTooLong       = errors.New("text exceeds configured limit")
	ErrKeyTooLong        = errors.New("key exceeds configured limit")
	ErrModulusOutOfRange = errors.New("modulus out of accepted range")
)

// Machine-readable error codes surfaced on the failure channel.
const (
	CodeBadRequest           = "BAD_REQUEST"
	CodeInvalidMode          = "INVALID_MODE"
	CodeModulusOutOfRange    = "MODULUS_OUT_OF_RANGE"
	CodeTextTooLong          = "TEXT_TOO_LONG"
	CodeKeyTooLong           = "KEY_TOO_LONG"
	CodeInvalidModulus       = "INVALID_MODULUS"
	CodeUnsupportedModulus   = "UNSUPPORTED_MODULUS"
	CodeEmptyKey             = "EMPTY_KEY"
	CodeInvalidKeyCharacter  = "INVALID_KEY_CHARACTER"
	CodeInvalidTextCharacter = "INVALID_TEXT_CHARACTER"
)

// ErrorResponse is the standard JSON error model returned by the HTTP
// adapter. Code is stable and machine-readable; Field names the
// offending input so forms can attach the message to the right control.
// TraceID carries the current trace identifier when available.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorResponseFor converts an engine validation error into the wire
// model. Unrecognized errors map to BAD_REQUEST with the raw message.
func ErrorResponseFor(err error) ErrorResponse {
	var verr *cipher.ValidationError
	if !errors.As(err, &verr) {
		return ErrorResponse{Code: CodeBadRequest, Message: err.Error()}
	}

	return ErrorResponse{
		Code:    codeForKind(verr.Kind),
		Message: verr.Message,
		Field:   verr.Field,
	}
}

func codeForKind(kind cipher.ErrorKind) string {
	switch kind {
	case cipher.KindInvalidModulus:
		return CodeInvalidModulus
	case cipher.KindUnsupportedModulus:
		return CodeUnsupportedModulus
	case cipher.KindEmptyKey:
		return CodeEmptyKey
	case cipher.KindInvalidKeyCharacter:
		return CodeInvalidKeyCharacter
	case cipher.KindInvalidTextCharacter:
		return CodeInvalidTextCharacter
	default:
		return CodeBadRequest
	}
}
