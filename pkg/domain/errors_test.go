package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duustin25/vigenere-cipher-system/pkg/cipher"
)

func TestErrorResponseForValidationError(t *testing.T) {
	_, err := cipher.Compute(cipher.Request{Text: "HELLO", Key: "", Mode: cipher.ModeEncode, Modulus: 26})
	require.Error(t, err)

	resp := ErrorResponseFor(err)
	assert.Equal(t, CodeEmptyKey, resp.Code)
	assert.Equal(t, "key", resp.Field)
	assert.Equal(t, "key must not be empty", resp.Message)
}

func TestErrorResponseForEveryKind(t *testing.T) {
	tests := []struct {
		name string
		req  cipher.Request
		code string
	}{
		{"invalid modulus", cipher.Request{Text: "A", Key: "A", Modulus: 0}, CodeInvalidModulus},
		{"unsupported modulus", cipher.Request{Text: "A", Key: "A", Modulus: 30}, CodeUnsupportedModulus},
		{"empty key", cipher.Request{Text: "A", Key: "", Modulus: 26}, CodeEmptyKey},
		{"bad key char", cipher.Request{Text: "A", Key: "a", Modulus: 26}, CodeInvalidKeyCharacter},
		{"bad text char", cipher.Request{Text: "a", Key: "A", Modulus: 26}, CodeInvalidTextCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cipher.Compute(tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.code, ErrorResponseFor(err).Code)
		})
	}
}

func TestErrorResponseForUnknownError(t *testing.T) {
	resp := ErrorResponseFor(errors.New("connection reset"))
	assert.Equal(t, CodeBadRequest, resp.Code)
	assert.Equal(t, "connection reset", resp.Message)
	assert.Empty(t, resp.Field)
}
