// Package cipher implements a Vigenère-family polyalphabetic
// substitution cipher over a closed set of fixed alphabets.
//
// Architecture:
//
// alphabet.go - Static modulus-to-alphabet table (26, 27, 37) and lookups
// errors.go   - ValidationError taxonomy returned as data, never panics
// cipher.go   - Compute: validation, encode/decode transform, trace
//
// The package is pure computation: no I/O, no shared state, safe for
// concurrent callers. HTTP and CLI adapters live outside and hand the
// engine already-uppercased strings.
package cipher
