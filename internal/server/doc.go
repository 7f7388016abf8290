// Package server implements the HTTP adapter over the cipher engine.
//
// server.go  - Lifecycle (Start/Stop), routing, request middleware
// handler.go - /v1/cipher and /v1/alphabets endpoints
// metrics.go - Prometheus HTTP metrics over a private registry
//
// The adapter owns the caller responsibilities the engine delegates:
// uppercasing inputs, bounding the modulus field, enforcing length
// limits, and translating validation failures into the JSON error
// model.
package server
