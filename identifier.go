package cryptera

import (
	"context"
	"crypto/rand"
	"errors"
	"io"

	"github.com/google/uuid"
)

// IdentifierSize is the length of a raw identifier in bytes.
const IdentifierSize = 16

// Identifier is the 128-bit value minted per encode operation.
// It salts key derivation and is authenticated as associated data.
// It is never used as key material.
type Identifier = uuid.UUID

// ParseIdentifier parses the canonical string form of an identifier.
func ParseIdentifier(s string) (Identifier, error) {
	return uuid.Parse(s)
}

// Generator mints identifiers.
// A Generator holds no mutable state and is safe for concurrent use
// as long as its entropy source is.
type Generator struct {
	entropy io.Reader
	strict  bool
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithEntropy replaces the random source. Defaults to crypto/rand.Reader.
func WithEntropy(r io.Reader) GeneratorOption {
	return func(g *Generator) {
		g.entropy = r
	}
}

// WithStrictEntropy controls the behavior when the random source fails.
// Strict generators (the default) return ErrEntropyUnavailable. Non-strict
// generators fall back to a time and clock-sequence identifier (RFC 4122
// version 1) and emit SignalIdentifierFallback.
func WithStrictEntropy(strict bool) GeneratorOption {
	return func(g *Generator) {
		g.strict = strict
	}
}

// NewGenerator returns a Generator reading from crypto/rand.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		entropy: rand.Reader,
		strict:  true,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.entropy == nil {
		g.entropy = rand.Reader
	}
	return g
}

// Generate returns a fresh random identifier.
func (g *Generator) Generate(ctx context.Context) (Identifier, error) {
	id, err := uuid.NewRandomFromReader(g.entropy)
	if err == nil {
		emitIdentifierGenerated(ctx, id)
		return id, nil
	}

	if g.strict {
		return uuid.Nil, newOperationError(ErrEntropyUnavailable, "generate", err)
	}

	fallback, ferr := uuid.NewUUID()
	if ferr != nil {
		return uuid.Nil, newOperationError(ErrEntropyUnavailable, "generate", errors.Join(err, ferr))
	}

	emitIdentifierFallback(ctx, fallback, err)
	return fallback, nil
}

var defaultGenerator = NewGenerator()

// GenerateIdentifier returns a fresh identifier from the system random source.
// It fails with ErrEntropyUnavailable if the source cannot be read.
func GenerateIdentifier() (Identifier, error) {
	return defaultGenerator.Generate(context.Background())
}
