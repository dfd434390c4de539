// Package testing provides test utilities for cryptera.
package testing

import (
	"bytes"
	"maps"
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/zoobzio/cryptera"
)

// TestSecret returns a 32-byte secret for testing.
func TestSecret(tb testing.TB) []byte {
	tb.Helper()
	return []byte("0123456789abcdef0123456789abcdef")
}

// FixedIdentifier returns a constant identifier for deterministic blobs.
func FixedIdentifier() cryptera.Identifier {
	return uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
}

// TestCodec returns a Codec that derives keys with HKDF, skipping the
// deliberate cost of PBKDF2 and Argon2id. opts are applied after that default.
func TestCodec(tb testing.TB, opts ...cryptera.Option) *cryptera.Codec {
	tb.Helper()
	c, err := cryptera.New(append([]cryptera.Option{cryptera.WithKDF(cryptera.KDFHKDF)}, opts...)...)
	if err != nil {
		tb.Fatalf("cryptera.New() error: %v", err)
	}
	return c
}

// TestProcessor returns a Processor for T using TestSecret and HKDF.
func TestProcessor[T cryptera.Cloner[T]](tb testing.TB, format cryptera.Format, opts ...cryptera.Option) *cryptera.Processor[T] {
	tb.Helper()
	proc, err := cryptera.NewProcessor[T](format, TestSecret(tb),
		append([]cryptera.Option{cryptera.WithKDF(cryptera.KDFHKDF)}, opts...)...)
	if err != nil {
		tb.Fatalf("cryptera.NewProcessor() error: %v", err)
	}
	return proc
}

// AssertBlob fails tb unless blob is structurally valid and carries want.
func AssertBlob(tb testing.TB, blob []byte, want cryptera.Identifier) {
	tb.Helper()
	got, err := cryptera.Inspect(blob)
	if err != nil {
		tb.Fatalf("cryptera.Inspect() error: %v", err)
	}
	if got != want {
		tb.Errorf("blob identifier = %s, want %s", got, want)
	}
}

// FlipBit returns a copy of b with one bit inverted.
func FlipBit(b []byte, byteIndex int, bit uint) []byte {
	out := bytes.Clone(b)
	out[byteIndex] ^= 1 << bit
	return out
}

// SimpleUser is a test type with no sealed fields.
type SimpleUser struct {
	ID   string `json:"id" yaml:"id" xml:"id" bson:"id"`
	Name string `json:"name" yaml:"name" xml:"name" bson:"name"`
}

// Clone implements Cloner[SimpleUser].
func (u SimpleUser) Clone() SimpleUser { return u }

// SealedUser is a test type with sealed string, bytes, slice and map fields.
type SealedUser struct {
	ID       string            `json:"id" yaml:"id" bson:"id"`
	Email    string            `json:"email" yaml:"email" bson:"email" cryptera:"seal"`
	APIKey   []byte            `json:"api_key" yaml:"api_key" bson:"api_key" cryptera:"seal"`
	Recovery []string          `json:"recovery" yaml:"recovery" bson:"recovery" cryptera:"seal"`
	Claims   map[string]string `json:"claims" yaml:"claims" bson:"claims" cryptera:"seal"`
}

// Clone implements Cloner[SealedUser].
func (u SealedUser) Clone() SealedUser {
	return SealedUser{
		ID:       u.ID,
		Email:    u.Email,
		APIKey:   slices.Clone(u.APIKey),
		Recovery: slices.Clone(u.Recovery),
		Claims:   maps.Clone(u.Claims),
	}
}
