// Package cryptera provides authenticated payload encoding keyed by a caller
// secret and a per-operation UUID identifier.
//
// # Blob Format
//
// Every encoded payload is a self-describing blob:
//
//	offset  field       size
//	0       version     1   (0x01)
//	1       identifier  16  (raw UUID bytes)
//	17      ciphertext  N   (N = payload length)
//	17+N    tag         32
//
// The version byte and identifier travel in plaintext and are authenticated
// as associated data. The identifier salts key derivation, so the same
// secret yields fresh key material for every blob.
//
// # Basic Usage
//
//	blob, err := cryptera.Encode([]byte("hello"), secret)
//	payload, err := cryptera.Decode(blob, secret)
//
// For repeated use, build a Codec once:
//
//	c, err := cryptera.New(
//	    cryptera.WithAlgorithm(cryptera.ChaCha20Poly1305),
//	    cryptera.WithKDF(cryptera.KDFArgon2id),
//	)
//	blob, err := c.Encode(ctx, payload, secret)
//	payload, err := c.Decode(ctx, blob, secret)
//
// A blob must be decoded with the algorithm and KDF settings it was encoded with.
// Envelope records those settings next to the blob for storage in a Format:
//
//	env, err := c.Seal(ctx, payload, secret)
//	data, err := json.New().Marshal(env)
//	...
//	opener, err := cryptera.New(env.Options()...)
//	payload, err := opener.Open(ctx, env, secret)
//
// # Algorithms
//
//   - AES256GCM (default) - AES-256-GCM with key commitment
//   - ChaCha20Poly1305 - ChaCha20-Poly1305 with key commitment
//   - XChaCha20Poly1305 - XChaCha20-Poly1305 with key commitment
//   - AES256CTRHMAC - AES-256-CTR, HMAC-SHA256 encrypt-then-MAC
//
// # Key Derivation
//
//   - KDFPBKDF2 (default) - PBKDF2-HMAC-SHA256, 10000 iterations
//   - KDFArgon2id - Argon2id, see DefaultArgon2Params
//   - KDFHKDF - HKDF-SHA256, for secrets that are already uniformly random
//
// The stretched secret is expanded with HKDF-SHA256 into the cipher key,
// IV and an authentication key.
//
// # Errors
//
// Failures wrap one of the sentinel errors: ErrEntropyUnavailable,
// ErrUnsupportedAlgorithm, ErrInvalidConfig, ErrSecretTooShort,
// ErrEmptyPayload, ErrMalformedBlob, ErrIntegrityCheckFailed.
// ErrMalformedBlob means the input is not a blob at all; ErrIntegrityCheckFailed
// means it is a blob that was tampered with or encoded under another secret.
//
// # Field Processor
//
// Processor seals struct fields tagged `cryptera:"seal"` on Store and opens
// them on Load, around a content Format:
//
//	type User struct {
//	    ID    string `json:"id"`
//	    Email string `json:"email" cryptera:"seal"`
//	}
//
//	func (u User) Clone() User { return u }
//
//	proc, _ := cryptera.NewProcessor[User](json.New(), secret)
//	data, _ := proc.Store(ctx, &user)
//	user, _ := proc.Load(ctx, data)
//
// # Observability
//
// Operations emit capitan signals (SignalEncodeComplete, SignalDecodeComplete, ...)
// and update Prometheus metrics (cryptera_operations_total, ...). Neither
// ever carries payload or secret bytes.
package cryptera

import "context"

// Encode encrypts payload under secret with a Codec built from opts.
func Encode(payload, secret []byte, opts ...Option) ([]byte, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return c.Encode(context.Background(), payload, secret)
}

// Decode authenticates and decrypts blob under secret with a Codec built from opts.
func Decode(blob, secret []byte, opts ...Option) ([]byte, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return c.Decode(context.Background(), blob, secret)
}
