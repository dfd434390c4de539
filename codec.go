package cryptera

import (
	"context"
	"strconv"
	"time"
)

// DefaultMinSecretLength is the shortest secret accepted by a default Codec.
const DefaultMinSecretLength = 16

// Config holds Codec settings. Use DefaultConfig and Options to build one.
type Config struct {
	Algorithm         Algorithm
	KDF               KDF
	PBKDF2Iterations  int
	Argon2            Argon2Params
	MinSecretLength   int
	AllowEmptyPayload bool
	Generator         *Generator
}

// DefaultConfig returns AES-256-GCM with PBKDF2, a 16-byte minimum secret,
// empty payloads allowed and a strict identifier generator.
func DefaultConfig() Config {
	return Config{
		Algorithm:         AES256GCM,
		KDF:               KDFPBKDF2,
		PBKDF2Iterations:  DefaultPBKDF2Iterations,
		Argon2:            DefaultArgon2Params(),
		MinSecretLength:   DefaultMinSecretLength,
		AllowEmptyPayload: true,
	}
}

// Option configures a Codec.
type Option func(*Config)

// WithAlgorithm selects the cipher suite.
func WithAlgorithm(algo Algorithm) Option {
	return func(c *Config) { c.Algorithm = algo }
}

// WithKDF selects the key-derivation function.
func WithKDF(kdf KDF) Option {
	return func(c *Config) { c.KDF = kdf }
}

// WithPBKDF2Iterations sets the PBKDF2 iteration count.
func WithPBKDF2Iterations(n int) Option {
	return func(c *Config) { c.PBKDF2Iterations = n }
}

// WithArgon2Params sets the Argon2id cost parameters.
func WithArgon2Params(p Argon2Params) Option {
	return func(c *Config) { c.Argon2 = p }
}

// WithMinSecretLength sets the minimum accepted secret length in bytes.
func WithMinSecretLength(n int) Option {
	return func(c *Config) { c.MinSecretLength = n }
}

// WithAllowEmptyPayload controls whether Encode accepts an empty payload.
func WithAllowEmptyPayload(allow bool) Option {
	return func(c *Config) { c.AllowEmptyPayload = allow }
}

// WithGenerator replaces the identifier generator.
func WithGenerator(g *Generator) Option {
	return func(c *Config) { c.Generator = g }
}

// Codec encodes payloads into authenticated blobs and decodes them back.
// A Codec is immutable after New and safe for concurrent use.
type Codec struct {
	cfg    Config
	params KeyParams
}

// New builds a Codec from DefaultConfig and opts.
func New(opts ...Option) (*Codec, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if !IsValidAlgorithm(cfg.Algorithm) {
		return nil, newConfigError(ErrUnsupportedAlgorithm, "algorithm", string(cfg.Algorithm))
	}
	if !IsValidKDF(cfg.KDF) {
		return nil, newConfigError(ErrUnsupportedAlgorithm, "kdf", string(cfg.KDF))
	}
	if cfg.MinSecretLength < 0 {
		return nil, newConfigError(ErrInvalidConfig, "min secret length", strconv.Itoa(cfg.MinSecretLength))
	}
	if cfg.PBKDF2Iterations < 1 {
		return nil, newConfigError(ErrInvalidConfig, "pbkdf2 iterations", strconv.Itoa(cfg.PBKDF2Iterations))
	}
	if cfg.Generator == nil {
		cfg.Generator = defaultGenerator
	}

	s := suites[cfg.Algorithm]
	params := KeyParams{
		Algorithm:  cfg.Algorithm,
		KDF:        cfg.KDF,
		KeyLength:  s.keyLen,
		IVLength:   s.ivLen,
		Iterations: cfg.PBKDF2Iterations,
		Argon2:     cfg.Argon2,
	}

	if err := validateKDF(params); err != nil {
		return nil, err
	}

	return &Codec{cfg: cfg, params: params}, nil
}

// Config returns a copy of the codec configuration.
func (c *Codec) Config() Config {
	return c.cfg
}

// Encode encrypts payload under secret with a freshly generated identifier.
func (c *Codec) Encode(ctx context.Context, payload, secret []byte) ([]byte, error) {
	return c.encode(ctx, nil, payload, secret)
}

// EncodeWithIdentifier encrypts payload under secret with a caller-supplied
// identifier. Reusing an identifier with the same secret reuses the key and
// IV; reserve this for deterministic and testing scenarios.
func (c *Codec) EncodeWithIdentifier(ctx context.Context, id Identifier, payload, secret []byte) ([]byte, error) {
	return c.encode(ctx, &id, payload, secret)
}

func (c *Codec) encode(ctx context.Context, supplied *Identifier, payload, secret []byte) ([]byte, error) {
	start := time.Now()
	emitEncodeStart(ctx, c.cfg.Algorithm, c.cfg.KDF, len(payload))

	var id Identifier
	var retErr error
	defer func() {
		emitEncodeComplete(ctx, c.cfg.Algorithm, id, len(payload), time.Since(start), retErr)
		observe("encode", c.cfg.Algorithm, len(payload), time.Since(start), retErr)
	}()

	if err := c.checkSecret("encode", secret); err != nil {
		retErr = err
		return nil, retErr
	}
	if len(payload) == 0 && !c.cfg.AllowEmptyPayload {
		retErr = newOperationError(ErrEmptyPayload, "encode", nil)
		return nil, retErr
	}

	if supplied != nil {
		id = *supplied
	} else {
		generated, err := c.cfg.Generator.Generate(ctx)
		if err != nil {
			retErr = err
			return nil, retErr
		}
		id = generated
	}

	km, err := DeriveKey(secret, id, c.params)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	defer km.Zero()

	ciphertext, tag, err := Encrypt(payload, km, header(Version, id))
	if err != nil {
		retErr = err
		return nil, retErr
	}

	blob := &Blob{Version: Version, ID: id, Ciphertext: ciphertext, Tag: tag}
	return blob.Bytes(), nil
}

// Decode authenticates blob under secret and returns the payload.
// It fails with ErrMalformedBlob for structurally invalid input and
// ErrIntegrityCheckFailed when authentication fails. No payload bytes
// are returned alongside an error.
func (c *Codec) Decode(ctx context.Context, blob, secret []byte) ([]byte, error) {
	start := time.Now()
	emitDecodeStart(ctx, c.cfg.Algorithm, c.cfg.KDF, len(blob))

	var id Identifier
	var plaintext []byte
	var retErr error
	defer func() {
		emitDecodeComplete(ctx, c.cfg.Algorithm, id, len(plaintext), time.Since(start), retErr)
		observe("decode", c.cfg.Algorithm, len(plaintext), time.Since(start), retErr)
	}()

	b, err := ParseBlob(blob)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	id = b.ID

	if err := c.checkSecret("decode", secret); err != nil {
		retErr = err
		return nil, retErr
	}

	km, err := DeriveKey(secret, b.ID, c.params)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	defer km.Zero()

	out, err := Decrypt(b.Ciphertext, b.Tag, km, b.Header())
	if err != nil {
		retErr = err
		return nil, retErr
	}
	plaintext = out
	return plaintext, nil
}

func (c *Codec) checkSecret(operation string, secret []byte) error {
	if len(secret) < c.cfg.MinSecretLength {
		return newOperationError(ErrSecretTooShort, operation, nil)
	}
	return nil
}
