package cryptera

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
)

// Envelope carries a blob together with the settings needed to decode it,
// for storage in a content Format. The blob itself never records its
// algorithm or KDF; the envelope does. Iterations is set for PBKDF2 and the
// Argon2 fields for Argon2id.
type Envelope struct {
	Version       int    `json:"version" yaml:"version" xml:"version,attr" msgpack:"version" bson:"version"`
	ID            string `json:"id" yaml:"id" xml:"id,attr" msgpack:"id" bson:"id"`
	Algorithm     string `json:"algorithm" yaml:"algorithm" xml:"algorithm" msgpack:"algorithm" bson:"algorithm"`
	KDF           string `json:"kdf" yaml:"kdf" xml:"kdf" msgpack:"kdf" bson:"kdf"`
	Iterations    int    `json:"iterations,omitempty" yaml:"iterations,omitempty" xml:"iterations,omitempty" msgpack:"iterations,omitempty" bson:"iterations,omitempty"`
	Argon2Time    int    `json:"argon2_time,omitempty" yaml:"argon2_time,omitempty" xml:"argon2_time,omitempty" msgpack:"argon2_time,omitempty" bson:"argon2_time,omitempty"`
	Argon2Memory  int    `json:"argon2_memory,omitempty" yaml:"argon2_memory,omitempty" xml:"argon2_memory,omitempty" msgpack:"argon2_memory,omitempty" bson:"argon2_memory,omitempty"`
	Argon2Threads int    `json:"argon2_threads,omitempty" yaml:"argon2_threads,omitempty" xml:"argon2_threads,omitempty" msgpack:"argon2_threads,omitempty" bson:"argon2_threads,omitempty"`
	Data          string `json:"data" yaml:"data" xml:"data" msgpack:"data" bson:"data"`
}

// Seal encodes payload and wraps the blob in an Envelope describing the codec.
func (c *Codec) Seal(ctx context.Context, payload, secret []byte) (*Envelope, error) {
	blob, err := c.Encode(ctx, payload, secret)
	if err != nil {
		return nil, err
	}
	return c.Wrap(blob)
}

// Open decodes an Envelope produced by a codec with the same settings.
// Settings recorded in the envelope that disagree with the codec, or that
// are missing for its KDF, fail with ErrInvalidConfig before any key derivation.
func (c *Codec) Open(ctx context.Context, env *Envelope, secret []byte) ([]byte, error) {
	if err := c.matches(env); err != nil {
		return nil, err
	}
	blob, err := env.Blob()
	if err != nil {
		return nil, err
	}
	return c.Decode(ctx, blob, secret)
}

// Wrap describes an existing blob with the codec settings.
func (c *Codec) Wrap(blob []byte) (*Envelope, error) {
	b, err := ParseBlob(blob)
	if err != nil {
		return nil, err
	}
	env := &Envelope{
		Version:   int(b.Version),
		ID:        b.ID.String(),
		Algorithm: string(c.cfg.Algorithm),
		KDF:       string(c.cfg.KDF),
		Data:      base64.StdEncoding.EncodeToString(blob),
	}
	switch c.cfg.KDF {
	case KDFPBKDF2:
		env.Iterations = c.cfg.PBKDF2Iterations
	case KDFArgon2id:
		p := argon2Params(c.params)
		env.Argon2Time = int(p.Time)
		env.Argon2Memory = int(p.Memory)
		env.Argon2Threads = int(p.Threads)
	}
	return env, nil
}

// Blob returns the raw blob, checking that the plaintext envelope fields
// agree with its header.
func (e *Envelope) Blob() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(e.Data)
	if err != nil {
		return nil, newBlobError("invalid base64", len(e.Data))
	}
	b, err := ParseBlob(raw)
	if err != nil {
		return nil, err
	}
	if e.Version != int(b.Version) {
		return nil, newBlobError("envelope version "+strconv.Itoa(e.Version)+" does not match header", len(raw))
	}
	if e.ID != b.ID.String() {
		return nil, newBlobError("envelope identifier does not match header", len(raw))
	}
	return raw, nil
}

// Options returns the codec options recorded in the envelope.
func (e *Envelope) Options() []Option {
	opts := []Option{
		WithAlgorithm(Algorithm(e.Algorithm)),
		WithKDF(KDF(e.KDF)),
	}
	if e.Iterations > 0 {
		opts = append(opts, WithPBKDF2Iterations(e.Iterations))
	}
	if p, ok := e.argon2(); ok {
		opts = append(opts, WithArgon2Params(p))
	}
	return opts
}

// argon2 returns the recorded Argon2id cost. All three values must be
// present and in range.
func (e *Envelope) argon2() (Argon2Params, bool) {
	if e.Argon2Time <= 0 || e.Argon2Memory <= 0 || e.Argon2Threads <= 0 ||
		int64(e.Argon2Time) > math.MaxUint32 || int64(e.Argon2Memory) > math.MaxUint32 || e.Argon2Threads > math.MaxUint8 {
		return Argon2Params{}, false
	}
	return Argon2Params{
		Time:    uint32(e.Argon2Time),
		Memory:  uint32(e.Argon2Memory),
		Threads: uint8(e.Argon2Threads),
	}, true
}

func (c *Codec) matches(env *Envelope) error {
	if env == nil {
		return newConfigError(ErrInvalidConfig, "envelope", "")
	}
	if Algorithm(env.Algorithm) != c.cfg.Algorithm {
		return newConfigError(ErrInvalidConfig, "envelope algorithm", env.Algorithm)
	}
	if KDF(env.KDF) != c.cfg.KDF {
		return newConfigError(ErrInvalidConfig, "envelope kdf", env.KDF)
	}
	switch c.cfg.KDF {
	case KDFPBKDF2:
		if env.Iterations != c.cfg.PBKDF2Iterations {
			return newConfigError(ErrInvalidConfig, "envelope iterations", strconv.Itoa(env.Iterations))
		}
	case KDFArgon2id:
		p, ok := env.argon2()
		if !ok || p != argon2Params(c.params) {
			return newConfigError(ErrInvalidConfig, "envelope argon2 params",
				fmt.Sprintf("t=%d,m=%d,p=%d", env.Argon2Time, env.Argon2Memory, env.Argon2Threads))
		}
	}
	return nil
}
