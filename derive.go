package cryptera

import (
	"crypto/sha256"
	"fmt"
	"io"
	"runtime"
	"strconv"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

// DefaultPBKDF2Iterations is the PBKDF2-HMAC-SHA256 iteration count.
const DefaultPBKDF2Iterations = 10000

const (
	prkLen     = 32
	authKeyLen = 32
	infoPrefix = "cryptera/v1 "
)

// Argon2Params configures Argon2id key stretching.
type Argon2Params struct {
	Time    uint32 // Number of iterations
	Memory  uint32 // Memory usage in KiB
	Threads uint8  // Parallelism factor
}

// DefaultArgon2Params returns recommended Argon2id parameters.
// Based on OWASP recommendations for password hashing.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Time:    1,
		Memory:  64 * 1024, // 64 MiB
		Threads: 4,
	}
}

// KeyParams selects how key material is derived.
// Zero KeyLength, IVLength, Iterations and Argon2 take the defaults
// for the algorithm and KDF.
type KeyParams struct {
	Algorithm  Algorithm
	KDF        KDF
	KeyLength  int
	IVLength   int
	Iterations int
	Argon2     Argon2Params
}

// DefaultKeyParams returns the parameters used by a default Codec for algo.
func DefaultKeyParams(algo Algorithm) KeyParams {
	s := suites[algo]
	return KeyParams{
		Algorithm:  algo,
		KDF:        KDFPBKDF2,
		KeyLength:  s.keyLen,
		IVLength:   s.ivLen,
		Iterations: DefaultPBKDF2Iterations,
		Argon2:     DefaultArgon2Params(),
	}
}

// KeyMaterial is the per-operation symmetric key, IV and authentication key.
// It must not outlive the call that derived it; call Zero when done.
type KeyMaterial struct {
	Algorithm Algorithm
	Key       []byte
	IV        []byte
	AuthKey   []byte
}

// Zero overwrites the key material.
func (km *KeyMaterial) Zero() {
	if km == nil {
		return
	}
	zeroBytes(km.Key)
	zeroBytes(km.IV)
	zeroBytes(km.AuthKey)
}

// DeriveKey derives key material from secret and id.
// The same (secret, id, params) always yields the same KeyMaterial.
func DeriveKey(secret []byte, id Identifier, params KeyParams) (*KeyMaterial, error) {
	s, ok := suites[params.Algorithm]
	if !ok {
		return nil, newConfigError(ErrUnsupportedAlgorithm, "algorithm", string(params.Algorithm))
	}

	keyLen, ivLen := params.KeyLength, params.IVLength
	if keyLen == 0 {
		keyLen = s.keyLen
	}
	if ivLen == 0 {
		ivLen = s.ivLen
	}
	if keyLen != s.keyLen {
		return nil, newConfigError(ErrUnsupportedAlgorithm, "key length", strconv.Itoa(keyLen))
	}
	if ivLen != s.ivLen {
		return nil, newConfigError(ErrUnsupportedAlgorithm, "iv length", strconv.Itoa(ivLen))
	}

	prk, err := stretch(secret, id[:], params)
	if err != nil {
		return nil, err
	}
	defer zeroBytes(prk)

	out := make([]byte, keyLen+ivLen+authKeyLen)
	r := hkdf.Expand(sha256.New, prk, []byte(infoPrefix+string(params.Algorithm)))
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, newOperationError(ErrInvalidConfig, "derive", fmt.Errorf("hkdf expand: %w", err))
	}

	return &KeyMaterial{
		Algorithm: params.Algorithm,
		Key:       out[:keyLen:keyLen],
		IV:        out[keyLen : keyLen+ivLen : keyLen+ivLen],
		AuthKey:   out[keyLen+ivLen:],
	}, nil
}

// stretch turns the secret into a fixed-length pseudorandom key salted by the identifier.
func stretch(secret, salt []byte, params KeyParams) ([]byte, error) {
	if err := validateKDF(params); err != nil {
		return nil, err
	}

	switch params.KDF {
	case KDFArgon2id:
		p := argon2Params(params)
		return argon2.IDKey(secret, salt, p.Time, p.Memory, p.Threads, prkLen), nil
	case KDFHKDF:
		return hkdf.Extract(sha256.New, secret, salt), nil
	default:
		iter := params.Iterations
		if iter == 0 {
			iter = DefaultPBKDF2Iterations
		}
		return pbkdf2.Key(secret, salt, iter, prkLen, sha256.New), nil
	}
}

func validateKDF(params KeyParams) error {
	switch params.KDF {
	case KDFPBKDF2, "":
		if params.Iterations < 0 {
			return newConfigError(ErrInvalidConfig, "pbkdf2 iterations", strconv.Itoa(params.Iterations))
		}
	case KDFArgon2id:
		p := argon2Params(params)
		// argon2 panics on zero time or threads; memory below 8 KiB per thread is
		// rounded up silently, so reject it to keep the recorded cost honest.
		if p.Time < 1 || p.Threads < 1 || p.Memory < 8*uint32(p.Threads) {
			return newConfigError(ErrInvalidConfig, "argon2 params",
				fmt.Sprintf("t=%d,m=%d,p=%d", p.Time, p.Memory, p.Threads))
		}
	case KDFHKDF:
	default:
		return newConfigError(ErrUnsupportedAlgorithm, "kdf", string(params.KDF))
	}
	return nil
}

func argon2Params(params KeyParams) Argon2Params {
	if params.Argon2 == (Argon2Params{}) {
		return DefaultArgon2Params()
	}
	return params.Argon2
}

// zeroBytes overwrites a byte slice with zeros.
func zeroBytes(b []byte) {
	clear(b)
	runtime.KeepAlive(b)
}
