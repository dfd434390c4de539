package cryptera

// Algorithm represents a supported cipher suite.
type Algorithm string

const (
	// AES256GCM uses AES-256 in Galois/Counter Mode.
	AES256GCM Algorithm = "AES-256-GCM"

	// ChaCha20Poly1305 uses the IETF ChaCha20-Poly1305 AEAD.
	ChaCha20Poly1305 Algorithm = "CHACHA20-POLY1305"

	// XChaCha20Poly1305 uses ChaCha20-Poly1305 with a 24-byte nonce.
	XChaCha20Poly1305 Algorithm = "XCHACHA20-POLY1305"

	// AES256CTRHMAC uses AES-256-CTR with an HMAC-SHA256 tag (encrypt-then-MAC).
	AES256CTRHMAC Algorithm = "AES-256-CTR-HMAC-SHA256"
)

// KDF represents a supported key-derivation function.
type KDF string

const (
	// KDFPBKDF2 stretches the secret with PBKDF2-HMAC-SHA256.
	KDFPBKDF2 KDF = "pbkdf2-sha256"

	// KDFArgon2id stretches the secret with Argon2id.
	KDFArgon2id KDF = "argon2id"

	// KDFHKDF extracts with HKDF-SHA256. Only suitable for high-entropy secrets.
	KDFHKDF KDF = "hkdf-sha256"
)

// suite describes the fixed sizes of an algorithm.
type suite struct {
	keyLen int
	ivLen  int
	aead   bool
}

var suites = map[Algorithm]suite{
	AES256GCM:         {keyLen: 32, ivLen: 12, aead: true},
	ChaCha20Poly1305:  {keyLen: 32, ivLen: 12, aead: true},
	XChaCha20Poly1305: {keyLen: 32, ivLen: 24, aead: true},
	AES256CTRHMAC:     {keyLen: 32, ivLen: 16, aead: false},
}

var validKDFs = map[KDF]bool{
	KDFPBKDF2:   true,
	KDFArgon2id: true,
	KDFHKDF:     true,
}

// IsValidAlgorithm returns true if the algorithm is a known cipher suite.
func IsValidAlgorithm(algo Algorithm) bool {
	_, ok := suites[algo]
	return ok
}

// IsValidKDF returns true if the KDF is a known key-derivation function.
func IsValidKDF(kdf KDF) bool {
	return validKDFs[kdf]
}

// Algorithms returns the supported cipher suites, default first.
func Algorithms() []Algorithm {
	return []Algorithm{AES256GCM, ChaCha20Poly1305, XChaCha20Poly1305, AES256CTRHMAC}
}

// KDFs returns the supported key-derivation functions, default first.
func KDFs() []KDF {
	return []KDF{KDFPBKDF2, KDFArgon2id, KDFHKDF}
}
