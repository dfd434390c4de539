package cryptera

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
)

// TagSize is the length of the integrity tag carried by every blob.
const TagSize = 32

const (
	aeadTagSize = 16
	commitSize  = TagSize - aeadTagSize
)

var commitLabel = []byte("commit")

// Encrypt seals plaintext under km and returns the ciphertext and a TagSize tag.
// The ciphertext is exactly as long as plaintext. The tag authenticates
// both the ciphertext and aad.
//
// For AEAD suites the tag is the AEAD tag followed by a key commitment over aad.
// For AES256CTRHMAC the tag is HMAC-SHA256 over aad and the ciphertext.
func Encrypt(plaintext []byte, km *KeyMaterial, aad []byte) ([]byte, []byte, error) {
	s, err := checkKeyMaterial(km)
	if err != nil {
		return nil, nil, err
	}

	if !s.aead {
		block, err := aes.NewCipher(km.Key)
		if err != nil {
			return nil, nil, newOperationError(ErrUnsupportedAlgorithm, "encrypt", err)
		}
		ciphertext := make([]byte, len(plaintext))
		cipher.NewCTR(block, km.IV).XORKeyStream(ciphertext, plaintext)
		return ciphertext, macTag(km.AuthKey, aad, ciphertext), nil
	}

	aead, err := newAEAD(km)
	if err != nil {
		return nil, nil, err
	}

	n := len(plaintext)
	sealed := aead.Seal(nil, km.IV, plaintext, aad)

	tag := make([]byte, 0, TagSize)
	tag = append(tag, sealed[n:]...)
	tag = append(tag, commitment(km.AuthKey, aad)...)

	return sealed[:n:n], tag, nil
}

// Decrypt verifies tag and returns the plaintext.
// Verification completes before any plaintext is produced; on failure
// Decrypt returns ErrIntegrityCheckFailed and no plaintext.
func Decrypt(ciphertext, tag []byte, km *KeyMaterial, aad []byte) ([]byte, error) {
	s, err := checkKeyMaterial(km)
	if err != nil {
		return nil, err
	}
	if len(tag) != TagSize {
		return nil, newOperationError(ErrIntegrityCheckFailed, "decrypt", errors.New("tag length mismatch"))
	}

	if !s.aead {
		if !hmac.Equal(tag, macTag(km.AuthKey, aad, ciphertext)) {
			return nil, newOperationError(ErrIntegrityCheckFailed, "decrypt", nil)
		}
		block, err := aes.NewCipher(km.Key)
		if err != nil {
			return nil, newOperationError(ErrUnsupportedAlgorithm, "decrypt", err)
		}
		plaintext := make([]byte, len(ciphertext))
		cipher.NewCTR(block, km.IV).XORKeyStream(plaintext, ciphertext)
		return plaintext, nil
	}

	// A commitment mismatch means a different key, so skip the AEAD entirely.
	if !hmac.Equal(tag[aeadTagSize:], commitment(km.AuthKey, aad)) {
		return nil, newOperationError(ErrIntegrityCheckFailed, "decrypt", nil)
	}

	aead, err := newAEAD(km)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(ciphertext)+aeadTagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag[:aeadTagSize]...)

	plaintext, err := aead.Open(nil, km.IV, sealed, aad)
	if err != nil {
		return nil, newOperationError(ErrIntegrityCheckFailed, "decrypt", err)
	}
	return plaintext, nil
}

// newAEAD builds a fresh AEAD context for a single call.
func newAEAD(km *KeyMaterial) (cipher.AEAD, error) {
	var (
		aead cipher.AEAD
		err  error
	)
	switch km.Algorithm {
	case AES256GCM:
		var block cipher.Block
		block, err = aes.NewCipher(km.Key)
		if err == nil {
			aead, err = cipher.NewGCM(block)
		}
	case ChaCha20Poly1305:
		aead, err = chacha20poly1305.New(km.Key)
	case XChaCha20Poly1305:
		aead, err = chacha20poly1305.NewX(km.Key)
	default:
		return nil, newConfigError(ErrUnsupportedAlgorithm, "algorithm", string(km.Algorithm))
	}
	if err != nil {
		return nil, newOperationError(ErrUnsupportedAlgorithm, "cipher init", err)
	}
	return aead, nil
}

func checkKeyMaterial(km *KeyMaterial) (suite, error) {
	if km == nil {
		return suite{}, newConfigError(ErrInvalidConfig, "key material", "")
	}
	s, ok := suites[km.Algorithm]
	if !ok {
		return suite{}, newConfigError(ErrUnsupportedAlgorithm, "algorithm", string(km.Algorithm))
	}
	if len(km.Key) != s.keyLen || len(km.IV) != s.ivLen || len(km.AuthKey) != authKeyLen {
		return suite{}, newConfigError(ErrInvalidConfig, "key material", string(km.Algorithm))
	}
	return s, nil
}

// commitment binds the AEAD key to the header so a wrong secret is rejected
// before the AEAD is opened.
func commitment(authKey, aad []byte) []byte {
	mac := hmac.New(sha256.New, authKey)
	mac.Write(commitLabel)
	mac.Write(aad)
	return mac.Sum(nil)[:commitSize]
}

func macTag(authKey, aad, ciphertext []byte) []byte {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(aad)))

	mac := hmac.New(sha256.New, authKey)
	mac.Write(n[:])
	mac.Write(aad)
	mac.Write(ciphertext)
	return mac.Sum(nil)
}
