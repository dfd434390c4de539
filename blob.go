package cryptera

import "fmt"

// Blob layout: version(1) || identifier(16) || ciphertext(N) || tag(32).
const (
	// Version is the only blob format version this package reads and writes.
	Version byte = 0x01

	// HeaderSize is the length of the authenticated plaintext header.
	HeaderSize = 1 + IdentifierSize

	// MinBlobSize is the length of a blob carrying an empty payload.
	MinBlobSize = HeaderSize + TagSize
)

// Blob is a parsed encoded blob.
type Blob struct {
	Version    byte
	ID         Identifier
	Ciphertext []byte
	Tag        []byte
}

// ParseBlob validates the structure of b and splits it into its fields.
// It does not authenticate anything; a parsed blob is still untrusted.
// The returned Blob does not alias b.
func ParseBlob(b []byte) (*Blob, error) {
	if len(b) < MinBlobSize {
		return nil, newBlobError(fmt.Sprintf("shorter than %d bytes", MinBlobSize), len(b))
	}
	if b[0] != Version {
		return nil, newBlobError(fmt.Sprintf("unknown version 0x%02x", b[0]), len(b))
	}

	n := len(b) - MinBlobSize
	blob := &Blob{
		Version:    b[0],
		Ciphertext: make([]byte, n),
		Tag:        make([]byte, TagSize),
	}
	copy(blob.ID[:], b[1:HeaderSize])
	copy(blob.Ciphertext, b[HeaderSize:HeaderSize+n])
	copy(blob.Tag, b[HeaderSize+n:])

	return blob, nil
}

// Header returns the associated data bound by the tag: version || identifier.
func (b *Blob) Header() []byte {
	return header(b.Version, b.ID)
}

// Bytes assembles the blob into its wire form.
func (b *Blob) Bytes() []byte {
	out := make([]byte, 0, HeaderSize+len(b.Ciphertext)+len(b.Tag))
	out = append(out, b.Version)
	out = append(out, b.ID[:]...)
	out = append(out, b.Ciphertext...)
	out = append(out, b.Tag...)
	return out
}

// Inspect returns the identifier of an encoded blob without a secret.
// The identifier is unauthenticated until the blob is decoded.
func Inspect(blob []byte) (Identifier, error) {
	b, err := ParseBlob(blob)
	if err != nil {
		return Identifier{}, err
	}
	return b.ID, nil
}

func header(version byte, id Identifier) []byte {
	h := make([]byte, HeaderSize)
	h[0] = version
	copy(h[1:], id[:])
	return h
}
