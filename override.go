package cryptera

// FieldSealer seals and opens individual values with a Processor's codec and secret.
type FieldSealer interface {
	// Seal encodes plaintext into a blob.
	Seal(plaintext []byte) ([]byte, error)

	// Open decodes a blob produced by Seal.
	Open(blob []byte) ([]byte, error)
}

// Sealable bypasses reflection in Processor.Store.
// Implement this to seal a type's fields without struct tags.
type Sealable interface {
	// Seal replaces the receiver's sensitive fields with sealed values.
	// The receiver is a clone, so mutations are safe.
	Seal(s FieldSealer) error
}

// Openable bypasses reflection in Processor.Load.
// Implement this to open fields sealed by a Sealable.
type Openable interface {
	// Open replaces the receiver's sealed fields with their plaintext.
	// Called on freshly unmarshaled data.
	Open(s FieldSealer) error
}
