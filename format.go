package cryptera

// Format provides content-type aware marshaling for Processor.
// Implementations live in the json, xml, yaml, msgpack and bson subpackages.
type Format interface {
	// ContentType returns the MIME type for this format (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}
