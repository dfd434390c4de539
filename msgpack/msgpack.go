// Package msgpack provides the MessagePack Format for cryptera processors and envelopes.
// Sealed []byte fields are carried as msgpack bin values without base64 overhead.
package msgpack

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/cryptera"
)

// ContentType is the MIME type reported by the MessagePack format.
const ContentType = "application/msgpack"

type format struct{}

// New returns the MessagePack format.
func New() cryptera.Format {
	return format{}
}

// ContentType returns the msgpack MIME type.
func (format) ContentType() string {
	return ContentType
}

// Marshal encodes v, falling back to json tags for structs without msgpack tags.
func (format) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes msgpack data into v.
func (format) Unmarshal(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
