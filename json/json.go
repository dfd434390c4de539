// Package json provides the JSON Format for cryptera processors and envelopes.
// Sealed []byte fields are carried as base64 strings.
package json

import (
	"encoding/json"

	"github.com/zoobzio/cryptera"
)

// ContentType is the MIME type reported by the JSON format.
const ContentType = "application/json"

type format struct{}

// New returns the JSON format.
func New() cryptera.Format {
	return format{}
}

// ContentType returns the JSON MIME type.
func (format) ContentType() string {
	return ContentType
}

// Marshal encodes v as JSON.
func (format) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes JSON data into v.
func (format) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
