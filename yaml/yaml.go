// Package yaml provides the YAML Format for cryptera processors and envelopes.
package yaml

import (
	"bytes"

	"github.com/zoobzio/cryptera"
	"gopkg.in/yaml.v3"
)

// ContentType is the MIME type reported by the YAML format.
const ContentType = "application/yaml"

// indent is the number of spaces per nesting level.
const indent = 2

type format struct{}

// New returns the YAML format.
func New() cryptera.Format {
	return format{}
}

// ContentType returns the YAML MIME type.
func (format) ContentType() string {
	return ContentType
}

// Marshal encodes v as YAML.
func (format) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes YAML data into v.
func (format) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}
