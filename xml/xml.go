// Package xml provides the XML Format for cryptera processors and envelopes.
//
// encoding/xml writes []byte fields as raw character data, so sealed fields
// in XML documents should be strings, which the processor base64-encodes.
package xml

import (
	"bytes"
	"encoding/xml"

	"github.com/zoobzio/cryptera"
)

// ContentType is the MIME type reported by the XML format.
const ContentType = "application/xml"

type format struct{}

// New returns the XML format.
func New() cryptera.Format {
	return format{}
}

// ContentType returns the XML MIME type.
func (format) ContentType() string {
	return ContentType
}

// Marshal encodes v with a leading XML declaration.
func (format) Marshal(v any) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(xml.Header) + len(body))
	buf.WriteString(xml.Header)
	buf.Write(body)
	return buf.Bytes(), nil
}

// Unmarshal decodes XML data into v.
func (format) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}
