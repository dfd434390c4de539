// Package bson provides the BSON Format for cryptera processors and envelopes.
// Sealed []byte fields are stored as BSON binary values, ready for MongoDB documents.
package bson

import (
	"github.com/zoobzio/cryptera"
	"go.mongodb.org/mongo-driver/bson"
)

// ContentType is the MIME type reported by the BSON format.
const ContentType = "application/bson"

type format struct{}

// New returns the BSON format.
func New() cryptera.Format {
	return format{}
}

// ContentType returns the BSON MIME type.
func (format) ContentType() string {
	return ContentType
}

// Marshal encodes v as a BSON document. v must be a struct, map or nil pointer
// to one; bare scalars are rejected by the driver.
func (format) Marshal(v any) ([]byte, error) {
	return bson.Marshal(v)
}

// Unmarshal decodes BSON data into v.
func (format) Unmarshal(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}
