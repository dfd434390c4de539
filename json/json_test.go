package json

import (
	"strings"
	"testing"

	"github.com/zoobzio/cryptera"
)

func TestContentType(t *testing.T) {
	if got := New().ContentType(); got != "application/json" {
		t.Errorf("ContentType() = %q, want %q", got, "application/json")
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	f := New()

	original := cryptera.Envelope{
		Version:    1,
		ID:         "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		Algorithm:  string(cryptera.AES256GCM),
		KDF:        string(cryptera.KDFPBKDF2),
		Iterations: 10000,
		Data:       "AWunuBCdrRHRgLQAwE/UMMg=",
	}

	data, err := f.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(data), `"algorithm":"AES-256-GCM"`) {
		t.Errorf("Marshal() = %s, missing algorithm", data)
	}

	var restored cryptera.Envelope
	if err := f.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if restored != original {
		t.Errorf("round-trip failed: got %+v, want %+v", restored, original)
	}
}

func TestBytesAsBase64(t *testing.T) {
	f := New()

	type record struct {
		Blob []byte `json:"blob"`
	}

	data, err := f.Marshal(record{Blob: []byte{0x01, 0xff}})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(data) != `{"blob":"Af8="}` {
		t.Errorf("Marshal() = %s, want %s", data, `{"blob":"Af8="}`)
	}
}

func TestMarshalNil(t *testing.T) {
	data, err := New().Marshal(nil)
	if err != nil {
		t.Fatalf("Marshal(nil) error: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("Marshal(nil) = %q, want %q", data, "null")
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	var v cryptera.Envelope
	if err := New().Unmarshal([]byte("invalid json"), &v); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}
