package yaml

import (
	"strings"
	"testing"

	"github.com/zoobzio/cryptera"
)

func TestContentType(t *testing.T) {
	if got := New().ContentType(); got != "application/yaml" {
		t.Errorf("ContentType() = %q, want %q", got, "application/yaml")
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	f := New()

	original := cryptera.Envelope{
		Version:    1,
		ID:         "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		Algorithm:  string(cryptera.AES256CTRHMAC),
		KDF:        string(cryptera.KDFPBKDF2),
		Iterations: 20000,
		Data:       "AWunuBCdrRHRgLQAwE/UMMg=",
	}

	data, err := f.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(data), "kdf: pbkdf2-sha256\n") {
		t.Errorf("Marshal() = %q, missing kdf line", data)
	}

	var restored cryptera.Envelope
	if err := f.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if restored != original {
		t.Errorf("round-trip failed: got %+v, want %+v", restored, original)
	}
}

func TestMarshalIndent(t *testing.T) {
	v := map[string]map[string]string{"outer": {"inner": "x"}}

	data, err := New().Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(data) != "outer:\n  inner: x\n" {
		t.Errorf("Marshal() = %q, want two-space indent", data)
	}
}

func TestMarshalNil(t *testing.T) {
	data, err := New().Marshal(nil)
	if err != nil {
		t.Fatalf("Marshal(nil) error: %v", err)
	}
	if string(data) != "null\n" {
		t.Errorf("Marshal(nil) = %q, want %q", data, "null\n")
	}
}

func TestUnmarshal_TypeMismatch(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"string for int", "version: not_a_number"},
		{"array for int", "version:\n  - 1\n  - 2"},
		{"map for string", "data:\n  nested: true"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var v cryptera.Envelope
			if err := New().Unmarshal([]byte(tc.input), &v); err == nil {
				t.Errorf("Unmarshal(%q) should return error for type mismatch", tc.input)
			}
		})
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	var v cryptera.Envelope
	if err := New().Unmarshal([]byte("data: [invalid"), &v); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}
