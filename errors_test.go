package cryptera

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigError_Is(t *testing.T) {
	err := newConfigError(ErrUnsupportedAlgorithm, "algorithm", "DES")

	if !errors.Is(err, ErrUnsupportedAlgorithm) {
		t.Error("ConfigError should unwrap to ErrUnsupportedAlgorithm")
	}
	if errors.Is(err, ErrInvalidConfig) {
		t.Error("ConfigError should not match ErrInvalidConfig")
	}
}

func TestConfigError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "setting and value",
			err:  newConfigError(ErrUnsupportedAlgorithm, "algorithm", "DES"),
			want: `unsupported algorithm: algorithm "DES"`,
		},
		{
			name: "setting only",
			err:  &ConfigError{Err: ErrMissingSecret, Setting: "secret"},
			want: `missing secret: secret`,
		},
		{
			name: "sentinel only",
			err:  &ConfigError{Err: ErrInvalidConfig},
			want: `invalid config`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOperationError_Message(t *testing.T) {
	withCause := newOperationError(ErrEntropyUnavailable, "generate", errors.New("read failed"))
	if got := withCause.Error(); got != "generate: entropy unavailable: read failed" {
		t.Errorf("Error() = %q", got)
	}

	noCause := newOperationError(ErrSecretTooShort, "encode", nil)
	if got := noCause.Error(); got != "encode: secret too short" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(noCause, ErrSecretTooShort) {
		t.Error("OperationError should unwrap to ErrSecretTooShort")
	}
}

func TestBlobError(t *testing.T) {
	err := newBlobError("shorter than 49 bytes", 12)

	if got := err.Error(); got != "malformed blob: shorter than 49 bytes (length 12)" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrMalformedBlob) {
		t.Error("BlobError should unwrap to ErrMalformedBlob")
	}
	if errors.Is(err, ErrIntegrityCheckFailed) {
		t.Error("BlobError should not match ErrIntegrityCheckFailed")
	}
}

func TestFieldError(t *testing.T) {
	inner := newOperationError(ErrIntegrityCheckFailed, "decrypt", nil)
	err := newFieldError("open", "Email", inner)

	if got := err.Error(); got != "open field Email: decrypt: integrity check failed" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrIntegrityCheckFailed) {
		t.Error("FieldError should unwrap to ErrIntegrityCheckFailed")
	}

	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatal("errors.As should extract *FieldError")
	}
	if fe.Field != "Email" || fe.Operation != "open" {
		t.Errorf("FieldError = %+v", fe)
	}
}

func TestCodecError(t *testing.T) {
	err := newCodecError(ErrUnmarshal, errors.New("unexpected EOF"))

	if got := err.Error(); got != "unmarshal failed: unexpected EOF" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrUnmarshal) {
		t.Error("CodecError should unwrap to ErrUnmarshal")
	}

	var ce *CodecError
	if !errors.As(err, &ce) {
		t.Fatal("errors.As should extract *CodecError")
	}
	if ce.Err != ErrUnmarshal {
		t.Errorf("Err = %v, want %v", ce.Err, ErrUnmarshal)
	}

	if got := (&CodecError{Err: ErrMarshal}).Error(); got != "marshal failed" {
		t.Errorf("Error() = %q", got)
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, KindNone},
		{"entropy", newOperationError(ErrEntropyUnavailable, "generate", nil), KindEntropyUnavailable},
		{"algorithm", newConfigError(ErrUnsupportedAlgorithm, "algorithm", "x"), KindUnsupportedAlgorithm},
		{"config", newConfigError(ErrInvalidConfig, "argon2 params", "x"), KindInvalidConfig},
		{"secret", newOperationError(ErrSecretTooShort, "encode", nil), KindSecretTooShort},
		{"empty", newOperationError(ErrEmptyPayload, "encode", nil), KindEmptyPayload},
		{"malformed", newBlobError("short", 3), KindMalformedBlob},
		{"integrity", newOperationError(ErrIntegrityCheckFailed, "decrypt", nil), KindIntegrityCheckFailed},
		{"wrapped integrity", fmt.Errorf("load: %w", newFieldError("open", "Email", newOperationError(ErrIntegrityCheckFailed, "decrypt", nil))), KindIntegrityCheckFailed},
		{"field malformed", newFieldError("open", "Email", newBlobError("invalid base64", 4)), KindMalformedBlob},
		{"unknown", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.want {
				t.Errorf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}
