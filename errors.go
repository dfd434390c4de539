package cryptera

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrEntropyUnavailable indicates the system random source could not be read.
	ErrEntropyUnavailable = errors.New("entropy unavailable")

	// ErrUnsupportedAlgorithm indicates an algorithm or KDF outside the supported set.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrInvalidConfig indicates a configuration value is out of range.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrSecretTooShort indicates the secret is shorter than the configured minimum.
	ErrSecretTooShort = errors.New("secret too short")

	// ErrEmptyPayload indicates an empty payload was rejected by configuration.
	ErrEmptyPayload = errors.New("empty payload")

	// ErrMalformedBlob indicates the input is not a structurally valid blob.
	ErrMalformedBlob = errors.New("malformed blob")

	// ErrIntegrityCheckFailed indicates the blob failed authentication.
	// Either the blob was tampered with or the secret is wrong.
	ErrIntegrityCheckFailed = errors.New("integrity check failed")

	// ErrMissingSecret indicates a processor was built without a secret.
	ErrMissingSecret = errors.New("missing secret")

	// ErrUnmarshal indicates the format failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the format failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")
)

// ConfigError represents a codec configuration error.
type ConfigError struct {
	Err     error  // Underlying sentinel error (ErrUnsupportedAlgorithm, ErrInvalidConfig)
	Setting string // Configuration setting that was rejected
	Value   string // Rejected value
}

func (e *ConfigError) Error() string {
	if e.Setting != "" && e.Value != "" {
		return fmt.Sprintf("%s: %s %q", e.Err.Error(), e.Setting, e.Value)
	}
	if e.Setting != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Setting)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// OperationError represents a failed encode, decode or generate call.
type OperationError struct {
	Err       error  // Underlying sentinel error
	Operation string // encode, decode, generate, derive
	Cause     error  // Original error from the underlying primitive, if any
}

func (e *OperationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Err.Error(), e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Err.Error())
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// BlobError represents a structural problem with an encoded blob.
type BlobError struct {
	Reason string // What was wrong with the blob
	Length int    // Length of the rejected input
}

func (e *BlobError) Error() string {
	return fmt.Sprintf("%s: %s (length %d)", ErrMalformedBlob.Error(), e.Reason, e.Length)
}

func (e *BlobError) Unwrap() error {
	return ErrMalformedBlob
}

// FieldError represents a failure sealing or opening a struct field.
type FieldError struct {
	Field     string // Field name that failed
	Operation string // seal or open
	Err       error  // Underlying error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s field %s: %v", e.Operation, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the format
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// Error kinds reported by Kind.
const (
	KindNone                 = ""
	KindEntropyUnavailable   = "entropy_unavailable"
	KindUnsupportedAlgorithm = "unsupported_algorithm"
	KindInvalidConfig        = "invalid_config"
	KindSecretTooShort       = "secret_too_short"
	KindEmptyPayload         = "empty_payload"
	KindMalformedBlob        = "malformed_blob"
	KindIntegrityCheckFailed = "integrity_check_failed"
	KindInternal             = "internal"
)

// Kind maps err to a stable label for signals and metrics.
// Malformed input and failed authentication always get distinct labels.
func Kind(err error) string {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrIntegrityCheckFailed):
		return KindIntegrityCheckFailed
	case errors.Is(err, ErrMalformedBlob):
		return KindMalformedBlob
	case errors.Is(err, ErrEntropyUnavailable):
		return KindEntropyUnavailable
	case errors.Is(err, ErrUnsupportedAlgorithm):
		return KindUnsupportedAlgorithm
	case errors.Is(err, ErrInvalidConfig):
		return KindInvalidConfig
	case errors.Is(err, ErrSecretTooShort):
		return KindSecretTooShort
	case errors.Is(err, ErrEmptyPayload):
		return KindEmptyPayload
	default:
		return KindInternal
	}
}

func newConfigError(sentinel error, setting, value string) error {
	return &ConfigError{
		Err:     sentinel,
		Setting: setting,
		Value:   value,
	}
}

func newOperationError(sentinel error, operation string, cause error) error {
	return &OperationError{
		Err:       sentinel,
		Operation: operation,
		Cause:     cause,
	}
}

func newBlobError(reason string, length int) error {
	return &BlobError{Reason: reason, Length: length}
}

func newFieldError(operation, field string, err error) error {
	return &FieldError{
		Field:     field,
		Operation: operation,
		Err:       err,
	}
}

func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
