package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zoobzio/cryptera"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// run executes the CLI with stdin and returns stdout.
func run(t *testing.T, stdin []byte, args ...string) ([]byte, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(bytes.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.Bytes(), err
}

func TestEncodeDecode_Raw(t *testing.T) {
	t.Setenv(SecretEnvVar, testSecret)

	blob, err := run(t, []byte("hello"), "encode", "--kdf", "hkdf-sha256")
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	if len(blob) != 54 {
		t.Errorf("len(blob) = %d, want 54", len(blob))
	}

	payload, err := run(t, blob, "decode", "--kdf", "hkdf-sha256")
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if string(payload) != "hello" {
		t.Errorf("decode = %q, want %q", payload, "hello")
	}
}

func TestEncodeDecode_Base64(t *testing.T) {
	t.Setenv(SecretEnvVar, testSecret)

	text, err := run(t, []byte("hello"), "encode", "--base64", "--kdf", "hkdf-sha256")
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(text)))
	if err != nil {
		t.Fatalf("output is not base64: %v", err)
	}
	if len(raw) != 54 {
		t.Errorf("len(blob) = %d, want 54", len(raw))
	}

	payload, err := run(t, text, "decode", "--base64", "--kdf", "hkdf-sha256")
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if string(payload) != "hello" {
		t.Errorf("decode = %q, want %q", payload, "hello")
	}
}

func TestEncodeDecode_Envelope(t *testing.T) {
	t.Setenv(SecretEnvVar, testSecret)

	for _, name := range formatNames() {
		t.Run(name, func(t *testing.T) {
			data, err := run(t, []byte("payload"), "encode", "--format", name,
				"--algorithm", string(cryptera.XChaCha20Poly1305), "--kdf", "hkdf-sha256")
			if err != nil {
				t.Fatalf("encode error: %v", err)
			}

			// Settings travel in the envelope, so decode needs no algorithm flags.
			payload, err := run(t, data, "decode", "--format", name)
			if err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if string(payload) != "payload" {
				t.Errorf("decode = %q, want %q", payload, "payload")
			}
		})
	}
}

func TestDecode_Integrity(t *testing.T) {
	t.Setenv(SecretEnvVar, testSecret)

	blob, err := run(t, []byte("hello"), "encode", "--kdf", "hkdf-sha256")
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	blob[len(blob)-1] ^= 0x01

	out, err := run(t, blob, "decode", "--kdf", "hkdf-sha256")
	if !errors.Is(err, cryptera.ErrIntegrityCheckFailed) {
		t.Fatalf("decode error = %v, want ErrIntegrityCheckFailed", err)
	}
	if len(out) != 0 {
		t.Error("decode wrote output on failure")
	}
	if got := exitCode(err); got != exitIntegrity {
		t.Errorf("exitCode() = %d, want %d", got, exitIntegrity)
	}
}

func TestDecode_Malformed(t *testing.T) {
	t.Setenv(SecretEnvVar, testSecret)

	tests := []struct {
		name  string
		input string
		args  []string
	}{
		{"short raw", "short", []string{"decode"}},
		{"bad base64", "!!!", []string{"decode", "--base64"}},
		{"bad envelope", "{", []string{"decode", "--format", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, []byte(tt.input), tt.args...)
			if !errors.Is(err, cryptera.ErrMalformedBlob) {
				t.Fatalf("decode error = %v, want ErrMalformedBlob", err)
			}
			if got := exitCode(err); got != exitMalformed {
				t.Errorf("exitCode() = %d, want %d", got, exitMalformed)
			}
		})
	}
}

func TestEncode_SecretTooShort(t *testing.T) {
	t.Setenv(SecretEnvVar, "short")

	_, err := run(t, []byte("hello"), "encode")
	if !errors.Is(err, cryptera.ErrSecretTooShort) {
		t.Fatalf("encode error = %v, want ErrSecretTooShort", err)
	}
	if got := exitCode(err); got != exitError {
		t.Errorf("exitCode() = %d, want %d", got, exitError)
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	t.Setenv(SecretEnvVar, testSecret)

	if _, err := run(t, []byte("hello"), "encode", "--format", "toml", "--kdf", "hkdf-sha256"); err == nil {
		t.Error("encode with unknown format should fail")
	}
}

func TestID(t *testing.T) {
	out, err := run(t, nil, "id", "-n", "3")
	if err != nil {
		t.Fatalf("id error: %v", err)
	}

	lines := strings.Fields(string(out))
	if len(lines) != 3 {
		t.Fatalf("id printed %d lines, want 3", len(lines))
	}
	for _, line := range lines {
		if _, err := cryptera.ParseIdentifier(line); err != nil {
			t.Errorf("ParseIdentifier(%q) error: %v", line, err)
		}
	}
}

func TestInspect(t *testing.T) {
	t.Setenv(SecretEnvVar, testSecret)

	blob, err := run(t, []byte("hello"), "encode", "--kdf", "hkdf-sha256")
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	id, err := cryptera.Inspect(blob)
	if err != nil {
		t.Fatalf("Inspect error: %v", err)
	}

	t.Setenv(SecretEnvVar, "")
	out, err := run(t, blob, "inspect")
	if err != nil {
		t.Fatalf("inspect error: %v", err)
	}
	if !strings.Contains(string(out), id.String()) {
		t.Errorf("inspect output %q missing identifier %s", out, id)
	}
	if !strings.Contains(string(out), "payload:    5 bytes") {
		t.Errorf("inspect output %q missing payload size", out)
	}
}

func TestEncode_DebugLogsIdentifier(t *testing.T) {
	t.Setenv(SecretEnvVar, testSecret)

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetArgs([]string{"encode", "--kdf", "hkdf-sha256", "--log-level", "DEBUG", "--log-format", "json"})
	cmd.SetIn(bytes.NewReader([]byte("hello")))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("encode error: %v", err)
	}

	id, err := cryptera.Inspect(out.Bytes())
	if err != nil {
		t.Fatalf("Inspect error: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(errOut.Bytes()), &entry); err != nil {
		t.Fatalf("debug log is not a single json line: %v (%q)", err, errOut.String())
	}
	if entry["msg"] != "encoded payload" {
		t.Errorf("msg = %v, want %q", entry["msg"], "encoded payload")
	}
	if entry["identifier"] != id.String() {
		t.Errorf("identifier = %v, want %s", entry["identifier"], id)
	}
	if bytes.Contains(errOut.Bytes(), []byte("hello")) {
		t.Error("debug log leaked the payload")
	}
}

func TestConfig_Precedence(t *testing.T) {
	t.Setenv(SecretEnvVar, testSecret)

	dir := t.TempDir()
	path := filepath.Join(dir, "cryptera.yaml")
	if err := os.WriteFile(path, []byte("algorithm: CHACHA20-POLY1305\nkdf: hkdf-sha256\nformat: json\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	envelope := func(args ...string) cryptera.Envelope {
		t.Helper()
		out, err := run(t, []byte("x"), append([]string{"encode", "--config", path}, args...)...)
		if err != nil {
			t.Fatalf("encode error: %v", err)
		}
		var env cryptera.Envelope
		if err := json.Unmarshal(out, &env); err != nil {
			t.Fatalf("output is not a JSON envelope: %v", err)
		}
		return env
	}

	if env := envelope(); env.Algorithm != string(cryptera.ChaCha20Poly1305) {
		t.Errorf("config file: Algorithm = %q, want %q", env.Algorithm, cryptera.ChaCha20Poly1305)
	}

	t.Setenv("CRYPTERA_ALGORITHM", string(cryptera.AES256CTRHMAC))
	if env := envelope(); env.Algorithm != string(cryptera.AES256CTRHMAC) {
		t.Errorf("env: Algorithm = %q, want %q", env.Algorithm, cryptera.AES256CTRHMAC)
	}

	if env := envelope("--algorithm", string(cryptera.AES256GCM)); env.Algorithm != string(cryptera.AES256GCM) {
		t.Errorf("flag: Algorithm = %q, want %q", env.Algorithm, cryptera.AES256GCM)
	}
}

func TestConfig_MissingFile(t *testing.T) {
	if _, err := run(t, nil, "inspect", "--config", filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("inspect with missing config file should fail")
	}
}

func TestDescribe(t *testing.T) {
	integrity := &cryptera.OperationError{Err: cryptera.ErrIntegrityCheckFailed, Operation: "decrypt"}
	if got := describe(integrity); !strings.Contains(got, "modified or the secret is wrong") {
		t.Errorf("describe() = %q", got)
	}

	malformed := &cryptera.BlobError{Reason: "shorter than 49 bytes", Length: 3}
	if got := describe(malformed); !strings.HasPrefix(got, "input is not a cryptera blob") {
		t.Errorf("describe() = %q", got)
	}

	if got := describe(errors.New("boom")); got != "boom" {
		t.Errorf("describe() = %q, want %q", got, "boom")
	}
}
