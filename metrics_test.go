package cryptera

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve_Results(t *testing.T) {
	ok := OperationsTotal.WithLabelValues("decode", string(XChaCha20Poly1305), "ok")
	bad := OperationsTotal.WithLabelValues("decode", string(XChaCha20Poly1305), KindIntegrityCheckFailed)
	malformed := OperationsTotal.WithLabelValues("decode", string(XChaCha20Poly1305), KindMalformedBlob)

	okBefore := testutil.ToFloat64(ok)
	badBefore := testutil.ToFloat64(bad)
	malformedBefore := testutil.ToFloat64(malformed)

	c := newTestCodec(t, WithAlgorithm(XChaCha20Poly1305), WithKDF(KDFHKDF))
	blob, err := c.Encode(context.Background(), []byte("metrics"), testSecret)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	if _, err := c.Decode(context.Background(), blob, testSecret); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	blob[len(blob)-1] ^= 0x01
	_, _ = c.Decode(context.Background(), blob, testSecret)
	_, _ = c.Decode(context.Background(), blob[:10], testSecret)

	if got := testutil.ToFloat64(ok) - okBefore; got != 1 {
		t.Errorf("ok decodes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(bad) - badBefore; got != 1 {
		t.Errorf("integrity failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(malformed) - malformedBefore; got != 1 {
		t.Errorf("malformed blobs = %v, want 1", got)
	}
}
