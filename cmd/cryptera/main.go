// Command cryptera encodes and decodes payloads into authenticated blobs.
//
//	echo -n hello | CRYPTERA_SECRET=... cryptera encode --base64
//	cryptera decode --base64 < blob.txt
//	cryptera encode --format json < payload > envelope.json
//	cryptera inspect --base64 < blob.txt
//	cryptera id
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zoobzio/cryptera"
)

// Exit codes.
const (
	exitError     = 1
	exitIntegrity = 2
	exitMalformed = 3
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cryptera",
		Short:         "Authenticated payload encoding keyed by a secret and a per-blob UUID",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	d := cryptera.DefaultConfig()
	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default ./cryptera.yaml if present)")
	pf.String("algorithm", string(d.Algorithm), "cipher suite")
	pf.String("kdf", string(d.KDF), "key-derivation function")
	pf.Int("iterations", d.PBKDF2Iterations, "PBKDF2 iteration count")
	pf.Int("min-secret-length", d.MinSecretLength, "minimum secret length in bytes")
	pf.Bool("allow-empty", d.AllowEmptyPayload, "accept empty payloads on encode")
	pf.String("format", formatRaw, "blob container: raw, json, yaml, xml, msgpack or bson")
	pf.Bool("base64", false, "base64 text instead of binary for raw blobs")
	pf.String("log-level", "WARN", "DEBUG, INFO, WARN or ERROR")
	pf.String("log-format", "text", "text or json")

	root.AddCommand(newEncodeCmd(), newDecodeCmd(), newIDCmd(), newInspectCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cryptera:", describe(err))
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch cryptera.Kind(err) {
	case cryptera.KindIntegrityCheckFailed:
		return exitIntegrity
	case cryptera.KindMalformedBlob:
		return exitMalformed
	default:
		return exitError
	}
}

// describe renders err for the terminal.
func describe(err error) string {
	switch {
	case errors.Is(err, cryptera.ErrIntegrityCheckFailed):
		return "integrity check failed: the blob was modified or the secret is wrong"
	case errors.Is(err, cryptera.ErrMalformedBlob):
		return "input is not a cryptera blob: " + err.Error()
	default:
		return err.Error()
	}
}
