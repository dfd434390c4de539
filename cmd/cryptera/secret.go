package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/term"
)

// SecretEnvVar supplies the secret without a prompt.
const SecretEnvVar = "CRYPTERA_SECRET"

var errSecretMismatch = errors.New("secrets do not match")

// readSecret returns the secret from SecretEnvVar or an interactive prompt.
// With confirm set, the prompt asks twice.
func readSecret(confirm bool) ([]byte, error) {
	if env := os.Getenv(SecretEnvVar); env != "" {
		return []byte(env), nil
	}

	secret, err := readPassword("Secret: ")
	if err != nil {
		return nil, err
	}
	if !confirm {
		return secret, nil
	}

	again, err := readPassword("Confirm secret: ")
	if err != nil {
		zeroBytes(secret)
		return nil, err
	}
	defer zeroBytes(again)

	if !bytes.Equal(secret, again) {
		zeroBytes(secret)
		return nil, errSecretMismatch
	}
	return secret, nil
}

// readPassword prompts on stderr. Payloads arrive on stdin, so when stdin
// is not a terminal the prompt reads from /dev/tty.
func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		return term.ReadPassword(fd)
	}

	tty, err := os.Open("/dev/tty")
	if err != nil {
		if runtime.GOOS == "windows" {
			return nil, fmt.Errorf("secret must be set via %s when stdin is piped", SecretEnvVar)
		}
		return nil, fmt.Errorf("cannot prompt for secret: stdin is piped and /dev/tty is unavailable; set %s", SecretEnvVar)
	}
	defer tty.Close()

	return term.ReadPassword(int(tty.Fd()))
}

// zeroBytes overwrites a byte slice with zeros.
func zeroBytes(b []byte) {
	clear(b)
	runtime.KeepAlive(b)
}
