package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/zoobzio/cryptera"
)

// session carries what every data command needs.
type session struct {
	cfg *Config
	log *slog.Logger
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, log: newLogger(cfg, cmd.ErrOrStderr())}, nil
}

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode",
		Short: "Encode stdin into a blob on stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			codec, err := cryptera.New(s.cfg.options()...)
			if err != nil {
				return err
			}

			payload, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read payload: %w", err)
			}

			secret, err := readSecret(true)
			if err != nil {
				return err
			}
			defer zeroBytes(secret)

			blob, err := codec.Encode(cmd.Context(), payload, secret)
			if err != nil {
				return err
			}

			id, err := cryptera.Inspect(blob)
			if err != nil {
				return err
			}
			s.log.Debug("encoded payload",
				"algorithm", s.cfg.Algorithm,
				"kdf", s.cfg.KDF,
				"identifier", id.String(),
				"payload_bytes", len(payload),
				"blob_bytes", len(blob))

			return s.writeBlob(cmd.OutOrStdout(), codec, blob)
		},
	}
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode",
		Short: "Decode a blob from stdin and write the payload to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			input, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read blob: %w", err)
			}

			blob, opts, err := s.readBlob(input)
			if err != nil {
				return err
			}

			codec, err := cryptera.New(opts...)
			if err != nil {
				return err
			}

			secret, err := readSecret(false)
			if err != nil {
				return err
			}
			defer zeroBytes(secret)

			payload, err := codec.Decode(cmd.Context(), blob, secret)
			if err != nil {
				s.log.Warn("decode rejected", "kind", cryptera.Kind(err), "blob_bytes", len(blob))
				return err
			}

			s.log.Debug("decoded payload", "payload_bytes", len(payload))
			_, err = cmd.OutOrStdout().Write(payload)
			return err
		},
	}
}

func newIDCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "id",
		Short: "Print fresh identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen := cryptera.NewGenerator()
			for i := 0; i < count; i++ {
				id, err := gen.Generate(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of identifiers")
	return cmd
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Print the header of a blob from stdin without decoding it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			input, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read blob: %w", err)
			}

			blob, _, err := s.readBlob(input)
			if err != nil {
				return err
			}

			b, err := cryptera.ParseBlob(blob)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version:    %d\n", b.Version)
			fmt.Fprintf(out, "identifier: %s\n", b.ID)
			fmt.Fprintf(out, "payload:    %d bytes\n", len(b.Ciphertext))
			fmt.Fprintf(out, "blob:       %d bytes\n", len(blob))
			return nil
		},
	}
}

// writeBlob writes a raw or base64 blob, or an envelope in the configured format.
func (s *session) writeBlob(w io.Writer, codec *cryptera.Codec, blob []byte) error {
	if s.cfg.Format == formatRaw {
		if s.cfg.Base64 {
			_, err := fmt.Fprintln(w, base64.StdEncoding.EncodeToString(blob))
			return err
		}
		_, err := w.Write(blob)
		return err
	}

	f, err := lookupFormat(s.cfg.Format)
	if err != nil {
		return err
	}
	env, err := codec.Wrap(blob)
	if err != nil {
		return err
	}
	data, err := f.Marshal(env)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// readBlob extracts the raw blob from input and returns the codec options
// to decode it with. Envelope settings take precedence over the config.
func (s *session) readBlob(input []byte) ([]byte, []cryptera.Option, error) {
	opts := s.cfg.options()

	if s.cfg.Format == formatRaw {
		if !s.cfg.Base64 {
			return input, opts, nil
		}
		text := bytes.TrimSpace(input)
		blob := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
		n, err := base64.StdEncoding.Decode(blob, text)
		if err != nil {
			return nil, nil, &cryptera.BlobError{Reason: "invalid base64", Length: len(input)}
		}
		return blob[:n], opts, nil
	}

	f, err := lookupFormat(s.cfg.Format)
	if err != nil {
		return nil, nil, err
	}
	var env cryptera.Envelope
	if err := f.Unmarshal(input, &env); err != nil {
		return nil, nil, &cryptera.BlobError{Reason: "invalid " + s.cfg.Format + " envelope", Length: len(input)}
	}
	blob, err := env.Blob()
	if err != nil {
		return nil, nil, err
	}
	return blob, append(opts, env.Options()...), nil
}
