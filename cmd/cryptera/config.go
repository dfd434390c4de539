package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zoobzio/cryptera"
)

const envPrefix = "CRYPTERA"

// Config holds CLI settings. Precedence, highest first: flags, CRYPTERA_*
// environment variables, the config file, defaults.
type Config struct {
	Algorithm       string `mapstructure:"algorithm"`
	KDF             string `mapstructure:"kdf"`
	Iterations      int    `mapstructure:"iterations"`
	MinSecretLength int    `mapstructure:"min-secret-length"`
	AllowEmpty      bool   `mapstructure:"allow-empty"`
	Format          string `mapstructure:"format"`
	Base64          bool   `mapstructure:"base64"`
	LogLevel        string `mapstructure:"log-level"`
	LogFormat       string `mapstructure:"log-format"`
}

func setDefaults(v *viper.Viper) {
	d := cryptera.DefaultConfig()
	v.SetDefault("algorithm", string(d.Algorithm))
	v.SetDefault("kdf", string(d.KDF))
	v.SetDefault("iterations", d.PBKDF2Iterations)
	v.SetDefault("min-secret-length", d.MinSecretLength)
	v.SetDefault("allow-empty", d.AllowEmptyPayload)
	v.SetDefault("format", formatRaw)
	v.SetDefault("base64", false)
	v.SetDefault("log-level", "WARN")
	v.SetDefault("log-format", "text")
}

// loadConfig reads the config file named by --config, or an optional
// cryptera.{yaml,json,toml} in the working directory, then layers env and flags.
func loadConfig(cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("cryptera")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// options translates the config into codec options.
func (c *Config) options() []cryptera.Option {
	return []cryptera.Option{
		cryptera.WithAlgorithm(cryptera.Algorithm(c.Algorithm)),
		cryptera.WithKDF(cryptera.KDF(c.KDF)),
		cryptera.WithPBKDF2Iterations(c.Iterations),
		cryptera.WithMinSecretLength(c.MinSecretLength),
		cryptera.WithAllowEmptyPayload(c.AllowEmpty),
	}
}
