// Package config loads application configuration from environment
// variables, with optional .env support for local development.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/example/holidaze/internal/session"
)

type Config struct {
	// APIBaseURL is the Holidaze API root, e.g. https://v2.api.noroff.dev.
	APIBaseURL string
	// APIKey is sent as X-Noroff-API-Key on every request. Required.
	APIKey string

	// Env selects log output: "dev" for colorized text, anything else JSON.
	Env string

	// StorePath and StorePassphrase locate and unlock the CLI session file.
	StorePath       string
	StorePassphrase string

	// Web server settings, validated only by LoadServer.
	ListenAddr      string
	DatabaseURL     string
	SessionHashKey  []byte
	SessionBlockKey []byte
	TokenEncKey     []byte
}

// Load reads the base configuration every command needs. A .env file in the
// working directory is merged in without overriding real env vars.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		APIBaseURL:      getenv("HOLIDAZE_API_URL", "https://v2.api.noroff.dev"),
		APIKey:          strings.TrimSpace(os.Getenv("HOLIDAZE_API_KEY")),
		Env:             getenv("APP_ENV", "dev"),
		StorePath:       strings.TrimSpace(os.Getenv("HOLIDAZE_STORE_PATH")),
		StorePassphrase: os.Getenv("HOLIDAZE_STORE_PASSPHRASE"),
		ListenAddr:      getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
	}

	if cfg.APIKey == "" {
		return Config{}, fmt.Errorf("required environment variables not set: HOLIDAZE_API_KEY")
	}

	if cfg.StorePath == "" {
		p, err := session.DefaultPath()
		if err != nil {
			return Config{}, fmt.Errorf("resolve session store path: %w", err)
		}
		cfg.StorePath = p
	}

	return cfg, nil
}

// LoadServer reads the base configuration plus everything the web UI
// needs: the database, the cookie keys, and the token encryption key.
func LoadServer() (Config, error) {
	cfg, err := Load()
	if err != nil {
		return Config{}, err
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	for _, v := range []string{"SESSION_HASH_KEY", "SESSION_BLOCK_KEY", "TOKEN_ENC_KEY"} {
		if strings.TrimSpace(os.Getenv(v)) == "" {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	if cfg.SessionHashKey, err = keyEnv("SESSION_HASH_KEY"); err != nil {
		return Config{}, err
	}
	if cfg.SessionBlockKey, err = keyEnv("SESSION_BLOCK_KEY"); err != nil {
		return Config{}, err
	}
	if cfg.TokenEncKey, err = keyEnv("TOKEN_ENC_KEY"); err != nil {
		return Config{}, err
	}
	if len(cfg.TokenEncKey) != 32 {
		return Config{}, fmt.Errorf("TOKEN_ENC_KEY must decode to 32 bytes (got %d)", len(cfg.TokenEncKey))
	}

	return cfg, nil
}

// keyEnv decodes a base64 key from the named env var. The value may also
// be a file path, for k8s secret mounts.
func keyEnv(name string) ([]byte, error) {
	s := os.Getenv(name)
	if b, err := os.ReadFile(s); err == nil {
		s = string(b)
	}
	s = strings.TrimSpace(s)
	dec, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return dec, nil
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}
