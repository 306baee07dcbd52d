package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Env variables holding brokerage credentials.
const (
	EnvUsername   = "ROBINHOOD_USERNAME"
	EnvPassword   = "ROBINHOOD_PASSWORD"
	EnvTOTPSecret = "ROBINHOOD_TOTP_SECRET"
	EnvMFACode    = "ROBINHOOD_MFA_CODE"
)

// Credentials is everything the session provider needs to log in. Only
// Username and Password are required; TOTPSecret enables automatic 2FA
// code generation and MFACode is a manually supplied one-time code.
type Credentials struct {
	Username   string
	Password   string
	TOTPSecret string
	MFACode    string
}

// Complete reports whether username and password are both present.
func (c Credentials) Complete() bool {
	return c.Username != "" && c.Password != ""
}

// UserEnvPath is the user-level credentials file written by `rob config`.
func UserEnvPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rob", ".env")
}

// LoadCredentials resolves credentials through the layered chain:
// process environment first, then .env in the working directory, then
// ~/.config/rob/.env, then ~/.rob/.env. godotenv never overrides values
// already set, so earlier layers win.
func LoadCredentials() Credentials {
	_ = godotenv.Load()

	if os.Getenv(EnvUsername) == "" || os.Getenv(EnvPassword) == "" {
		paths := []string{UserEnvPath()}
		if home, err := os.UserHomeDir(); err == nil {
			paths = append(paths, filepath.Join(home, ".rob", ".env"))
		}
		for _, path := range paths {
			if path == "" {
				continue
			}
			if _, err := os.Stat(path); err == nil {
				if err := godotenv.Load(path); err != nil {
					log.Warn().Str("path", path).Err(err).Msg("could not load credentials file")
					continue
				}
				log.Debug().Str("path", path).Msg("loaded credentials file")
				break
			}
		}
	}

	return Credentials{
		Username:   os.Getenv(EnvUsername),
		Password:   os.Getenv(EnvPassword),
		TOTPSecret: os.Getenv(EnvTOTPSecret),
		MFACode:    os.Getenv(EnvMFACode),
	}
}

// SaveCredentials writes the user-level .env file with owner-only
// permissions. Empty fields are omitted.
func SaveCredentials(path string, c Credentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var buf []byte
	appendVar := func(key, val string) {
		if val != "" {
			buf = append(buf, fmt.Sprintf("%s=%s\n", key, val)...)
		}
	}
	appendVar(EnvUsername, c.Username)
	appendVar(EnvPassword, c.Password)
	appendVar(EnvTOTPSecret, c.TOTPSecret)

	if err := os.WriteFile(path, buf, 0o600); err != nil {
		return fmt.Errorf("write credentials file: %w", err)
	}
	return nil
}

// ReadCredentialsFile parses an existing .env without touching the
// process environment. Used to show current values as prompt defaults.
func ReadCredentialsFile(path string) Credentials {
	vars, err := godotenv.Read(path)
	if err != nil {
		return Credentials{}
	}
	return Credentials{
		Username:   vars[EnvUsername],
		Password:   vars[EnvPassword],
		TOTPSecret: vars[EnvTOTPSecret],
	}
}
