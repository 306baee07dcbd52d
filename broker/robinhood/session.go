package robinhood

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// sessionCache is the opaque session token persisted between runs so a
// subsequent run can skip the full password grant.
type sessionCache struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func loadSessionCache(path string) (sessionCache, error) {
	if path == "" {
		return sessionCache{}, fmt.Errorf("session cache disabled")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return sessionCache{}, err
	}
	var cache sessionCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return sessionCache{}, fmt.Errorf("parse session cache: %w", err)
	}
	return cache, nil
}

func saveSessionCache(path string, cache sessionCache) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(cache)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func clearSessionCache(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}
