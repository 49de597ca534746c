// Package settings stores strman user credentials.
//
// Credentials live in the XDG data directory:
//
//	$XDG_DATA_HOME/strman/auth.json  (default: ~/.local/share/strman/auth.json)
//
// The file is a JSON object keyed by provider ID ("google"), each value
// holding an API key. File permissions are 0600 (owner read/write only).
//
// Lookup order for the Google API key:
//  1. --api-key flag (highest priority)
//  2. STRMAN_GOOGLE_API_KEY environment variable
//  3. This credential store
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dataDirName = "strman"
	fileName    = "auth.json"
)

// ProviderGoogle is the provider ID for Google Sheets.
const ProviderGoogle = "google"

// GoogleAPIKeyEnv is the environment variable holding a Google API key.
const GoogleAPIKeyEnv = "STRMAN_GOOGLE_API_KEY"

// Info is the credential stored per provider.
type Info struct {
	Key string `json:"key"`
}

// Store holds all provider credentials, keyed by provider ID.
type Store map[string]*Info

// ---------------------------------------------------------------------------
// File path
// ---------------------------------------------------------------------------

// DataDir returns the strman data directory, respecting $XDG_DATA_HOME.
func DataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func filePath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// FilePath returns the auth.json path for display purposes.
func FilePath() string {
	p, err := filePath()
	if err != nil {
		return ""
	}
	return p
}

// ---------------------------------------------------------------------------
// Load / Save
// ---------------------------------------------------------------------------

// Load reads the credential store from disk.
// Returns an empty store if the file doesn't exist or is invalid.
func Load() Store {
	path, err := filePath()
	if err != nil {
		return make(Store)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return make(Store)
	}
	var store Store
	if err := json.Unmarshal(data, &store); err != nil || store == nil {
		return make(Store)
	}
	return store
}

// Save writes the credential store to disk with 0600 permissions.
func Save(store Store) error {
	path, err := filePath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// API keys
// ---------------------------------------------------------------------------

// SetAPIKey stores an API key for a provider.
func SetAPIKey(providerID, key string) error {
	store := Load()
	store[providerID] = &Info{Key: key}
	return Save(store)
}

// GetAPIKey returns the stored API key for a provider, or "".
func GetAPIKey(providerID string) string {
	info := Load()[providerID]
	if info == nil {
		return ""
	}
	return info.Key
}

// Remove deletes credentials for a provider.
func Remove(providerID string) error {
	store := Load()
	if _, ok := store[providerID]; !ok {
		return nil
	}
	delete(store, providerID)
	return Save(store)
}

// GoogleAPIKey resolves the Google API key: flag value, then environment,
// then the credential store.
func GoogleAPIKey(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(GoogleAPIKeyEnv); env != "" {
		return env
	}
	return GetAPIKey(ProviderGoogle)
}

// MaskKey returns a masked version of a key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
