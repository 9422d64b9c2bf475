// Copyright (c) 2026 Rackline. All rights reserved.

package authstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rackline/rackline/pkg/identity"
)

// ErrNoCachedCredential is returned by [FileCache.Load] when nothing has
// been saved yet.
var ErrNoCachedCredential = errors.New("authstate: no cached credential")

// cachedCredential is the on-disk shape.
type cachedCredential struct {
	Token string         `json:"token"`
	User  *identity.User `json:"user"`
}

// FileCache persists credentials as a JSON file with owner-only permissions.
type FileCache struct {
	path string
}

// NewFileCache constructs a cache backed by the given file path.
func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

// DefaultCachePath resolves the per-user credential file location.
func DefaultCachePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("authstate: resolve config dir: %w", err)
	}
	return filepath.Join(dir, "rackline", "credentials.json"), nil
}

// Save writes the credential pair, creating parent directories as needed.
func (cache *FileCache) Save(token string, user *identity.User) error {
	data, err := json.Marshal(cachedCredential{Token: token, User: user})
	if err != nil {
		return fmt.Errorf("authstate: encode credential: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cache.path), 0o700); err != nil {
		return fmt.Errorf("authstate: create cache dir: %w", err)
	}

	if err := os.WriteFile(cache.path, data, 0o600); err != nil {
		return fmt.Errorf("authstate: write credential: %w", err)
	}
	return nil
}

// Load reads the credential pair back.
//
// Returns [ErrNoCachedCredential] when the file does not exist, and
// treats a corrupt or asymmetric file the same way so callers always
// fall back to a fresh login.
func (cache *FileCache) Load() (string, *identity.User, error) {
	data, err := os.ReadFile(cache.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil, ErrNoCachedCredential
	}
	if err != nil {
		return "", nil, fmt.Errorf("authstate: read credential: %w", err)
	}

	var stored cachedCredential
	if err := json.Unmarshal(data, &stored); err != nil {
		return "", nil, ErrNoCachedCredential
	}
	if stored.Token == "" || stored.User == nil {
		return "", nil, ErrNoCachedCredential
	}

	return stored.Token, stored.User, nil
}

// Clear removes the credential file. Removing an absent file succeeds.
func (cache *FileCache) Clear() error {
	err := os.Remove(cache.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("authstate: clear credential: %w", err)
	}
	return nil
}
