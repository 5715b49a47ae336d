// internal/session/tokencache.go
//
// Short-lived token storage bridging the persisted-session boundary. The
// snapshot never carries the auth token; this cache does, with tight file
// permissions, so a restart inside the token TTL can resume without OTP.

package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenCache stores the live auth token between process runs.
type TokenCache interface {
	Get() (string, bool)
	Put(token string) error
	Delete() error
}

// FileTokenCache keeps the token in a mode-0600 file.
type FileTokenCache struct {
	path string
}

// NewFileTokenCache targets the given token file.
func NewFileTokenCache(path string) *FileTokenCache {
	return &FileTokenCache{path: path}
}

// Get returns the cached token when one exists.
func (c *FileTokenCache) Get() (string, bool) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	return token, token != ""
}

// Put writes the token to disk.
func (c *FileTokenCache) Put(token string) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(c.path, []byte(token), 0o600)
}

// Delete removes the token file.
func (c *FileTokenCache) Delete() error {
	err := os.Remove(c.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// MemoryTokenCache is an in-process cache used by tests.
type MemoryTokenCache struct {
	mu    sync.Mutex
	token string
}

// Get returns the cached token when one exists.
func (c *MemoryTokenCache) Get() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token, c.token != ""
}

// Put replaces the cached token.
func (c *MemoryTokenCache) Put(token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	return nil
}

// Delete clears the cached token.
func (c *MemoryTokenCache) Delete() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	return nil
}
