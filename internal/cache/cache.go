// Package cache remembers files that produced no reports so unchanged files
// can be skipped on the next run.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// DefaultLocation is the cache file used when no location is given.
const DefaultLocation = ".decorator-position-cache"

// Current schema version - increment when payload format changes.
const schemaVersion uint16 = 1

// payload is the on-disk form of the cache.
type payload struct {
	Schema uint16
	Key    string            // Fingerprint of the configuration and tool version.
	Clean  map[string]string // File path to content digest.
}

// Cache is a set of clean files tied to one configuration key.
// Thread-safe for concurrent access. A nil *Cache is a no-op.
type Cache struct {
	mu    sync.RWMutex
	path  string
	key   string
	clean map[string]string
	dirty bool
}

// Open loads the cache at path for key. A missing file, an unreadable
// payload, or one written for another key or schema yields an empty cache.
func Open(path, key string) (*Cache, error) {
	c := &Cache{path: path, key: key, clean: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, fmt.Errorf("reading cache %s: %w", path, err)
	}

	var p payload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		c.dirty = true
		return c, nil
	}
	if p.Schema != schemaVersion || p.Key != key {
		c.dirty = true
		return c, nil
	}
	if p.Clean != nil {
		c.clean = p.Clean
	}
	return c, nil
}

// Digest returns the content digest stored for a file.
func Digest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// IsClean reports whether path was clean with exactly this content.
func (c *Cache) IsClean(path string, content []byte) bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	digest, ok := c.clean[path]
	return ok && digest == Digest(content)
}

// MarkClean records that path produced no reports with content.
func (c *Cache) MarkClean(path string, content []byte) {
	if c == nil {
		return
	}
	digest := Digest(content)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clean[path] != digest {
		c.clean[path] = digest
		c.dirty = true
	}
}

// Forget drops path from the cache.
func (c *Cache) Forget(path string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.clean[path]; ok {
		delete(c.clean, path)
		c.dirty = true
	}
}

// Len returns the number of clean entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.clean)
}

// Save writes the cache if it changed. The file is replaced atomically.
func (c *Cache) Save() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}

	data, err := msgpack.Marshal(&payload{Schema: schemaVersion, Key: c.key, Clean: c.clean})
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	f, err := os.CreateTemp(dir, ".decorator-position-cache-*")
	if err != nil {
		return fmt.Errorf("creating cache file: %w", err)
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing cache %s: %w", c.path, err)
	}

	c.dirty = false
	return nil
}
