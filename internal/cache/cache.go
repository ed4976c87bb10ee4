// Package cache is a small JSON file cache for API responses. Entries
// never expire; the cache exists to spare the backend repeated listing
// calls during interactive sessions, and clearing it is just deleting
// the directory.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/auragophers/aurago/internal/filex"
)

// Cache stores one JSON document per key under a directory.
type Cache struct {
	dir string
}

// New opens (creating if needed) a cache rooted at dir.
func New(dir string) (*Cache, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &Cache{dir: abs}, nil
}

// Key builds a cache key from a name and an optional discriminator,
// e.g. one entry per frame id.
func Key(name, discriminator string) string {
	if discriminator == "" {
		return name
	}
	return name + "-" + discriminator
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Get loads the entry for key into out. The second return is false when
// no entry exists.
func (c *Cache) Get(key string, out any) (bool, error) {
	data, err := os.ReadFile(c.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading cache entry %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decoding cache entry %s: %w", key, err)
	}
	return true, nil
}

// Put stores value under key, replacing any previous entry.
func (c *Cache) Put(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding cache entry %s: %w", key, err)
	}
	if err := os.WriteFile(c.path(key), data, 0o660); err != nil {
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	return nil
}

// GetOrFill returns the cached entry for key, or runs fill, stores its
// result and decodes the stored form back into out. Decoding the stored
// bytes keeps hits and misses shaped identically.
func (c *Cache) GetOrFill(key string, out any, fill func() (any, error)) error {
	hit, err := c.Get(key, out)
	if err != nil || hit {
		return err
	}

	value, err := fill()
	if err != nil {
		return err
	}
	if err := c.Put(key, value); err != nil {
		return err
	}
	_, err = c.Get(key, out)
	return err
}
