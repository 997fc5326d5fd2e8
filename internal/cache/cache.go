package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/thebushidocollective/han/pkg/errors"
	"github.com/thebushidocollective/han/pkg/logging"
)

type record struct {
	Fingerprint string    `json:"fingerprint"`
	Timestamp   time.Time `json:"timestamp"`
}

// FingerprintCache decides whether a (plugin, action, directory)
// triple's declared inputs have changed since the last successful run
// (§4.E). One small file is stored per triple under a user-scoped
// cache root.
type FingerprintCache struct {
	root   string
	logger *logging.Logger
}

// NewFingerprintCache creates a FingerprintCache rooted at root.
func NewFingerprintCache(root string, logger *logging.Logger) *FingerprintCache {
	return &FingerprintCache{root: root, logger: logger}
}

// DefaultRoot returns the user-scoped cache root, honoring
// HAN_CACHE_DIR and falling back to $XDG_CACHE_HOME/han or
// ~/.cache/han.
func DefaultRoot() string {
	if dir := os.Getenv("HAN_CACHE_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "han")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "han")
	}
	return filepath.Join(os.TempDir(), "han-cache")
}

// ShouldRun computes the triple's current fingerprint and compares it
// against the stored one. It returns true (run) when they differ or no
// stored fingerprint exists, along with the freshly computed
// fingerprint for a subsequent Commit. When patterns is empty, the
// action is never cacheable and ShouldRun always returns true.
func (c *FingerprintCache) ShouldRun(t Triple, patterns []string) (run bool, fingerprint string) {
	fp := Fingerprint(t.Directory, patterns)
	if len(patterns) == 0 {
		return true, fp
	}

	stored, ok := c.read(t)
	if !ok || stored.Fingerprint != fp {
		return true, fp
	}
	return false, fp
}

// Commit atomically records newFingerprint for the triple: write to a
// temp file in the same directory, then rename. Call only after a
// zero-exit outcome. Commit does not see the patterns and always writes
// the entry; the caller skips it when patterns was empty, and ShouldRun
// ignores any stored entry in that case.
func (c *FingerprintCache) Commit(t Triple, newFingerprint string) {
	path := c.entryPath(t)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.warn(t, err)
		return
	}

	lock := flock.New(path + ".lock")
	_ = lock.Lock()
	defer lock.Unlock() //nolint:errcheck

	data, err := json.Marshal(record{Fingerprint: newFingerprint, Timestamp: time.Now()})
	if err != nil {
		c.warn(t, err)
		return
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		c.warn(t, err)
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		c.warn(t, err)
		return
	}
	if err := tmp.Close(); err != nil {
		c.warn(t, err)
		return
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		c.warn(t, err)
	}
}

func (c *FingerprintCache) read(t Triple) (record, bool) {
	data, err := os.ReadFile(c.entryPath(t))
	if err != nil {
		return record{}, false
	}
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return record{}, false
	}
	return r, true
}

func (c *FingerprintCache) entryPath(t Triple) string {
	return filepath.Join(c.root, t.key())
}

func (c *FingerprintCache) warn(t Triple, err error) {
	hanErr := errors.NewCacheError(t.Directory, err)
	c.logger.Warn(hanErr.Message, logging.Err(err))
}
