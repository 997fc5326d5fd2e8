package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Triple identifies one cache entry: a plugin, one of its actions, and
// the absolute directory it ran in (§3 CacheEntry).
type Triple struct {
	Plugin    string
	Action    string
	Directory string
}

// key returns a deterministic digest of the triple, used as the cache
// entry's filename.
func (t Triple) key() string {
	h := sha256.Sum256([]byte(t.Plugin + "\x00" + t.Action + "\x00" + t.Directory))
	return hex.EncodeToString(h[:])
}

// emptyFingerprint is the digest of the empty input stream: the
// fingerprint for a directory whose ifChanged patterns match nothing.
func emptyFingerprint() string {
	h := sha256.Sum256(nil)
	return hex.EncodeToString(h[:])
}

// Fingerprint computes a deterministic digest over the files in dir
// matching patterns: each match contributes its path relative to dir,
// its byte length, and its content digest, in sorted-path order (§4.E).
func Fingerprint(dir string, patterns []string) string {
	if len(patterns) == 0 {
		return emptyFingerprint()
	}

	seen := make(map[string]struct{})
	var matches []string
	for _, pattern := range patterns {
		found, err := doublestar.Glob(os.DirFS(dir), pattern)
		if err != nil {
			continue
		}
		for _, m := range found {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			matches = append(matches, m)
		}
	}
	sort.Strings(matches)

	h := sha256.New()
	for _, rel := range matches {
		full := filepath.Join(dir, rel)
		info, err := os.Stat(full)
		if err != nil {
			continue
		}
		content, err := os.ReadFile(full)
		if err != nil {
			continue
		}
		contentHash := sha256.Sum256(content)

		h.Write([]byte(rel))
		h.Write([]byte{0})
		fmt.Fprintf(h, "%d", info.Size())
		h.Write([]byte{0})
		h.Write(contentHash[:])
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}
