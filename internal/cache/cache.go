// Package cache is a content-addressed, file-backed store for query
// results. The key is a digest of the resolved query text, so a given query
// string is executed at most once for the lifetime of the cache directory.
package cache

import (
	"crypto/md5" //nolint:gosec // content addressing, not integrity protection
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"duckgs/internal/domain"
)

// DefaultRoot returns the cache directory used when none is configured.
func DefaultRoot() string {
	return filepath.Join(os.TempDir(), "duckgs")
}

// Store maps a resolved query string to a serialized result on disk.
//
// There is no expiry, no size bound, and no cross-process locking: two
// processes racing on the same key may both miss and both write, and the
// last write wins. Writes go through a temp file and rename so a reader
// never observes a partially written entry.
type Store struct {
	root   string
	logger *slog.Logger
}

// Open creates the cache directory (including parents) if absent and
// returns a Store rooted there.
func Open(root string, logger *slog.Logger) (*Store, error) {
	if root == "" {
		root = DefaultRoot()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", root, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{root: root, logger: logger}, nil
}

// Root returns the cache directory.
func (s *Store) Root() string { return s.root }

// Key returns the hex digest used to address the given query string.
func Key(query string) string {
	sum := md5.Sum([]byte(query)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// Path returns the cache file path for the given query string.
func (s *Store) Path(query string) string {
	return filepath.Join(s.root, "cache_"+Key(query)+".json")
}

// GetOrCompute returns the cached result for the query if one exists,
// otherwise invokes compute, persists its result, and returns it. The bool
// reports whether the result came from the cache; on a hit compute is
// never invoked.
func (s *Store) GetOrCompute(query string, compute func() (*domain.Result, error)) (*domain.Result, bool, error) {
	path := s.Path(query)

	if data, err := os.ReadFile(path); err == nil {
		var res domain.Result
		if err := json.Unmarshal(data, &res); err != nil {
			return nil, false, fmt.Errorf("decode cache file %s: %w", path, err)
		}
		s.logger.Debug("cache hit", "path", path)
		return &res, true, nil
	} else if !os.IsNotExist(err) {
		return nil, false, fmt.Errorf("read cache file %s: %w", path, err)
	}

	res, err := compute()
	if err != nil {
		return nil, false, err
	}
	if err := s.put(path, res); err != nil {
		return nil, false, err
	}
	s.logger.Debug("query cached", "path", path)
	return res, false, nil
}

// put serializes the result to a temp file in the cache directory and
// renames it into place.
func (s *Store) put(path string, res *domain.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	tmp := path + "." + uuid.New().String() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) //nolint:errcheck
		return fmt.Errorf("rename cache file into place: %w", err)
	}
	return nil
}
