package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/goesviz/goesviz/pkg/sample"
)

// Store persists one NPY file per sample key under a configured directory.
// There is no eviction and no locking: each pipeline run assumes exclusive
// ownership of its cache directory, writes go through a temp file and a
// rename so concurrent writers to the same key degrade to last-write-wins.
type Store struct {
	log logrus.FieldLogger
	dir string
}

// NewStore creates the cache directory if needed and returns a store.
func NewStore(log logrus.FieldLogger, cfg *Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cache configuration: %w", err)
	}

	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Store{
		log: log.WithField("service", "cache"),
		dir: cfg.Directory,
	}, nil
}

// Path returns the on-disk location for a key.
func (s *Store) Path(key sample.Key) string {
	return filepath.Join(s.dir, key.Filename())
}

// Get looks up a key. A missing entry is (nil, false, nil); a present but
// undecodable entry is an error so the caller can decide to refetch.
func (s *Store) Get(key sample.Key) (*sample.Sample, bool, error) {
	f, err := os.Open(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to open cache entry %s: %w", key, err)
	}
	defer func() { _ = f.Close() }()

	grid, err := sample.ReadNPY(f)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode cache entry %s: %w", key, err)
	}

	return grid, true, nil
}

// Put writes an entry for a key, replacing any previous value.
func (s *Store) Put(key sample.Key, grid *sample.Sample) error {
	tmp, err := os.CreateTemp(s.dir, key.String()+".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}

	if err := sample.WriteNPY(tmp, grid); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.Path(key)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to publish cache entry %s: %w", key, err)
	}

	s.log.WithField("key", key.String()).Debug("Cached sample")

	return nil
}
