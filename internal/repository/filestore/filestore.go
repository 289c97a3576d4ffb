// Package filestore keeps a network snapshot in a single JSON or YAML file.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"phonenet/internal/codec"
	"phonenet/internal/domain"
)

// Store reads and writes one snapshot file through a codec
type Store struct {
	path  string
	codec codec.Codec
}

// New creates a store for path using c
func New(path string, c codec.Codec) *Store {
	return &Store{path: path, codec: c}
}

// Save writes the snapshot to a temporary file and renames it over the
// target, so a failed write leaves the previous file intact.
func (s *Store) Save(ctx context.Context, topo *domain.Topology) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("%w: cannot write %s: %v", domain.ErrIO, s.path, err)
	}
	defer os.Remove(tmp.Name())

	if err := s.codec.Export(topo, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: cannot write %s: %v", domain.ErrIO, s.path, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: cannot write %s: %v", domain.ErrIO, s.path, err)
	}
	return nil
}

// Load parses the snapshot file
func (s *Store) Load(ctx context.Context) (*domain.Topology, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", domain.ErrIO, s.path)
		}
		return nil, fmt.Errorf("%w: cannot read %s: %v", domain.ErrIO, s.path, err)
	}
	defer f.Close()

	return s.codec.Parse(f)
}

// Close is a no-op; the file is only open during Save and Load
func (s *Store) Close() error {
	return nil
}
