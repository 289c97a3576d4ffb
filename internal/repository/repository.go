package repository

import (
	"context"
	"path/filepath"
	"strings"

	"phonenet/internal/codec"
	"phonenet/internal/domain"
	"phonenet/internal/repository/filestore"
	"phonenet/internal/repository/sqlite"
)

// TopologyStore persists network snapshots
type TopologyStore interface {
	// Save replaces the stored snapshot
	Save(ctx context.Context, topo *domain.Topology) error

	// Load reads the stored snapshot
	Load(ctx context.Context) (*domain.Topology, error)

	// Close releases resources
	Close() error
}

// Open resolves the store for path by its extension
func Open(path string) (TopologyStore, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".db", ".sqlite", ".sqlite3":
		return sqlite.New(path)
	default:
		c, err := codec.ForFormat(ext)
		if err != nil {
			// Unknown extensions are written as JSON.
			c = codec.NewJSONCodec()
		}
		return filestore.New(path, c), nil
	}
}
