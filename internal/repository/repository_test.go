package repository

import (
	"context"
	"path/filepath"
	"testing"

	"phonenet/internal/domain"
	"phonenet/internal/repository/filestore"
	"phonenet/internal/repository/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenByExtension(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		file string
		want interface{}
	}{
		{"network.json", &filestore.Store{}},
		{"network.yaml", &filestore.Store{}},
		{"network", &filestore.Store{}},
		{"network.db", &sqlite.Store{}},
		{"network.sqlite3", &sqlite.Store{}},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			store, err := Open(filepath.Join(dir, tt.file))
			require.NoError(t, err)
			defer store.Close()
			assert.IsType(t, tt.want, store)
		})
	}
}

func TestOpenRoundTrip(t *testing.T) {
	for _, name := range []string{"net.json", "net.yml", "net.sqlite"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			topo := domain.NewTopology()
			topo.AddTrunk(410, 510)
			topo.AddPhone(510, 7)

			store, err := Open(path)
			require.NoError(t, err)
			require.NoError(t, store.Save(context.Background(), topo))
			require.NoError(t, store.Close())

			store, err = Open(path)
			require.NoError(t, err)
			defer store.Close()

			got, err := store.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, topo.Normalize().Switchboards, got.Normalize().Switchboards)
		})
	}
}
