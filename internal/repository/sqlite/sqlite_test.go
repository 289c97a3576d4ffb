package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"phonenet/internal/domain"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newTestStore creates an in-memory SQLite store for testing
func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// assertNoError fails the test if err is not nil
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// assertEqual fails the test if expected != actual
func assertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}

func sampleTopology() *domain.Topology {
	topo := domain.NewTopology()
	topo.AddTrunk(410, 510)
	topo.AddTrunk(410, 610)
	topo.AddPhone(410, 1231111)
	topo.AddPhone(410, 1232222)
	topo.AddPhone(610, 1233333)
	topo.AddSwitchboard(999)
	return topo
}

// ============================================================================
// Helper Function Tests
// ============================================================================

func TestFingerprintIgnoresOrder(t *testing.T) {
	a := &domain.Topology{Switchboards: map[int]domain.SwitchboardRecord{
		410: {Trunks: []int{610, 510}, Phones: []int{2, 1}},
	}}
	b := &domain.Topology{Switchboards: map[int]domain.SwitchboardRecord{
		410: {Trunks: []int{510}, Phones: []int{1, 2}},
		610: {Trunks: []int{410}},
		510: {},
	}}

	if fingerprint(a) != fingerprint(b) {
		t.Error("expected equal fingerprints for equivalent snapshots")
	}

	b.AddPhone(510, 3)
	if fingerprint(a) == fingerprint(b) {
		t.Error("expected fingerprints to differ after adding a phone")
	}
}

func TestTrunkRows(t *testing.T) {
	rows := trunkRows(sampleTopology().Normalize())
	assertEqual(t, []trunkRow{{410, 510}, {410, 610}}, rows)
}

// ============================================================================
// Store Tests
// ============================================================================

func TestStoreEmptyDatabase(t *testing.T) {
	store := newTestStore(t)

	topo, err := store.Load(context.Background())
	assertNoError(t, err)
	if len(topo.Switchboards) != 0 {
		t.Errorf("expected empty topology, got %v", topo.Switchboards)
	}

	_, ok, err := store.SavedAt(context.Background())
	assertNoError(t, err)
	if ok {
		t.Error("expected no saved_at before first save")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assertNoError(t, store.Save(ctx, sampleTopology()))

	got, err := store.Load(ctx)
	assertNoError(t, err)
	assertEqual(t, sampleTopology().Normalize().Switchboards, got.Switchboards)

	_, ok, err := store.SavedAt(ctx)
	assertNoError(t, err)
	if !ok {
		t.Error("expected saved_at after save")
	}
}

func TestStoreSaveReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assertNoError(t, store.Save(ctx, sampleTopology()))

	smaller := domain.NewTopology()
	smaller.AddPhone(720, 5)
	assertNoError(t, store.Save(ctx, smaller))

	got, err := store.Load(ctx)
	assertNoError(t, err)
	assertEqual(t, []int{720}, got.AreaCodes())
}

func TestStoreOneTrunkRowPerPair(t *testing.T) {
	store := newTestStore(t)
	assertNoError(t, store.Save(context.Background(), sampleTopology()))

	var count int
	err := store.db.QueryRow(`SELECT COUNT(*) FROM trunks`).Scan(&count)
	assertNoError(t, err)
	assertEqual(t, 2, count)
}

func TestStoreRejectsInvalidSnapshot(t *testing.T) {
	store := newTestStore(t)
	bad := &domain.Topology{Switchboards: map[int]domain.SwitchboardRecord{
		410: {Trunks: []int{410}},
	}}

	err := store.Save(context.Background(), bad)
	if !errors.Is(err, domain.ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}

func TestStoreDetectsTampering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	assertNoError(t, store.Save(ctx, sampleTopology()))

	_, err := store.db.Exec(`INSERT INTO phones (area_code, number) VALUES (510, 42)`)
	assertNoError(t, err)

	_, err = store.Load(ctx)
	if !errors.Is(err, domain.ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}

func TestStoreFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network.db")
	ctx := context.Background()

	store, err := New(path)
	assertNoError(t, err)
	assertNoError(t, store.Save(ctx, sampleTopology()))
	assertNoError(t, store.Close())

	reopened, err := New(path)
	assertNoError(t, err)
	defer reopened.Close()

	got, err := reopened.Load(ctx)
	assertNoError(t, err)
	assertEqual(t, sampleTopology().Normalize().Switchboards, got.Switchboards)
}
