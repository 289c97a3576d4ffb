// Package sqlite stores network snapshots in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"phonenet/internal/domain"

	_ "modernc.org/sqlite"
)

// Store implements repository.TopologyStore using SQLite
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and migrates the schema
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", domain.ErrIO, err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to migrate database: %v", domain.ErrIO, err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS switchboards (
		area_code INTEGER PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS trunks (
		area_a INTEGER NOT NULL,
		area_b INTEGER NOT NULL,
		PRIMARY KEY (area_a, area_b),
		CHECK (area_a < area_b),
		FOREIGN KEY (area_a) REFERENCES switchboards(area_code) ON DELETE CASCADE,
		FOREIGN KEY (area_b) REFERENCES switchboards(area_code) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS phones (
		area_code INTEGER NOT NULL,
		number INTEGER NOT NULL,
		PRIMARY KEY (area_code, number),
		FOREIGN KEY (area_code) REFERENCES switchboards(area_code) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_trunks_b ON trunks(area_b);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save replaces the stored snapshot in one transaction
func (s *Store) Save(ctx context.Context, topo *domain.Topology) error {
	if err := topo.Validate(); err != nil {
		return err
	}
	canon := topo.Normalize()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", domain.ErrIO, err)
	}
	defer tx.Rollback()

	for _, table := range []string{"phones", "trunks", "switchboards"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("%w: failed to clear %s: %v", domain.ErrIO, table, err)
		}
	}

	for _, code := range canon.AreaCodes() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO switchboards (area_code) VALUES (?)`, code); err != nil {
			return fmt.Errorf("%w: failed to insert switchboard %d: %v", domain.ErrIO, code, err)
		}
	}

	for _, row := range trunkRows(canon) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO trunks (`+trunkColumns+`) VALUES (?, ?)`, row.AreaA, row.AreaB); err != nil {
			return fmt.Errorf("%w: failed to insert trunk %d-%d: %v", domain.ErrIO, row.AreaA, row.AreaB, err)
		}
	}

	for _, row := range phoneRows(canon) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO phones (`+phoneColumns+`) VALUES (?, ?)`, row.AreaCode, row.Number); err != nil {
			return fmt.Errorf("%w: failed to insert phone %d-%d: %v", domain.ErrIO, row.AreaCode, row.Number, err)
		}
	}

	meta := map[string]string{
		metaFingerprint: fingerprint(canon),
		metaSavedAt:     time.Now().UTC().Format(time.RFC3339),
		metaVersion:     schemaVersion,
	}
	for key, value := range meta {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO metadata (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
		`, key, value); err != nil {
			return fmt.Errorf("%w: failed to write metadata %s: %v", domain.ErrIO, key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit snapshot: %v", domain.ErrIO, err)
	}
	return nil
}

// Load reads the stored snapshot and checks it against the saved
// fingerprint. A database that was never saved to loads as empty.
func (s *Store) Load(ctx context.Context) (*domain.Topology, error) {
	topo := domain.NewTopology()

	rows, err := s.db.QueryContext(ctx, `SELECT area_code FROM switchboards`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query switchboards: %v", domain.ErrIO, err)
	}
	defer rows.Close()
	for rows.Next() {
		var code int
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("%w: failed to scan switchboard: %v", domain.ErrIO, err)
		}
		topo.AddSwitchboard(code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating switchboards: %v", domain.ErrIO, err)
	}

	trunks, err := s.db.QueryContext(ctx, `SELECT `+trunkColumns+` FROM trunks`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query trunks: %v", domain.ErrIO, err)
	}
	defer trunks.Close()
	for trunks.Next() {
		var row trunkRow
		if err := trunks.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("%w: failed to scan trunk: %v", domain.ErrIO, err)
		}
		topo.AddTrunk(row.AreaA, row.AreaB)
	}
	if err := trunks.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating trunks: %v", domain.ErrIO, err)
	}

	phones, err := s.db.QueryContext(ctx, `SELECT `+phoneColumns+` FROM phones`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query phones: %v", domain.ErrIO, err)
	}
	defer phones.Close()
	for phones.Next() {
		var row phoneRow
		if err := phones.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("%w: failed to scan phone: %v", domain.ErrIO, err)
		}
		topo.AddPhone(row.AreaCode, row.Number)
	}
	if err := phones.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating phones: %v", domain.ErrIO, err)
	}

	want, ok, err := s.metadata(ctx, metaFingerprint)
	if err != nil {
		return nil, err
	}
	if ok && want != fingerprint(topo) {
		return nil, fmt.Errorf("%w: snapshot fingerprint mismatch", domain.ErrFormat)
	}

	return topo.Normalize(), nil
}

// SavedAt returns when the snapshot was last saved
func (s *Store) SavedAt(ctx context.Context) (time.Time, bool, error) {
	value, ok, err := s.metadata(ctx, metaSavedAt)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: bad saved_at %q", domain.ErrFormat, value)
	}
	return t, true, nil
}

func (s *Store) metadata(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: failed to read metadata %s: %v", domain.ErrIO, key, err)
	}
	return value, true, nil
}

// Close releases resources
func (s *Store) Close() error {
	return s.db.Close()
}
