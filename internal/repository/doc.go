// Package repository defines where network snapshots are persisted.
//
// A TopologyStore saves and loads a domain.Topology. Open picks the store
// from the file extension:
//
//   - .json (or no extension) and .yaml/.yml use the codec-backed file store
//   - .db, .sqlite and .sqlite3 use the SQLite store
//
// # SQLite Store
//
// The sqlite store keeps switchboards, trunks and phones in separate tables
// and replaces the whole snapshot in one transaction. A blake2b fingerprint
// of the snapshot is written alongside it and checked on load, so rows edited
// outside the store are reported as domain.ErrFormat.
//
// # Testing
//
// The file store is tested against a temporary directory and the sqlite
// store against in-memory databases.
package repository
