package sqlite

import (
	"encoding/hex"
	"fmt"
	"sort"

	"phonenet/internal/domain"

	"golang.org/x/crypto/blake2b"
)

// ============================================================================
// Metadata Keys
// ============================================================================

const (
	metaFingerprint = "fingerprint"
	metaSavedAt     = "saved_at"
	metaVersion     = "schema_version"
)

const schemaVersion = "1"

// ============================================================================
// Fingerprint
// ============================================================================

// fingerprint hashes the canonical form of a topology. Two snapshots that
// describe the same network hash equal regardless of list order or trunk
// direction.
func fingerprint(topo *domain.Topology) string {
	canon := topo.Normalize()
	h, _ := blake2b.New256(nil)

	for _, code := range canon.AreaCodes() {
		fmt.Fprintf(h, "s %d\n", code)
	}
	for _, e := range canon.Edges() {
		fmt.Fprintf(h, "t %d %d\n", e[0], e[1])
	}
	for _, code := range canon.AreaCodes() {
		for _, number := range canon.Switchboards[code].Phones {
			fmt.Fprintf(h, "p %d %d\n", code, number)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ============================================================================
// Row Scanners
// ============================================================================

// trunkRow holds one stored trunk. Each trunk is stored once with
// AreaA < AreaB.
type trunkRow struct {
	AreaA int
	AreaB int
}

// scanArgs returns pointers in trunkColumns order: area_a, area_b
func (r *trunkRow) scanArgs() []interface{} {
	return []interface{}{&r.AreaA, &r.AreaB}
}

const trunkColumns = `area_a, area_b`

// phoneRow holds one stored phone
type phoneRow struct {
	AreaCode int
	Number   int
}

// scanArgs returns pointers in phoneColumns order: area_code, number
func (r *phoneRow) scanArgs() []interface{} {
	return []interface{}{&r.AreaCode, &r.Number}
}

const phoneColumns = `area_code, number`

// ============================================================================
// Write Helpers
// ============================================================================

// trunkRows flattens a topology into one row per undirected trunk
func trunkRows(topo *domain.Topology) []trunkRow {
	edges := topo.Edges()
	rows := make([]trunkRow, 0, len(edges))
	for _, e := range edges {
		rows = append(rows, trunkRow{AreaA: e[0], AreaB: e[1]})
	}
	return rows
}

// phoneRows flattens a topology into one row per phone, ordered
func phoneRows(topo *domain.Topology) []phoneRow {
	var rows []phoneRow
	for _, code := range topo.AreaCodes() {
		numbers := append([]int(nil), topo.Switchboards[code].Phones...)
		sort.Ints(numbers)
		for _, n := range numbers {
			rows = append(rows, phoneRow{AreaCode: code, Number: n})
		}
	}
	return rows
}
