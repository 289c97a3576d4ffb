package codec

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"phonenet/internal/domain"
)

// Importer reads a topology snapshot from a serialized form
type Importer interface {
	Parse(r io.Reader) (*domain.Topology, error)
	Format() string
}

// Exporter writes a topology snapshot to a serialized form
type Exporter interface {
	Export(topo *domain.Topology, w io.Writer) error
	Format() string
}

// Codec is both an Importer and an Exporter
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec for a format name or file extension
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "", "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", domain.ErrInvalidOperation, format)
	}
}

// document is the on-disk shape shared by every codec: switchboards keyed by
// area code written as a string.
type document map[string]domain.SwitchboardRecord

func toDocument(topo *domain.Topology) document {
	canon := topo.Normalize()
	doc := make(document, len(canon.Switchboards))
	for code, rec := range canon.Switchboards {
		doc[strconv.Itoa(code)] = rec
	}
	return doc
}

func fromDocument(doc document) (*domain.Topology, error) {
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	topo := domain.NewTopology()
	for _, key := range keys {
		code, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("%w: area code %q is not an integer", domain.ErrFormat, key)
		}
		if _, dup := topo.Switchboards[code]; dup {
			return nil, fmt.Errorf("%w: area code %d listed twice", domain.ErrFormat, code)
		}
		rec := doc[key]
		topo.Switchboards[code] = domain.SwitchboardRecord{
			Trunks: append([]int(nil), rec.Trunks...),
			Phones: append([]int(nil), rec.Phones...),
		}
	}
	if err := topo.Validate(); err != nil {
		return nil, err
	}
	return topo, nil
}
