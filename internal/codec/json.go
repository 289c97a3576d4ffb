package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"phonenet/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse imports a topology from JSON. The input must be exactly one object;
// a repeated area code or data after the object is rejected.
func (c *JSONCodec) Parse(r io.Reader) (*domain.Topology, error) {
	decoder := json.NewDecoder(r)
	doc, err := decodeDocument(decoder)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON: %v", domain.ErrFormat, err)
	}
	return fromDocument(doc)
}

// decodeDocument walks the top-level object key by key, since decoding
// straight into a map keeps only the last of two equal keys.
func decodeDocument(decoder *json.Decoder) (document, error) {
	tok, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected an object, got %v", tok)
	}

	doc := make(document)
	for decoder.More() {
		tok, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		if _, dup := doc[key]; dup {
			return nil, fmt.Errorf("area code %q listed twice", key)
		}

		var rec domain.SwitchboardRecord
		if err := decoder.Decode(&rec); err != nil {
			return nil, fmt.Errorf("switchboard %q: %v", key, err)
		}
		doc[key] = rec
	}

	// Closing brace, then nothing but whitespace.
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}
	if tok, err := decoder.Token(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("unexpected data after object: %v", tok)
	}
	return doc, nil
}

// Export writes a topology as indented JSON with both trunk directions
func (c *JSONCodec) Export(topo *domain.Topology, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(toDocument(topo)); err != nil {
		return fmt.Errorf("%w: failed to encode JSON: %v", domain.ErrIO, err)
	}

	return nil
}
