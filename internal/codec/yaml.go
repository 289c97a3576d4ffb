package codec

import (
	"errors"
	"fmt"
	"io"

	"phonenet/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export using the same shape as JSON
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse imports a topology from YAML. An empty document is an empty network.
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Topology, error) {
	var doc document
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", domain.ErrFormat, err)
	}
	return fromDocument(doc)
}

// Export writes a topology as YAML
func (c *YAMLCodec) Export(topo *domain.Topology, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(toDocument(topo)); err != nil {
		return fmt.Errorf("%w: failed to encode YAML: %v", domain.ErrIO, err)
	}

	return nil
}
