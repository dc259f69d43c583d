package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"github.com/myrjola/fitcycle/internal/errors"
	"gopkg.in/yaml.v3"
)

//go:embed exercises.yaml
var seedYAML []byte

type seedFile struct {
	Exercises []Exercise `yaml:"exercises"`
}

// ParseYAML decodes a seed document with a top level "exercises" list. Unknown keys are rejected so that typos
// in hand-edited seeds surface early.
func ParseYAML(r io.Reader) ([]Exercise, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f seedFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode exercises yaml: %w", err)
	}
	return f.Exercises, nil
}

// Seed returns the exercises bundled with the binary.
func Seed() ([]Exercise, error) {
	exercises, err := ParseYAML(bytes.NewReader(seedYAML))
	if err != nil {
		return nil, fmt.Errorf("parse embedded seed: %w", err)
	}
	return exercises, nil
}
