// Package resources looks up user-facing strings by key.
package resources

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Strings is a flat key to text table. Unknown keys resolve to themselves.
type Strings struct {
	values map[string]string
}

//go:embed strings.yaml
var defaultStrings []byte

// Default returns the built-in string table.
func Default() *Strings {
	s, err := Parse(defaultStrings)
	if err != nil {
		panic(fmt.Sprintf("built-in strings: %v", err))
	}
	return s
}

// Load returns the built-in table overlaid with the entries in path. An
// empty path yields the defaults.
func Load(path string) (*Strings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read strings: %w", err)
	}
	over, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse strings %s: %w", path, err)
	}
	for k, v := range over.values {
		s.values[k] = v
	}
	return s, nil
}

func Parse(data []byte) (*Strings, error) {
	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return &Strings{values: values}, nil
}

func (s *Strings) Localized(key string) string {
	if s != nil {
		if v, ok := s.values[key]; ok && v != "" {
			return v
		}
	}
	return key
}
