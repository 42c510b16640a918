package geo

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Output formats understood by Marshal.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Marshal renders a GeoJSON object as JSON indented with two spaces, or as
// YAML with the same document structure.
func Marshal(v any, format string) ([]byte, error) {
	switch format {
	case "", FormatJSON:
		return json.MarshalIndent(v, "", "  ")
	case FormatYAML:
		// orb types only know how to marshal themselves to JSON
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		return yaml.Marshal(doc)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// WriteFile writes v as indented GeoJSON to path, replacing any existing file.
func WriteFile(path string, v any) error {
	data, err := Marshal(v, FormatJSON)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
