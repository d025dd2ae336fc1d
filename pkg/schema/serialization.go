package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a schema document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from the file extension, defaulting to YAML.
func FormatFromPath(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return FormatJSON
	}
	return FormatYAML
}

// Parse decodes a schema document.
func Parse(data []byte, format Format) (Schema, error) {
	var s Schema
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &s); err != nil {
			return Schema{}, fmt.Errorf("failed to parse schema json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Schema{}, fmt.Errorf("failed to parse schema yaml: %w", err)
		}
	default:
		return Schema{}, fmt.Errorf("unknown schema format: %q", format)
	}
	return s, nil
}

// Load reads a schema document from disk. The format follows the file extension.
func Load(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("failed to read schema: %w", err)
	}
	return Parse(data, FormatFromPath(path))
}

// Encode serializes a schema document in the given format.
func Encode(s Schema, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(s, "", "  ")
	case FormatYAML:
		return yaml.Marshal(s)
	default:
		return nil, fmt.Errorf("unknown schema format: %q", format)
	}
}

// FromMap decodes a loosely typed schema description, such as one received
// as a JSON object inside a larger payload.
func FromMap(raw map[string]any) (Schema, error) {
	var s Schema
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &s,
		ErrorUnused: true,
	})
	if err != nil {
		return Schema{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Schema{}, fmt.Errorf("failed to decode schema: %w", err)
	}
	return s, nil
}
