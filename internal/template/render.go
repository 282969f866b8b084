package template

import (
	"encoding/json"
	"fmt"

	"sigs.k8s.io/yaml"
)

// Format selects the serialization of a rendered template.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML:
		return Format(s), nil
	}
	return "", fmt.Errorf("unsupported format %q: must be json or yaml", s)
}

// Extension returns the file extension for f.
func (f Format) Extension() string {
	return string(f)
}

// Render validates t and serializes it.
func Render(t *Template, f Format) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template: %w", err)
	}

	switch f {
	case FormatJSON:
		return append(data, '\n'), nil
	case FormatYAML:
		out, err := yaml.JSONToYAML(data)
		if err != nil {
			return nil, fmt.Errorf("failed to convert template to yaml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
}
