package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ParseMultiYAMLFromBytes parses byte data containing multiple YAML documents
// Returns a slice of maps containing the parsed YAML documents
func ParseMultiYAMLFromBytes(data []byte) ([]map[string]any, error) {
	// If data is empty or contains only whitespace or only --- separators, return empty slice
	content := bytes.TrimSpace(data)
	if len(bytes.Trim(content, "- \n\t")) == 0 {
		return []map[string]any{}, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	var result []map[string]any

	for {
		var doc map[string]any
		if err := decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode YAML: %w", err)
		}
		// Skip empty documents (common with trailing ---)
		if len(doc) > 0 {
			result = append(result, doc)
		}
	}

	return result, nil
}
