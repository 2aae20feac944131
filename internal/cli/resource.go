package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/forpus/forpus/pkg/forpus"
	"github.com/tidwall/sjson"
	sigsyaml "sigs.k8s.io/yaml"
)

// Payload is one document of a payload file, encoded as JSON and addressed
// to a resource.
type Payload struct {
	Resource forpus.Resource
	JSON     []byte
}

type PayloadList []Payload

// LoadPayloadFromFile loads a single YAML or JSON document and converts it to JSON
func LoadPayloadFromFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %v", err)
	}

	// Remove stray tabs
	data = replaceTabsWithSpaces(data)

	data, err = PreprocessYAML(data)
	if err != nil {
		return nil, err
	}

	jsonData, err := sigsyaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse YAML: %v", err)
	}
	if bytes.Equal(bytes.TrimSpace(jsonData), []byte("null")) {
		return nil, fmt.Errorf("%s is empty", filename)
	}
	return jsonData, nil
}

// LoadPayloadsFromMultiYAMLFile loads every document of a multi-YAML file.
// Each document is a payload whose single top-level key names its resource,
// e.g. "security: {name: PETR4}". When forced is set every document is sent
// to that resource instead, and documents not already wrapped in its key are
// wrapped. If data is provided, it will be used instead of reading from the file
func LoadPayloadsFromMultiYAMLFile(filename string, forced forpus.Resource, data ...[]byte) (PayloadList, error) {
	var yamlData []byte
	var err error

	if len(data) > 0 {
		yamlData = data[0]
	} else {
		yamlData, err = os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %v", err)
		}
	}

	// Remove stray tabs
	yamlData = replaceTabsWithSpaces(yamlData)

	yamlData, err = PreprocessYAML(yamlData)
	if err != nil {
		return nil, err
	}

	docs, err := ParseMultiYAMLFromBytes(yamlData)
	if err != nil {
		return nil, err
	}

	var result PayloadList
	for i, doc := range docs {
		converted, err := StrictMapAnyAnyToStringAny(doc)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i+1, err)
		}
		r, body, err := addressPayload(converted, forced)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i+1, err)
		}
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("unable to encode document %d: %v", i+1, err)
		}
		result = append(result, Payload{Resource: r, JSON: jsonData})
	}

	return result, nil
}

// addressPayload determines the resource of a document and returns the body to send.
func addressPayload(doc map[string]any, forced forpus.Resource) (forpus.Resource, map[string]any, error) {
	if forced != "" {
		if _, wrapped := doc[forced.Key()]; wrapped && len(doc) == 1 {
			return forced, doc, nil
		}
		return forced, map[string]any{forced.Key(): doc}, nil
	}

	if len(doc) != 1 {
		return "", nil, fmt.Errorf("expected a single top-level key naming the resource, got %d keys", len(doc))
	}
	for key := range doc {
		r, ok := forpus.ResourceForKey(key)
		if !ok {
			return "", nil, fmt.Errorf("unknown resource key: %s", key)
		}
		return r, doc, nil
	}
	return "", nil, nil
}

// wrapPayload wraps a JSON document in the resource key unless it already is.
func wrapPayload(r forpus.Resource, payload []byte) ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("payload must be an object: %v", err)
	}
	if _, wrapped := doc[r.Key()]; wrapped && len(doc) == 1 {
		return payload, nil
	}
	return sjson.SetRawBytes([]byte("{}"), r.Key(), payload)
}

// replaceTabsWithSpaces replaces all tab characters with four spaces in a byte slice
func replaceTabsWithSpaces(b []byte) []byte {
	return bytes.ReplaceAll(b, []byte("\t"), []byte("    "))
}

func StrictMapAnyAnyToStringAny(input any) (map[string]any, error) {
	converted, err := convertRecursively(input)
	if err != nil {
		return nil, err
	}
	result, ok := converted.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected top-level object to be a map[string]any, got %T", converted)
	}
	return result, nil
}

func convertRecursively(input any) (any, error) {
	switch v := input.(type) {
	case map[any]any:
		result := make(map[string]any)
		for k, val := range v {
			strKey, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string map key: %v (type %T)", k, k)
			}
			convertedVal, err := convertRecursively(val)
			if err != nil {
				return nil, err
			}
			result[strKey] = convertedVal
		}
		return result, nil

	case map[string]any:
		for k, val := range v {
			convertedVal, err := convertRecursively(val)
			if err != nil {
				return nil, err
			}
			v[k] = convertedVal
		}
		return v, nil

	case []any:
		for i, elem := range v {
			convertedElem, err := convertRecursively(elem)
			if err != nil {
				return nil, err
			}
			v[i] = convertedElem
		}
		return v, nil

	default:
		return v, nil
	}
}
