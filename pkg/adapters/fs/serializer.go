package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/geotagx/builder/pkg/core"
	"gopkg.in/yaml.v3"
)

// Serializer defines how to read and write a specific file format.
type Serializer interface {
	// Parse reads a configuration document from r.
	Parse(r io.Reader) (core.Record, error)
	// Serialize converts v to bytes.
	Serialize(v any) ([]byte, error)
}

// DefaultSerializers returns the standard set of serializers.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		".json": NewJSONSerializer(),
		".yaml": NewYAMLSerializer(),
		".yml":  NewYAMLSerializer(),
	}
}

// --- JSON Serializer ---

// JSONSerializer handles reading and writing JSON files.
type JSONSerializer struct{}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

func (s *JSONSerializer) Parse(r io.Reader) (core.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return core.Record(payload), nil
}

func (s *JSONSerializer) Serialize(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// --- YAML Serializer ---

// YAMLSerializer handles reading and writing YAML files.
type YAMLSerializer struct{}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer() *YAMLSerializer {
	return &YAMLSerializer{}
}

func (s *YAMLSerializer) Parse(r io.Reader) (core.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if payload == nil {
		return nil, nil
	}
	normalized, err := normalizeKeys(payload, false)
	if err != nil {
		return nil, err
	}
	return core.Record(normalized.(map[string]any)), nil
}

// Serialize goes through JSON first so that values with a MarshalJSON
// method (questionnaires, branches) keep their authored shape.
func (s *YAMLSerializer) Serialize(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	return yaml.Marshal(generic)
}

// --- Helpers ---

// normalizeKeys traverses maps and slices and converts maps with non-string
// keys (e.g. `1: q2` or `true: end` in YAML) into map[string]any. Two keys
// that render to the same string (`1` and `"1"`) are rejected; inside a
// branch the error is ErrInvalidBranch.
func normalizeKeys(val any, inBranch bool) (any, error) {
	switch v := val.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			n, err := normalizeKeys(val, inBranch || k == core.FieldBranch)
			if err != nil {
				return nil, err
			}
			m[k] = n
		}
		return m, nil
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			name := fmt.Sprint(k)
			if _, dup := m[name]; dup {
				return nil, duplicateKeyError(name, inBranch)
			}
			n, err := normalizeKeys(val, inBranch || name == core.FieldBranch)
			if err != nil {
				return nil, err
			}
			m[name] = n
		}
		return m, nil
	case []any:
		l := make([]any, len(v))
		for i, val := range v {
			n, err := normalizeKeys(val, inBranch)
			if err != nil {
				return nil, err
			}
			l[i] = n
		}
		return l, nil
	default:
		return v, nil
	}
}

func duplicateKeyError(name string, inBranch bool) error {
	if inBranch {
		return fmt.Errorf("%w: %w: the answer '%s' appears more than once in a conditional branch", core.ErrInvalidConfiguration, core.ErrInvalidBranch, name)
	}
	return fmt.Errorf("%w: the key '%s' appears more than once in a map", core.ErrInvalidConfiguration, name)
}
