package core

import (
	"fmt"
	"strings"
)

// Record is one raw question entry as decoded from a configuration file.
type Record map[string]any

// Record field names.
const (
	FieldKey        = "key"
	FieldType       = "type"
	FieldQuestion   = "question"
	FieldHint       = "hint"
	FieldParameters = "parameters"
	FieldBranch     = "branch"
)

var requiredFields = []string{FieldKey, FieldType, FieldQuestion}

// ParseRecords converts a decoded questionnaire value (a list of maps) into records.
func ParseRecords(v any) ([]Record, error) {
	list, ok := v.([]any)
	if !ok {
		if records, ok := v.([]Record); ok {
			return records, nil
		}
		return nil, configErrorf(ErrInvalidConfiguration, "the questionnaire must be a list, got %T", v)
	}

	records := make([]Record, 0, len(list))
	for i, item := range list {
		switch m := item.(type) {
		case Record:
			records = append(records, m)
		case map[string]any:
			records = append(records, Record(m))
		default:
			return nil, configErrorf(ErrInvalidConfiguration, "questionnaire entry #%d must be a map, got %T", i+1, item)
		}
	}
	return records, nil
}

// trimmed returns the trimmed string value and whether v was a string at all.
func trimmed(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func (r Record) missing() (string, bool) {
	for _, field := range requiredFields {
		if _, ok := r[field]; !ok {
			return field, true
		}
	}
	return "", false
}

func (r Record) describe() string {
	if s, ok := trimmed(r[FieldQuestion]); ok && s != "" {
		return fmt.Sprintf("%q", s)
	}
	return "(no prompt)"
}

// cloneMap deep-copies the nested maps and lists of a decoded value.
func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Record:
		return Record(cloneMap(t))
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
