package core

import (
	"encoding/json"
	"strings"
)

// TerminalKey is the reserved branch target that ends a questionnaire.
const TerminalKey = "end"

// Question is a single, validated questionnaire node.
// It has no mutators; a changed question is a new question.
type Question struct {
	key        string
	typ        QuestionType
	prompt     string
	hint       string
	parameters map[string]any
}

// NewQuestion builds a question identified by key from rec.
// Checks run in order (key, type, prompt, parameters) and the first failure is returned.
func NewQuestion(key string, rec Record) (*Question, error) {
	key = strings.TrimSpace(key)
	if err := checkKey(key); err != nil {
		return nil, err
	}

	rawType := rec[FieldType]
	if s, ok := trimmed(rawType); ok {
		rawType = s
	}
	typ, err := checkType(rawType)
	if err != nil {
		return nil, err
	}

	prompt, ok := trimmed(rec[FieldQuestion])
	if !ok || prompt == "" {
		return nil, configErrorf(ErrInvalidPrompt, "the question '%s' must have a non-empty string prompt", key)
	}

	params, err := checkParameters(key, rec[FieldParameters])
	if err != nil {
		return nil, err
	}

	hint, _ := trimmed(rec[FieldHint])

	return &Question{
		key:        key,
		typ:        typ,
		prompt:     prompt,
		hint:       hint,
		parameters: params,
	}, nil
}

func checkKey(key string) error {
	if key == "" {
		return configErrorf(ErrInvalidKey, "a question key must be a non-empty string")
	}
	if key == TerminalKey {
		return configErrorf(ErrReservedKey, "the string '%s' is a reserved keyword and can not be used as a question key", TerminalKey)
	}
	return nil
}

func checkParameters(key string, raw any) (map[string]any, error) {
	switch p := raw.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return cloneMap(p), nil
	case Record:
		return cloneMap(p), nil
	default:
		return nil, configErrorf(ErrInvalidParameters, "the parameters of question '%s' must be a map, got %T", key, raw)
	}
}

func (q *Question) Key() string        { return q.key }
func (q *Question) Type() QuestionType { return q.typ }
func (q *Question) Prompt() string     { return q.prompt }
func (q *Question) Hint() string       { return q.hint }

// Parameters returns a deep copy of the renderer parameters, or nil.
func (q *Question) Parameters() map[string]any {
	if q.parameters == nil {
		return nil
	}
	return cloneMap(q.parameters)
}

type questionJSON struct {
	Key        string         `json:"key"`
	Type       QuestionType   `json:"type"`
	Question   string         `json:"question"`
	Hint       string         `json:"hint,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// MarshalJSON emits the question in its authored record shape.
func (q *Question) MarshalJSON() ([]byte, error) {
	return json.Marshal(questionJSON{
		Key:        q.key,
		Type:       q.typ,
		Question:   q.prompt,
		Hint:       q.hint,
		Parameters: q.parameters,
	})
}
