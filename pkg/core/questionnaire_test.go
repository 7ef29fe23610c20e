package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuestionnaire_DayScenario(t *testing.T) {
	q, err := NewQuestionnaire([]Record{
		{"key": "q1", "type": "binary", "question": "Is it day?", "branch": map[string]any{"yes": "q2", "no": "end"}},
		{"key": "q2", "type": "text", "question": "Describe."},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, q.Len())
	assert.Equal(t, []string{"q1", "q2"}, q.Keys())
	assert.Equal(t, []QuestionType{TypeBinary, TypeText}, q.QuestionTypes())
	assert.Equal(t, BranchConditional, q.Branch("q1").Kind())
	assert.Equal(t, BranchAbsent, q.Branch("q2").Kind())
	assert.Equal(t, "1. Is it day? (q1)\n2. Describe. (q2)", q.String())

	question, ok := q.Question("q2")
	require.True(t, ok)
	assert.Equal(t, "Describe.", question.Prompt())
}

func TestNewQuestionnaire_Failures(t *testing.T) {
	tests := []struct {
		name     string
		records  []Record
		kind     error
		contains []string
	}{
		{
			name:    "empty",
			records: nil,
			kind:    ErrEmptyQuestionnaire,
		},
		{
			name:     "reserved key",
			records:  []Record{{"key": "end", "type": "text", "question": "x"}},
			kind:     ErrReservedKey,
			contains: []string{"'end'"},
		},
		{
			name:     "deprecated type",
			records:  []Record{{"key": "q1", "type": "single_choice", "question": "x"}},
			kind:     ErrDeprecatedType,
			contains: []string{"select"},
		},
		{
			name:    "unknown type",
			records: []Record{{"key": "q1", "type": "not-a-type", "question": "x"}},
			kind:    ErrUnrecognizedType,
		},
		{
			name:     "unreachable branch",
			records:  []Record{{"key": "q1", "type": "binary", "question": "x", "branch": map[string]any{"yes": "missing"}}},
			kind:     ErrUnreachableBranch,
			contains: []string{"'missing'"},
		},
		{
			name: "duplicate after trimming",
			records: []Record{
				{"key": "q1", "type": "text", "question": "First prompt"},
				{"key": " q1 ", "type": "text", "question": "Second prompt"},
			},
			kind:     ErrDuplicateKey,
			contains: []string{"First prompt", "Second prompt"},
		},
		{
			name:     "missing field",
			records:  []Record{{"key": "q1", "type": "text", "question": "x"}, {"key": "q2", "type": "text"}},
			kind:     ErrMissingField,
			contains: []string{"'question'", "#2"},
		},
		{
			name:    "non-string key",
			records: []Record{{"key": 7, "type": "text", "question": "x"}},
			kind:    ErrInvalidKey,
		},
		{
			name:    "bad branch shape",
			records: []Record{{"key": "q1", "type": "text", "question": "x", "branch": true}},
			kind:    ErrInvalidBranch,
		},
		{
			name:    "bad parameters",
			records: []Record{{"key": "q1", "type": "text", "question": "x", "parameters": "wide"}},
			kind:    ErrInvalidParameters,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := NewQuestionnaire(tc.records)
			assert.Nil(t, q)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.kind)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
			for _, s := range tc.contains {
				assert.Contains(t, err.Error(), s)
			}
		})
	}
}

func TestNewQuestionnaire_ForwardAndTerminalBranches(t *testing.T) {
	q, err := NewQuestionnaire([]Record{
		{"key": "q1", "type": "text", "question": "a", "branch": "q3"},
		{"key": "q2", "type": "text", "question": "b", "branch": "end"},
		{"key": "q3", "type": "select", "question": "c", "branch": map[string]any{
			"Red": map[string]any{"Dark": "q2", "LIGHT": "end"},
			"blue": "q1",
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, BranchKey, q.Branch("q1").Kind())
	assert.Equal(t, BranchTerminal, q.Branch("q2").Kind())

	red, ok := q.Branch("q3").Case("RED")
	require.True(t, ok)
	light, ok := red.Case("light")
	require.True(t, ok)
	assert.Equal(t, BranchTerminal, light.Kind())
}

func TestNewQuestionnaire_EndAlwaysValid(t *testing.T) {
	q, err := NewQuestionnaire([]Record{
		{"key": "only", "type": "url", "question": "Link?", "branch": "end"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, q.Len())
}

func TestNewQuestionnaire_DoesNotAliasInput(t *testing.T) {
	branch := map[string]any{"Yes": "q1"}
	_, err := NewQuestionnaire([]Record{
		{"key": "q1", "type": "binary", "question": "x", "branch": branch},
	})
	require.NoError(t, err)

	_, stillUpper := branch["Yes"]
	assert.True(t, stillUpper, "input records must not be rewritten")
}

func TestQuestionnaire_MarshalJSON(t *testing.T) {
	q, err := NewQuestionnaire([]Record{
		{"key": "q1", "type": "binary", "question": "Is it day?", "branch": map[string]any{"Yes": "q2", "no": "end"}},
		{"key": "q2", "type": "text", "question": "Describe."},
	})
	require.NoError(t, err)

	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"questions": [
			{"key": "q1", "type": "binary", "question": "Is it day?"},
			{"key": "q2", "type": "text", "question": "Describe."}
		],
		"controlflow": {"q1": {"yes": "q2", "no": "end"}},
		"questionTypes": ["binary", "text"]
	}`, string(data))
}

func TestParseRecords(t *testing.T) {
	records, err := ParseRecords([]any{map[string]any{"key": "q1"}})
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = ParseRecords(map[string]any{})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = ParseRecords([]any{"q1"})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
