package fs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geotagx/builder/pkg/core"
)

func TestSerializers_Parse(t *testing.T) {
	inputs := map[string]string{
		".json": `{"name": "Flood", "questionnaire": [{"key": "q1", "type": "binary", "question": "Water?", "branch": {"Yes": "end"}}]}`,
		".yaml": "name: Flood\nquestionnaire:\n  - key: q1\n    type: binary\n    question: Water?\n    branch:\n      Yes: end\n",
	}

	serializers := DefaultSerializers()
	for ext, input := range inputs {
		t.Run(ext, func(t *testing.T) {
			rec, err := serializers[ext].Parse(strings.NewReader(input))
			require.NoError(t, err)

			assert.Equal(t, "Flood", rec["name"])
			list, ok := rec["questionnaire"].([]any)
			require.True(t, ok, "questionnaire is %T", rec["questionnaire"])
			require.Len(t, list, 1)

			q, ok := list[0].(map[string]any)
			require.True(t, ok)
			branch, ok := q["branch"].(map[string]any)
			require.True(t, ok, "branch is %T", q["branch"])
			assert.Equal(t, "end", branch["Yes"])
		})
	}
}

func TestYAMLSerializer_NonStringKeys(t *testing.T) {
	input := "branch:\n  1: q2\n  2:\n    true: end\n"

	rec, err := NewYAMLSerializer().Parse(strings.NewReader(input))
	require.NoError(t, err)

	branch, ok := rec["branch"].(map[string]any)
	require.True(t, ok, "branch is %T", rec["branch"])
	assert.Equal(t, "q2", branch["1"])

	nested, ok := branch["2"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "end", nested["true"])
}

func TestSerializers_EmptyAndInvalid(t *testing.T) {
	rec, err := NewJSONSerializer().Parse(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Nil(t, rec)

	rec, err = NewYAMLSerializer().Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, rec)

	_, err = NewJSONSerializer().Parse(strings.NewReader("{"))
	assert.ErrorContains(t, err, "invalid json")

	_, err = NewYAMLSerializer().Parse(strings.NewReader("a: [b"))
	assert.ErrorContains(t, err, "invalid yaml")
}

func TestYAMLSerializer_SerializeUsesJSONShape(t *testing.T) {
	type payload struct {
		Slug string `json:"short_name"`
	}
	data, err := NewYAMLSerializer().Serialize(payload{Slug: "flood"})
	require.NoError(t, err)
	assert.Equal(t, "short_name: flood\n", string(data))
}

func TestYAMLSerializer_CollidingKeys(t *testing.T) {
	t.Run("Inside a Branch", func(t *testing.T) {
		input := "questionnaire:\n  - key: q1\n    branch:\n      1: q2\n      \"1\": end\n"

		_, err := NewYAMLSerializer().Parse(strings.NewReader(input))
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrInvalidBranch)
		assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
		assert.Contains(t, err.Error(), "'1'")
	})

	t.Run("Outside a Branch", func(t *testing.T) {
		input := "parameters:\n  1: a\n  \"1\": b\n"

		_, err := NewYAMLSerializer().Parse(strings.NewReader(input))
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrInvalidConfiguration)
		assert.NotErrorIs(t, err, core.ErrInvalidBranch)
	})
}
