package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func knownKeys(keys ...string) func(string) bool {
	set := map[string]bool{TerminalKey: true}
	for _, k := range keys {
		set[k] = true
	}
	return func(k string) bool { return set[k] }
}

func TestParseBranch_Variants(t *testing.T) {
	b, err := ParseBranch(nil)
	require.NoError(t, err)
	assert.Equal(t, BranchAbsent, b.Kind())

	b, err = ParseBranch("q2")
	require.NoError(t, err)
	assert.Equal(t, BranchKey, b.Kind())
	assert.Equal(t, "q2", b.Target())

	b, err = ParseBranch("end")
	require.NoError(t, err)
	assert.Equal(t, BranchTerminal, b.Kind())

	b, err = ParseBranch(map[string]any{"Yes": "q2", "NO": "end"})
	require.NoError(t, err)
	assert.Equal(t, BranchConditional, b.Kind())
	assert.Equal(t, []string{"no", "yes"}, b.Cases())

	_, err = ParseBranch([]any{"q2"})
	assert.ErrorIs(t, err, ErrInvalidBranch)

	_, err = ParseBranch(map[string]any{"yes": 3})
	assert.ErrorIs(t, err, ErrInvalidBranch)

	_, err = ParseBranch(map[string]any{"yes": nil})
	assert.ErrorIs(t, err, ErrInvalidBranch)
}

func TestParseBranch_CaseInsensitive(t *testing.T) {
	upper, err := ParseBranch(map[string]any{"Yes": "q2"})
	require.NoError(t, err)
	lower, err := ParseBranch(map[string]any{"yes": "q2"})
	require.NoError(t, err)

	assert.Equal(t, lower, upper)

	for _, answer := range []string{"yes", "YES", "yEs"} {
		target, ok := upper.Case(answer)
		require.True(t, ok, answer)
		assert.Equal(t, "q2", target.Target())
	}

	_, ok := upper.Case("no")
	assert.False(t, ok)
}

func TestParseBranch_NestedLowercase(t *testing.T) {
	b, err := ParseBranch(map[string]any{
		"Cloudy": map[string]any{
			"Rain": "q3",
			"DRY":  map[any]any{"Windy": "end", 1: "q2"},
		},
	})
	require.NoError(t, err)

	cloudy, ok := b.Case("cloudy")
	require.True(t, ok)
	assert.Equal(t, []string{"dry", "rain"}, cloudy.Cases())

	dry, ok := cloudy.Case("dry")
	require.True(t, ok)
	assert.Equal(t, []string{"1", "windy"}, dry.Cases())
}

func TestParseBranch_Collision(t *testing.T) {
	_, err := ParseBranch(map[string]any{"Yes": "q2", "yes": "q3"})
	assert.ErrorIs(t, err, ErrInvalidBranch)
}

func TestBranchTarget_Validate(t *testing.T) {
	b, err := ParseBranch(map[string]any{
		"a": "q1",
		"b": map[string]any{"c": "end", "d": "missing"},
		"z": "also-missing",
	})
	require.NoError(t, err)

	err = b.Validate(knownKeys("q1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreachableBranch)
	// "b" sorts before "z", so the nested leaf is reported first.
	assert.Contains(t, err.Error(), "'missing'")

	assert.NoError(t, Terminal().Validate(knownKeys()))
	assert.NoError(t, BranchTarget{}.Validate(knownKeys()))
}

func TestBranchTarget_MarshalJSON(t *testing.T) {
	b, err := ParseBranch(map[string]any{"Yes": "q2", "No": "end"})
	require.NoError(t, err)

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"yes":"q2","no":"end"}`, string(data))

	data, err = json.Marshal(BranchTarget{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	assert.Equal(t, "{no: end, yes: q2}", b.String())
}

func TestParseBranch_CollidingNonStringKeys(t *testing.T) {
	_, err := ParseBranch(map[any]any{1: "q2", "1": "end"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidBranch)
	assert.Contains(t, err.Error(), "'1'")
}
