package core

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// BranchKind tags the variant held by a BranchTarget.
type BranchKind int

const (
	// BranchAbsent means no explicit branch: continue with the next question in order.
	BranchAbsent BranchKind = iota
	// BranchKey jumps to another question.
	BranchKey
	// BranchTerminal ends the questionnaire.
	BranchTerminal
	// BranchConditional dispatches on the (lower-cased) answer.
	BranchConditional
)

func (k BranchKind) String() string {
	switch k {
	case BranchKey:
		return "key"
	case BranchTerminal:
		return "terminal"
	case BranchConditional:
		return "conditional"
	default:
		return "absent"
	}
}

// BranchTarget is the control-flow entry of a question.
// The zero value is an absent branch.
type BranchTarget struct {
	kind   BranchKind
	target string
	cases  map[string]BranchTarget
	order  []string
}

// KeyTarget returns a jump to key. The reserved key "end" yields a terminal target.
func KeyTarget(key string) BranchTarget {
	if key == TerminalKey {
		return BranchTarget{kind: BranchTerminal, target: TerminalKey}
	}
	return BranchTarget{kind: BranchKey, target: key}
}

// Terminal returns the end-of-questionnaire target.
func Terminal() BranchTarget {
	return KeyTarget(TerminalKey)
}

// Conditional builds a dispatch target. Dispatch keys are lower-cased and must
// stay distinct after lower-casing.
func Conditional(cases map[string]BranchTarget) (BranchTarget, error) {
	b := BranchTarget{
		kind:  BranchConditional,
		cases: make(map[string]BranchTarget, len(cases)),
		order: make([]string, 0, len(cases)),
	}

	for answer, target := range cases {
		norm := strings.ToLower(answer)
		if _, dup := b.cases[norm]; dup {
			return BranchTarget{}, configErrorf(ErrInvalidBranch, "the answer '%s' appears more than once in a conditional branch (answers are case-insensitive)", norm)
		}
		b.cases[norm] = target
		b.order = append(b.order, norm)
	}
	sort.Strings(b.order)
	return b, nil
}

// ParseBranch converts a raw branch value into a BranchTarget. A nil value is
// an absent branch, a string is a jump (or the terminal sentinel) and a map is
// a conditional branch whose values are parsed recursively.
func ParseBranch(raw any) (BranchTarget, error) {
	if raw == nil {
		return BranchTarget{}, nil
	}
	return parseBranch(raw)
}

func parseBranch(raw any) (BranchTarget, error) {
	switch v := raw.(type) {
	case string:
		return KeyTarget(strings.TrimSpace(v)), nil
	case map[string]any:
		return parseCases(v)
	case Record:
		return parseCases(v)
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			answer := fmt.Sprint(k)
			if _, dup := m[answer]; dup {
				return BranchTarget{}, configErrorf(ErrInvalidBranch, "the answer '%s' appears more than once in a conditional branch", answer)
			}
			m[answer] = val
		}
		return parseCases(m)
	default:
		return BranchTarget{}, configErrorf(ErrInvalidBranch, "a branch must be a question key or a map of answers to branches, got %T", raw)
	}
}

func parseCases(raw map[string]any) (BranchTarget, error) {
	cases := make(map[string]BranchTarget, len(raw))
	for answer, value := range raw {
		if value == nil {
			return BranchTarget{}, configErrorf(ErrInvalidBranch, "the answer '%s' has no branch target", answer)
		}
		target, err := parseBranch(value)
		if err != nil {
			return BranchTarget{}, err
		}
		cases[answer] = target
	}
	return Conditional(cases)
}

func (b BranchTarget) Kind() BranchKind { return b.kind }

// Target returns the jump key for BranchKey and BranchTerminal targets.
func (b BranchTarget) Target() string { return b.target }

// Cases returns the dispatch keys of a conditional branch in lexicographic order.
func (b BranchTarget) Cases() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Case looks up the branch taken for answer. Matching is case-insensitive.
func (b BranchTarget) Case(answer string) (BranchTarget, bool) {
	if b.kind != BranchConditional {
		return BranchTarget{}, false
	}
	t, ok := b.cases[strings.ToLower(answer)]
	return t, ok
}

// Validate checks that every leaf resolves to a known key or the terminal sentinel.
// Cases are visited in lexicographic order and the first bad leaf is reported.
func (b BranchTarget) Validate(known func(key string) bool) error {
	switch b.kind {
	case BranchKey:
		if !known(b.target) {
			return configErrorf(ErrUnreachableBranch, "the key '%s' does not correspond to a question", b.target)
		}
	case BranchConditional:
		for _, answer := range b.order {
			if err := b.cases[answer].Validate(known); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b BranchTarget) String() string {
	switch b.kind {
	case BranchKey, BranchTerminal:
		return b.target
	case BranchConditional:
		parts := make([]string, 0, len(b.order))
		for _, answer := range b.order {
			parts = append(parts, answer+": "+b.cases[answer].String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return ""
	}
}

// MarshalJSON emits the authored form: null, a key string or an answer map.
func (b BranchTarget) MarshalJSON() ([]byte, error) {
	switch b.kind {
	case BranchKey, BranchTerminal:
		return json.Marshal(b.target)
	case BranchConditional:
		return json.Marshal(b.cases)
	default:
		return []byte("null"), nil
	}
}
