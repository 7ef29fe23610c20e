package core

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Questionnaire is an ordered, validated set of questions and their control flow.
// It is built once by NewQuestionnaire and never modified afterwards.
type Questionnaire struct {
	keys        []string
	questions   map[string]*Question
	controlflow map[string]BranchTarget
	types       map[QuestionType]struct{}
}

// NewQuestionnaire builds a questionnaire from records in declared order.
//
// Construction is all-or-nothing: it returns either a fully validated
// questionnaire or the first error encountered. Branch targets are resolved
// only after every question is known, so forward jumps are allowed.
func NewQuestionnaire(records []Record) (*Questionnaire, error) {
	if len(records) == 0 {
		return nil, configErrorf(ErrEmptyQuestionnaire, "a questionnaire requires one or more questions")
	}

	q := &Questionnaire{
		keys:        make([]string, 0, len(records)),
		questions:   make(map[string]*Question, len(records)),
		controlflow: make(map[string]BranchTarget, len(records)),
		types:       make(map[QuestionType]struct{}),
	}

	for i, rec := range records {
		if err := q.add(i+1, rec); err != nil {
			return nil, err
		}
	}

	for _, key := range q.keys {
		if err := q.controlflow[key].Validate(q.isBranchable); err != nil {
			return nil, fmt.Errorf("question '%s': %w", key, err)
		}
	}

	return q, nil
}

func (q *Questionnaire) add(position int, rec Record) error {
	if field, missing := rec.missing(); missing {
		return configErrorf(ErrMissingField, "questionnaire entry #%d is missing the field '%s'", position, field)
	}

	key, _ := trimmed(rec[FieldKey])
	if err := checkKey(key); err != nil {
		return fmt.Errorf("questionnaire entry #%d: %w", position, err)
	}

	if existing, dup := q.questions[key]; dup {
		return configErrorf(ErrDuplicateKey,
			"the key '%s' is used to identify the following questions:\n    - %s\n    - %s\nPlease make sure each question has a unique key.",
			key, existing.Prompt(), strings.TrimSpace(fmt.Sprint(rec[FieldQuestion])))
	}

	question, err := NewQuestion(key, rec)
	if err != nil {
		return err
	}

	branch, err := ParseBranch(rec[FieldBranch])
	if err != nil {
		return fmt.Errorf("question '%s': %w", key, err)
	}

	q.keys = append(q.keys, key)
	q.questions[key] = question
	q.controlflow[key] = branch
	q.types[question.Type()] = struct{}{}
	return nil
}

func (q *Questionnaire) isBranchable(key string) bool {
	if key == TerminalKey {
		return true
	}
	_, ok := q.questions[key]
	return ok
}

// Len returns the number of questions.
func (q *Questionnaire) Len() int {
	if q == nil {
		return 0
	}
	return len(q.keys)
}

// Keys returns the question keys in declared order.
func (q *Questionnaire) Keys() []string {
	out := make([]string, len(q.keys))
	copy(out, q.keys)
	return out
}

// Questions returns the questions in declared order.
func (q *Questionnaire) Questions() []*Question {
	out := make([]*Question, 0, len(q.keys))
	for _, key := range q.keys {
		out = append(out, q.questions[key])
	}
	return out
}

// Question returns the question identified by key.
func (q *Questionnaire) Question(key string) (*Question, bool) {
	question, ok := q.questions[key]
	return question, ok
}

// Branch returns the control-flow entry of key. Unknown keys yield an absent branch.
func (q *Questionnaire) Branch(key string) BranchTarget {
	return q.controlflow[key]
}

// ControlFlow returns a copy of the key -> branch map.
func (q *Questionnaire) ControlFlow() map[string]BranchTarget {
	out := make(map[string]BranchTarget, len(q.controlflow))
	for k, v := range q.controlflow {
		out[k] = v
	}
	return out
}

// QuestionTypes returns the distinct types in use, sorted.
func (q *Questionnaire) QuestionTypes() []QuestionType {
	out := make([]QuestionType, 0, len(q.types))
	for t := range q.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// String lists the questions as "N. prompt (key)", one per line.
func (q *Questionnaire) String() string {
	if q.Len() == 0 {
		return "Empty questionnaire."
	}
	var sb strings.Builder
	for i, key := range q.keys {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d. %s (%s)", i+1, q.questions[key].Prompt(), key)
	}
	return sb.String()
}

type questionnaireJSON struct {
	Questions   []*Question             `json:"questions"`
	ControlFlow map[string]BranchTarget `json:"controlflow"`
	Types       []QuestionType          `json:"questionTypes"`
}

// MarshalJSON emits the ordered question list together with the control flow.
// Absent branches are omitted from the control-flow map.
func (q *Questionnaire) MarshalJSON() ([]byte, error) {
	flow := make(map[string]BranchTarget, len(q.controlflow))
	for k, v := range q.controlflow {
		if v.Kind() != BranchAbsent {
			flow[k] = v
		}
	}
	return json.Marshal(questionnaireJSON{
		Questions:   q.Questions(),
		ControlFlow: flow,
		Types:       q.QuestionTypes(),
	})
}
