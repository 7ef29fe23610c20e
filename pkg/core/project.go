package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Project configuration field names.
const (
	FieldName          = "name"
	FieldSlug          = "short_name"
	FieldDescription   = "description"
	FieldWhy           = "why"
	FieldQuestionnaire = "questionnaire"
	FieldTutorial      = "tutorial"
)

var projectFields = []string{FieldName, FieldSlug, FieldDescription, FieldWhy, FieldQuestionnaire}

// RawProject is the unvalidated material a ProjectSource hands to the core.
type RawProject struct {
	Dir        string
	Config     Record
	Tutorial   Record // nil when the project has no tutorial
	Script     string // already minified, empty when absent
	Stylesheet string // already minified, empty when absent
}

// Project is a validated GeoTag-X project.
type Project struct {
	Dir           string
	Name          string
	Slug          string
	Description   string
	Why           string
	Questionnaire *Questionnaire
	Tutorial      *Questionnaire
	Script        string
	Stylesheet    string
}

// NewProject validates raw and builds a Project. Every failure wraps ErrInvalidProject.
func NewProject(raw RawProject) (*Project, error) {
	p, err := newProject(raw)
	if err != nil {
		if raw.Dir != "" {
			return nil, fmt.Errorf("%w '%s': %w", ErrInvalidProject, raw.Dir, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidProject, err)
	}
	return p, nil
}

func newProject(raw RawProject) (*Project, error) {
	if raw.Config == nil {
		return nil, configErrorf(ErrInvalidConfiguration, "the project configuration is empty")
	}
	for _, field := range projectFields {
		if _, ok := raw.Config[field]; !ok {
			return nil, configErrorf(ErrMissingField, "the project configuration is missing the field '%s'", field)
		}
	}

	p := &Project{
		Dir:        raw.Dir,
		Script:     raw.Script,
		Stylesheet: raw.Stylesheet,
	}

	for _, f := range []struct {
		field string
		dst   *string
	}{
		{FieldName, &p.Name},
		{FieldSlug, &p.Slug},
		{FieldDescription, &p.Description},
		{FieldWhy, &p.Why},
	} {
		s, ok := trimmed(raw.Config[f.field])
		if !ok || s == "" {
			return nil, configErrorf(ErrInvalidConfiguration, "the project field '%s' must be a non-empty string", f.field)
		}
		*f.dst = s
	}

	if !isSlug(p.Slug) {
		return nil, configErrorf(ErrInvalidConfiguration, "the short name '%s' can not be used as a bundle file name", p.Slug)
	}

	records, err := ParseRecords(raw.Config[FieldQuestionnaire])
	if err != nil {
		return nil, err
	}
	if p.Questionnaire, err = NewQuestionnaire(records); err != nil {
		return nil, err
	}

	if raw.Tutorial != nil {
		if p.Tutorial, err = newTutorial(raw.Tutorial); err != nil {
			return nil, fmt.Errorf("tutorial: %w", err)
		}
	}

	return p, nil
}

// isSlug accepts any short name that names a single file: no path
// separators and not a dot directory.
func isSlug(s string) bool {
	return s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

func newTutorial(cfg Record) (*Questionnaire, error) {
	value, ok := cfg[FieldTutorial]
	if !ok {
		return nil, configErrorf(ErrMissingField, "the tutorial configuration is missing the field '%s'", FieldTutorial)
	}
	records, err := ParseRecords(value)
	if err != nil {
		return nil, err
	}
	return NewQuestionnaire(records)
}

// HasTutorial reports whether the project ships a non-empty tutorial.
func (p *Project) HasTutorial() bool {
	return p.Tutorial.Len() > 0
}

func (p *Project) String() string {
	hasTutorial := "No"
	if p.HasTutorial() {
		hasTutorial = "Yes"
	}
	return fmt.Sprintf(
		"%s\n%s\nShort name: %s\nDescription: %s\nWhy: %s\nTutorial included: %s\nQuestionnaire:\n%s",
		p.Name,
		strings.Repeat("-", len(p.Name)),
		p.Slug,
		p.Description,
		p.Why,
		hasTutorial,
		p.Questionnaire,
	)
}

type projectJSON struct {
	Name          string         `json:"name"`
	Slug          string         `json:"short_name"`
	Description   string         `json:"description"`
	Why           string         `json:"why"`
	Questionnaire *Questionnaire `json:"questionnaire"`
	Tutorial      *Questionnaire `json:"tutorial,omitempty"`
	Script        string         `json:"script,omitempty"`
	Stylesheet    string         `json:"stylesheet,omitempty"`
}

// MarshalJSON emits the bundle consumed by the template renderer.
func (p *Project) MarshalJSON() ([]byte, error) {
	return json.Marshal(projectJSON{
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Why:           p.Why,
		Questionnaire: p.Questionnaire,
		Tutorial:      p.Tutorial,
		Script:        p.Script,
		Stylesheet:    p.Stylesheet,
	})
}
