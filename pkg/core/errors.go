package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrEmptyQuestionnaire   = errors.New("empty questionnaire")
	ErrMissingField         = errors.New("missing field")
	ErrInvalidKey           = errors.New("invalid question key")
	ErrReservedKey          = errors.New("reserved question key")
	ErrDuplicateKey         = errors.New("duplicate question key")
	ErrUnrecognizedType     = errors.New("unrecognized question type")
	ErrDeprecatedType       = errors.New("deprecated question type")
	ErrInvalidPrompt        = errors.New("invalid question prompt")
	ErrInvalidParameters    = errors.New("invalid question parameters")
	ErrInvalidBranch        = errors.New("invalid branch")
	ErrUnreachableBranch    = errors.New("unreachable branch target")

	ErrInvalidProject  = errors.New("invalid project")
	ErrProjectNotFound = errors.New("project configuration not found")
)

// ConfigError is returned for every construction failure of a question,
// questionnaire or project. Kind is one of the sentinel errors above.
type ConfigError struct {
	Kind error
	Msg  string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

// Unwrap exposes both the specific kind and ErrInvalidConfiguration.
func (e *ConfigError) Unwrap() []error {
	if e.Kind == ErrInvalidConfiguration {
		return []error{e.Kind}
	}
	return []error{e.Kind, ErrInvalidConfiguration}
}

func configErrorf(kind error, format string, args ...any) error {
	return &ConfigError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
