package core

import "sort"

// QuestionType names the widget a renderer uses for a question.
type QuestionType string

const (
	TypeBinary                QuestionType = "binary"
	TypeDropdownList          QuestionType = "dropdown-list"
	TypeSelect                QuestionType = "select"
	TypeChecklist             QuestionType = "checklist"
	TypeIllustrativeChecklist QuestionType = "illustrative-checklist"
	TypeText                  QuestionType = "text"
	TypeLongText              QuestionType = "longtext"
	TypeNumber                QuestionType = "number"
	TypeDateTime              QuestionType = "datetime"
	TypeDate                  QuestionType = "date"
	TypeURL                   QuestionType = "url"
	TypeGeotagging            QuestionType = "geotagging"
	TypeCustom                QuestionType = "custom"
)

// TypeStatus is the result of classifying a type name.
type TypeStatus int

const (
	TypeUnknown TypeStatus = iota
	TypeSupported
	TypeDeprecated
)

func (s TypeStatus) String() string {
	switch s {
	case TypeSupported:
		return "supported"
	case TypeDeprecated:
		return "deprecated"
	default:
		return "unknown"
	}
}

var supportedTypes = map[QuestionType]struct{}{
	TypeBinary:                {},
	TypeDropdownList:          {},
	TypeSelect:                {},
	TypeChecklist:             {},
	TypeIllustrativeChecklist: {},
	TypeText:                  {},
	TypeLongText:              {},
	TypeNumber:                {},
	TypeDateTime:              {},
	TypeDate:                  {},
	TypeURL:                   {},
	TypeGeotagging:            {},
	TypeCustom:                {},
}

// deprecatedTypes maps retired type names to their replacements.
var deprecatedTypes = map[string]QuestionType{
	"single_choice":               TypeSelect,
	"multiple_choice":             TypeChecklist,
	"illustrated_multiple_choice": TypeIllustrativeChecklist,
	"textinput":                   TypeText,
	"textarea":                    TypeLongText,
}

// Classify reports whether name is a supported, deprecated or unknown type.
// For deprecated names the replacement type is returned as well.
func Classify(name string) (TypeStatus, QuestionType) {
	if _, ok := supportedTypes[QuestionType(name)]; ok {
		return TypeSupported, QuestionType(name)
	}
	if replacement, ok := deprecatedTypes[name]; ok {
		return TypeDeprecated, replacement
	}
	return TypeUnknown, ""
}

// SupportedTypes returns the supported type names in lexicographic order.
func SupportedTypes() []QuestionType {
	out := make([]QuestionType, 0, len(supportedTypes))
	for t := range supportedTypes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DeprecatedTypes returns a copy of the deprecated name -> replacement table.
func DeprecatedTypes() map[string]QuestionType {
	out := make(map[string]QuestionType, len(deprecatedTypes))
	for k, v := range deprecatedTypes {
		out[k] = v
	}
	return out
}

// checkType validates a raw type value and returns it as a QuestionType.
func checkType(raw any) (QuestionType, error) {
	name, ok := raw.(string)
	if !ok {
		return "", configErrorf(ErrUnrecognizedType, "the question type '%v' is not recognized", raw)
	}
	status, replacement := Classify(name)
	switch status {
	case TypeSupported:
		return replacement, nil
	case TypeDeprecated:
		return "", configErrorf(ErrDeprecatedType, "the question type '%s' is deprecated and has been replaced with '%s'", name, replacement)
	default:
		return "", configErrorf(ErrUnrecognizedType, "the question type '%s' is not recognized", name)
	}
}
