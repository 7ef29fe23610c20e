// Package core holds the questionnaire domain of the GeoTag-X builder.
//
// It turns raw question records into validated Question and Questionnaire
// values, checks that every conditional branch resolves to a known question
// or to the terminal sentinel "end", and aggregates them into a Project.
// The package performs no I/O; configuration files are read by adapters that
// implement ProjectSource.
package core
