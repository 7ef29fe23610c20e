// Package builder is the Composition Root for the GeoTag-X project builder.
//
// It connects the questionnaire domain (pkg/core) with the filesystem adapter
// (pkg/adapters/fs) using the Hexagonal Architecture pattern.
//
// A GeoTag-X project is a directory holding a project configuration
// (project.json or project.yaml), an optional tutorial and optional custom
// assets. The builder validates the questionnaire inside it, checking each
// question's key, type, prompt and parameters as well as the branching
// control flow between questions, and writes a single bundle per project.
//
// Features:
//
//   - **Strict Validation**: Every invalid configuration is reported with a typed error (see core.ErrInvalidConfiguration).
//   - **Deterministic Control Flow**: Branch targets are resolved after all questions are known, so forward references work.
//   - **Multiple Formats**: JSON and YAML configurations, JSON or YAML bundles.
//   - **Live Reload**: Watch re-validates projects as their files change.
//
// Usage:
//
//	svc, err := builder.New("./projects",
//		builder.WithOutputDir("dist"),
//		builder.WithLogger(logger),
//	)
//
//	reports, err := svc.ValidateAll(ctx)
//	location, err := svc.Build(ctx, "flood")
package builder
