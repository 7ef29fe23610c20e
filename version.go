package builder

import _ "embed"

// Version is the release of the builder, read from the VERSION file.
//
//go:embed VERSION
var Version string
