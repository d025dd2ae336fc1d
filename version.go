package contour

import _ "embed"

// Version is the release of the contour module, read from the VERSION file.
//
//go:embed VERSION
var Version string
