// Package reactbits maintains the vendored ReactBits component folder: type-check
// suppression markers, category folders and the imports that point into them.
package reactbits

import "errors"

// Error definitions for reactbits package.
var (
	// Manifest errors.
	ErrFailedToReadManifest  = errors.New("failed to read component manifest")
	ErrFailedToParseManifest = errors.New("failed to parse component manifest")
	ErrEmptyManifest         = errors.New("component manifest lists no components")

	// Directory errors.
	ErrFailedToReadDir = errors.New("failed to read component directory")
)
