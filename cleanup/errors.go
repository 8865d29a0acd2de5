// Package cleanup reports unused source files and removes them.
package cleanup

import "errors"

// Error definitions for cleanup package.
var (
	// Deletion errors.
	ErrOutsideScanRoots = errors.New("file is outside the scan roots")
	ErrNotRegularFile   = errors.New("not a regular file")
)
