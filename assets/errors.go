// Package assets downloads binary assets used by vendored components and checks
// that what arrived is the file type it claims to be.
package assets

import "errors"

// Error definitions for assets package.
var (
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
	ErrInvalidMagic     = errors.New("invalid magic bytes")
	ErrEmptyURL         = errors.New("asset URL is empty")
)
