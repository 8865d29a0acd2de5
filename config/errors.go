package config

import "errors"

// Error definitions for config package.
var (
	ErrFailedToReadConfig   = errors.New("failed to read configuration file")
	ErrFailedToDecodeConfig = errors.New("failed to decode configuration")
	ErrInvalidConfig        = errors.New("invalid configuration")
)
