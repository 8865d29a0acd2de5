package code_analyzer

import "errors"

var (
	// ErrCacheDisabled is returned by cache operations when no cache directory was configured.
	ErrCacheDisabled = errors.New("extraction cache is disabled")

	// ErrInvalidEncoding marks a source file that is not valid UTF-8.
	ErrInvalidEncoding = errors.New("file is not valid UTF-8")

	// ErrUnknownExtractor is returned for an extractor name other than "regex" or "ast".
	ErrUnknownExtractor = errors.New("unknown import extractor")
)
