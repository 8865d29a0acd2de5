package models

import "time"

// SourceFile is a file discovered by the collector. Content is never retained.
type SourceFile struct {
	Path         string // absolute, cleaned
	RelativePath string // relative to the project root, forward slashes
	Extension    string
	Size         int64
}

// ScanOptions holds everything the analyzer needs for one run.
type ScanOptions struct {
	ProjectRoot       string
	SourceDirs        []string
	Extensions        []string
	SkipDirs          []string
	EntryPoints       []string
	ProtectedPatterns []string
	AliasPrefix       string
	Extractor         string
}

// Usage is the reason a file was classified as used, or UsageNone.
type Usage int

const (
	UsageNone Usage = iota
	UsageEntryPoint
	UsageProtected
	UsageImported
)

func (u Usage) String() string {
	switch u {
	case UsageEntryPoint:
		return "entry point"
	case UsageProtected:
		return "protected"
	case UsageImported:
		return "imported"
	default:
		return "unused"
	}
}

// ScanResult is the outcome of a full unused-file scan.
type ScanResult struct {
	Files           []SourceFile
	Unused          []SourceFile
	ResolvedTargets map[string]struct{}
	Reasons         map[string]Usage
	ReadFailures    []FileFailure
}

// FileFailure pairs a path with the error that stopped its processing.
type FileFailure struct {
	Path string
	Err  error
}

// Resolution describes how one specifier of an inspected file resolved.
type Resolution struct {
	Specifier string
	Target    string // empty when unresolved
	External  bool
}

// FileInspection is the per-file view printed by the inspect command.
type FileInspection struct {
	File        SourceFile
	Resolutions []Resolution
	ImportLines []string
}

// CacheEntryStats summarizes the on-disk extraction cache.
type CacheEntryStats struct {
	Dir        string
	Files      int
	TotalBytes int64
	HitRate    float64
	Oldest     time.Time
	Newest     time.Time
}
