package code_analyzer

import (
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const probeCacheSize = 4096

// PathResolver maps an import specifier to a file on disk.
type PathResolver struct {
	projectRoot string
	aliasPrefix string
	suffixes    []string
	probes      *lru.Cache[string, bool]
}

// NewPathResolver builds the probe suffix list from the extensions: exact match first,
// then each extension, then "/index" plus each extension.
func NewPathResolver(projectRoot, aliasPrefix string, extensions []string) *PathResolver {
	suffixes := make([]string, 0, 1+2*len(extensions))
	suffixes = append(suffixes, "")
	suffixes = append(suffixes, extensions...)
	for _, ext := range extensions {
		suffixes = append(suffixes, "/index"+ext)
	}

	probes, _ := lru.New[string, bool](probeCacheSize)

	return &PathResolver{
		projectRoot: projectRoot,
		aliasPrefix: aliasPrefix,
		suffixes:    suffixes,
		probes:      probes,
	}
}

// IsExternal reports whether the specifier names a package rather than a project file.
func (r *PathResolver) IsExternal(specifier string) bool {
	return !r.isAliased(specifier) && !isRelative(specifier)
}

// Resolve returns the first existing regular file the specifier denotes from importer.
// The boolean is false when nothing matches or the specifier is external.
func (r *PathResolver) Resolve(specifier, importer string) (string, bool) {
	base := r.basePath(specifier, filepath.Dir(importer))
	if base == "" {
		return "", false
	}

	for _, suffix := range r.suffixes {
		candidate := base + filepath.FromSlash(suffix)
		if r.isRegularFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func (r *PathResolver) basePath(specifier, importerDir string) string {
	switch {
	case r.isAliased(specifier):
		return filepath.Join(r.projectRoot, filepath.FromSlash(strings.TrimPrefix(specifier, r.aliasPrefix)))
	case isRelative(specifier):
		return filepath.Join(importerDir, filepath.FromSlash(specifier))
	default:
		return ""
	}
}

func (r *PathResolver) isAliased(specifier string) bool {
	return r.aliasPrefix != "" && strings.HasPrefix(specifier, r.aliasPrefix)
}

func isRelative(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

// Reset forgets every cached stat result so the next scan sees the current tree.
func (r *PathResolver) Reset() {
	r.probes.Purge()
}

func (r *PathResolver) isRegularFile(path string) bool {
	if known, ok := r.probes.Get(path); ok {
		return known
	}
	info, err := os.Stat(path)
	regular := err == nil && info.Mode().IsRegular()
	r.probes.Add(path, regular)
	return regular
}
