package code_analyzer

import (
	"path/filepath"
	"strings"

	"github.com/neon/webtidy/code_analyzer/models"
)

// UsageClassifier decides whether a collected file is used.
type UsageClassifier struct {
	entryPoints       map[string]struct{}
	protectedPatterns []string
}

// NewUsageClassifier creates a classifier for the given entry point names and protected
// path substrings.
func NewUsageClassifier(entryPoints, protectedPatterns []string) *UsageClassifier {
	return &UsageClassifier{
		entryPoints:       toSet(entryPoints),
		protectedPatterns: protectedPatterns,
	}
}

// Classify returns why the file is used, or models.UsageNone. Protected patterns are
// plain substring matches against the project-relative path, so "ui/tabs" also covers
// "ui/tabsfoo.tsx".
func (c *UsageClassifier) Classify(file models.SourceFile, resolved map[string]struct{}) models.Usage {
	if _, ok := c.entryPoints[filepath.Base(file.Path)]; ok {
		return models.UsageEntryPoint
	}
	if c.IsProtected(file.RelativePath) {
		return models.UsageProtected
	}
	if _, ok := resolved[file.Path]; ok {
		return models.UsageImported
	}
	return models.UsageNone
}

// IsProtected reports whether the relative path contains any protected substring.
func (c *UsageClassifier) IsProtected(relativePath string) bool {
	for _, pattern := range c.protectedPatterns {
		if pattern != "" && strings.Contains(relativePath, pattern) {
			return true
		}
	}
	return false
}

// ClassifyAll splits files into their usage reasons and the unused list, keeping input order.
func (c *UsageClassifier) ClassifyAll(files []models.SourceFile, resolved map[string]struct{}) (map[string]models.Usage, []models.SourceFile) {
	reasons := make(map[string]models.Usage, len(files))
	var unused []models.SourceFile
	for _, file := range files {
		usage := c.Classify(file, resolved)
		reasons[file.Path] = usage
		if usage == models.UsageNone {
			unused = append(unused, file)
		}
	}
	return reasons, unused
}
