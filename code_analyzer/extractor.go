package code_analyzer

import (
	"regexp"
	"sort"
	"strings"
)

const (
	ExtractorRegex = "regex"
	ExtractorAST   = "ast"
)

// ImportExtractor pulls literal module specifiers out of one file's source.
type ImportExtractor interface {
	Name() string
	Extract(filePath string, source []byte) ([]string, error)
}

// Textual import shapes. Matching does not understand comments, strings or computed paths.
var importPatterns = []*regexp.Regexp{
	// import x from "mod", import { a, b } from "mod", import type T from "mod"
	regexp.MustCompile(`import\s+.*?\s+from\s+["']([^"']+)["']`),
	// import "mod"
	regexp.MustCompile(`import\s+["']([^"']+)["']`),
	// require("mod")
	regexp.MustCompile(`require\s*\(\s*["']([^"']+)["']\s*\)`),
	// dynamic(() => import("mod"))
	regexp.MustCompile(`dynamic\s*\(\s*\(\s*\)\s*=>\s*import\s*\(\s*["']([^"']+)["']\s*\)`),
}

// importLinePattern finds the lines worth showing when a file is inspected.
var importLinePattern = regexp.MustCompile(`^\s*(import\b|export\b.*\bfrom\b)|\brequire\s*\(|\bimport\s*\(`)

type regexExtractor struct{}

// NewRegexExtractor returns the default textual extractor.
func NewRegexExtractor() ImportExtractor {
	return regexExtractor{}
}

func (regexExtractor) Name() string {
	return ExtractorRegex
}

func (regexExtractor) Extract(_ string, source []byte) ([]string, error) {
	return ExtractImports(string(source)), nil
}

// ExtractImports returns the distinct specifiers matched by the import patterns, sorted.
func ExtractImports(content string) []string {
	found := make(map[string]struct{})
	for _, pattern := range importPatterns {
		for _, match := range pattern.FindAllStringSubmatch(content, -1) {
			found[match[1]] = struct{}{}
		}
	}
	return sortedKeys(found)
}

// ImportLines returns the source lines that look like import statements or calls.
func ImportLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if importLinePattern.MatchString(line) {
			lines = append(lines, strings.TrimRight(line, "\r"))
		}
	}
	return lines
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
