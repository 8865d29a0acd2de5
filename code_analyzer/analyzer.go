package code_analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/neon/webtidy/code_analyzer/contracts"
	"github.com/neon/webtidy/code_analyzer/models"
	"github.com/neon/webtidy/utils"
	"github.com/pterm/pterm"
)

// CodeAnalyzer runs the unused-file pipeline: collect, extract, resolve, classify.
type CodeAnalyzer struct {
	Options      models.ScanOptions
	extractor    ImportExtractor
	resolver     *PathResolver
	classifier   *UsageClassifier
	cacheManager *CacheManager
	logger       *pterm.Logger
}

var _ contracts.ICodeAnalyzer = (*CodeAnalyzer)(nil)

// NewCodeAnalyzerParams configures NewCodeAnalyzer. An empty CacheDir disables the
// extraction cache.
type NewCodeAnalyzerParams struct {
	Options  models.ScanOptions
	CacheDir string
	Logger   *pterm.Logger
}

// NewCodeAnalyzer initializes a new CodeAnalyzer.
func NewCodeAnalyzer(params NewCodeAnalyzerParams) (*CodeAnalyzer, error) {
	logger := params.Logger
	if logger == nil {
		logger = utils.DiscardLogger()
	}

	options := params.Options
	root, err := filepath.Abs(options.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root %s: %w", options.ProjectRoot, err)
	}
	options.ProjectRoot = root

	var extractor ImportExtractor
	switch options.Extractor {
	case "", ExtractorRegex:
		extractor = NewRegexExtractor()
	case ExtractorAST:
		extractor = NewTreeSitterExtractor(logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExtractor, options.Extractor)
	}

	var cacheManager *CacheManager
	if params.CacheDir != "" {
		cacheManager, err = NewCacheManager(params.CacheDir)
		if err != nil {
			// Fallback to no caching if cache initialization fails
			logger.Warn("failed to initialize extraction cache", logger.Args("dir", params.CacheDir, "error", err))
			cacheManager = nil
		}
	}

	return &CodeAnalyzer{
		Options:      options,
		extractor:    extractor,
		resolver:     NewPathResolver(options.ProjectRoot, options.AliasPrefix, options.Extensions),
		classifier:   NewUsageClassifier(options.EntryPoints, options.ProtectedPatterns),
		cacheManager: cacheManager,
		logger:       logger,
	}, nil
}

// FindUnusedFiles scans the configured source dirs and classifies every source file.
// Files that cannot be read are logged, recorded in ReadFailures and contribute no imports.
func (analyzer *CodeAnalyzer) FindUnusedFiles(ctx context.Context) (*models.ScanResult, error) {
	analyzer.resolver.Reset()

	ignorePatterns, err := utils.GetIgnorePatterns(analyzer.Options.ProjectRoot)
	if err != nil {
		return nil, err
	}

	files, err := CollectSourceFiles(
		analyzer.Options.ProjectRoot,
		analyzer.Options.SourceDirs,
		analyzer.Options.Extensions,
		analyzer.Options.SkipDirs,
		ignorePatterns,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to collect source files: %w", err)
	}

	analyzer.logger.Debug("collected source files", analyzer.logger.Args("count", len(files), "root", analyzer.Options.ProjectRoot))

	result := &models.ScanResult{
		Files:           files,
		ResolvedTargets: make(map[string]struct{}),
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		specifiers, err := analyzer.extractFile(file.Path)
		if err != nil {
			analyzer.logger.Warn("error reading file", analyzer.logger.Args("path", file.Path, "error", err))
			result.ReadFailures = append(result.ReadFailures, models.FileFailure{Path: file.Path, Err: err})
			continue
		}

		for _, specifier := range specifiers {
			if target, ok := analyzer.resolver.Resolve(specifier, file.Path); ok {
				result.ResolvedTargets[target] = struct{}{}
			}
		}
	}

	result.Reasons, result.Unused = analyzer.classifier.ClassifyAll(files, result.ResolvedTargets)

	return result, nil
}

// InspectFile extracts and resolves the imports of a single file.
func (analyzer *CodeAnalyzer) InspectFile(path string) (*models.FileInspection, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	content, info, err := readSource(absPath)
	if err != nil {
		return nil, err
	}

	specifiers, err := analyzer.extractor.Extract(absPath, content)
	if err != nil {
		return nil, err
	}

	inspection := &models.FileInspection{
		File: models.SourceFile{
			Path:         absPath,
			RelativePath: relativeSlashPath(analyzer.Options.ProjectRoot, absPath),
			Extension:    filepath.Ext(absPath),
			Size:         info.Size(),
		},
		ImportLines: ImportLines(string(content)),
	}

	for _, specifier := range specifiers {
		resolution := models.Resolution{
			Specifier: specifier,
			External:  analyzer.resolver.IsExternal(specifier),
		}
		if target, ok := analyzer.resolver.Resolve(specifier, absPath); ok {
			resolution.Target = target
		}
		inspection.Resolutions = append(inspection.Resolutions, resolution)
	}

	return inspection, nil
}

// extractFile returns a file's specifiers, from the cache when its size and mtime are unchanged.
func (analyzer *CodeAnalyzer) extractFile(path string) ([]string, error) {
	if analyzer.cacheManager != nil {
		if info, err := os.Stat(path); err == nil {
			if cached, found := analyzer.cacheManager.GetImportsCache(path, analyzer.extractor.Name(), info); found {
				return cached, nil
			}
		}
	}

	content, info, err := readSource(path)
	if err != nil {
		return nil, err
	}

	specifiers, err := analyzer.extractor.Extract(path, content)
	if err != nil {
		return nil, err
	}

	if analyzer.cacheManager != nil {
		if err := analyzer.cacheManager.SetImportsCache(path, analyzer.extractor.Name(), info, specifiers); err != nil {
			analyzer.logger.Debug("failed to cache imports", analyzer.logger.Args("path", path, "error", err))
		}
	}

	return specifiers, nil
}

func readSource(path string) ([]byte, os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	if !utf8.Valid(content) {
		return nil, nil, ErrInvalidEncoding
	}
	return content, info, nil
}

// GetCacheStats returns extraction cache statistics.
func (analyzer *CodeAnalyzer) GetCacheStats() (*models.CacheEntryStats, error) {
	if analyzer.cacheManager == nil {
		return nil, ErrCacheDisabled
	}
	return analyzer.cacheManager.GetCacheStats()
}

// ClearCache removes every extraction cache entry.
func (analyzer *CodeAnalyzer) ClearCache() error {
	if analyzer.cacheManager == nil {
		return ErrCacheDisabled
	}
	return analyzer.cacheManager.ClearCache()
}
