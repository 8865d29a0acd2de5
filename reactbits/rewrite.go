package reactbits

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/neon/webtidy/code_analyzer/models"
	"github.com/neon/webtidy/utils"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// FileRewrite is one file whose imports changed.
type FileRewrite struct {
	Path         string
	RelativePath string
	Patch        string
}

// RewriteResult summarizes an ImportRewriter run.
type RewriteResult struct {
	Rewritten []FileRewrite
	Failed    []models.FileFailure
}

// ImportRewriter points flat component imports at their category folders, turning
// `from "@/components/reactbits/Aurora"` into `from "@/components/reactbits/Backgrounds/Aurora"`.
type ImportRewriter struct {
	fs           utils.FileSystem
	projectRoot  string
	componentDir string
	skipDirs     map[string]struct{}
	prefix       string
	index        map[string]string
	pattern      *regexp.Regexp
}

// NewImportRewriter scans projectRoot for .tsx files outside componentDir and the
// skip dirs. componentDir is the component folder relative to the project root and
// aliasPrefix is the import alias for the root, e.g. "@/".
func NewImportRewriter(fs utils.FileSystem, projectRoot, componentDir, aliasPrefix string, skipDirs []string, manifest *Manifest) *ImportRewriter {
	componentDir = strings.Trim(filepath.ToSlash(componentDir), "/")
	prefix := aliasPrefix + componentDir + "/"

	skip := make(map[string]struct{}, len(skipDirs))
	for _, dir := range skipDirs {
		skip[dir] = struct{}{}
	}

	return &ImportRewriter{
		fs:           fs,
		projectRoot:  projectRoot,
		componentDir: filepath.Join(projectRoot, filepath.FromSlash(componentDir)),
		skipDirs:     skip,
		prefix:       prefix,
		index:        manifest.CategoryIndex(),
		pattern:      regexp.MustCompile(`from ["']` + regexp.QuoteMeta(prefix) + `(\w+)["']`),
	}
}

// RewriteContent returns content with every known flat component import rewritten.
// Unknown names and already categorized imports are left alone.
func (rw *ImportRewriter) RewriteContent(content string) string {
	return rw.pattern.ReplaceAllStringFunc(content, func(match string) string {
		name := rw.pattern.FindStringSubmatch(match)[1]
		category, ok := rw.index[name]
		if !ok {
			return match
		}
		return fmt.Sprintf(`from "%s%s/%s"`, rw.prefix, category, name)
	})
}

// Run rewrites every affected file atomically. With dryRun nothing is written and each
// FileRewrite carries a line patch instead.
func (rw *ImportRewriter) Run(dryRun bool) (*RewriteResult, error) {
	files, err := rw.collect(rw.projectRoot, nil)
	if err != nil {
		return nil, err
	}

	result := &RewriteResult{}
	for _, path := range files {
		content, err := rw.fs.ReadFile(path)
		if err != nil {
			result.Failed = append(result.Failed, models.FileFailure{Path: path, Err: err})
			continue
		}

		original := string(content)
		updated := rw.RewriteContent(original)
		if updated == original {
			continue
		}

		rewrite := FileRewrite{Path: path, RelativePath: relativeSlashPath(rw.projectRoot, path)}
		if dryRun {
			rewrite.Patch = LinePatch(original, updated)
		} else if err := rw.fs.WriteFileAtomic(path, []byte(updated), 0644); err != nil {
			result.Failed = append(result.Failed, models.FileFailure{Path: path, Err: err})
			continue
		}
		result.Rewritten = append(result.Rewritten, rewrite)
	}

	return result, nil
}

func (rw *ImportRewriter) collect(dir string, files []string) ([]string, error) {
	entries, err := rw.fs.ReadDir(dir)
	if err != nil {
		if dir == rw.projectRoot {
			return nil, fmt.Errorf("%w: %s: %w", ErrFailedToReadDir, dir, err)
		}
		return files, nil
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if _, skip := rw.skipDirs[entry.Name()]; skip || path == rw.componentDir {
				continue
			}
			files, err = rw.collect(path, files)
			if err != nil {
				return nil, err
			}
			continue
		}
		if strings.HasSuffix(entry.Name(), ".tsx") {
			files = append(files, path)
		}
	}
	return files, nil
}

// LinePatch renders the changed lines between two texts, "-" for removed and "+" for
// added lines.
func LinePatch(from, to string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var patch strings.Builder
	for _, diff := range diffs {
		var marker string
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			marker = "-"
		case diffmatchpatch.DiffInsert:
			marker = "+"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(diff.Text, "\n") {
			if line == "" {
				continue
			}
			patch.WriteString(marker + strings.TrimSuffix(line, "\n") + "\n")
		}
	}
	return patch.String()
}

func relativeSlashPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
