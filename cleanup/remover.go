package cleanup

import (
	"fmt"
	"path/filepath"

	"github.com/neon/webtidy/code_analyzer/models"
	"github.com/neon/webtidy/utils"
	"github.com/pterm/pterm"
)

// DeletionResult is the outcome of Remover.Delete. It is not transactional: files
// deleted before a failure stay deleted.
type DeletionResult struct {
	Deleted     []models.SourceFile
	Failed      []models.FileFailure
	BytesFreed  int64
	RemovedDirs []string
}

// Remover deletes unused files and then prunes directories they leave empty.
type Remover struct {
	fs       utils.FileSystem
	roots    []string
	rootSet  map[string]struct{}
	skipDirs map[string]struct{}
	logger   *pterm.Logger
}

// NewRemover confines all removals to roots. Directories named in skipDirs are never
// descended into while pruning.
func NewRemover(fs utils.FileSystem, roots, skipDirs []string, logger *pterm.Logger) *Remover {
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	skip := make(map[string]struct{}, len(skipDirs))
	for _, dir := range skipDirs {
		skip[dir] = struct{}{}
	}
	rootSet := make(map[string]struct{}, len(roots))
	for _, root := range roots {
		rootSet[filepath.Clean(root)] = struct{}{}
	}
	return &Remover{fs: fs, roots: roots, rootSet: rootSet, skipDirs: skip, logger: logger}
}

// Delete removes every file, collecting per-file failures, then removes empty
// directories below the roots.
func (r *Remover) Delete(files []models.SourceFile) *DeletionResult {
	result := &DeletionResult{}

	for _, file := range files {
		if err := r.deleteFile(file); err != nil {
			r.logger.Warn("failed to delete file", r.logger.Args("path", file.Path, "error", err))
			result.Failed = append(result.Failed, models.FileFailure{Path: file.Path, Err: err})
			continue
		}
		result.Deleted = append(result.Deleted, file)
		result.BytesFreed += file.Size
	}

	result.RemovedDirs = r.RemoveEmptyDirs()
	return result
}

func (r *Remover) deleteFile(file models.SourceFile) error {
	if !r.withinRoots(file.Path) {
		return fmt.Errorf("%w: %s", ErrOutsideScanRoots, file.Path)
	}

	info, err := r.fs.Stat(file.Path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegularFile, file.Path)
	}

	return r.fs.Remove(file.Path)
}

func (r *Remover) withinRoots(path string) bool {
	for _, root := range r.roots {
		if filepath.Clean(root) != filepath.Clean(path) && utils.IsPathWithinBase(root, path) {
			return true
		}
	}
	return false
}

// RemoveEmptyDirs removes, bottom-up, every directory below the roots that is empty or
// only contained directories that were removed. The roots themselves are kept, including a
// root nested inside another one. Missing roots are skipped.
func (r *Remover) RemoveEmptyDirs() []string {
	var removed []string
	for _, root := range r.roots {
		r.pruneDir(root, &removed)
	}
	return removed
}

// pruneDir reports whether dir was removed.
func (r *Remover) pruneDir(dir string, removed *[]string) bool {
	entries, err := r.fs.ReadDir(dir)
	if err != nil {
		return false
	}

	remaining := len(entries)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, skip := r.skipDirs[entry.Name()]; skip {
			continue
		}
		if r.pruneDir(filepath.Join(dir, entry.Name()), removed) {
			remaining--
		}
	}

	if _, isRoot := r.rootSet[filepath.Clean(dir)]; isRoot || remaining > 0 {
		return false
	}

	if err := r.fs.Remove(dir); err != nil {
		r.logger.Debug("failed to remove empty directory", r.logger.Args("dir", dir, "error", err))
		return false
	}
	*removed = append(*removed, dir)
	return true
}
