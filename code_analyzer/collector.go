package code_analyzer

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/neon/webtidy/code_analyzer/models"
	"github.com/neon/webtidy/utils"
)

// CollectSourceFiles walks each source dir below projectRoot and returns every file with an
// allowed extension. Directories named in skipDirs are pruned wherever they appear, roots
// that do not exist are skipped, and a directory reached from two overlapping roots is only
// walked once. The result is sorted by path.
func CollectSourceFiles(projectRoot string, sourceDirs, extensions, skipDirs, ignorePatterns []string) ([]models.SourceFile, error) {
	allowed := toSet(extensions)
	skipped := toSet(skipDirs)
	visited := make(map[string]struct{})

	var files []models.SourceFile

	for _, sourceDir := range sourceDirs {
		root := sourceDir
		if !filepath.IsAbs(root) {
			root = filepath.Join(projectRoot, sourceDir)
		}
		root = filepath.Clean(root)

		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}

		// A root that is itself a symlink is walked through its target, while reported
		// paths stay under the configured root.
		walkRoot := root
		if resolved, err := filepath.EvalSymlinks(root); err == nil {
			walkRoot = resolved
		}

		err = filepath.WalkDir(walkRoot, func(realPath string, d fs.DirEntry, err error) error {
			path := underRoot(root, walkRoot, realPath)
			if err != nil {
				// Unreadable entries are left out rather than failing the whole walk
				if d != nil && d.IsDir() && path != root {
					return filepath.SkipDir
				}
				return nil
			}

			relativePath := relativeSlashPath(projectRoot, path)

			if d.IsDir() {
				if path != root {
					if _, skip := skipped[d.Name()]; skip {
						return filepath.SkipDir
					}
					if utils.IsIgnored(relativePath, ignorePatterns) {
						return filepath.SkipDir
					}
				}
				if _, seen := visited[realPath]; seen {
					return filepath.SkipDir
				}
				visited[realPath] = struct{}{}
				return nil
			}

			if !d.Type().IsRegular() {
				return nil
			}

			ext := filepath.Ext(d.Name())
			if _, ok := allowed[ext]; !ok {
				return nil
			}
			if utils.IsIgnored(relativePath, ignorePatterns) {
				return nil
			}

			fileInfo, err := d.Info()
			if err != nil {
				return nil
			}

			files = append(files, models.SourceFile{
				Path:         path,
				RelativePath: relativePath,
				Extension:    ext,
				Size:         fileInfo.Size(),
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}

// underRoot maps a path found while walking walkRoot back below root.
func underRoot(root, walkRoot, path string) string {
	if root == walkRoot {
		return path
	}
	rel, err := filepath.Rel(walkRoot, path)
	if err != nil {
		return path
	}
	return filepath.Join(root, rel)
}

// relativeSlashPath renders path relative to root with forward slashes. Paths outside
// root are returned as-is.
func relativeSlashPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
