package reactbits

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/neon/webtidy/code_analyzer/models"
	"github.com/neon/webtidy/utils"
)

// NoCheckMarker disables TypeScript checking for the file it heads.
const NoCheckMarker = "// @ts-nocheck"

// NoCheckResult lists the files that received the marker.
type NoCheckResult struct {
	Updated []string
	Failed  []models.FileFailure
}

// AddNoCheck prepends the marker to every .tsx file directly inside dir that is not
// excluded by base name and does not already start with it. Running it twice changes
// nothing the second time. With dryRun the files are listed but not written.
func AddNoCheck(fs utils.FileSystem, dir string, exclude []string, dryRun bool) (*NoCheckResult, error) {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFailedToReadDir, dir, err)
	}

	excluded := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		excluded[name] = struct{}{}
	}

	result := &NoCheckResult{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".tsx") {
			continue
		}
		if _, skip := excluded[name]; skip {
			continue
		}

		path := filepath.Join(dir, name)
		content, err := fs.ReadFile(path)
		if err != nil {
			result.Failed = append(result.Failed, models.FileFailure{Path: path, Err: err})
			continue
		}
		if strings.HasPrefix(string(content), NoCheckMarker) {
			continue
		}

		if !dryRun {
			updated := append([]byte(NoCheckMarker+"\n"), content...)
			if err := fs.WriteFileAtomic(path, updated, 0644); err != nil {
				result.Failed = append(result.Failed, models.FileFailure{Path: path, Err: err})
				continue
			}
		}
		result.Updated = append(result.Updated, path)
	}

	return result, nil
}
