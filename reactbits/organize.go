package reactbits

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/neon/webtidy/code_analyzer/models"
	"github.com/neon/webtidy/utils"
)

// companionExtensions are moved alongside a component's .tsx file when present.
var companionExtensions = []string{".css"}

// Move records one file moved into a category folder.
type Move struct {
	From     string
	To       string
	Category string
}

// OrganizeResult summarizes an Organize run. Components counts moved .tsx files only.
type OrganizeResult struct {
	Moves      []Move
	Components int
	Failed     []models.FileFailure
}

// Organize creates one folder per manifest category under dir and moves each listed
// component's .tsx file and companion stylesheet into it. Missing files are skipped.
func Organize(fsys utils.FileSystem, dir string, manifest *Manifest) (*OrganizeResult, error) {
	result := &OrganizeResult{}

	for _, category := range manifest.Categories() {
		destination := filepath.Join(dir, category)
		if err := fsys.MkdirAll(destination, 0755); err != nil {
			return result, err
		}

		for _, component := range manifest.Components[category] {
			moved, err := moveIfExists(fsys, filepath.Join(dir, component+".tsx"), filepath.Join(destination, component+".tsx"))
			if err != nil {
				result.Failed = append(result.Failed, models.FileFailure{Path: filepath.Join(dir, component+".tsx"), Err: err})
				continue
			}
			if moved {
				result.Components++
				result.Moves = append(result.Moves, Move{From: filepath.Join(dir, component+".tsx"), To: filepath.Join(destination, component+".tsx"), Category: category})
			}

			for _, ext := range companionExtensions {
				from := filepath.Join(dir, component+ext)
				to := filepath.Join(destination, component+ext)
				moved, err := moveIfExists(fsys, from, to)
				if err != nil {
					result.Failed = append(result.Failed, models.FileFailure{Path: from, Err: err})
					continue
				}
				if moved {
					result.Moves = append(result.Moves, Move{From: from, To: to, Category: category})
				}
			}
		}
	}

	return result, nil
}

func moveIfExists(fsys utils.FileSystem, from, to string) (bool, error) {
	info, err := fsys.Stat(from)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !info.Mode().IsRegular() {
		return false, nil
	}
	if err := fsys.Rename(from, to); err != nil {
		return false, err
	}
	return true, nil
}
