package assets

import (
	"path/filepath"

	"github.com/neon/webtidy/utils"
)

// PlaceholderName is the asset replaced by FallbackPNG when its download fails.
const PlaceholderName = "lanyard.png"

// FallbackPNG is a 1x1 white RGBA PNG.
var FallbackPNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89\x00\x00\x00\x0bIDAT\x08\xd7c\xf8\xff\xff?\x00\x05\xfe\x02\xfe\xdc\xccY\xe7\x00\x00\x00\x00IEND\xaeB`\x82")

// WritePlaceholder writes FallbackPNG as PlaceholderName in targetDir and returns its path.
func WritePlaceholder(fs utils.FileSystem, targetDir string) (string, error) {
	if err := fs.MkdirAll(targetDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(targetDir, PlaceholderName)
	if err := fs.WriteFileAtomic(path, FallbackPNG, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// EnsurePlaceholder writes the placeholder only when no file exists at its path.
func EnsurePlaceholder(fs utils.FileSystem, targetDir string) (path string, written bool, err error) {
	path = filepath.Join(targetDir, PlaceholderName)
	if _, err := fs.Stat(path); err == nil {
		return path, false, nil
	}
	path, err = WritePlaceholder(fs, targetDir)
	return path, err == nil, err
}
