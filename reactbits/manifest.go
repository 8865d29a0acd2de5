package reactbits

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/neon/webtidy/utils"
	"gopkg.in/yaml.v3"
)

// Manifest maps category folder names to the components they hold.
type Manifest struct {
	Components map[string][]string `yaml:"components" json:"components"`
}

// LoadManifest reads a JSON or YAML manifest.
func LoadManifest(fs utils.FileSystem, path string) (*Manifest, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFailedToReadManifest, path, err)
	}
	return ParseManifest(data)
}

// ParseManifest decodes manifest bytes. Most JSON is valid YAML; JSON indented with
// tabs is not, so it gets a second attempt with encoding/json.
func ParseManifest(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		manifest = Manifest{}
		if jsonErr := json.Unmarshal(data, &manifest); jsonErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedToParseManifest, err)
		}
	}
	if len(manifest.Components) == 0 {
		return nil, ErrEmptyManifest
	}
	return &manifest, nil
}

// Categories returns the category names in sorted order.
func (m *Manifest) Categories() []string {
	categories := make([]string, 0, len(m.Components))
	for category := range m.Components {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// CategoryIndex maps each component name to its category. A component listed under
// several categories goes to the first one in sorted order.
func (m *Manifest) CategoryIndex() map[string]string {
	index := make(map[string]string)
	for _, category := range m.Categories() {
		for _, component := range m.Components[category] {
			if _, taken := index[component]; !taken {
				index[component] = category
			}
		}
	}
	return index
}

// ManifestPath resolves the manifest location relative to the component dir unless
// it is absolute.
func ManifestPath(dir, manifest string) string {
	if filepath.IsAbs(manifest) {
		return manifest
	}
	return filepath.Join(dir, manifest)
}
