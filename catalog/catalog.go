// Package catalog holds the known model-name vocabulary used to extract a
// car model from free-text listing titles. Matching is strictly
// dictionary-based: a title that contains no known model yields no model.
package catalog

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed known_models.yaml
var knownModelsYAML []byte

// Catalog maps a lower-cased brand to its known model names.
type Catalog struct {
	models map[string][]string
}

// Load parses the embedded vocabulary. Candidates for each brand are kept
// sorted longest-first so that "Countryman Cooper S" wins over "Cooper".
func Load() (*Catalog, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(knownModelsYAML, &raw); err != nil {
		return nil, fmt.Errorf("catalog: parse known models: %w", err)
	}

	models := make(map[string][]string, len(raw))
	for brand, names := range raw {
		sorted := make([]string, len(names))
		copy(sorted, names)
		sort.Slice(sorted, func(i, j int) bool {
			return len(sorted[i]) > len(sorted[j])
		})
		models[strings.ToLower(brand)] = sorted
	}

	return &Catalog{models: models}, nil
}

// Brands returns the brands the vocabulary knows about.
func (c *Catalog) Brands() []string {
	brands := make([]string, 0, len(c.models))
	for b := range c.models {
		brands = append(brands, b)
	}
	sort.Strings(brands)
	return brands
}

// Known reports whether the brand has any vocabulary entries.
func (c *Catalog) Known(brand string) bool {
	_, ok := c.models[strings.ToLower(brand)]
	return ok
}

// MatchModel returns the longest known model name for the brand found in the
// title on a word boundary, or "" when nothing matches. Text after a '|'
// separator is ignored, matching how listing titles pad trim levels.
func (c *Catalog) MatchModel(brand, title string) string {
	if title == "" {
		return ""
	}
	clean := strings.ToLower(strings.TrimSpace(strings.SplitN(title, "|", 2)[0]))

	for _, candidate := range c.models[strings.ToLower(brand)] {
		pattern := `\b` + regexp.QuoteMeta(strings.ToLower(candidate)) + `\b`
		if matched, _ := regexp.MatchString(pattern, clean); matched {
			return candidate
		}
	}
	return ""
}
