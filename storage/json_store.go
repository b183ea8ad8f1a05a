package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/config"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/models"
)

// JSONStore reads and writes the file-based contracts between pipeline
// stages: results/<site>_<brand>.json and results/<brand>_combined.json.
// Files are overwritten on every run.
type JSONStore struct {
	cfg *config.Config
}

// NewJSONStore creates a store rooted at the configured results directory.
func NewJSONStore(cfg *config.Config) *JSONStore {
	return &JSONStore{cfg: cfg}
}

// WriteScrapeResult persists one site's raw scrape output and returns the path.
func (s *JSONStore) WriteScrapeResult(result *models.ScrapeResult) (string, error) {
	path := s.cfg.RawResultPath(result.Source, result.Brand)
	if err := writeJSON(path, result); err != nil {
		return "", err
	}
	return path, nil
}

// WriteScrapeResultTo persists a scrape result at an explicit path,
// bypassing the results-directory convention.
func (s *JSONStore) WriteScrapeResultTo(path string, result *models.ScrapeResult) error {
	return writeJSON(path, result)
}

// WriteCombined persists the combined dataset for a brand, replacing any
// previous file, and returns the path.
func (s *JSONStore) WriteCombined(dataset *models.CombinedDataset) (string, error) {
	path := s.cfg.CombinedPath(dataset.Brand)
	if err := writeJSON(path, dataset); err != nil {
		return "", err
	}
	return path, nil
}

// ReadCombined loads the combined dataset for a brand.
func (s *JSONStore) ReadCombined(brand string) (*models.CombinedDataset, error) {
	data, err := os.ReadFile(s.cfg.CombinedPath(brand))
	if err != nil {
		return nil, fmt.Errorf("json store: read combined dataset for %q: %w", brand, err)
	}
	var dataset models.CombinedDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, fmt.Errorf("json store: decode combined dataset for %q: %w", brand, err)
	}
	return &dataset, nil
}

// RawPaths returns every per-site raw file path for a brand, in the fixed
// source order the merge contract preserves.
func (s *JSONStore) RawPaths(brand string) []string {
	sites := []string{models.SourceKijiji, models.SourceAutotrader}
	paths := make([]string, 0, len(sites))
	for _, site := range sites {
		paths = append(paths, s.cfg.RawResultPath(site, brand))
	}
	return paths
}

// DiscoverBrands scans the results directory for <site>_<brand>.json files
// and returns the distinct brands found.
func (s *JSONStore) DiscoverBrands() ([]string, error) {
	entries, err := os.ReadDir(s.cfg.ResultsDir)
	if err != nil {
		return nil, fmt.Errorf("json store: scan results dir: %w", err)
	}

	prefixes := []string{models.SourceKijiji + "_", models.SourceAutotrader + "_"}
	seen := make(map[string]struct{})
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		for _, prefix := range prefixes {
			if strings.HasPrefix(name, prefix) {
				brand := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json")
				if brand != "" {
					seen[brand] = struct{}{}
				}
			}
		}
	}

	brands := make([]string, 0, len(seen))
	for brand := range seen {
		brands = append(brands, brand)
	}
	sort.Strings(brands)
	return brands, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("json store: create output dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json store: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("json store: write %s: %w", path, err)
	}
	return nil
}
