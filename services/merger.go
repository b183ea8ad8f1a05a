package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/models"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/utils"
)

// ErrNoValidRecords is returned when every source file was missing, malformed
// or empty after normalization.
var ErrNoValidRecords = errors.New("merge produced zero valid records")

// Merger combines per-site scrape files into one deduplicated dataset.
// Missing or malformed files are skipped with a warning; the merge fails only
// when nothing valid remains.
type Merger struct {
	logger     *utils.Logger
	normalizer *Normalizer
}

// NewMerger creates a Merger using the given normalizer for raw records.
func NewMerger(logger *utils.Logger, normalizer *Normalizer) *Merger {
	return &Merger{logger: logger, normalizer: normalizer}
}

// Merge reads every source file in order, normalizes its raw listings and
// concatenates them. Duplicates are dropped first-occurrence-wins, keyed by
// (source, link) when a link exists, else by a fingerprint of the canonical
// fields. Input order is preserved; no sort is imposed.
func (m *Merger) Merge(paths []string, brand string) (*models.CombinedDataset, error) {
	dataset := &models.CombinedDataset{
		Brand:    strings.ToLower(brand),
		Listings: make([]*models.CanonicalListing, 0),
	}

	seen := make(map[string]struct{})

	for _, path := range paths {
		result, err := readScrapeResult(path)
		if err != nil {
			if os.IsNotExist(err) {
				m.logger.Warn("[merger] Source file missing, skipping: %s", path)
			} else {
				m.logger.Warn("[merger] Skipping unreadable source file %s: %v", path, err)
			}
			continue
		}

		if dataset.Location == "" {
			dataset.Location = result.Location
		}

		listings := m.normalizer.NormalizeAll(dataset.Brand, result.Listings)
		added := 0
		for _, l := range listings {
			key := dedupeKey(l)
			if _, dup := seen[key]; dup {
				m.logger.Debug("[merger] Duplicate skipped: %s", key)
				continue
			}
			seen[key] = struct{}{}
			dataset.Listings = append(dataset.Listings, l)
			added++
		}

		m.logger.Info("[merger] %s — %d raw, %d merged", path, len(result.Listings), added)
	}

	if len(dataset.Listings) == 0 {
		return nil, ErrNoValidRecords
	}

	dataset.Total = len(dataset.Listings)
	m.logger.Info("[merger] Combined dataset: %d listings for %q", dataset.Total, dataset.Brand)
	return dataset, nil
}

func readScrapeResult(path string) (*models.ScrapeResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var result models.ScrapeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &result, nil
}

// dedupeKey identifies one listing across re-scrapes. The source link is the
// stable identifier when present; otherwise a fingerprint of the canonical
// fields stands in.
func dedupeKey(l *models.CanonicalListing) string {
	if l.Link != "" {
		return l.Source + "|" + l.Link
	}
	return fmt.Sprintf("%s|%s|%s|%d|%d|%.0f", l.Source, l.Brand, l.Model, l.Year, l.MileageKM, l.Price)
}
