// Package predictor trains an in-process random-forest regressor over a
// combined dataset and answers fair-price queries. Training happens per
// invocation; no model is persisted.
package predictor

import (
	"fmt"
	"strings"

	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/config"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/models"
)

// InsufficientDataError is returned when the brand-filtered dataset is too
// small to train on. The threshold is configuration, not design.
type InsufficientDataError struct {
	Brand   string
	Records int
	Min     int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for brand %q: %d records, need at least %d",
		e.Brand, e.Records, e.Min)
}

// UnknownCategoryError is returned when a query names a categorical value
// never seen during training. An unseen category is an unencodable input, so
// no numeric guess is ever produced for it.
type UnknownCategoryError struct {
	Field string
	Value string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown %s %q: not seen during training", e.Field, e.Value)
}

// Options holds the training knobs, normally sourced from config.
type Options struct {
	MinRecords int
	Trees      int
	MinLeaf    int
	MaxDepth   int
	Seed       int64
}

// OptionsFromConfig maps the env-driven config onto training options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MinRecords: cfg.MinTrainingRecords,
		Trees:      cfg.ForestTrees,
		MinLeaf:    cfg.ForestMinLeaf,
		MaxDepth:   cfg.ForestMaxDepth,
		Seed:       42,
	}
}

func (o Options) withDefaults() Options {
	if o.MinRecords <= 0 {
		o.MinRecords = 10
	}
	if o.Trees <= 0 {
		o.Trees = 200
	}
	if o.MinLeaf <= 0 {
		o.MinLeaf = 2
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = 16
	}
	return o
}

// Model is a trained per-brand price model. Feature encoding is learned at
// training time: year and mileage are numeric, transmission is ordinal over
// the categories observed in training.
type Model struct {
	brand      string
	transIndex map[models.Transmission]int
	modelVocab map[string]struct{}
	forest     *forest
	minPrice   float64
	maxPrice   float64
	records    int
}

// Train filters the dataset to the requested brand and fits the ensemble.
func Train(dataset *models.CombinedDataset, brand string, opts Options) (*Model, error) {
	brand = strings.ToLower(strings.TrimSpace(brand))
	filtered := filterBrand(dataset, brand)
	return fit(filtered, brand, opts)
}

func filterBrand(dataset *models.CombinedDataset, brand string) []*models.CanonicalListing {
	var filtered []*models.CanonicalListing
	for _, l := range dataset.Listings {
		if strings.ToLower(l.Brand) == brand {
			filtered = append(filtered, l)
		}
	}
	return filtered
}

func fit(listings []*models.CanonicalListing, brand string, opts Options) (*Model, error) {
	opts = opts.withDefaults()

	if len(listings) < opts.MinRecords {
		return nil, &InsufficientDataError{Brand: brand, Records: len(listings), Min: opts.MinRecords}
	}

	m := &Model{
		brand:      brand,
		transIndex: make(map[models.Transmission]int),
		modelVocab: make(map[string]struct{}),
		records:    len(listings),
		minPrice:   listings[0].Price,
		maxPrice:   listings[0].Price,
	}

	for _, l := range listings {
		if _, ok := m.transIndex[l.Transmission]; !ok {
			m.transIndex[l.Transmission] = len(m.transIndex)
		}
		m.modelVocab[strings.ToLower(l.Model)] = struct{}{}
		if l.Price < m.minPrice {
			m.minPrice = l.Price
		}
		if l.Price > m.maxPrice {
			m.maxPrice = l.Price
		}
	}

	X := make([][]float64, len(listings))
	y := make([]float64, len(listings))
	for i, l := range listings {
		X[i] = m.features(l.Year, l.MileageKM, l.Transmission)
		y[i] = l.Price
	}

	m.forest = fitForest(X, y, forestOptions{
		trees:    opts.Trees,
		minLeaf:  opts.MinLeaf,
		maxDepth: opts.MaxDepth,
		seed:     opts.Seed,
	})

	return m, nil
}

func (m *Model) features(year, mileageKM int, trans models.Transmission) []float64 {
	return []float64{
		float64(year),
		float64(mileageKM),
		float64(m.transIndex[trans]),
	}
}

// Predict returns the fair price for a query. A brand, model or transmission
// the model never saw is reported as an UnknownCategoryError, never guessed
// around.
func (m *Model) Predict(q models.PredictionQuery) (float64, error) {
	brand := strings.ToLower(strings.TrimSpace(q.Brand))
	if brand != m.brand {
		return 0, &UnknownCategoryError{Field: "brand", Value: q.Brand}
	}
	if q.Model != "" {
		if _, ok := m.modelVocab[strings.ToLower(q.Model)]; !ok {
			return 0, &UnknownCategoryError{Field: "model", Value: q.Model}
		}
	}
	if _, ok := m.transIndex[q.Transmission]; !ok {
		return 0, &UnknownCategoryError{Field: "transmission", Value: string(q.Transmission)}
	}

	return m.forest.predict(m.features(q.Year, q.MileageKM, q.Transmission)), nil
}

// Records returns the number of training records the model was fitted on.
func (m *Model) Records() int { return m.records }

// PriceRange returns the min and max price observed during training.
func (m *Model) PriceRange() (float64, float64) { return m.minPrice, m.maxPrice }
