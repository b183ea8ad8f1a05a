package models

import "time"

// Transmission is the canonical gearbox category. Raw strings that match
// neither vocabulary map to TransmissionUnknown, never to an invented value.
type Transmission string

const (
	TransmissionAutomatic Transmission = "automatic"
	TransmissionManual    Transmission = "manual"
	TransmissionUnknown   Transmission = "unknown"
)

// Known source sites.
const (
	SourceKijiji     = "kijiji"
	SourceAutotrader = "autotrader"
)

// RawListing holds unprocessed scraped data straight from one listing card.
// Field shapes vary per site; everything is kept as the scraped string and
// discarded after normalization.
type RawListing struct {
	Title        string    `json:"title"`
	RawPrice     string    `json:"price"`
	RawMileage   string    `json:"mileage"`
	Transmission string    `json:"transmission"`
	Fuel         string    `json:"fuel"`
	Location     string    `json:"location"`
	Link         string    `json:"link"`
	Source       string    `json:"source"`
	ScrapedAt    time.Time `json:"scraped_at"`
}

// CanonicalListing is the validated record exchanged between stages.
// A listing missing any critical field (brand, model, year, mileage, price)
// is dropped during normalization rather than carried with nulls.
type CanonicalListing struct {
	Brand        string       `json:"brand"`
	Model        string       `json:"model"`
	Year         int          `json:"year"`
	MileageKM    int          `json:"mileage_km"`
	Transmission Transmission `json:"transmission"`
	Price        float64      `json:"price"`
	Fuel         string       `json:"fuel,omitempty"`
	Location     string       `json:"province_city,omitempty"`
	Link         string       `json:"link,omitempty"`
	Source       string       `json:"source"`
}

// ScrapeResult is the per-(site, brand) raw output file payload.
type ScrapeResult struct {
	Source     string        `json:"source"`
	Brand      string        `json:"brand"`
	Location   string        `json:"location"`
	TotalPages int           `json:"total_pages"`
	Total      int           `json:"total_number"`
	Listings   []*RawListing `json:"listings"`
}

// CombinedDataset is the deduplicated union of canonical records across all
// source sites for one brand. It is rebuilt from scratch on every merge run.
type CombinedDataset struct {
	Brand    string              `json:"brand"`
	Location string              `json:"location,omitempty"`
	Total    int                 `json:"total_number_merged"`
	Listings []*CanonicalListing `json:"listings"`
}

// PredictionQuery is the external input to the price predictor.
type PredictionQuery struct {
	Brand        string       `json:"brand"`
	Model        string       `json:"model,omitempty"`
	Year         int          `json:"year"`
	MileageKM    int          `json:"mileage_km"`
	Transmission Transmission `json:"transmission"`
}

// InsightReport holds the computed summary over one combined dataset.
type InsightReport struct {
	Brand          string
	TotalListings  int
	AveragePrice   float64
	MinPrice       float64
	MaxPrice       float64
	BySource       map[string]int
	ByTransmission map[Transmission]int
}
