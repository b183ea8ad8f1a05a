package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/config"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/models"
)

func newTestStore(t *testing.T) (*JSONStore, *config.Config) {
	t.Helper()
	cfg := &config.Config{ResultsDir: t.TempDir()}
	return NewJSONStore(cfg), cfg
}

func sampleDataset(brand string, prices ...float64) *models.CombinedDataset {
	listings := make([]*models.CanonicalListing, 0, len(prices))
	for i, p := range prices {
		listings = append(listings, &models.CanonicalListing{
			Brand: brand, Model: "Cooper S", Year: 2014, MileageKM: 100000 + i,
			Transmission: models.TransmissionAutomatic, Price: p,
			Link: "https://kijiji.ca/v/" + brand, Source: models.SourceKijiji,
		})
	}
	return &models.CombinedDataset{Brand: brand, Total: len(listings), Listings: listings}
}

func TestScrapeResultPathConvention(t *testing.T) {
	store, cfg := newTestStore(t)

	result := &models.ScrapeResult{
		Source: models.SourceKijiji,
		Brand:  "mini",
		Listings: []*models.RawListing{
			{Title: "2014 MINI Cooper S", Source: models.SourceKijiji},
		},
	}
	path, err := store.WriteScrapeResult(result)
	if err != nil {
		t.Fatalf("WriteScrapeResult: %v", err)
	}
	want := filepath.Join(cfg.ResultsDir, "kijiji_mini.json")
	if path != want {
		t.Errorf("path = %q; want %q", path, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("result file not written: %v", err)
	}
}

func TestCombinedRoundTripAndOverwrite(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.WriteCombined(sampleDataset("mini", 10000, 12000)); err != nil {
		t.Fatalf("WriteCombined: %v", err)
	}
	// a fresh merge run replaces the previous combined file
	if _, err := store.WriteCombined(sampleDataset("mini", 15000)); err != nil {
		t.Fatalf("WriteCombined (overwrite): %v", err)
	}

	dataset, err := store.ReadCombined("mini")
	if err != nil {
		t.Fatalf("ReadCombined: %v", err)
	}
	if dataset.Total != 1 || len(dataset.Listings) != 1 {
		t.Errorf("got %d listings; want 1 from the second write", len(dataset.Listings))
	}
	if dataset.Listings[0].Price != 15000 {
		t.Errorf("price = %.0f; want 15000", dataset.Listings[0].Price)
	}
}

func TestDiscoverBrands(t *testing.T) {
	store, cfg := newTestStore(t)

	for _, name := range []string{"kijiji_mini.json", "autotrader_mini.json", "kijiji_toyota.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(cfg.ResultsDir, name), []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	brands, err := store.DiscoverBrands()
	if err != nil {
		t.Fatalf("DiscoverBrands: %v", err)
	}
	if len(brands) != 2 || brands[0] != "mini" || brands[1] != "toyota" {
		t.Errorf("brands = %v; want [mini toyota]", brands)
	}
}

func TestCSVWriterExportsDataset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mini_combined.csv")

	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}
	if err := w.WriteDataset(sampleDataset("mini", 12999, 9500)); err != nil {
		t.Fatalf("WriteDataset: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d CSV lines; want header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "brand,model,year,mileage_km,transmission,price") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "12999.00") {
		t.Errorf("first row missing price: %s", lines[1])
	}
}
