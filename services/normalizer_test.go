package services

import (
	"strconv"
	"testing"
	"time"

	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/catalog"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/models"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/utils"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return NewNormalizer(utils.NewLogger(), cat)
}

func TestParseMileage(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{"120,000 km", 120000, true},
		{"89 000 km", 89000, true},
		{"61,000km", 61000, true},
		{"5 km", 5, true},
		{"", 0, false},
		{"n/a", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseMileage(tt.raw)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("parseMileage(%q) = (%d, %v); want (%d, %v)",
				tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"$12,999", 12999, true},
		{"$8 500", 8500, true},
		{"24999", 24999, true},
		{"Please Contact", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := parsePrice(tt.raw)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("parsePrice(%q) = (%.0f, %v); want (%.0f, %v)",
				tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseYear(t *testing.T) {
	current := time.Now().Year()
	tests := []struct {
		title  string
		want   int
		wantOK bool
	}{
		{"2014 MINI Cooper S", 2014, true},
		{"  1998 Toyota Corolla", 1998, true},
		{"1975 Classic", 0, false},
		{"MINI Cooper S 2014", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseYear(tt.title)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("parseYear(%q) = (%d, %v); want (%d, %v)",
				tt.title, got, ok, tt.want, tt.wantOK)
		}
	}

	// year+1 is plausible (next model year); year+2 is not
	if _, ok := parseYear(strconv.Itoa(current+1) + " MINI Cooper"); !ok {
		t.Errorf("parseYear should accept next model year %d", current+1)
	}
	if _, ok := parseYear(strconv.Itoa(current+2) + " MINI Cooper"); ok {
		t.Errorf("parseYear should reject year %d", current+2)
	}
}

func TestNormalizeTransmission(t *testing.T) {
	tests := []struct {
		raw  string
		want models.Transmission
	}{
		{"Automatic", models.TransmissionAutomatic},
		{"auto", models.TransmissionAutomatic},
		{"6-speed automatic", models.TransmissionAutomatic},
		{"Manual", models.TransmissionManual},
		{"standard", models.TransmissionManual},
		{"stick", models.TransmissionManual},
		{"tiptronic", models.TransmissionUnknown},
		{"", models.TransmissionUnknown},
	}

	for _, tt := range tests {
		if got := NormalizeTransmission(tt.raw); got != tt.want {
			t.Errorf("NormalizeTransmission(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeTransmissionIdempotent(t *testing.T) {
	for _, canonical := range []models.Transmission{
		models.TransmissionAutomatic,
		models.TransmissionManual,
		models.TransmissionUnknown,
	} {
		if got := NormalizeTransmission(string(canonical)); got != canonical {
			t.Errorf("NormalizeTransmission(%q) = %q; want unchanged", canonical, got)
		}
	}
}

func TestNormalizeMapsFullRecord(t *testing.T) {
	n := newTestNormalizer(t)

	raw := &models.RawListing{
		Title:        "2014 MINI Cooper S | Leather",
		RawPrice:     "$12,999",
		RawMileage:   "120,000 km",
		Transmission: "automatic",
		Fuel:         "gas",
		Location:     "Saskatoon, SK",
		Link:         "https://www.kijiji.ca/v-cars/1",
		Source:       models.SourceKijiji,
	}

	listing, ok := n.Normalize("MINI", raw)
	if !ok {
		t.Fatal("expected record to normalize")
	}
	if listing.Brand != "mini" {
		t.Errorf("brand = %q; want lower-cased %q", listing.Brand, "mini")
	}
	if listing.Model != "Cooper S" {
		t.Errorf("model = %q; want %q", listing.Model, "Cooper S")
	}
	if listing.Year != 2014 || listing.MileageKM != 120000 || listing.Price != 12999 {
		t.Errorf("numeric fields = (%d, %d, %.0f); want (2014, 120000, 12999)",
			listing.Year, listing.MileageKM, listing.Price)
	}
	if listing.Transmission != models.TransmissionAutomatic {
		t.Errorf("transmission = %q; want automatic", listing.Transmission)
	}
}

func TestNormalizeDropsIncompleteRecords(t *testing.T) {
	n := newTestNormalizer(t)

	tests := []struct {
		name string
		raw  *models.RawListing
	}{
		{"missing price", &models.RawListing{
			Title: "2014 MINI Cooper S", RawMileage: "120,000 km",
		}},
		{"missing mileage", &models.RawListing{
			Title: "2014 MINI Cooper S", RawPrice: "$12,999",
		}},
		{"missing year", &models.RawListing{
			Title: "MINI Cooper S", RawPrice: "$12,999", RawMileage: "120,000 km",
		}},
		{"unknown model", &models.RawListing{
			Title: "2014 MINI Spaceship", RawPrice: "$12,999", RawMileage: "120,000 km",
		}},
	}

	for _, tt := range tests {
		if _, ok := n.Normalize("mini", tt.raw); ok {
			t.Errorf("%s: expected record to be dropped", tt.name)
		}
	}
}

func TestNormalizeAllCountsDrops(t *testing.T) {
	n := newTestNormalizer(t)

	raw := []*models.RawListing{
		{Title: "2014 MINI Cooper S", RawPrice: "$12,999", RawMileage: "120,000 km", Source: models.SourceKijiji},
		{Title: "no year here", RawPrice: "$1", RawMileage: "1 km", Source: models.SourceKijiji},
	}

	got := n.NormalizeAll("mini", raw)
	if len(got) != 1 {
		t.Errorf("NormalizeAll kept %d records; want 1", len(got))
	}
}
