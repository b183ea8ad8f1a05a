package catalog

import "testing"

func TestMatchModelLongestWins(t *testing.T) {
	cat, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		brand string
		title string
		want  string
	}{
		{"mini", "2016 MINI Countryman Cooper S ALL4", "Countryman Cooper S"},
		{"mini", "2014 MINI Cooper S | low kms", "Cooper S"},
		{"mini", "2012 MINI Cooper hardtop-ish", "Cooper"},
		{"toyota", "2018 Toyota Corolla LE", "Corolla"},
		{"mini", "2014 MINI Spaceship", ""},
		{"mini", "", ""},
		{"unknownbrand", "2014 Whatever", ""},
	}

	for _, tt := range tests {
		if got := cat.MatchModel(tt.brand, tt.title); got != tt.want {
			t.Errorf("MatchModel(%q, %q) = %q; want %q", tt.brand, tt.title, got, tt.want)
		}
	}
}

func TestMatchModelIgnoresTrimAfterPipe(t *testing.T) {
	cat, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// "Clubman" only appears after the separator and must not match
	if got := cat.MatchModel("mini", "2014 MINI Cooper | better than a Clubman"); got != "Cooper" {
		t.Errorf("MatchModel = %q; want %q", got, "Cooper")
	}
}

func TestKnownBrands(t *testing.T) {
	cat, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cat.Known("mini") || !cat.Known("MINI") {
		t.Error("mini should be a known brand, case-insensitively")
	}
	if cat.Known("zeppelin") {
		t.Error("zeppelin should not be a known brand")
	}
	if len(cat.Brands()) == 0 {
		t.Error("Brands() returned nothing")
	}
}
