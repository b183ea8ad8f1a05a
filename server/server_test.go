package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/config"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/models"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/storage"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/utils"
)

func newTestServer(t *testing.T) (*Server, *storage.JSONStore) {
	t.Helper()
	cfg := &config.Config{
		ResultsDir:         t.TempDir(),
		MinTrainingRecords: 10,
		ForestTrees:        30,
		ForestMinLeaf:      2,
		ForestMaxDepth:     12,
	}
	store := storage.NewJSONStore(cfg)
	return New(cfg, utils.NewLogger(), store), store
}

func seedDataset(t *testing.T, store *storage.JSONStore, n int) {
	t.Helper()
	listings := make([]*models.CanonicalListing, 0, n)
	for i := 0; i < n; i++ {
		year := 2010 + i%10
		mileage := 40000 + i*2800
		listings = append(listings, &models.CanonicalListing{
			Brand: "mini", Model: "Cooper S", Year: year, MileageKM: mileage,
			Transmission: models.TransmissionAutomatic,
			Price:        40000 - float64(mileage)/20 - float64(2024-year)*500,
			Source:       models.SourceKijiji,
		})
	}
	dataset := &models.CombinedDataset{Brand: "mini", Total: n, Listings: listings}
	if _, err := store.WriteCombined(dataset); err != nil {
		t.Fatalf("seed dataset: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d; want 200", rec.Code)
	}
}

func TestListingsReturnsDataset(t *testing.T) {
	srv, store := newTestServer(t)
	seedDataset(t, store, 12)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/listings/mini", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	var dataset models.CombinedDataset
	if err := json.NewDecoder(rec.Body).Decode(&dataset); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if dataset.Total != 12 {
		t.Errorf("total = %d; want 12", dataset.Total)
	}
}

func TestListingsUnknownBrandIs404(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/listings/zeppelin", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d; want 404", rec.Code)
	}
}

func TestPredictReturnsPriceInRange(t *testing.T) {
	srv, store := newTestServer(t)
	seedDataset(t, store, 50)

	body, _ := json.Marshal(map[string]any{
		"brand":        "mini",
		"year":         2014,
		"mileage_km":   120000,
		"transmission": "automatic",
	})
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/predict", bytes.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	var resp predictResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.PredictedPrice <= 0 {
		t.Errorf("predicted price %.0f; want positive", resp.PredictedPrice)
	}
	if resp.PredictedPrice < resp.PriceMin || resp.PredictedPrice > resp.PriceMax {
		t.Errorf("predicted price %.0f outside observed range [%.0f, %.0f]",
			resp.PredictedPrice, resp.PriceMin, resp.PriceMax)
	}
}

func TestPredictInsufficientDataIs422(t *testing.T) {
	srv, store := newTestServer(t)
	seedDataset(t, store, 5)

	body, _ := json.Marshal(map[string]any{
		"brand": "mini", "year": 2014, "mileage_km": 120000, "transmission": "automatic",
	})
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/predict", bytes.NewReader(body)))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d; want 422", rec.Code)
	}
}

func TestPredictMissingBrandIs400(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/predict",
		bytes.NewReader([]byte(`{"year": 2014}`))))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", rec.Code)
	}
}
