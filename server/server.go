// Package server exposes the combined datasets and the price predictor over
// a small HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/mux"

	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/config"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/models"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/predictor"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/services"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/storage"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/utils"
)

// Server serves dataset and prediction requests. Models are trained per
// request from the brand's combined file; nothing is cached across calls.
type Server struct {
	cfg    *config.Config
	logger *utils.Logger
	store  *storage.JSONStore
}

// New creates a Server backed by the given JSON store.
func New(cfg *config.Config, logger *utils.Logger, store *storage.JSONStore) *Server {
	return &Server{cfg: cfg, logger: logger, store: store}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/listings/{brand}", s.handleListings).Methods(http.MethodGet)
	r.HandleFunc("/predict", s.handlePredict).Methods(http.MethodPost)
	return r
}

// ListenAndServe starts the API on the given address.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("[server] Listening on %s", addr)
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	brand := strings.ToLower(mux.Vars(r)["brand"])

	dataset, err := s.store.ReadCombined(brand)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusNotFound, "no combined dataset for brand "+brand)
			return
		}
		s.logger.Error("[server] Read dataset for %q: %v", brand, err)
		writeError(w, http.StatusInternalServerError, "could not read dataset")
		return
	}

	writeJSON(w, http.StatusOK, dataset)
}

type predictRequest struct {
	Brand        string `json:"brand"`
	Model        string `json:"model,omitempty"`
	Year         int    `json:"year"`
	MileageKM    int    `json:"mileage_km"`
	Transmission string `json:"transmission"`
}

type predictResponse struct {
	Brand          string  `json:"brand"`
	PredictedPrice float64 `json:"predicted_price"`
	TrainedOn      int     `json:"trained_on"`
	PriceMin       float64 `json:"observed_price_min"`
	PriceMax       float64 `json:"observed_price_max"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Brand == "" {
		writeError(w, http.StatusBadRequest, "brand is required")
		return
	}

	brand := strings.ToLower(req.Brand)
	dataset, err := s.store.ReadCombined(brand)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusNotFound, "no combined dataset for brand "+brand)
			return
		}
		s.logger.Error("[server] Read dataset for %q: %v", brand, err)
		writeError(w, http.StatusInternalServerError, "could not read dataset")
		return
	}

	model, err := predictor.Train(dataset, brand, predictor.OptionsFromConfig(s.cfg))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	price, err := model.Predict(models.PredictionQuery{
		Brand:        brand,
		Model:        req.Model,
		Year:         req.Year,
		MileageKM:    req.MileageKM,
		Transmission: services.NormalizeTransmission(req.Transmission),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	min, max := model.PriceRange()
	writeJSON(w, http.StatusOK, predictResponse{
		Brand:          brand,
		PredictedPrice: price,
		TrainedOn:      model.Records(),
		PriceMin:       min,
		PriceMax:       max,
	})
}

func writeDomainError(w http.ResponseWriter, err error) {
	var insufficient *predictor.InsufficientDataError
	var unknown *predictor.UnknownCategoryError
	switch {
	case errors.As(err, &insufficient), errors.As(err, &unknown):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
