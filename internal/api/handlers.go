package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"stockwatch/internal/display"
	"stockwatch/internal/models"
	"stockwatch/internal/prices"
	"stockwatch/internal/search"
	"stockwatch/internal/store"
)

// ProfileFetcher is the slice of the quote source the handlers need.
type ProfileFetcher interface {
	CompanyProfile(ctx context.Context, symbol string) (models.CompanyProfile, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	store    *store.Store
	cache    *prices.Cache
	board    *display.Board
	flow     *search.Flow
	profiles ProfileFetcher
	log      zerolog.Logger
}

// NewHandler creates a new Handler
func NewHandler(
	st *store.Store,
	cache *prices.Cache,
	board *display.Board,
	flow *search.Flow,
	profiles ProfileFetcher,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		store:    st,
		cache:    cache,
		board:    board,
		flow:     flow,
		profiles: profiles,
		log:      log.With().Str("component", "api").Logger(),
	}
}

// GetStocks handles GET /stocks: the saved-stocks panel rows.
func (h *Handler) GetStocks(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.board.Rows())
}

// AddStock handles POST /stocks
func (h *Handler) AddStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbol string `json:"symbol"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Symbol == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	}

	if err := h.flow.Add(r.Context(), req.Symbol); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"symbol": req.Symbol})
}

// RemoveStock handles DELETE /stocks/{symbol}
func (h *Handler) RemoveStock(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	if err := h.flow.Remove(symbol); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetProfile handles GET /stocks/{symbol}/profile, serving cached company
// metadata and fetching it on first request.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	if profile, ok := h.cache.Profile(symbol); ok {
		respondJSON(w, http.StatusOK, profile)
		return
	}

	profile, err := h.profiles.CompanyProfile(r.Context(), symbol)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	h.cache.SetProfile(symbol, profile)
	respondJSON(w, http.StatusOK, profile)
}

// SetNotification handles PUT /stocks/{symbol}/notification
func (h *Handler) SetNotification(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	var req struct {
		Direction string      `json:"direction"`
		Threshold json.Number `json:"threshold"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	threshold, err := decimal.NewFromString(req.Threshold.String())
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	rule := models.NotificationRule{Direction: req.Direction, Threshold: threshold}
	if err := h.store.SetNotification(symbol, rule); err != nil {
		if errors.Is(err, models.ErrInvalidRule) {
			http.Error(w, "Invalid input", http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearNotification handles DELETE /stocks/{symbol}/notification
func (h *Handler) ClearNotification(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	if err := h.store.ClearNotification(symbol); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetEmail handles PUT /email
func (h *Handler) SetEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.store.SetEmail(req.Email); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearEmail handles DELETE /email
func (h *Handler) ClearEmail(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearEmail(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StartSearch handles POST /search: kicks off a background lookup and
// returns immediately.
func (h *Handler) StartSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	// The lookup outlives this request on purpose.
	h.flow.Search(context.WithoutCancel(r.Context()), req.Query)
	w.WriteHeader(http.StatusAccepted)
}

// SearchResults handles GET /search/results: the current results panel.
func (h *Handler) SearchResults(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.flow.Results())
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
