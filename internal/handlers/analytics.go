package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/teamform/wellboard/internal/auth"
	"github.com/teamform/wellboard/internal/models"
	"github.com/teamform/wellboard/internal/services"
	"github.com/teamform/wellboard/internal/validation"
)

type AnalyticsHandler struct {
	analytics *services.AnalyticsService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
	}
}

func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/stats", h.GetStats)
	r.Post("/metrics", h.RecordMetrics)
	r.Post("/refresh-cache", h.RefreshCache)

	return r
}

func (h *AnalyticsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	from, err := parseDateParam(r, "from")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid from date")
		return
	}
	to, err := parseDateParam(r, "to")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid to date")
		return
	}
	gameType := r.URL.Query().Get("type")

	stats, err := h.analytics.GetStats(r.Context(), userID, from, to, gameType)
	if err != nil {
		if errors.Is(err, services.ErrStatsUnavailable) {
			writeErrorResponse(w, http.StatusNotFound, "Stats unavailable: link a Faceit account first")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	writeJSONResponse(w, http.StatusOK, stats)
}

func (h *AnalyticsHandler) RecordMetrics(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req models.RecordMetricsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := validation.Validate(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.analytics.RecordMetrics(r.Context(), userID, req)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to record metrics")
		return
	}

	writeJSONResponse(w, http.StatusCreated, entry)
}

func (h *AnalyticsHandler) RefreshCache(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	stats, err := h.analytics.RefreshCache(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrStatsUnavailable) {
			writeErrorResponse(w, http.StatusNotFound, "Stats unavailable: link a Faceit account first")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to refresh cache")
		return
	}

	writeJSONResponse(w, http.StatusOK, stats)
}

// parseDateParam accepts RFC3339 timestamps or plain dates
func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
