package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/teamform/wellboard/internal/auth"
	"github.com/teamform/wellboard/internal/models"
	"github.com/teamform/wellboard/internal/services"
	"github.com/teamform/wellboard/internal/validation"
)

type RatingHandler struct {
	rating *services.RatingService
	roles  *auth.RoleMiddleware
}

func NewRatingHandler(rating *services.RatingService, roles *auth.RoleMiddleware) *RatingHandler {
	return &RatingHandler{
		rating: rating,
		roles:  roles,
	}
}

func (h *RatingHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/top", h.GetTop)
	r.Get("/{userID}", h.GetRating)

	// Point adjustments are a staff action
	r.With(h.roles.RequireStaff).Put("/{userID}", h.AdjustPoints)

	return r
}

func (h *RatingHandler) GetTop(w http.ResponseWriter, r *http.Request) {
	limit := services.DefaultTopLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	entries, err := h.rating.GetTop(r.Context(), limit)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to load top ratings")
		return
	}

	writeJSONResponse(w, http.StatusOK, entries)
}

func (h *RatingHandler) GetRating(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	rating, err := h.rating.GetRating(r.Context(), userID)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to load rating")
		return
	}

	writeJSONResponse(w, http.StatusOK, rating)
}

func (h *RatingHandler) AdjustPoints(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req models.AdjustRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := validation.Validate(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	rating, err := h.rating.AdjustPoints(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeErrorResponse(w, http.StatusNotFound, err.Error())
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to adjust rating")
		return
	}

	writeJSONResponse(w, http.StatusOK, rating)
}
