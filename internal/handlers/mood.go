package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/teamform/wellboard/internal/auth"
	"github.com/teamform/wellboard/internal/database"
	"github.com/teamform/wellboard/internal/models"
	"github.com/teamform/wellboard/internal/services"
	"github.com/teamform/wellboard/internal/validation"
)

type MoodHandler struct {
	wellbeing *services.WellbeingService
	roles     *auth.RoleMiddleware
}

func NewMoodHandler(wellbeing *services.WellbeingService, roles *auth.RoleMiddleware) *MoodHandler {
	return &MoodHandler{
		wellbeing: wellbeing,
		roles:     roles,
	}
}

func (h *MoodHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.ListOwn)
	r.Delete("/{entryID}", h.Delete)

	// Staff-only views
	r.With(h.roles.RequireStaff).Get("/all", h.ListAll)
	r.With(h.roles.RequireStaff).Get("/player/{playerID}", h.ListForPlayer)

	return r
}

func (h *MoodHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req models.CreateMoodEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := validation.Validate(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.wellbeing.CreateMoodEntry(userID, req)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to create mood entry")
		return
	}

	writeJSONResponse(w, http.StatusCreated, entry)
}

func (h *MoodHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	entries, err := h.wellbeing.ListMoodEntries(userID)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to list mood entries")
		return
	}

	writeJSONResponse(w, http.StatusOK, entries)
}

func (h *MoodHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	entries, err := h.wellbeing.ListAllMoodEntries(limit, offset)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to list mood entries")
		return
	}

	writeJSONResponse(w, http.StatusOK, entries)
}

func (h *MoodHandler) ListForPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := uuid.Parse(chi.URLParam(r, "playerID"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid player ID")
		return
	}

	entries, err := h.wellbeing.ListMoodEntriesForPlayer(playerID)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to list mood entries")
		return
	}

	writeJSONResponse(w, http.StatusOK, entries)
}

func (h *MoodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	entryID, err := uuid.Parse(chi.URLParam(r, "entryID"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}

	isStaff, err := h.roles.IsStaff(userID)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to check permissions")
		return
	}

	if err := h.wellbeing.DeleteMoodEntry(entryID, userID, isStaff); err != nil {
		if database.IsNotFoundError(err) {
			writeErrorResponse(w, http.StatusNotFound, "Entry not found")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to delete entry")
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Entry deleted"})
}

// parsePagination reads limit/offset query parameters with sane bounds
func parsePagination(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
