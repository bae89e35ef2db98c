package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/teamform/wellboard/internal/auth"
	"github.com/teamform/wellboard/internal/database"
	"github.com/teamform/wellboard/internal/models"
	"github.com/teamform/wellboard/internal/services"
	"github.com/teamform/wellboard/internal/validation"
)

type TestsHandler struct {
	wellbeing *services.WellbeingService
	roles     *auth.RoleMiddleware
}

func NewTestsHandler(wellbeing *services.WellbeingService, roles *auth.RoleMiddleware) *TestsHandler {
	return &TestsHandler{
		wellbeing: wellbeing,
		roles:     roles,
	}
}

func (h *TestsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.ListOwn)
	r.Delete("/{entryID}", h.Delete)

	r.With(h.roles.RequireStaff).Get("/all", h.ListAll)
	r.With(h.roles.RequireStaff).Get("/player/{playerID}", h.ListForPlayer)

	return r
}

func (h *TestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req models.CreateTestEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := validation.Validate(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.wellbeing.CreateTestEntry(userID, req)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to create test entry")
		return
	}

	writeJSONResponse(w, http.StatusCreated, entry)
}

func (h *TestsHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	entries, err := h.wellbeing.ListTestEntries(userID)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to list test entries")
		return
	}

	writeJSONResponse(w, http.StatusOK, entries)
}

func (h *TestsHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	entries, err := h.wellbeing.ListAllTestEntries(limit, offset)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to list test entries")
		return
	}

	writeJSONResponse(w, http.StatusOK, entries)
}

func (h *TestsHandler) ListForPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := uuid.Parse(chi.URLParam(r, "playerID"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid player ID")
		return
	}

	entries, err := h.wellbeing.ListTestEntriesForPlayer(playerID)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to list test entries")
		return
	}

	writeJSONResponse(w, http.StatusOK, entries)
}

func (h *TestsHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.wellbeing.DeleteTestEntry(entryID, userID, isStaff); err != nil {
		if database.IsNotFoundError(err) {
			writeErrorResponse(w, http.StatusNotFound, "Entry not found")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to delete entry")
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Entry deleted"})
}
