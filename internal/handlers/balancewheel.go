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

type BalanceWheelHandler struct {
	wellbeing *services.WellbeingService
	roles     *auth.RoleMiddleware
}

func NewBalanceWheelHandler(wellbeing *services.WellbeingService, roles *auth.RoleMiddleware) *BalanceWheelHandler {
	return &BalanceWheelHandler{
		wellbeing: wellbeing,
		roles:     roles,
	}
}

func (h *BalanceWheelHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.ListOwn)
	r.Delete("/{entryID}", h.Delete)

	r.With(h.roles.RequireStaff).Get("/all", h.ListAll)
	r.With(h.roles.RequireStaff).Get("/player/{playerID}", h.ListForPlayer)

	return r
}

func (h *BalanceWheelHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req models.CreateBalanceWheelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := validation.Validate(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.wellbeing.CreateBalanceWheel(userID, req)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to create balance wheel")
		return
	}

	writeJSONResponse(w, http.StatusCreated, entry)
}

func (h *BalanceWheelHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	entries, err := h.wellbeing.ListBalanceWheels(userID)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to list balance wheels")
		return
	}

	writeJSONResponse(w, http.StatusOK, entries)
}

func (h *BalanceWheelHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	entries, err := h.wellbeing.ListAllBalanceWheels(limit, offset)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to list balance wheels")
		return
	}

	writeJSONResponse(w, http.StatusOK, entries)
}

func (h *BalanceWheelHandler) ListForPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := uuid.Parse(chi.URLParam(r, "playerID"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid player ID")
		return
	}

	entries, err := h.wellbeing.ListBalanceWheelsForPlayer(playerID)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to list balance wheels")
		return
	}

	writeJSONResponse(w, http.StatusOK, entries)
}

func (h *BalanceWheelHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.wellbeing.DeleteBalanceWheel(entryID, userID, isStaff); err != nil {
		if database.IsNotFoundError(err) {
			writeErrorResponse(w, http.StatusNotFound, "Entry not found")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to delete entry")
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Entry deleted"})
}
