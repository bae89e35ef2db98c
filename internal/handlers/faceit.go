package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/teamform/wellboard/internal/auth"
	"github.com/teamform/wellboard/internal/database"
	"github.com/teamform/wellboard/internal/services"
)

type FaceitHandler struct {
	faceitService *services.FaceitService
	importService *services.ImportService
}

func NewFaceitHandler(faceitService *services.FaceitService, importService *services.ImportService) *FaceitHandler {
	return &FaceitHandler{
		faceitService: faceitService,
		importService: importService,
	}
}

func (h *FaceitHandler) Routes(authMiddleware *auth.AuthMiddleware) chi.Router {
	r := chi.NewRouter()

	// The OAuth callback arrives from a browser redirect without a
	// bearer token; the state parameter identifies the user
	r.Get("/oauth/callback", h.OAuthCallback)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)
		r.Get("/oauth/init", h.OAuthInit)
		r.Post("/import-matches", h.ImportMatches)
	})

	return r
}

func (h *FaceitHandler) OAuthInit(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	authURL, state, err := h.faceitService.BeginLink(userID)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to start OAuth flow")
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{
		"auth_url": authURL,
		"state":    state,
	})
}

func (h *FaceitHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if state == "" || code == "" {
		writeErrorResponse(w, http.StatusBadRequest, "Missing state or code")
		return
	}

	account, err := h.faceitService.CompleteLink(r.Context(), state, code)
	if err != nil {
		if errors.Is(err, services.ErrInvalidState) {
			writeErrorResponse(w, http.StatusBadRequest, "Invalid or expired OAuth state")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to link Faceit account")
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message": "Faceit account linked successfully",
		"account": account,
	})
}

func (h *FaceitHandler) ImportMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	account, err := h.importService.AccountForUser(r.Context(), userID)
	if err != nil {
		if database.IsNotFoundError(err) {
			writeErrorResponse(w, http.StatusNotFound, "No linked Faceit account")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to load Faceit account")
		return
	}

	imported, err := h.importService.ImportMatches(r.Context(), account)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Match import failed")
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]int{"imported": imported})
}
