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

type AdminHandler struct {
	db          *database.DB
	authService *services.AuthService
}

func NewAdminHandler(db *database.DB, authService *services.AuthService) *AdminHandler {
	return &AdminHandler{
		db:          db,
		authService: authService,
	}
}

func (h *AdminHandler) Routes(roleMiddleware *auth.RoleMiddleware) chi.Router {
	r := chi.NewRouter()

	// All admin routes require admin role
	r.Use(roleMiddleware.RequireAdmin)

	r.Get("/users", h.ListUsers)
	r.Put("/users/{userID}/role", h.UpdateUserRole)
	r.Put("/users/{userID}/status", h.UpdateUserStatus)
	r.Delete("/users/{userID}/complete", h.CompleteDeleteUser)

	return r
}

// ListUsers returns a paginated list of all users (admin only)
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	var users []models.User
	if err := h.db.Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	var total int64
	h.db.Model(&models.User{}).Count(&total)

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"pagination": map[string]interface{}{
			"limit":  limit,
			"offset": offset,
			"total":  total,
		},
	})
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=player staff admin"`
}

// UpdateUserRole updates a user's role (admin only)
func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req UpdateUserRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := validation.Validate(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.db.Model(&models.User{}).Where("id = ?", userID).Update("role", req.Role)
	if result.Error != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to update role")
		return
	}
	if result.RowsAffected == 0 {
		writeErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Role updated"})
}

type UpdateUserStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// UpdateUserStatus activates or deactivates an account (admin only)
func (h *AdminHandler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req UpdateUserStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := validation.Validate(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.db.Model(&models.User{}).Where("id = ?", userID).Update("is_active", *req.IsActive)
	if result.Error != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to update status")
		return
	}
	if result.RowsAffected == 0 {
		writeErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Status updated"})
}

// CompleteDeleteUser removes a user and everything that belongs to them
func (h *AdminHandler) CompleteDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.authService.CompleteDeleteUser(userID); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "User completely deleted"})
}
