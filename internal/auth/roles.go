package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/teamform/wellboard/internal/database"
	"github.com/teamform/wellboard/internal/models"
	"gorm.io/gorm"
)

type roleContextKey string

const UserRoleKey roleContextKey = "user_role"

// RoleMiddleware provides role-based authorization middleware
type RoleMiddleware struct {
	db *database.DB
}

// NewRoleMiddleware creates a new role middleware instance
func NewRoleMiddleware(db *database.DB) *RoleMiddleware {
	return &RoleMiddleware{
		db: db,
	}
}

// RequireRole returns a middleware that requires specific roles
func (rm *RoleMiddleware) RequireRole(roles ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Get user ID from context (should be set by auth middleware)
			userID, ok := GetUserIDFromContext(r.Context())
			if !ok {
				writeErrorResponse(w, http.StatusUnauthorized, "User not authenticated")
				return
			}

			// Fetch user from database to get their role; the JWT role
			// claim may be up to 30 days stale
			var user models.User
			if err := rm.db.First(&user, "id = ?", userID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					writeErrorResponse(w, http.StatusUnauthorized, "User not found")
					return
				}
				writeErrorResponse(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			// Check if user has any of the required roles
			hasRequiredRole := false
			for _, requiredRole := range roles {
				if user.Role == requiredRole {
					hasRequiredRole = true
					break
				}
			}

			if !hasRequiredRole {
				writeErrorResponse(w, http.StatusForbidden, "Insufficient privileges")
				return
			}

			// Add user role to context for handlers to use
			ctx := context.WithValue(r.Context(), UserRoleKey, user.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin is a convenience method for admin-only endpoints
func (rm *RoleMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return rm.RequireRole(models.UserRoleAdmin)(next)
}

// RequireStaff is a convenience method for staff and admin endpoints
func (rm *RoleMiddleware) RequireStaff(next http.Handler) http.Handler {
	return rm.RequireRole(models.UserRoleStaff, models.UserRoleAdmin)(next)
}

// GetUserRoleFromContext retrieves the user role from the request context
func GetUserRoleFromContext(ctx context.Context) (models.UserRole, bool) {
	role, ok := ctx.Value(UserRoleKey).(models.UserRole)
	return role, ok
}

// IsStaff checks if a user has staff or admin role
func (rm *RoleMiddleware) IsStaff(userID uuid.UUID) (bool, error) {
	var user models.User
	if err := rm.db.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, fmt.Errorf("user not found")
		}
		return false, fmt.Errorf("database error: %w", err)
	}
	return user.IsStaff(), nil
}
