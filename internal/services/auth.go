package services

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/teamform/wellboard/internal/auth"
	"github.com/teamform/wellboard/internal/database"
	"github.com/teamform/wellboard/internal/models"
	"gorm.io/gorm"
)

type AuthService struct {
	db         *database.DB
	jwtManager *auth.JWTManager
}

func NewAuthService(db *database.DB, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		db:         db,
		jwtManager: jwtManager,
	}
}

func (s *AuthService) RegisterUser(req models.CreateUserRequest) (*models.User, error) {
	// Check if user already exists
	var existingUser models.User
	if err := s.db.Where("email = ? OR username = ?", req.Email, req.Username).First(&existingUser).Error; err == nil {
		if existingUser.Email == req.Email {
			return nil, fmt.Errorf("user with email %s already exists", req.Email)
		}
		return nil, fmt.Errorf("user with username %s already exists", req.Username)
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	// Hash password
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Create user
	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hashedPassword,
		Role:         models.UserRolePlayer, // Default role
		IsActive:     true,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("User registered successfully", "user_id", user.ID, "username", user.Username)
	return &user, nil
}

func (s *AuthService) LoginUser(req models.LoginRequest) (*models.LoginResponse, error) {
	var user models.User

	// Find user by email or username
	if err := s.db.Where("email = ? OR username = ?", req.EmailOrUsername, req.EmailOrUsername).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("invalid credentials")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	// Verify password
	if err := auth.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	if !user.IsActive {
		return nil, fmt.Errorf("account is deactivated")
	}

	// Generate JWT token
	token, err := s.jwtManager.GenerateToken(user.ID, user.Username, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	slog.Info("User logged in successfully", "user_id", user.ID, "username", user.Username)

	return &models.LoginResponse{
		User:  user,
		Token: token,
	}, nil
}

func (s *AuthService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("FaceitAccount").First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *AuthService) UpdateUserProfile(userID uuid.UUID, req models.UpdateProfileRequest) (*models.User, error) {
	updates := map[string]interface{}{}
	if req.TeamName != nil {
		updates["team_name"] = *req.TeamName
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update user profile: %w", err)
		}
	}

	slog.Info("User profile updated", "user_id", userID)
	return s.GetUserByID(userID)
}

// CompleteDeleteUser is the one explicit cascade path: it removes the
// user and every record hanging off them. Everywhere else user rows are
// soft-referenced only.
func (s *AuthService) CompleteDeleteUser(userID uuid.UUID) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("user not found")
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var account models.FaceitAccount
		if err := tx.Where("user_id = ?", userID).First(&account).Error; err == nil {
			if err := tx.Unscoped().Where("faceit_account_id = ?", account.ID).Delete(&models.Match{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Delete(&account).Error; err != nil {
				return err
			}
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		for _, model := range []interface{}{
			&models.PlayerMetrics{},
			&models.AnalyticsCache{},
			&models.MoodEntry{},
			&models.TestEntry{},
			&models.BalanceWheel{},
			&models.PlayerRating{},
		} {
			if err := tx.Unscoped().Where("user_id = ?", userID).Delete(model).Error; err != nil {
				return err
			}
		}

		if err := tx.Unscoped().Where("owner_id = ?", userID).Delete(&models.File{}).Error; err != nil {
			return err
		}

		if err := tx.Unscoped().Delete(&user).Error; err != nil {
			return err
		}

		slog.Info("User completely deleted", "user_id", userID)
		return nil
	})
}
