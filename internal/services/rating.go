package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/teamform/wellboard/internal/cache"
	"github.com/teamform/wellboard/internal/database"
	"github.com/teamform/wellboard/internal/models"
	"gorm.io/gorm"
)

// DefaultTopLimit is the leaderboard size when none is requested.
const DefaultTopLimit = 10

// RatingService accumulates staff-awarded points and serves the
// leaderboard, cached in redis.
type RatingService struct {
	db    *database.DB
	cache *cache.RatingCache
}

func NewRatingService(db *database.DB, ratingCache *cache.RatingCache) *RatingService {
	return &RatingService{
		db:    db,
		cache: ratingCache,
	}
}

// AdjustPoints applies a staff adjustment to a user's rating, creating
// the row on first touch. Point deltas may be negative; discipline is
// set absolutely and clamped to [0,100].
func (s *RatingService) AdjustPoints(ctx context.Context, userID uuid.UUID, req models.AdjustRatingRequest) (*models.PlayerRating, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	var rating models.PlayerRating
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&rating).Error
	if err == gorm.ErrRecordNotFound {
		rating = models.PlayerRating{UserID: userID, Discipline: 100}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load rating: %w", err)
	}

	if req.GamePoints != nil {
		rating.GamePoints += *req.GamePoints
	}
	if req.NonGamePoints != nil {
		rating.NonGamePoints += *req.NonGamePoints
	}
	if req.Discipline != nil {
		rating.Discipline = ClampDiscipline(*req.Discipline)
	}

	if err := s.db.WithContext(ctx).Save(&rating).Error; err != nil {
		return nil, fmt.Errorf("failed to save rating: %w", err)
	}

	if err := s.cache.InvalidateTopRatings(ctx); err != nil {
		slog.Warn("Failed to invalidate rating cache", "error", err)
	}

	slog.Info("Player rating adjusted", "user_id", userID, "rating", rating.Rating(), "reason", req.Reason)
	return &rating, nil
}

// GetRating returns one user's rating row, zero-valued if never touched.
func (s *RatingService) GetRating(ctx context.Context, userID uuid.UUID) (*models.PlayerRating, error) {
	var rating models.PlayerRating
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&rating).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &models.PlayerRating{UserID: userID, Discipline: 100}, nil
		}
		return nil, fmt.Errorf("failed to load rating: %w", err)
	}
	return &rating, nil
}

// GetTop returns the highest-rated players, served from redis when the
// cached copy is still warm.
func (s *RatingService) GetTop(ctx context.Context, limit int) ([]models.RatingEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = DefaultTopLimit
	}

	if entries, err := s.cache.GetTopRatings(ctx, limit); err != nil {
		slog.Warn("Rating cache lookup failed", "error", err)
	} else if entries != nil {
		return entries, nil
	}

	var entries []models.RatingEntry
	err := s.db.WithContext(ctx).Model(&models.PlayerRating{}).
		Select("player_ratings.user_id, users.username, player_ratings.game_points, player_ratings.non_game_points, player_ratings.discipline, player_ratings.game_points + player_ratings.non_game_points AS rating").
		Joins("JOIN users ON users.id = player_ratings.user_id AND users.deleted_at IS NULL").
		Order("rating DESC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load top ratings: %w", err)
	}

	if err := s.cache.SetTopRatings(ctx, limit, entries); err != nil {
		slog.Warn("Failed to cache top ratings", "error", err)
	}

	return entries, nil
}

// ClampDiscipline bounds a discipline score to [0,100].
func ClampDiscipline(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
