package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlayerRating accumulates staff-awarded points per user. Discipline is
// bounded to [0,100]; rating is derived, never stored.
type PlayerRating struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	User          User           `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	GamePoints    int            `json:"game_points" gorm:"default:0"`
	NonGamePoints int            `json:"non_game_points" gorm:"default:0"`
	Discipline    int            `json:"discipline" gorm:"default:100"`
	CreatedAt     time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// Rating is the derived total shown on leaderboards.
func (pr *PlayerRating) Rating() int {
	return pr.GamePoints + pr.NonGamePoints
}

type AdjustRatingRequest struct {
	GamePoints    *int   `json:"game_points,omitempty"`
	NonGamePoints *int   `json:"non_game_points,omitempty"`
	Discipline    *int   `json:"discipline,omitempty"`
	Reason        string `json:"reason" validate:"max=500"`
}

// RatingEntry is one row of the top-ratings response.
type RatingEntry struct {
	UserID        uuid.UUID `json:"user_id"`
	Username      string    `json:"username"`
	GamePoints    int       `json:"game_points"`
	NonGamePoints int       `json:"non_game_points"`
	Discipline    int       `json:"discipline"`
	Rating        int       `json:"rating"`
}
