package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MatchResult represents the normalized outcome of an imported match
type MatchResult string

const (
	MatchResultWin  MatchResult = "win"
	MatchResultLoss MatchResult = "loss"
	MatchResultDraw MatchResult = "draw"
)

// FaceitAccount links a user to their Faceit identity and holds the
// OAuth token pair. Tokens are secrets and never serialized to JSON.
type FaceitAccount struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID         uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	User           User           `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	FaceitPlayerID string         `json:"faceit_player_id" gorm:"uniqueIndex;not null;size:64"`
	Nickname       string         `json:"nickname" gorm:"size:100"`
	AccessToken    string         `json:"-" gorm:"not null;size:2048"`
	RefreshToken   string         `json:"-" gorm:"not null;size:2048"`
	TokenExpiresAt time.Time      `json:"token_expires_at" gorm:"not null"`
	CreatedAt      time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// Match is one externally-sourced match. (faceit_account_id,
// external_match_id) is unique so a re-run of the importer can never
// duplicate a match.
type Match struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FaceitAccountID uuid.UUID      `json:"faceit_account_id" gorm:"type:uuid;not null;index"`
	FaceitAccount   FaceitAccount  `json:"-" gorm:"foreignKey:FaceitAccountID;constraint:OnDelete:CASCADE"`
	ExternalMatchID string         `json:"external_match_id" gorm:"not null;size:128"`
	GameType        string         `json:"game_type" gorm:"size:50;index"`
	Result          MatchResult    `json:"result" gorm:"type:varchar(10);not null"`
	EloBefore       int            `json:"elo_before" gorm:"default:0"`
	EloAfter        int            `json:"elo_after" gorm:"default:0"`
	EloGain         int            `json:"elo_gain" gorm:"default:0"`
	PlayedAt        time.Time      `json:"played_at" gorm:"not null;index"`
	RawPayload      datatypes.JSON `json:"raw_payload,omitempty" gorm:"type:jsonb"`
	CreatedAt       time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// PlayerMetrics is an append-only self-report: mood plus an optional
// balance-wheel snapshot, optionally tied to a match. Rows older than a
// year are swept by the retention job.
type PlayerMetrics struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	User         User           `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	MatchID      *uuid.UUID     `json:"match_id,omitempty" gorm:"type:uuid"`
	Mood         int            `json:"mood" gorm:"not null"`
	BalanceWheel datatypes.JSON `json:"balance_wheel,omitempty" gorm:"type:jsonb"`
	RecordedAt   time.Time      `json:"recorded_at" gorm:"not null;index"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

func (PlayerMetrics) TableName() string {
	return "player_metrics"
}

type RecordMetricsRequest struct {
	Mood         int             `json:"mood" validate:"required,min=1,max=10"`
	MatchID      *uuid.UUID      `json:"match_id,omitempty"`
	BalanceWheel map[string]int  `json:"balance_wheel,omitempty" validate:"omitempty,dive,min=1,max=10"`
	RecordedAt   *time.Time      `json:"recorded_at,omitempty"`
}
