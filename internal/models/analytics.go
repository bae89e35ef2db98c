package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AnalyticsCache memoizes one computed stats result per
// (user, period_start, period_end, game_type) key. Rows are derived
// data only: safe to delete and regenerate at any time.
type AnalyticsCache struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	User         User           `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	PeriodStart  time.Time      `json:"period_start" gorm:"not null"`
	PeriodEnd    time.Time      `json:"period_end" gorm:"not null"`
	GameType     string         `json:"game_type" gorm:"size:50;not null;default:''"`
	Stats        datatypes.JSON `json:"stats" gorm:"type:jsonb;not null"`
	CalculatedAt time.Time      `json:"calculated_at" gorm:"not null"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

func (AnalyticsCache) TableName() string {
	return "analytics_caches"
}

// PlayerStats is the aggregation result served by the analytics
// endpoint and stored in the cache document.
type PlayerStats struct {
	TotalMatches int     `json:"total_matches"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Draws        int     `json:"draws"`
	WinRate      float64 `json:"win_rate"`
	AvgEloBefore float64 `json:"avg_elo_before"`
	AvgEloAfter  float64 `json:"avg_elo_after"`
	TotalEloGain int     `json:"total_elo_gain"`
	AvgEloGain   float64 `json:"avg_elo_gain"`
	AvgMood      float64 `json:"avg_mood"`

	EloSeries    []EloPoint     `json:"elo_series"`
	MoodSeries   []MoodPoint    `json:"mood_series"`
	BalanceWheel map[string]int `json:"balance_wheel,omitempty"`
	ResultCounts ResultCounts   `json:"result_counts"`
}

type EloPoint struct {
	PlayedAt time.Time `json:"played_at"`
	Elo      int       `json:"elo"`
}

type MoodPoint struct {
	RecordedAt time.Time `json:"recorded_at"`
	Mood       int       `json:"mood"`
}

type ResultCounts struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}
