package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/teamform/wellboard/internal/database"
	"github.com/teamform/wellboard/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CacheMaxAge is how long a stored analytics result stays servable.
const CacheMaxAge = 24 * time.Hour

// MetricsRetention is how long self-reported metrics are kept.
const MetricsRetention = 365 * 24 * time.Hour

// refreshWindow is the rolling period the background refresh pass
// recomputes for every linked user.
const refreshWindow = 30 * 24 * time.Hour

// ErrStatsUnavailable is returned when the user is missing or has no
// linked Faceit account; no partial results are served in that case.
var ErrStatsUnavailable = errors.New("stats unavailable: no linked Faceit account")

// AnalyticsService computes win/loss/ELO/mood roll-ups, memoized in
// AnalyticsCache documents keyed by (user, period, game type).
type AnalyticsService struct {
	db *database.DB
}

func NewAnalyticsService(db *database.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// GetStats returns the aggregated stats for a user over an optional
// [from, to] window and game-type filter. A fresh cache document for
// the exact key is returned unchanged; otherwise the result is computed
// and, when both window bounds are present, persisted.
func (s *AnalyticsService) GetStats(ctx context.Context, userID uuid.UUID, from, to *time.Time, gameType string) (*models.PlayerStats, error) {
	account, err := s.linkedAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Postgres stores timestamps at microsecond precision; align the key
	// so a bound with sub-microsecond precision can still hit the row it
	// wrote on an earlier call
	if from != nil {
		f := TruncatePeriodBound(*from)
		from = &f
	}
	if to != nil {
		t := TruncatePeriodBound(*to)
		to = &t
	}

	cacheable := from != nil && to != nil

	if cacheable {
		if cached, err := s.lookupCache(ctx, userID, *from, *to, gameType); err != nil {
			slog.Warn("Analytics cache lookup failed", "error", err, "user_id", userID)
		} else if cached != nil {
			return cached, nil
		}
	}

	matches, err := s.loadMatches(ctx, account.ID, from, to, gameType)
	if err != nil {
		return nil, err
	}

	metrics, err := s.loadMetrics(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	stats := ComputeStats(matches, metrics)

	if cacheable {
		if err := s.storeCache(ctx, userID, *from, *to, gameType, stats); err != nil {
			slog.Warn("Failed to store analytics cache", "error", err, "user_id", userID)
		}
	}

	return stats, nil
}

// RecordMetrics appends one self-reported metrics row.
func (s *AnalyticsService) RecordMetrics(ctx context.Context, userID uuid.UUID, req models.RecordMetricsRequest) (*models.PlayerMetrics, error) {
	entry := models.PlayerMetrics{
		UserID:     userID,
		MatchID:    req.MatchID,
		Mood:       req.Mood,
		RecordedAt: orNow(req.RecordedAt),
	}

	if len(req.BalanceWheel) > 0 {
		payload, err := json.Marshal(req.BalanceWheel)
		if err != nil {
			return nil, fmt.Errorf("failed to encode balance wheel: %w", err)
		}
		entry.BalanceWheel = datatypes.JSON(payload)
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to record metrics: %w", err)
	}

	slog.Info("Player metrics recorded", "user_id", userID, "mood", req.Mood)
	return &entry, nil
}

// RefreshCache drops a user's cache documents and recomputes the
// rolling window. Cache rows are derived data, so dropping them is
// always safe.
func (s *AnalyticsService) RefreshCache(ctx context.Context, userID uuid.UUID) (*models.PlayerStats, error) {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.AnalyticsCache{}).Error; err != nil {
		return nil, fmt.Errorf("failed to clear analytics cache: %w", err)
	}

	to := time.Now().UTC()
	from := to.Add(-refreshWindow)
	return s.GetStats(ctx, userID, &from, &to, "")
}

// RefreshAllCaches recomputes the rolling window for every user with a
// linked account. One failing user never aborts the pass.
func (s *AnalyticsService) RefreshAllCaches(ctx context.Context) {
	var accounts []models.FaceitAccount
	if err := s.db.WithContext(ctx).Find(&accounts).Error; err != nil {
		slog.Error("Failed to load accounts for cache refresh", "error", err)
		return
	}

	for _, account := range accounts {
		if _, err := s.RefreshCache(ctx, account.UserID); err != nil {
			slog.Error("Cache refresh failed for user", "error", err, "user_id", account.UserID)
		}
	}
}

// RetentionSweep deletes self-reported metrics older than a year.
func (s *AnalyticsService) RetentionSweep(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-MetricsRetention)
	result := s.db.WithContext(ctx).Where("recorded_at < ?", cutoff).Delete(&models.PlayerMetrics{})
	if result.Error != nil {
		return 0, fmt.Errorf("metrics retention sweep failed: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		slog.Info("Swept expired player metrics", "deleted", result.RowsAffected)
	}
	return result.RowsAffected, nil
}

func (s *AnalyticsService) linkedAccount(ctx context.Context, userID uuid.UUID) (*models.FaceitAccount, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStatsUnavailable
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	var account models.FaceitAccount
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStatsUnavailable
		}
		return nil, fmt.Errorf("failed to load faceit account: %w", err)
	}
	return &account, nil
}

func (s *AnalyticsService) lookupCache(ctx context.Context, userID uuid.UUID, from, to time.Time, gameType string) (*models.PlayerStats, error) {
	var entry models.AnalyticsCache
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND period_start = ? AND period_end = ? AND game_type = ?", userID, from, to, gameType).
		First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	if !IsCacheFresh(entry.CalculatedAt, time.Now().UTC()) {
		return nil, nil // Stale, recompute
	}

	var stats models.PlayerStats
	if err := json.Unmarshal(entry.Stats, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode cached stats: %w", err)
	}
	return &stats, nil
}

func (s *AnalyticsService) storeCache(ctx context.Context, userID uuid.UUID, from, to time.Time, gameType string, stats *models.PlayerStats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}

	entry := models.AnalyticsCache{
		UserID:       userID,
		PeriodStart:  from,
		PeriodEnd:    to,
		GameType:     gameType,
		Stats:        datatypes.JSON(payload),
		CalculatedAt: time.Now().UTC(),
	}

	// The composite unique index guarantees at most one document per key
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "period_start"}, {Name: "period_end"}, {Name: "game_type"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"stats", "calculated_at", "updated_at"}),
	}).Create(&entry).Error
}

func (s *AnalyticsService) loadMatches(ctx context.Context, accountID uuid.UUID, from, to *time.Time, gameType string) ([]models.Match, error) {
	query := s.db.WithContext(ctx).Where("faceit_account_id = ?", accountID)
	if from != nil {
		query = query.Where("played_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("played_at <= ?", *to)
	}
	if gameType != "" {
		query = query.Where("game_type = ?", gameType)
	}

	var matches []models.Match
	if err := query.Order("played_at ASC").Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}
	return matches, nil
}

func (s *AnalyticsService) loadMetrics(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]models.PlayerMetrics, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if from != nil {
		query = query.Where("recorded_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("recorded_at <= ?", *to)
	}

	var metrics []models.PlayerMetrics
	if err := query.Order("recorded_at ASC").Find(&metrics).Error; err != nil {
		return nil, fmt.Errorf("failed to load metrics: %w", err)
	}
	return metrics, nil
}

// IsCacheFresh reports whether a cache document calculated at
// calculatedAt may still be served at now.
func IsCacheFresh(calculatedAt, now time.Time) bool {
	return now.Sub(calculatedAt) < CacheMaxAge
}

// TruncatePeriodBound drops sub-microsecond precision from a cache
// period bound, matching what postgres stores in a timestamp column.
func TruncatePeriodBound(t time.Time) time.Time {
	return t.Truncate(time.Microsecond)
}

// ComputeStats reduces matches and metrics to the stats object plus
// chart-ready series. Pure; the date/game-type filtering happens in the
// queries that feed it.
func ComputeStats(matches []models.Match, metrics []models.PlayerMetrics) *models.PlayerStats {
	stats := &models.PlayerStats{
		EloSeries:  make([]models.EloPoint, 0, len(matches)),
		MoodSeries: make([]models.MoodPoint, 0, len(metrics)),
	}

	for _, match := range matches {
		stats.TotalMatches++
		switch match.Result {
		case models.MatchResultWin:
			stats.Wins++
		case models.MatchResultLoss:
			stats.Losses++
		case models.MatchResultDraw:
			stats.Draws++
		}
		stats.AvgEloBefore += float64(match.EloBefore)
		stats.AvgEloAfter += float64(match.EloAfter)
		stats.TotalEloGain += match.EloGain
		stats.EloSeries = append(stats.EloSeries, models.EloPoint{
			PlayedAt: match.PlayedAt,
			Elo:      match.EloAfter,
		})
	}

	if stats.TotalMatches > 0 {
		n := float64(stats.TotalMatches)
		stats.WinRate = float64(stats.Wins) / n * 100
		stats.AvgEloBefore /= n
		stats.AvgEloAfter /= n
		stats.AvgEloGain = float64(stats.TotalEloGain) / n
	}

	var moodSum int
	for _, m := range metrics {
		moodSum += m.Mood
		stats.MoodSeries = append(stats.MoodSeries, models.MoodPoint{
			RecordedAt: m.RecordedAt,
			Mood:       m.Mood,
		})
	}
	if len(metrics) > 0 {
		stats.AvgMood = float64(moodSum) / float64(len(metrics))
	}

	// Latest entry carrying a balance-wheel payload is the snapshot
	for i := len(metrics) - 1; i >= 0; i-- {
		if len(metrics[i].BalanceWheel) == 0 {
			continue
		}
		var wheel map[string]int
		if err := json.Unmarshal(metrics[i].BalanceWheel, &wheel); err == nil {
			stats.BalanceWheel = wheel
			break
		}
	}

	stats.ResultCounts = models.ResultCounts{
		Wins:   stats.Wins,
		Losses: stats.Losses,
		Draws:  stats.Draws,
	}

	return stats
}
