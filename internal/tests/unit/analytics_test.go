package unit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamform/wellboard/internal/models"
	"github.com/teamform/wellboard/internal/services"
	"gorm.io/datatypes"
)

func matchAt(result models.MatchResult, eloBefore, eloAfter int, playedAt time.Time) models.Match {
	return models.Match{
		Result:    result,
		EloBefore: eloBefore,
		EloAfter:  eloAfter,
		EloGain:   eloAfter - eloBefore,
		PlayedAt:  playedAt,
	}
}

func TestComputeStats(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	var matches []models.Match
	elo := 1500
	// 6 wins (+25 each), 2 losses (-20 each), 2 draws (0)
	results := []models.MatchResult{
		models.MatchResultWin, models.MatchResultWin, models.MatchResultLoss,
		models.MatchResultWin, models.MatchResultDraw, models.MatchResultWin,
		models.MatchResultLoss, models.MatchResultWin, models.MatchResultDraw,
		models.MatchResultWin,
	}
	for i, r := range results {
		delta := 0
		switch r {
		case models.MatchResultWin:
			delta = 25
		case models.MatchResultLoss:
			delta = -20
		}
		matches = append(matches, matchAt(r, elo, elo+delta, base.Add(time.Duration(i)*time.Hour)))
		elo += delta
	}

	stats := services.ComputeStats(matches, nil)

	assert.Equal(t, 10, stats.TotalMatches)
	assert.Equal(t, 6, stats.Wins)
	assert.Equal(t, 2, stats.Losses)
	assert.Equal(t, 2, stats.Draws)
	assert.InDelta(t, 60.0, stats.WinRate, 0.001)

	// 6*25 - 2*20 = 110 total, 11.0 average
	assert.Equal(t, 110, stats.TotalEloGain)
	assert.InDelta(t, 11.0, stats.AvgEloGain, 0.001)

	require.Len(t, stats.EloSeries, 10)
	assert.Equal(t, 1610, stats.EloSeries[9].Elo)
	assert.Equal(t, models.ResultCounts{Wins: 6, Losses: 2, Draws: 2}, stats.ResultCounts)
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := services.ComputeStats(nil, nil)

	assert.Equal(t, 0, stats.TotalMatches)
	assert.Equal(t, 0.0, stats.WinRate)
	assert.Equal(t, 0.0, stats.AvgMood)
	assert.Empty(t, stats.EloSeries)
	assert.Empty(t, stats.MoodSeries)
	assert.Nil(t, stats.BalanceWheel)
}

func TestComputeStatsMoodAndWheel(t *testing.T) {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	metrics := []models.PlayerMetrics{
		{Mood: 4, RecordedAt: base, BalanceWheel: datatypes.JSON(`{"physical":3,"social":5}`)},
		{Mood: 8, RecordedAt: base.Add(24 * time.Hour)},
		{Mood: 6, RecordedAt: base.Add(48 * time.Hour), BalanceWheel: datatypes.JSON(`{"physical":7,"social":6}`)},
	}

	stats := services.ComputeStats(nil, metrics)

	assert.InDelta(t, 6.0, stats.AvgMood, 0.001)
	require.Len(t, stats.MoodSeries, 3)
	assert.Equal(t, 8, stats.MoodSeries[1].Mood)

	// Latest entry with a payload wins; entries without one are skipped
	require.NotNil(t, stats.BalanceWheel)
	assert.Equal(t, 7, stats.BalanceWheel["physical"])
	assert.Equal(t, 6, stats.BalanceWheel["social"])
}

func TestTruncatePeriodBound(t *testing.T) {
	precise := time.Date(2026, 8, 1, 12, 0, 0, 123456789, time.UTC)

	got := services.TruncatePeriodBound(precise)
	assert.Equal(t, 123456000, got.Nanosecond())

	// Already-truncated bounds pass through unchanged
	assert.True(t, got.Equal(services.TruncatePeriodBound(got)))

	// Two renderings of the same instant differing only below the
	// microsecond produce the same cache key
	other := time.Date(2026, 8, 1, 12, 0, 0, 123456001, time.UTC)
	assert.True(t, got.Equal(services.TruncatePeriodBound(other)))
}

func TestIsCacheFresh(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		calculatedAt time.Time
		want         bool
	}{
		{"Just calculated", now, true},
		{"One hour old", now.Add(-time.Hour), true},
		{"Just under a day", now.Add(-services.CacheMaxAge + time.Second), true},
		{"Exactly a day", now.Add(-services.CacheMaxAge), false},
		{"Two days old", now.Add(-48 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.IsCacheFresh(tt.calculatedAt, now))
		})
	}
}
