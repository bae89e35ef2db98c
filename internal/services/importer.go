package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/teamform/wellboard/internal/database"
	"github.com/teamform/wellboard/internal/faceit"
	"github.com/teamform/wellboard/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ImportService pulls match history from Faceit and writes new Match
// records, deduplicated by external match ID.
type ImportService struct {
	db        *database.DB
	faceit    *faceit.Client
	analytics *AnalyticsService
}

func NewImportService(db *database.DB, client *faceit.Client, analytics *AnalyticsService) *ImportService {
	return &ImportService{
		db:        db,
		faceit:    client,
		analytics: analytics,
	}
}

// ImportMatches fetches up to 50 recent matches for the account and
// creates a record for each one not already present. Returns the count
// of newly imported matches; re-running against unchanged history
// imports zero.
func (s *ImportService) ImportMatches(ctx context.Context, account *models.FaceitAccount) (int, error) {
	items, err := s.faceit.GetPlayerMatches(ctx, account.AccessToken, account.FaceitPlayerID, faceit.MatchHistoryLimit)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch matches for account %s: %w", account.FaceitPlayerID, err)
	}

	imported := 0
	for _, item := range items {
		if item.MatchID == "" {
			continue
		}

		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Match{}).
			Where("faceit_account_id = ? AND external_match_id = ?", account.ID, item.MatchID).
			Count(&count).Error; err != nil {
			slog.Error("Failed to check for existing match", "error", err, "match_id", item.MatchID)
			continue
		}
		if count > 0 {
			continue
		}

		match := models.Match{
			FaceitAccountID: account.ID,
			ExternalMatchID: item.MatchID,
			GameType:        item.GameType,
			Result:          DeriveResult(item.Results, account.FaceitPlayerID),
			EloBefore:       item.EloBefore,
			EloAfter:        item.EloAfter,
			EloGain:         item.EloAfter - item.EloBefore,
			PlayedAt:        time.Unix(item.StartedAt, 0).UTC(),
			RawPayload:      datatypes.JSON(item.Raw),
		}

		if err := s.db.WithContext(ctx).Create(&match).Error; err != nil {
			// A concurrent import may have won the race; the unique
			// index keeps the data correct either way
			if database.IsUniqueConstraintError(err) {
				continue
			}
			slog.Error("Failed to create match", "error", err, "match_id", item.MatchID)
			continue
		}
		imported++
	}

	if imported > 0 {
		slog.Info("Imported new matches", "account", account.FaceitPlayerID, "count", imported)
	}
	return imported, nil
}

// SyncAllUserMatches imports matches for every linked account, one at a
// time to keep external API usage bounded, then refreshes the analytics
// caches. One failing account never aborts the pass.
func (s *ImportService) SyncAllUserMatches(ctx context.Context) {
	var accounts []models.FaceitAccount
	if err := s.db.WithContext(ctx).Find(&accounts).Error; err != nil {
		slog.Error("Failed to load accounts for match sync", "error", err)
		return
	}

	total := 0
	for _, account := range accounts {
		imported, err := s.ImportMatches(ctx, &account)
		if err != nil {
			slog.Error("Match sync failed for account", "error", err, "account", account.FaceitPlayerID)
			continue
		}
		total += imported
	}

	slog.Info("Match sync pass complete", "accounts", len(accounts), "imported", total)

	s.analytics.RefreshAllCaches(ctx)
}

// AccountForUser loads the linked account for a user, or
// gorm.ErrRecordNotFound when none exists.
func (s *ImportService) AccountForUser(ctx context.Context, userID uuid.UUID) (*models.FaceitAccount, error) {
	var account models.FaceitAccount
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load faceit account: %w", err)
	}
	return &account, nil
}

// DeriveResult normalizes the outcome entry matching the player's
// external ID: "win" maps to win, any other present outcome to loss,
// and an absent entry to draw.
func DeriveResult(results []faceit.MatchOutcome, playerID string) models.MatchResult {
	for _, outcome := range results {
		if outcome.PlayerID != playerID {
			continue
		}
		if outcome.Outcome == "win" {
			return models.MatchResultWin
		}
		return models.MatchResultLoss
	}
	return models.MatchResultDraw
}
