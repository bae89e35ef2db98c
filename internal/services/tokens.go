package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/teamform/wellboard/internal/database"
	"github.com/teamform/wellboard/internal/faceit"
	"github.com/teamform/wellboard/internal/models"
)

// RefreshWindow is how far ahead of expiry a token gets refreshed.
const RefreshWindow = time.Hour

// TokenService keeps stored OAuth token pairs from expiring.
type TokenService struct {
	db    *database.DB
	oauth *faceit.OAuth
}

func NewTokenService(db *database.DB, oauth *faceit.OAuth) *TokenService {
	return &TokenService{
		db:    db,
		oauth: oauth,
	}
}

// RefreshExpiring scans accounts whose token expires within the refresh
// window and exchanges each stored refresh token for a new pair. A
// failure on one account is logged and the rest are still processed.
func (s *TokenService) RefreshExpiring(ctx context.Context) int {
	cutoff := time.Now().UTC().Add(RefreshWindow)

	var accounts []models.FaceitAccount
	if err := s.db.WithContext(ctx).Where("token_expires_at < ?", cutoff).Find(&accounts).Error; err != nil {
		slog.Error("Failed to load accounts for token refresh", "error", err)
		return 0
	}

	refreshed := 0
	for _, account := range accounts {
		if err := s.refreshAccount(ctx, &account); err != nil {
			slog.Error("Token refresh failed for account", "error", err, "account", account.FaceitPlayerID)
			continue
		}
		refreshed++
	}

	if len(accounts) > 0 {
		slog.Info("Token refresh pass complete", "candidates", len(accounts), "refreshed", refreshed)
	}
	return refreshed
}

func (s *TokenService) refreshAccount(ctx context.Context, account *models.FaceitAccount) error {
	pair, err := s.oauth.Refresh(ctx, account.RefreshToken)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(account).Updates(map[string]interface{}{
		"access_token":     pair.AccessToken,
		"refresh_token":    pair.RefreshToken,
		"token_expires_at": pair.ExpiresAt,
	}).Error
}

// NeedsRefresh reports whether a token expiring at expiresAt falls
// inside the refresh window at now.
func NeedsRefresh(expiresAt, now time.Time) bool {
	return expiresAt.Before(now.Add(RefreshWindow))
}
