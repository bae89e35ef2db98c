package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/teamform/wellboard/internal/auth"
	"github.com/teamform/wellboard/internal/database"
	"github.com/teamform/wellboard/internal/faceit"
	"github.com/teamform/wellboard/internal/models"
	"gorm.io/gorm"
)

// stateTTL bounds how long an OAuth state parameter stays redeemable.
const stateTTL = 10 * time.Minute

// ErrInvalidState is returned when a callback carries an unknown or
// expired state parameter.
var ErrInvalidState = fmt.Errorf("invalid or expired OAuth state")

type pendingState struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// FaceitService links users to their Faceit accounts through the OAuth
// authorization-code flow. State parameters live in memory; this is a
// single-instance service.
type FaceitService struct {
	db     *database.DB
	client *faceit.Client

	mu     sync.Mutex
	states map[string]pendingState
}

func NewFaceitService(db *database.DB, client *faceit.Client) *FaceitService {
	return &FaceitService{
		db:     db,
		client: client,
		states: make(map[string]pendingState),
	}
}

// BeginLink starts the OAuth flow for a user and returns the consent
// URL plus the state parameter.
func (s *FaceitService) BeginLink(userID uuid.UUID) (authURL, state string, err error) {
	state, err = auth.GenerateState(16)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate state: %w", err)
	}

	s.mu.Lock()
	s.pruneLocked(time.Now())
	s.states[state] = pendingState{
		userID:    userID,
		expiresAt: time.Now().Add(stateTTL),
	}
	s.mu.Unlock()

	return s.client.OAuth().AuthCodeURL(state), state, nil
}

// CompleteLink redeems the callback: verifies state, exchanges the
// code, resolves the player identity and upserts the linked account.
func (s *FaceitService) CompleteLink(ctx context.Context, state, code string) (*models.FaceitAccount, error) {
	s.mu.Lock()
	pending, ok := s.states[state]
	delete(s.states, state)
	s.mu.Unlock()

	if !ok || time.Now().After(pending.expiresAt) {
		return nil, ErrInvalidState
	}

	pair, err := s.client.OAuth().Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	info, err := s.client.GetPlayerInfo(ctx, pair.AccessToken)
	if err != nil {
		return nil, err
	}

	var account models.FaceitAccount
	err = s.db.WithContext(ctx).Where("user_id = ?", pending.userID).First(&account).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		account = models.FaceitAccount{
			UserID:         pending.userID,
			FaceitPlayerID: info.PlayerID,
			Nickname:       info.Nickname,
			AccessToken:    pair.AccessToken,
			RefreshToken:   pair.RefreshToken,
			TokenExpiresAt: pair.ExpiresAt,
		}
		if err := s.db.WithContext(ctx).Create(&account).Error; err != nil {
			return nil, fmt.Errorf("failed to link faceit account: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to load faceit account: %w", err)
	default:
		account.FaceitPlayerID = info.PlayerID
		account.Nickname = info.Nickname
		account.AccessToken = pair.AccessToken
		account.RefreshToken = pair.RefreshToken
		account.TokenExpiresAt = pair.ExpiresAt
		if err := s.db.WithContext(ctx).Save(&account).Error; err != nil {
			return nil, fmt.Errorf("failed to update faceit account: %w", err)
		}
	}

	slog.Info("Faceit account linked", "user_id", pending.userID, "nickname", info.Nickname)
	return &account, nil
}

func (s *FaceitService) pruneLocked(now time.Time) {
	for state, pending := range s.states {
		if now.After(pending.expiresAt) {
			delete(s.states, state)
		}
	}
}
