package faceit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/teamform/wellboard/internal/config"
)

// MatchHistoryLimit caps how many recent matches one import pulls.
const MatchHistoryLimit = 50

// Client talks to the Faceit data API on behalf of a linked account.
type Client struct {
	apiURL     string
	httpClient *http.Client
	oauth      *OAuth
}

// NewClient creates a Faceit client with a bounded request timeout so a
// slow upstream can never stall a sync pass.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiURL: cfg.FaceitAPIURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		oauth: NewOAuth(cfg),
	}
}

// OAuth exposes the client's OAuth helper.
func (c *Client) OAuth() *OAuth {
	return c.oauth
}

// GetPlayerMatches fetches up to limit most recent matches for a player.
func (c *Client) GetPlayerMatches(ctx context.Context, accessToken, playerID string, limit int) ([]MatchHistoryItem, error) {
	if limit <= 0 || limit > MatchHistoryLimit {
		limit = MatchHistoryLimit
	}

	endpoint := fmt.Sprintf("%s/players/%s/history?limit=%s",
		c.apiURL, url.PathEscape(playerID), strconv.Itoa(limit))

	var resp matchHistoryResponse
	if err := c.get(ctx, endpoint, accessToken, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch match history: %w", err)
	}

	items := make([]MatchHistoryItem, 0, len(resp.Items))
	for _, raw := range resp.Items {
		var item MatchHistoryItem
		if err := json.Unmarshal(raw, &item); err != nil {
			// One malformed upstream item must not sink the batch
			continue
		}
		item.Raw = raw
		items = append(items, item)
	}

	return items, nil
}

// GetPlayerInfo resolves the authenticated player's identity, used once
// on the OAuth callback to link the account.
func (c *Client) GetPlayerInfo(ctx context.Context, accessToken string) (*PlayerInfo, error) {
	var info PlayerInfo
	if err := c.get(ctx, c.apiURL+"/players/me", accessToken, &info); err != nil {
		return nil, fmt.Errorf("failed to fetch player info: %w", err)
	}
	if info.PlayerID == "" {
		return nil, fmt.Errorf("player info response missing player_id")
	}
	return &info, nil
}

// get performs an authenticated GET request and decodes the JSON response
func (c *Client) get(ctx context.Context, endpoint, accessToken string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("faceit API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
