package faceit

import "encoding/json"

// MatchOutcome is one player's entry in a match's results array.
type MatchOutcome struct {
	PlayerID string `json:"player_id"`
	Outcome  string `json:"outcome"`
}

// MatchHistoryItem is one match from the player history endpoint.
// Upstream adds and drops fields freely, so only the subset the
// importer needs is typed; Raw keeps the full payload for audit.
type MatchHistoryItem struct {
	MatchID   string         `json:"match_id"`
	GameType  string         `json:"game_type"`
	StartedAt int64          `json:"started_at"`
	EloBefore int            `json:"elo_before"`
	EloAfter  int            `json:"elo_after"`
	Results   []MatchOutcome `json:"results"`

	Raw json.RawMessage `json:"-"`
}

type matchHistoryResponse struct {
	Items []json.RawMessage `json:"items"`
}

// PlayerInfo is the subset of the player profile the OAuth callback needs.
type PlayerInfo struct {
	PlayerID string `json:"player_id"`
	Nickname string `json:"nickname"`
}
