package unit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/teamform/wellboard/internal/faceit"
	"github.com/teamform/wellboard/internal/models"
	"github.com/teamform/wellboard/internal/services"
)

func TestDeriveResult(t *testing.T) {
	const playerID = "faceit-player-1"

	tests := []struct {
		name    string
		results []faceit.MatchOutcome
		want    models.MatchResult
	}{
		{
			name: "Win outcome",
			results: []faceit.MatchOutcome{
				{PlayerID: "someone-else", Outcome: "loss"},
				{PlayerID: playerID, Outcome: "win"},
			},
			want: models.MatchResultWin,
		},
		{
			name: "Explicit loss",
			results: []faceit.MatchOutcome{
				{PlayerID: playerID, Outcome: "loss"},
			},
			want: models.MatchResultLoss,
		},
		{
			name: "Unknown outcome counts as loss",
			results: []faceit.MatchOutcome{
				{PlayerID: playerID, Outcome: "forfeit"},
			},
			want: models.MatchResultLoss,
		},
		{
			name: "Player absent from results",
			results: []faceit.MatchOutcome{
				{PlayerID: "someone-else", Outcome: "win"},
			},
			want: models.MatchResultDraw,
		},
		{
			name:    "Empty results",
			results: nil,
			want:    models.MatchResultDraw,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.DeriveResult(tt.results, playerID))
		})
	}
}
