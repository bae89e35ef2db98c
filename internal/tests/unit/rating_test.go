package unit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/teamform/wellboard/internal/models"
	"github.com/teamform/wellboard/internal/services"
)

func TestClampDiscipline(t *testing.T) {
	tests := []struct {
		name  string
		value int
		want  int
	}{
		{"Within range", 73, 73},
		{"Lower bound", 0, 0},
		{"Upper bound", 100, 100},
		{"Below range", -15, 0},
		{"Above range", 140, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.ClampDiscipline(tt.value))
		})
	}
}

func TestPlayerRatingTotal(t *testing.T) {
	rating := models.PlayerRating{GamePoints: 340, NonGamePoints: 120, Discipline: 85}
	assert.Equal(t, 460, rating.Rating())

	var zero models.PlayerRating
	assert.Equal(t, 0, zero.Rating())

	negative := models.PlayerRating{GamePoints: 50, NonGamePoints: -80}
	assert.Equal(t, -30, negative.Rating())
}
