package unit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/teamform/wellboard/internal/services"
)

func TestNeedsRefresh(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"Already expired", now.Add(-time.Hour), true},
		{"Expires in 30 minutes", now.Add(30 * time.Minute), true},
		{"Expires just inside the window", now.Add(services.RefreshWindow - time.Second), true},
		{"Expires exactly at the window edge", now.Add(services.RefreshWindow), false},
		{"Expires in two hours", now.Add(2 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.NeedsRefresh(tt.expiresAt, now))
		})
	}
}
