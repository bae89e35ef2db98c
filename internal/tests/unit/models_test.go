package unit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/teamform/wellboard/internal/models"
)

func TestUserIsStaff(t *testing.T) {
	tests := []struct {
		role models.UserRole
		want bool
	}{
		{models.UserRolePlayer, false},
		{models.UserRoleStaff, true},
		{models.UserRoleAdmin, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			user := models.User{Role: tt.role}
			assert.Equal(t, tt.want, user.IsStaff())
		})
	}
}

func TestBalanceWheelDimensions(t *testing.T) {
	wheel := models.BalanceWheel{
		Physical:      5,
		Emotional:     6,
		Intellectual:  7,
		Spiritual:     4,
		Occupational:  8,
		Social:        6,
		Environmental: 5,
		Financial:     3,
	}

	dims := wheel.Dimensions()
	assert.Len(t, dims, 8)
	assert.Equal(t, 5, dims["physical"])
	assert.Equal(t, 8, dims["occupational"])
	assert.Equal(t, 3, dims["financial"])
}
