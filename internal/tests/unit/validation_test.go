package unit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/teamform/wellboard/internal/models"
	"github.com/teamform/wellboard/internal/validation"
)

func TestValidateCreateUserRequest(t *testing.T) {
	tests := []struct {
		name      string
		request   models.CreateUserRequest
		wantError bool
		errorMsg  string
	}{
		{
			name: "Valid request",
			request: models.CreateUserRequest{
				Email:    "player@example.com",
				Username: "aim_bot_01",
				Password: "Password123!",
			},
			wantError: false,
		},
		{
			name: "Missing email",
			request: models.CreateUserRequest{
				Username: "aim_bot_01",
				Password: "Password123!",
			},
			wantError: true,
			errorMsg:  "email is required",
		},
		{
			name: "Invalid email format",
			request: models.CreateUserRequest{
				Email:    "not-an-email",
				Username: "aim_bot_01",
				Password: "Password123!",
			},
			wantError: true,
			errorMsg:  "email must be a valid email address",
		},
		{
			name: "Username too short",
			request: models.CreateUserRequest{
				Email:    "player@example.com",
				Username: "ab",
				Password: "Password123!",
			},
			wantError: true,
			errorMsg:  "username must be at least 3 characters long",
		},
		{
			name: "Username with invalid characters",
			request: models.CreateUserRequest{
				Email:    "player@example.com",
				Username: "aim-bot!",
				Password: "Password123!",
			},
			wantError: true,
			errorMsg:  "username must contain only letters, numbers, and underscores",
		},
		{
			name: "Weak password",
			request: models.CreateUserRequest{
				Email:    "player@example.com",
				Username: "aim_bot_01",
				Password: "password123",
			},
			wantError: true,
			errorMsg:  "password must contain at least one uppercase letter, one lowercase letter, one number, and one special character",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(&tt.request)
			if tt.wantError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateMoodEntryBounds(t *testing.T) {
	tests := []struct {
		name      string
		request   models.CreateMoodEntryRequest
		wantError bool
	}{
		{
			name: "Valid entry",
			request: models.CreateMoodEntryRequest{
				Mood:      7,
				Energy:    5,
				TimeOfDay: models.TimeOfDayMorning,
			},
			wantError: false,
		},
		{
			name: "Boundary values",
			request: models.CreateMoodEntryRequest{
				Mood:      1,
				Energy:    10,
				TimeOfDay: models.TimeOfDayEvening,
			},
			wantError: false,
		},
		{
			name: "Mood above range",
			request: models.CreateMoodEntryRequest{
				Mood:      11,
				Energy:    5,
				TimeOfDay: models.TimeOfDayMorning,
			},
			wantError: true,
		},
		{
			name: "Energy below range",
			request: models.CreateMoodEntryRequest{
				Mood:      5,
				Energy:    -2,
				TimeOfDay: models.TimeOfDayMorning,
			},
			wantError: true,
		},
		{
			name: "Unknown time of day",
			request: models.CreateMoodEntryRequest{
				Mood:      5,
				Energy:    5,
				TimeOfDay: "midnight",
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(&tt.request)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBalanceWheelBounds(t *testing.T) {
	valid := models.CreateBalanceWheelRequest{
		Physical:      5,
		Emotional:     6,
		Intellectual:  7,
		Spiritual:     4,
		Occupational:  8,
		Social:        6,
		Environmental: 5,
		Financial:     3,
	}
	assert.NoError(t, validation.Validate(&valid))

	outOfRange := valid
	outOfRange.Financial = 12
	assert.Error(t, validation.Validate(&outOfRange))

	missing := valid
	missing.Physical = 0
	assert.Error(t, validation.Validate(&missing))
}

func TestValidateRecordMetricsRequest(t *testing.T) {
	valid := models.RecordMetricsRequest{
		Mood:         8,
		BalanceWheel: map[string]int{"physical": 6, "social": 9},
	}
	assert.NoError(t, validation.Validate(&valid))

	badDimension := models.RecordMetricsRequest{
		Mood:         8,
		BalanceWheel: map[string]int{"physical": 0},
	}
	assert.Error(t, validation.Validate(&badDimension))

	badMood := models.RecordMetricsRequest{Mood: 42}
	assert.Error(t, validation.Validate(&badMood))
}
