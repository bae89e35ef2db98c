package unit

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamform/wellboard/internal/auth"
	"github.com/teamform/wellboard/internal/models"
)

func TestJWTRoundTrip(t *testing.T) {
	manager := auth.NewJWTManager("test-secret-key", "wellboard")
	userID := uuid.New()

	token, err := manager.GenerateToken(userID, "aim_bot_01", "player@example.com", string(models.UserRolePlayer))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "aim_bot_01", claims.Username)
	assert.Equal(t, "player@example.com", claims.Email)
	assert.Equal(t, string(models.UserRolePlayer), claims.Role)
	assert.Equal(t, "wellboard", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(auth.TokenLifetime), claims.ExpiresAt.Time, time.Minute)
}

func TestJWTRejectsTamperedToken(t *testing.T) {
	manager := auth.NewJWTManager("test-secret-key", "wellboard")

	token, err := manager.GenerateToken(uuid.New(), "aim_bot_01", "player@example.com", string(models.UserRolePlayer))
	require.NoError(t, err)

	_, err = manager.ValidateToken(token + "x")
	assert.Error(t, err)

	_, err = manager.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	issuing := auth.NewJWTManager("secret-a", "wellboard")
	validating := auth.NewJWTManager("secret-b", "wellboard")

	token, err := issuing.GenerateToken(uuid.New(), "aim_bot_01", "player@example.com", string(models.UserRoleAdmin))
	require.NoError(t, err)

	_, err = validating.ValidateToken(token)
	assert.Error(t, err)
}

func TestExtractTokenFromBearer(t *testing.T) {
	manager := auth.NewJWTManager("test-secret-key", "wellboard")

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"Valid bearer", "Bearer abc123", "abc123"},
		{"Missing prefix", "abc123", ""},
		{"Empty header", "", ""},
		{"Prefix only", "Bearer ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, manager.ExtractTokenFromBearer(tt.header))
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	password := "Password123!"

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	assert.NotEqual(t, password, hash)

	assert.NoError(t, auth.VerifyPassword(password, hash))
	assert.Error(t, auth.VerifyPassword("WrongPassword1!", hash))
}

func TestGenerateState(t *testing.T) {
	a, err := auth.GenerateState(16)
	require.NoError(t, err)
	b, err := auth.GenerateState(16)
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
