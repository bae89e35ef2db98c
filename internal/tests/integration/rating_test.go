package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/teamform/wellboard/internal/cache"
	"github.com/teamform/wellboard/internal/config"
	"github.com/teamform/wellboard/internal/database"
	"github.com/teamform/wellboard/internal/models"
	"github.com/teamform/wellboard/internal/services"
)

type RatingIntegrationTestSuite struct {
	suite.Suite
	db     *database.DB
	cache  *cache.RatingCache
	rating *services.RatingService
}

func (suite *RatingIntegrationTestSuite) SetupSuite() {
	suite.db = openTestDB(suite.T())

	ratingCache, err := cache.NewRatingCache(config.Load())
	if err != nil {
		suite.T().Skipf("test redis unavailable: %v", err)
	}
	suite.cache = ratingCache

	suite.rating = services.NewRatingService(suite.db, ratingCache)
}

func (suite *RatingIntegrationTestSuite) SetupTest() {
	suite.db.Exec("TRUNCATE TABLE player_ratings, users RESTART IDENTITY CASCADE")
}

func (suite *RatingIntegrationTestSuite) TearDownSuite() {
	if suite.cache != nil {
		suite.cache.Close()
	}
	if suite.db != nil {
		suite.db.Exec("TRUNCATE TABLE player_ratings, users RESTART IDENTITY CASCADE")
		suite.db.Close()
	}
}

func (suite *RatingIntegrationTestSuite) TestAdjustPointsUnknownUser() {
	delta := 10
	_, err := suite.rating.AdjustPoints(context.Background(), uuid.New(), models.AdjustRatingRequest{
		GamePoints: &delta,
		Reason:     "tournament placement",
	})

	assert.ErrorIs(suite.T(), err, services.ErrUserNotFound)
}

func (suite *RatingIntegrationTestSuite) TestAdjustPointsCreatesAndAccumulates() {
	user := models.User{
		Email:        "player@example.com",
		Username:     "aim_bot_01",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(suite.T(), suite.db.Create(&user).Error)

	game, nonGame := 50, 20
	rating, err := suite.rating.AdjustPoints(context.Background(), user.ID, models.AdjustRatingRequest{
		GamePoints:    &game,
		NonGamePoints: &nonGame,
		Reason:        "tournament placement",
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 70, rating.Rating())
	assert.Equal(suite.T(), 100, rating.Discipline)

	// Second adjustment accumulates and clamps discipline
	game = -30
	discipline := 140
	rating, err = suite.rating.AdjustPoints(context.Background(), user.ID, models.AdjustRatingRequest{
		GamePoints: &game,
		Discipline: &discipline,
		Reason:     "missed practice",
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 40, rating.Rating())
	assert.Equal(suite.T(), 100, rating.Discipline)
}

func TestRatingIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RatingIntegrationTestSuite))
}
