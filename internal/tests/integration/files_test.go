package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/teamform/wellboard/internal/database"
	"github.com/teamform/wellboard/internal/models"
	"github.com/teamform/wellboard/internal/services"
	"gorm.io/gorm"
)

type FileCascadeTestSuite struct {
	suite.Suite
	db        *database.DB
	uploadDir string
	files     *services.FileService
	owner     *models.User
}

func (suite *FileCascadeTestSuite) SetupSuite() {
	suite.db = openTestDB(suite.T())
	suite.uploadDir = suite.T().TempDir()

	files, err := services.NewFileService(suite.db, suite.uploadDir)
	require.NoError(suite.T(), err)
	suite.files = files
}

func (suite *FileCascadeTestSuite) SetupTest() {
	suite.db.Exec("TRUNCATE TABLE files, users RESTART IDENTITY CASCADE")

	owner := models.User{
		Email:        "player@example.com",
		Username:     "aim_bot_01",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(suite.T(), suite.db.Create(&owner).Error)
	suite.owner = &owner
}

func (suite *FileCascadeTestSuite) TearDownSuite() {
	if suite.db != nil {
		suite.db.Exec("TRUNCATE TABLE files, users RESTART IDENTITY CASCADE")
		suite.db.Close()
	}
}

func (suite *FileCascadeTestSuite) upload(parentID *uuid.UUID, name, content string) *models.File {
	file, err := suite.files.Upload(context.Background(), suite.owner.ID, parentID, name, "text/plain", strings.NewReader(content))
	require.NoError(suite.T(), err)
	return file
}

func (suite *FileCascadeTestSuite) payloadPath(file *models.File) string {
	var record models.File
	require.NoError(suite.T(), suite.db.Unscoped().First(&record, "id = ?", file.ID).Error)
	return filepath.Join(suite.uploadDir, record.StoredName)
}

func (suite *FileCascadeTestSuite) TestDeleteFolderCascades() {
	ctx := context.Background()

	root, err := suite.files.CreateFolder(ctx, suite.owner.ID, models.CreateFolderRequest{Name: "vods"})
	require.NoError(suite.T(), err)

	child, err := suite.files.CreateFolder(ctx, suite.owner.ID, models.CreateFolderRequest{Name: "finals", ParentID: &root.ID})
	require.NoError(suite.T(), err)

	rootFile := suite.upload(&root.ID, "scrim-notes.txt", "scrim notes")
	grandchild := suite.upload(&child.ID, "round-16.txt", "round sixteen review")
	keeper := suite.upload(nil, "keep-me.txt", "outside the deleted tree")

	rootFilePath := suite.payloadPath(rootFile)
	grandchildPath := suite.payloadPath(grandchild)
	keeperPath := suite.payloadPath(keeper)

	require.FileExists(suite.T(), rootFilePath)
	require.FileExists(suite.T(), grandchildPath)

	require.NoError(suite.T(), suite.files.Delete(ctx, root.ID, suite.owner.ID, false))

	// Every record in the subtree is gone, grandchildren included
	for _, id := range []uuid.UUID{root.ID, child.ID, rootFile.ID, grandchild.ID} {
		var record models.File
		err := suite.db.First(&record, "id = ?", id).Error
		assert.ErrorIs(suite.T(), err, gorm.ErrRecordNotFound)
	}

	// Payloads are removed from disk
	_, err = os.Stat(rootFilePath)
	assert.True(suite.T(), os.IsNotExist(err))
	_, err = os.Stat(grandchildPath)
	assert.True(suite.T(), os.IsNotExist(err))

	// A sibling outside the deleted tree is untouched
	var surviving models.File
	assert.NoError(suite.T(), suite.db.First(&surviving, "id = ?", keeper.ID).Error)
	assert.FileExists(suite.T(), keeperPath)
}

func (suite *FileCascadeTestSuite) TestDeleteFileRequiresOwnershipOrStaff() {
	ctx := context.Background()

	file := suite.upload(nil, "private.txt", "owner only")

	intruder := models.User{
		Email:        "intruder@example.com",
		Username:     "not_the_owner",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(suite.T(), suite.db.Create(&intruder).Error)

	err := suite.files.Delete(ctx, file.ID, intruder.ID, false)
	assert.ErrorIs(suite.T(), err, services.ErrForbidden)

	// Staff may delete any user's file
	require.NoError(suite.T(), suite.files.Delete(ctx, file.ID, intruder.ID, true))

	var record models.File
	err = suite.db.First(&record, "id = ?", file.ID).Error
	assert.ErrorIs(suite.T(), err, gorm.ErrRecordNotFound)
}

func TestFileCascadeSuite(t *testing.T) {
	suite.Run(t, new(FileCascadeTestSuite))
}
