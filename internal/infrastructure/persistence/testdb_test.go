package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pmo/backend/internal/infrastructure/persistence/models"
)

// setupTestDB opens an in-memory SQLite database with the full schema.
// TranslateError makes the driver report unique violations as
// gorm.ErrDuplicatedKey, mirroring what the postgres path reports
// through translateError.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.UserModel{},
		&models.ProjectModel{},
		&models.ProjectMemberModel{},
		&models.MilestoneModel{},
		&models.TaskModel{},
		&models.TeamModel{},
		&models.TeamMemberModel{},
		&models.TagModel{},
		&models.TaskTagModel{},
		&models.TimeLogModel{},
		&models.AttachmentModel{},
		&models.NotificationModel{},
		&models.ActivityLogModel{},
	)
	require.NoError(t, err)

	return db
}
