// Package integration provides end-to-end API tests for the PMO backend.
// Tests run against an in-process gin engine backed by a SQLite database,
// so the full stack (handlers, services, repositories, event bus) is
// exercised without external infrastructure.
package integration

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pmo/backend/internal/infrastructure/persistence/models"
)

// TestDB wraps a SQLite database carrying the full application schema.
type TestDB struct {
	DB *gorm.DB
	t  *testing.T
}

// NewTestDB opens a fresh in-memory SQLite database and migrates the
// schema. Every test gets its own database, providing complete isolation.
// TranslateError makes the driver report unique violations as
// gorm.ErrDuplicatedKey, matching what the postgres path reports.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open SQLite database")

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
	require.NoError(t, err, "Failed to migrate schema")

	testDB := &TestDB{DB: db, t: t}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// Close closes the underlying database connection.
func (tdb *TestDB) Close() {
	sqlDB, err := tdb.DB.DB()
	if err != nil {
		tdb.t.Logf("Warning: Failed to get underlying SQL DB: %v", err)
		return
	}
	_ = sqlDB.Close()
}

// CleanTables removes all rows from every application table. Useful for
// tests that share a database across subtests.
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	tables := []string{
		"notifications", "activity_logs", "attachments", "time_logs",
		"task_tags", "tags", "tasks", "milestones", "project_members",
		"projects", "team_members", "teams", "users",
	}
	for _, table := range tables {
		err := tdb.DB.Exec("DELETE FROM " + table).Error
		require.NoError(tdb.t, err, "Failed to clean table %s", table)
	}
}

// WithTransaction runs a function within a transaction that is
// automatically rolled back, isolating its writes from other tests.
func (tdb *TestDB) WithTransaction(fn func(tx *gorm.DB)) {
	tdb.t.Helper()

	tx := tdb.DB.Begin()
	require.NoError(tdb.t, tx.Error, "Failed to begin transaction")

	defer func() {
		tx.Rollback()
	}()

	fn(tx)
}
