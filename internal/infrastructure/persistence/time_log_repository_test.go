package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pmo/backend/internal/domain/identity"
	"github.com/pmo/backend/internal/domain/shared"
	"github.com/pmo/backend/internal/domain/shared/valueobject"
	"github.com/pmo/backend/internal/domain/timelog"
)

func createTestUser(t *testing.T, db *gorm.DB, name, email string) *identity.User {
	t.Helper()

	u, err := identity.NewUser(valueobject.MustNewEmail(email), "hash", name, identity.RoleMember)
	require.NoError(t, err)
	require.NoError(t, NewGormUserRepository(db).Create(context.Background(), u))
	return u
}

func createTestTimeLog(t *testing.T, repo *GormTimeLogRepository, taskID, userID uuid.UUID, hours float32, date time.Time, age time.Duration) *timelog.TimeLog {
	t.Helper()

	l, err := timelog.NewTimeLog(taskID, userID, hours, date, nil)
	require.NoError(t, err)
	l.CreatedAt = time.Now().Add(-age)
	l.UpdatedAt = l.CreatedAt
	require.NoError(t, repo.Create(context.Background(), l))
	return l
}

func TestGormTimeLogRepository_FindByID_JoinsNames(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTimeLogRepository(db)
	projectRepo := NewGormProjectRepository(db)
	taskRepo := NewGormTaskRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "Dana", "dana@example.com")
	p := createTestProject(t, projectRepo, user.ID, "Reporting", time.Hour)
	tk := createTestTask(t, taskRepo, p.ID, "Quarterly numbers", time.Minute)

	desc := "Crunched the spreadsheets"
	l, err := timelog.NewTimeLog(tk.ID, user.ID, 3.5, time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC), &desc)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, l))

	found, err := repo.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, tk.ID, found.TaskID)
	assert.Equal(t, user.ID, found.UserID)
	assert.InDelta(t, 3.5, float64(found.Hours), 0.001)
	require.NotNil(t, found.Description)
	assert.Equal(t, "Crunched the spreadsheets", *found.Description)

	// The date keeps day precision only.
	assert.True(t, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC).Equal(found.Date))

	require.NotNil(t, found.TaskName)
	assert.Equal(t, "Quarterly numbers", *found.TaskName)
	require.NotNil(t, found.ProjectName)
	assert.Equal(t, "Reporting", *found.ProjectName)
	require.NotNil(t, found.UserName)
	assert.Equal(t, "Dana", *found.UserName)
}

func TestGormTimeLogRepository_FindByID_MissingJoinRows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTimeLogRepository(db)
	ctx := context.Background()

	// Neither the task nor the user row exists; the entry must still load.
	l := createTestTimeLog(t, repo, uuid.New(), uuid.New(), 1, time.Now(), time.Hour)

	found, err := repo.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Nil(t, found.TaskName)
	assert.Nil(t, found.ProjectName)
	assert.Nil(t, found.UserName)
}

func TestGormTimeLogRepository_FindByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTimeLogRepository(db)

	found, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Nil(t, found)
}

func TestGormTimeLogRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTimeLogRepository(db)
	ctx := context.Background()

	l := createTestTimeLog(t, repo, uuid.New(), uuid.New(), 2, time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC), time.Hour)

	require.NoError(t, l.SetHours(4.25))
	l.SetDate(time.Date(2026, 8, 11, 18, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Update(ctx, l))

	found, err := repo.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.25, float64(found.Hours), 0.001)
	assert.True(t, time.Date(2026, 8, 11, 0, 0, 0, 0, time.UTC).Equal(found.Date))
}

func TestGormTimeLogRepository_Update_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTimeLogRepository(db)

	ghost, err := timelog.NewTimeLog(uuid.New(), uuid.New(), 1, time.Now(), nil)
	require.NoError(t, err)

	err = repo.Update(context.Background(), ghost)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormTimeLogRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTimeLogRepository(db)
	ctx := context.Background()

	l := createTestTimeLog(t, repo, uuid.New(), uuid.New(), 1, time.Now(), time.Hour)

	require.NoError(t, repo.Delete(ctx, l.ID))

	_, err := repo.FindByID(ctx, l.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = repo.Delete(ctx, l.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormTimeLogRepository_FindByUser_DateWindow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTimeLogRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	taskID := uuid.New()

	day := func(d int) time.Time { return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC) }

	before := createTestTimeLog(t, repo, taskID, userID, 1, day(1), 4*time.Hour)
	inside1 := createTestTimeLog(t, repo, taskID, userID, 2, day(10), 3*time.Hour)
	inside2 := createTestTimeLog(t, repo, taskID, userID, 3, day(15), 2*time.Hour)
	after := createTestTimeLog(t, repo, taskID, userID, 4, day(25), time.Hour)
	createTestTimeLog(t, repo, taskID, uuid.New(), 5, day(12), time.Hour)

	// No window: everything, newest date first.
	all, err := repo.FindByUser(ctx, userID, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, after.ID, all[0].ID)
	assert.Equal(t, before.ID, all[3].ID)

	// Inclusive window keeps the boundary days.
	start := day(10)
	end := day(15)
	windowed, err := repo.FindByUser(ctx, userID, &start, &end)
	require.NoError(t, err)
	require.Len(t, windowed, 2)
	assert.Equal(t, inside2.ID, windowed[0].ID)
	assert.Equal(t, inside1.ID, windowed[1].ID)

	// Open-ended lower bound.
	fromOnly, err := repo.FindByUser(ctx, userID, &start, nil)
	require.NoError(t, err)
	assert.Len(t, fromOnly, 3)
}

func TestGormTimeLogRepository_FindByTask_Ordering(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTimeLogRepository(db)
	ctx := context.Background()

	taskID := uuid.New()
	sameDay := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)

	// Same day: the later-created entry wins the tie.
	earlier := createTestTimeLog(t, repo, taskID, uuid.New(), 1, sameDay, 2*time.Hour)
	later := createTestTimeLog(t, repo, taskID, uuid.New(), 2, sameDay, time.Minute)
	previousDay := createTestTimeLog(t, repo, taskID, uuid.New(), 3, sameDay.AddDate(0, 0, -1), time.Hour)
	createTestTimeLog(t, repo, uuid.New(), uuid.New(), 4, sameDay, time.Hour)

	logs, err := repo.FindByTask(ctx, taskID)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, later.ID, logs[0].ID)
	assert.Equal(t, earlier.ID, logs[1].ID)
	assert.Equal(t, previousDay.ID, logs[2].ID)
}
