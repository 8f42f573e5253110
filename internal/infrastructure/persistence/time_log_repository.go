package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pmo/backend/internal/domain/shared"
	"github.com/pmo/backend/internal/domain/timelog"
	"github.com/pmo/backend/internal/infrastructure/persistence/models"
)

// timeLogDetailSelect joins the task, project and user names into the
// read view. LEFT JOINs keep rows alive when the referenced task or
// user has been deleted.
const timeLogDetailSelect = `
SELECT time_logs.id, time_logs.task_id, time_logs.user_id, time_logs.hours,
       time_logs.date, time_logs.description, time_logs.created_at, time_logs.updated_at,
       tasks.title AS task_name, projects.name AS project_name, users.name AS user_name
FROM time_logs
LEFT JOIN tasks ON tasks.id = time_logs.task_id
LEFT JOIN projects ON projects.id = tasks.project_id
LEFT JOIN users ON users.id = time_logs.user_id`

// timeLogDetailRow is the scan target for the joined read view
type timeLogDetailRow struct {
	ID          uuid.UUID
	TaskID      uuid.UUID
	UserID      uuid.UUID
	Hours       float32
	Date        time.Time
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	TaskName    *string
	ProjectName *string
	UserName    *string
}

func (row *timeLogDetailRow) toDomain() *timelog.TimeLogWithDetails {
	return &timelog.TimeLogWithDetails{
		TimeLog: timelog.TimeLog{
			BaseEntity: shared.BaseEntity{
				ID:        row.ID,
				CreatedAt: row.CreatedAt,
				UpdatedAt: row.UpdatedAt,
			},
			TaskID:      row.TaskID,
			UserID:      row.UserID,
			Hours:       row.Hours,
			Date:        row.Date,
			Description: row.Description,
		},
		TaskName:    row.TaskName,
		ProjectName: row.ProjectName,
		UserName:    row.UserName,
	}
}

// GormTimeLogRepository implements timelog.TimeLogRepository using GORM
type GormTimeLogRepository struct {
	db *gorm.DB
}

// NewGormTimeLogRepository creates a new GormTimeLogRepository
func NewGormTimeLogRepository(db *gorm.DB) *GormTimeLogRepository {
	return &GormTimeLogRepository{db: db}
}

// Create persists a new time log
func (r *GormTimeLogRepository) Create(ctx context.Context, l *timelog.TimeLog) error {
	model := models.TimeLogModelFromDomain(l)
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// Update persists changes to an existing time log
func (r *GormTimeLogRepository) Update(ctx context.Context, l *timelog.TimeLog) error {
	model := models.TimeLogModelFromDomain(l)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a time log by ID
func (r *GormTimeLogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TimeLogModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID retrieves a time log with names joined in
func (r *GormTimeLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*timelog.TimeLogWithDetails, error) {
	var rows []timeLogDetailRow
	if err := r.db.WithContext(ctx).
		Raw(timeLogDetailSelect+" WHERE time_logs.id = ?", id).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.ErrNotFound
	}
	return rows[0].toDomain(), nil
}

// FindByUser retrieves a user's time logs, optionally restricted to an
// inclusive date window, ordered by date then creation time, newest
// first
func (r *GormTimeLogRepository) FindByUser(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]*timelog.TimeLogWithDetails, error) {
	query := timeLogDetailSelect + " WHERE time_logs.user_id = ?"
	args := []any{userID}

	if start != nil {
		query += " AND time_logs.date >= ?"
		args = append(args, *start)
	}
	if end != nil {
		query += " AND time_logs.date <= ?"
		args = append(args, *end)
	}
	query += " ORDER BY time_logs.date DESC, time_logs.created_at DESC"

	var rows []timeLogDetailRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return detailRowsToDomain(rows), nil
}

// FindByTask retrieves all time logs recorded against a task, ordered
// by date then creation time, newest first
func (r *GormTimeLogRepository) FindByTask(ctx context.Context, taskID uuid.UUID) ([]*timelog.TimeLogWithDetails, error) {
	var rows []timeLogDetailRow
	if err := r.db.WithContext(ctx).
		Raw(timeLogDetailSelect+" WHERE time_logs.task_id = ? ORDER BY time_logs.date DESC, time_logs.created_at DESC", taskID).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return detailRowsToDomain(rows), nil
}

func detailRowsToDomain(rows []timeLogDetailRow) []*timelog.TimeLogWithDetails {
	logs := make([]*timelog.TimeLogWithDetails, len(rows))
	for i := range rows {
		logs[i] = rows[i].toDomain()
	}
	return logs
}

// Ensure GormTimeLogRepository implements TimeLogRepository
var _ timelog.TimeLogRepository = (*GormTimeLogRepository)(nil)
