package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pmo/backend/internal/domain/activity"
	"github.com/pmo/backend/internal/infrastructure/persistence/models"
)

// activityDetailSelect joins the acting user's name and the project
// name into the feed view. LEFT JOINs keep rows readable after the
// referenced user or project is gone.
const activityDetailSelect = `
SELECT activity_logs.id, activity_logs.user_id, activity_logs.project_id,
       activity_logs.action, activity_logs.entity_type, activity_logs.entity_id,
       activity_logs.details, activity_logs.created_at,
       users.name AS user_name, projects.name AS project_name
FROM activity_logs
LEFT JOIN users ON users.id = activity_logs.user_id
LEFT JOIN projects ON projects.id = activity_logs.project_id`

// activityDetailRow is the scan target for the joined feed view
type activityDetailRow struct {
	ID          uuid.UUID
	UserID      *uuid.UUID
	ProjectID   *uuid.UUID
	Action      string
	EntityType  string
	EntityID    uuid.UUID
	Details     json.RawMessage
	CreatedAt   time.Time
	UserName    *string
	ProjectName *string
}

func (row *activityDetailRow) toDomain() *activity.ActivityLogWithDetails {
	return &activity.ActivityLogWithDetails{
		ID:          row.ID,
		UserID:      row.UserID,
		UserName:    row.UserName,
		ProjectID:   row.ProjectID,
		ProjectName: row.ProjectName,
		Action:      row.Action,
		EntityType:  row.EntityType,
		EntityID:    row.EntityID,
		Details:     row.Details,
		CreatedAt:   row.CreatedAt,
	}
}

// GormActivityLogRepository implements activity.ActivityLogRepository
// using GORM
type GormActivityLogRepository struct {
	db *gorm.DB
}

// NewGormActivityLogRepository creates a new GormActivityLogRepository
func NewGormActivityLogRepository(db *gorm.DB) *GormActivityLogRepository {
	return &GormActivityLogRepository{db: db}
}

// Create persists a new activity row
func (r *GormActivityLogRepository) Create(ctx context.Context, log *activity.ActivityLog) error {
	model := models.ActivityLogModelFromDomain(log)
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// FindAll retrieves a page of the global activity feed, newest first
func (r *GormActivityLogRepository) FindAll(ctx context.Context, limit, offset int) ([]*activity.ActivityLogWithDetails, error) {
	var rows []activityDetailRow
	if err := r.db.WithContext(ctx).
		Raw(activityDetailSelect+" ORDER BY activity_logs.created_at DESC LIMIT ? OFFSET ?", limit, offset).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return activityRowsToDomain(rows), nil
}

// FindByProject retrieves a project's recent activity, newest first
func (r *GormActivityLogRepository) FindByProject(ctx context.Context, projectID uuid.UUID, limit int) ([]*activity.ActivityLogWithDetails, error) {
	var rows []activityDetailRow
	if err := r.db.WithContext(ctx).
		Raw(activityDetailSelect+" WHERE activity_logs.project_id = ? ORDER BY activity_logs.created_at DESC LIMIT ?", projectID, limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return activityRowsToDomain(rows), nil
}

// FindByUser retrieves a user's recent activity, newest first
func (r *GormActivityLogRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*activity.ActivityLogWithDetails, error) {
	var rows []activityDetailRow
	if err := r.db.WithContext(ctx).
		Raw(activityDetailSelect+" WHERE activity_logs.user_id = ? ORDER BY activity_logs.created_at DESC LIMIT ?", userID, limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return activityRowsToDomain(rows), nil
}

// Count returns the total number of activity rows
func (r *GormActivityLogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ActivityLogModel{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func activityRowsToDomain(rows []activityDetailRow) []*activity.ActivityLogWithDetails {
	logs := make([]*activity.ActivityLogWithDetails, len(rows))
	for i := range rows {
		logs[i] = rows[i].toDomain()
	}
	return logs
}

// Ensure GormActivityLogRepository implements ActivityLogRepository
var _ activity.ActivityLogRepository = (*GormActivityLogRepository)(nil)
