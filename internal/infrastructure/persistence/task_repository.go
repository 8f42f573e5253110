package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pmo/backend/internal/domain/shared"
	"github.com/pmo/backend/internal/domain/task"
	"github.com/pmo/backend/internal/infrastructure/persistence/models"
)

// accessibleTaskProjects restricts tasks to projects the user owns or
// is a member of. Tasks carry no ACL of their own; everything routes
// through the owning project.
const accessibleTaskProjects = "project_id IN (SELECT id FROM projects WHERE owner_id = ? UNION SELECT project_id FROM project_members WHERE user_id = ?)"

// GormTaskRepository implements task.TaskRepository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// Create persists a new task
func (r *GormTaskRepository) Create(ctx context.Context, t *task.Task) error {
	model := models.TaskModelFromDomain(t)
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// Update persists changes to an existing task
func (r *GormTaskRepository) Update(ctx context.Context, t *task.Task) error {
	model := models.TaskModelFromDomain(t)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a task and its dependent rows
func (r *GormTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskTagModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TimeLogModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.AttachmentModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.TaskModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID retrieves a task by its ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	var model models.TaskModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll retrieves all tasks, newest first
func (r *GormTaskRepository) FindAll(ctx context.Context) ([]*task.Task, error) {
	var taskModels []*models.TaskModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&taskModels).Error; err != nil {
		return nil, err
	}
	return taskModelsToDomain(taskModels), nil
}

// FindByProject retrieves all tasks of a project, newest first
func (r *GormTaskRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*task.Task, error) {
	var taskModels []*models.TaskModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&taskModels).Error; err != nil {
		return nil, err
	}
	return taskModelsToDomain(taskModels), nil
}

// FindByAssignee retrieves all tasks assigned to a user, newest first
func (r *GormTaskRepository) FindByAssignee(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	var taskModels []*models.TaskModel
	if err := r.db.WithContext(ctx).
		Where("assignee_id = ?", userID).
		Order("created_at DESC").
		Find(&taskModels).Error; err != nil {
		return nil, err
	}
	return taskModelsToDomain(taskModels), nil
}

// FindAccessibleByUser retrieves tasks in projects the user owns or is
// a member of, newest first
func (r *GormTaskRepository) FindAccessibleByUser(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	var taskModels []*models.TaskModel
	if err := r.db.WithContext(ctx).
		Where(accessibleTaskProjects, userID, userID).
		Order("created_at DESC").
		Find(&taskModels).Error; err != nil {
		return nil, err
	}
	return taskModelsToDomain(taskModels), nil
}

// FindDueBetween retrieves unfinished assigned tasks whose due date
// falls inside the inclusive window
func (r *GormTaskRepository) FindDueBetween(ctx context.Context, from, to time.Time) ([]*task.Task, error) {
	var taskModels []*models.TaskModel
	if err := r.db.WithContext(ctx).
		Where("due_date IS NOT NULL AND due_date >= ? AND due_date <= ?", from, to).
		Where("assignee_id IS NOT NULL").
		Where("status <> ?", task.StatusDone.String()).
		Order("due_date ASC").
		Find(&taskModels).Error; err != nil {
		return nil, err
	}
	return taskModelsToDomain(taskModels), nil
}

// Exists reports whether a task with the given ID exists
func (r *GormTaskRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CanUserAccess reports whether the user owns or is a member of the
// task's project
func (r *GormTaskRepository) CanUserAccess(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("id = ?", taskID).
		Where(accessibleTaskProjects, userID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsProjectOwner reports whether the user owns the task's project
func (r *GormTaskRepository) IsProjectOwner(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("id = ?", taskID).
		Where("project_id IN (SELECT id FROM projects WHERE owner_id = ?)", userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CanAccessProject reports whether the user owns or is a member of the
// given project. Task creation checks the target project before any
// task row exists.
func (r *GormTaskRepository) CanAccessProject(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProjectModel{}).
		Where("id = ?", projectID).
		Where(accessibleProjects, userID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func taskModelsToDomain(taskModels []*models.TaskModel) []*task.Task {
	tasks := make([]*task.Task, len(taskModels))
	for i, model := range taskModels {
		tasks[i] = model.ToDomain()
	}
	return tasks
}

// Ensure GormTaskRepository implements TaskRepository
var _ task.TaskRepository = (*GormTaskRepository)(nil)
