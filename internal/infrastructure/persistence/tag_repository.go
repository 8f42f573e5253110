package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pmo/backend/internal/domain/shared"
	"github.com/pmo/backend/internal/domain/tag"
	"github.com/pmo/backend/internal/infrastructure/persistence/models"
)

// GormTagRepository implements tag.TagRepository using GORM
type GormTagRepository struct {
	db *gorm.DB
}

// NewGormTagRepository creates a new GormTagRepository
func NewGormTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

// Create persists a new tag. The unique index on name turns races
// between duplicate-name checks into an already-exists error.
func (r *GormTagRepository) Create(ctx context.Context, t *tag.Tag) error {
	model := models.TagModelFromDomain(t)
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// Update persists changes to an existing tag
func (r *GormTagRepository) Update(ctx context.Context, t *tag.Tag) error {
	model := models.TagModelFromDomain(t)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a tag and its task links
func (r *GormTagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&models.TaskTagModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.TagModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID retrieves a tag by its ID
func (r *GormTagRepository) FindByID(ctx context.Context, id uuid.UUID) (*tag.Tag, error) {
	var model models.TagModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName retrieves a tag by exact, case-sensitive name
func (r *GormTagRepository) FindByName(ctx context.Context, name string) (*tag.Tag, error) {
	var model models.TagModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll retrieves all tags ordered by name
func (r *GormTagRepository) FindAll(ctx context.Context) ([]*tag.Tag, error) {
	var tagModels []*models.TagModel
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&tagModels).Error; err != nil {
		return nil, err
	}
	return tagModelsToDomain(tagModels), nil
}

// FindTagsByTask retrieves a task's tags ordered by name
func (r *GormTagRepository) FindTagsByTask(ctx context.Context, taskID uuid.UUID) ([]*tag.Tag, error) {
	var tagModels []*models.TagModel
	if err := r.db.WithContext(ctx).
		Joins("JOIN task_tags ON task_tags.tag_id = tags.id").
		Where("task_tags.task_id = ?", taskID).
		Order("tags.name ASC").
		Find(&tagModels).Error; err != nil {
		return nil, err
	}
	return tagModelsToDomain(tagModels), nil
}

// AddTagToTask links a tag to a task; linking twice is a no-op
func (r *GormTagRepository) AddTagToTask(ctx context.Context, tt *tag.TaskTag) error {
	model := models.TaskTagModelFromDomain(tt)
	return translateError(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}, {Name: "tag_id"}},
			DoNothing: true,
		}).
		Create(model).Error)
}

// RemoveTagFromTask unlinks a tag from a task
func (r *GormTagRepository) RemoveTagFromTask(ctx context.Context, taskID, tagID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("task_id = ? AND tag_id = ?", taskID, tagID).
		Delete(&models.TaskTagModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetTaskTags replaces a task's tag set with the given tag IDs. The
// delete and inserts run in one transaction so readers never observe a
// half-replaced set.
func (r *GormTagRepository) SetTaskTags(ctx context.Context, taskID uuid.UUID, tagIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskTagModel{}).Error; err != nil {
			return err
		}

		if len(tagIDs) == 0 {
			return nil
		}

		links := make([]*models.TaskTagModel, len(tagIDs))
		for i, tagID := range tagIDs {
			links[i] = models.TaskTagModelFromDomain(tag.NewTaskTag(taskID, tagID))
		}
		return tx.Create(&links).Error
	})
}

func tagModelsToDomain(tagModels []*models.TagModel) []*tag.Tag {
	tags := make([]*tag.Tag, len(tagModels))
	for i, model := range tagModels {
		tags[i] = model.ToDomain()
	}
	return tags
}

// Ensure GormTagRepository implements TagRepository
var _ tag.TagRepository = (*GormTagRepository)(nil)
