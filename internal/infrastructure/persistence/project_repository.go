package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pmo/backend/internal/domain/project"
	"github.com/pmo/backend/internal/domain/shared"
	"github.com/pmo/backend/internal/infrastructure/persistence/models"
)

// accessibleProjects is the membership predicate shared by the access
// queries: a user reaches a project by owning it or by having a row in
// project_members. The subquery form keeps result sets deduplicated
// without DISTINCT.
const accessibleProjects = "owner_id = ? OR id IN (SELECT project_id FROM project_members WHERE user_id = ?)"

// GormProjectRepository implements project.ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(ctx context.Context, p *project.Project) error {
	model := models.ProjectModelFromDomain(p)
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// Update updates an existing project
func (r *GormProjectRepository) Update(ctx context.Context, p *project.Project) error {
	model := models.ProjectModelFromDomain(p)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a project together with its membership rows, milestones
// and tasks. Task children (tags, time logs, attachments) are removed by
// the database cascade.
func (r *GormProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMemberModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.MilestoneModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.TaskModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.ProjectModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	var model models.ProjectModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all projects, newest first
func (r *GormProjectRepository) FindAll(ctx context.Context) ([]*project.Project, error) {
	var projectModels []*models.ProjectModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&projectModels).Error; err != nil {
		return nil, err
	}
	return projectModelsToDomain(projectModels), nil
}

// FindAccessibleByUser returns the projects the user owns or is a member
// of, deduplicated, newest first
func (r *GormProjectRepository) FindAccessibleByUser(ctx context.Context, userID uuid.UUID) ([]*project.Project, error) {
	var projectModels []*models.ProjectModel
	if err := r.db.WithContext(ctx).
		Where(accessibleProjects, userID, userID).
		Order("created_at DESC").
		Find(&projectModels).Error; err != nil {
		return nil, err
	}
	return projectModelsToDomain(projectModels), nil
}

// CanUserAccess reports whether the user owns or is a member of the project
func (r *GormProjectRepository) CanUserAccess(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
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

// IsOwner reports whether the user owns the project
func (r *GormProjectRepository) IsOwner(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProjectModel{}).
		Where("id = ? AND owner_id = ?", projectID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Exists reports whether a project with the given ID exists
func (r *GormProjectRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProjectModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindMilestones returns the project's milestones ordered by due date
func (r *GormProjectRepository) FindMilestones(ctx context.Context, projectID uuid.UUID) ([]*project.Milestone, error) {
	var milestoneModels []*models.MilestoneModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("due_date ASC, created_at ASC").
		Find(&milestoneModels).Error; err != nil {
		return nil, err
	}

	milestones := make([]*project.Milestone, len(milestoneModels))
	for i, model := range milestoneModels {
		milestones[i] = model.ToDomain()
	}
	return milestones, nil
}

// AddMember grants a user access to the project. Granting access twice
// is a no-op.
func (r *GormProjectRepository) AddMember(ctx context.Context, member *project.ProjectMember) error {
	model := models.ProjectMemberModelFromDomain(member)
	return translateError(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(model).Error)
}

// RemoveMember revokes a user's access to the project
func (r *GormProjectRepository) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMemberModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindMembers returns the project's member rows
func (r *GormProjectRepository) FindMembers(ctx context.Context, projectID uuid.UUID) ([]*project.ProjectMember, error) {
	var memberModels []*models.ProjectMemberModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&memberModels).Error; err != nil {
		return nil, err
	}

	members := make([]*project.ProjectMember, len(memberModels))
	for i, model := range memberModels {
		members[i] = model.ToDomain()
	}
	return members, nil
}

func projectModelsToDomain(projectModels []*models.ProjectModel) []*project.Project {
	projects := make([]*project.Project, len(projectModels))
	for i, model := range projectModels {
		projects[i] = model.ToDomain()
	}
	return projects
}

// Ensure GormProjectRepository implements ProjectRepository
var _ project.ProjectRepository = (*GormProjectRepository)(nil)
