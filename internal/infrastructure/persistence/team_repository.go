package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pmo/backend/internal/domain/shared"
	"github.com/pmo/backend/internal/domain/team"
	"github.com/pmo/backend/internal/infrastructure/persistence/models"
)

// accessibleTeams matches teams the user leads or belongs to. Lead
// status comes exclusively from teams.lead_id; the membership role
// column never grants authority.
const accessibleTeams = "lead_id = ? OR id IN (SELECT team_id FROM team_members WHERE user_id = ?)"

// GormTeamRepository implements team.TeamRepository using GORM
type GormTeamRepository struct {
	db *gorm.DB
}

// NewGormTeamRepository creates a new GormTeamRepository
func NewGormTeamRepository(db *gorm.DB) *GormTeamRepository {
	return &GormTeamRepository{db: db}
}

// Create persists a new team
func (r *GormTeamRepository) Create(ctx context.Context, t *team.Team) error {
	model := models.TeamModelFromDomain(t)
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// Update persists changes to an existing team
func (r *GormTeamRepository) Update(ctx context.Context, t *team.Team) error {
	model := models.TeamModelFromDomain(t)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a team and its membership rows
func (r *GormTeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMemberModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.TeamModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID retrieves a team by its ID
func (r *GormTeamRepository) FindByID(ctx context.Context, id uuid.UUID) (*team.Team, error) {
	var model models.TeamModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll retrieves all teams, newest first
func (r *GormTeamRepository) FindAll(ctx context.Context) ([]*team.Team, error) {
	var teamModels []*models.TeamModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&teamModels).Error; err != nil {
		return nil, err
	}
	return teamModelsToDomain(teamModels), nil
}

// FindAccessibleByUser retrieves teams the user leads or belongs to,
// newest first
func (r *GormTeamRepository) FindAccessibleByUser(ctx context.Context, userID uuid.UUID) ([]*team.Team, error) {
	var teamModels []*models.TeamModel
	if err := r.db.WithContext(ctx).
		Where(accessibleTeams, userID, userID).
		Order("created_at DESC").
		Find(&teamModels).Error; err != nil {
		return nil, err
	}
	return teamModelsToDomain(teamModels), nil
}

// Exists reports whether a team with the given ID exists
func (r *GormTeamRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TeamModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CanUserAccess reports whether the user leads or belongs to the team
func (r *GormTeamRepository) CanUserAccess(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TeamModel{}).
		Where("id = ?", teamID).
		Where(accessibleTeams, userID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsLead reports whether the user is the team lead
func (r *GormTeamRepository) IsLead(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TeamModel{}).
		Where("id = ? AND lead_id = ?", teamID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddMember inserts a membership row; adding the same user twice is a
// no-op
func (r *GormTeamRepository) AddMember(ctx context.Context, member *team.TeamMember) error {
	model := models.TeamMemberModelFromDomain(member)
	return translateError(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "team_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(model).Error)
}

// RemoveMember deletes a membership row
func (r *GormTeamRepository) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.TeamMemberModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindMembers retrieves the membership list, newest join first
func (r *GormTeamRepository) FindMembers(ctx context.Context, teamID uuid.UUID) ([]*team.TeamMember, error) {
	var memberModels []*models.TeamMemberModel
	if err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("joined_at DESC").
		Find(&memberModels).Error; err != nil {
		return nil, err
	}

	members := make([]*team.TeamMember, len(memberModels))
	for i, model := range memberModels {
		members[i] = model.ToDomain()
	}
	return members, nil
}

func teamModelsToDomain(teamModels []*models.TeamModel) []*team.Team {
	teams := make([]*team.Team, len(teamModels))
	for i, model := range teamModels {
		teams[i] = model.ToDomain()
	}
	return teams
}

// Ensure GormTeamRepository implements TeamRepository
var _ team.TeamRepository = (*GormTeamRepository)(nil)
