package project

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pmo/backend/internal/domain/authz"
	"github.com/pmo/backend/internal/domain/identity"
	"github.com/pmo/backend/internal/domain/project"
	"github.com/pmo/backend/internal/domain/shared"
)

// ProjectService orchestrates project use cases: evaluate the access
// predicate, call the repository, publish domain events, map to the
// response DTO.
type ProjectService struct {
	projectRepo project.ProjectRepository
	userRepo    identity.UserRepository
	evaluator   *authz.Evaluator
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo project.ProjectRepository,
	userRepo identity.UserRepository,
	evaluator *authz.Evaluator,
	events shared.EventPublisher,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		evaluator:   evaluator,
		events:      events,
		logger:      logger,
	}
}

// Create creates a new project owned by the caller
func (s *ProjectService) Create(ctx context.Context, p authz.Principal, req CreateProjectRequest) (*ProjectResponse, error) {
	status, err := project.ParseProjectStatus(req.Status)
	if err != nil {
		return nil, err
	}
	priority, err := project.ParsePriority(req.Priority)
	if err != nil {
		return nil, err
	}

	opts := []project.ProjectOption{
		project.WithStatus(status),
		project.WithPriority(priority),
	}
	if req.Description != nil {
		opts = append(opts, project.WithDescription(*req.Description))
	}
	if req.StartDate != nil {
		opts = append(opts, project.WithStartDate(*req.StartDate))
	}
	if req.EndDate != nil {
		opts = append(opts, project.WithEndDate(*req.EndDate))
	}
	if req.Budget != nil {
		opts = append(opts, project.WithBudget(*req.Budget))
	}

	proj, err := project.NewProject(req.Name, p.ID, opts...)
	if err != nil {
		return nil, err
	}

	if err := s.projectRepo.Create(ctx, proj); err != nil {
		return nil, err
	}

	s.publish(ctx, project.NewProjectCreatedEvent(proj, p.ID))

	response := ToProjectResponse(proj)
	return &response, nil
}

// List returns all projects for admins and the accessible set for
// everyone else
func (s *ProjectService) List(ctx context.Context, p authz.Principal) ([]ProjectResponse, error) {
	var (
		projects []*project.Project
		err      error
	)
	if p.IsAdmin() {
		projects, err = s.projectRepo.FindAll(ctx)
	} else {
		projects, err = s.projectRepo.FindAccessibleByUser(ctx, p.ID)
	}
	if err != nil {
		return nil, err
	}
	return ToProjectResponses(projects), nil
}

// GetByID returns a single project the caller can access
func (s *ProjectService) GetByID(ctx context.Context, p authz.Principal, id uuid.UUID) (*ProjectResponse, error) {
	if err := s.evaluator.Evaluate(ctx, p, authz.ResourceProject, authz.OpRead, id); err != nil {
		return nil, err
	}

	proj, err := s.findProject(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToProjectResponse(proj)
	return &response, nil
}

// Update applies a partial update to a project. Only the owner or an
// admin may update; nil request fields leave the stored value unchanged.
func (s *ProjectService) Update(ctx context.Context, p authz.Principal, id uuid.UUID, req UpdateProjectRequest) (*ProjectResponse, error) {
	if err := s.evaluator.Evaluate(ctx, p, authz.ResourceProject, authz.OpUpdate, id); err != nil {
		return nil, err
	}

	proj, err := s.findProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := proj.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		proj.Description = req.Description
	}
	if req.Status != nil {
		status, err := project.ParseProjectStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		if err := proj.ChangeStatus(status); err != nil {
			return nil, err
		}
	}
	if req.Priority != nil {
		priority, err := project.ParsePriority(*req.Priority)
		if err != nil {
			return nil, err
		}
		proj.Priority = priority
	}
	if req.StartDate != nil {
		proj.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		proj.EndDate = req.EndDate
	}
	if req.Budget != nil {
		proj.Budget = req.Budget
	}
	proj.Touch()

	if err := s.projectRepo.Update(ctx, proj); err != nil {
		return nil, err
	}

	s.publish(ctx, project.NewProjectUpdatedEvent(proj, p.ID))

	response := ToProjectResponse(proj)
	return &response, nil
}

// Delete removes a project. Only the owner or an admin may delete.
func (s *ProjectService) Delete(ctx context.Context, p authz.Principal, id uuid.UUID) error {
	if err := s.evaluator.Evaluate(ctx, p, authz.ResourceProject, authz.OpDelete, id); err != nil {
		return err
	}

	proj, err := s.findProject(ctx, id)
	if err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, project.NewProjectDeletedEvent(proj, p.ID))
	return nil
}

// ListMilestones returns a project's milestones ordered by due date
func (s *ProjectService) ListMilestones(ctx context.Context, p authz.Principal, projectID uuid.UUID) ([]MilestoneResponse, error) {
	if err := s.evaluator.Evaluate(ctx, p, authz.ResourceProject, authz.OpRead, projectID); err != nil {
		return nil, err
	}

	milestones, err := s.projectRepo.FindMilestones(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return ToMilestoneResponses(milestones), nil
}

// ListMembers returns a project's membership rows
func (s *ProjectService) ListMembers(ctx context.Context, p authz.Principal, projectID uuid.UUID) ([]ProjectMemberResponse, error) {
	if err := s.evaluator.Evaluate(ctx, p, authz.ResourceProject, authz.OpRead, projectID); err != nil {
		return nil, err
	}

	members, err := s.projectRepo.FindMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return ToProjectMemberResponses(members), nil
}

// AddMember grants a user access to a project. Only the owner or an
// admin may add members.
func (s *ProjectService) AddMember(ctx context.Context, p authz.Principal, projectID uuid.UUID, req AddProjectMemberRequest) (*ProjectMemberResponse, error) {
	if err := s.evaluator.Evaluate(ctx, p, authz.ResourceProject, authz.OpAddMember, projectID); err != nil {
		return nil, err
	}

	// The new member must be a real user
	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "User not found")
		}
		return nil, err
	}

	// Check if the user is already a member
	members, err := s.projectRepo.FindMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if m.UserID == req.UserID {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "User is already a member of this project")
		}
	}

	member := project.NewProjectMember(projectID, req.UserID)
	if err := s.projectRepo.AddMember(ctx, member); err != nil {
		return nil, err
	}

	response := ToProjectMemberResponse(member)
	return &response, nil
}

// RemoveMember revokes a user's access to a project. Only the owner or
// an admin may remove members.
func (s *ProjectService) RemoveMember(ctx context.Context, p authz.Principal, projectID, userID uuid.UUID) error {
	if err := s.evaluator.Evaluate(ctx, p, authz.ResourceProject, authz.OpRemoveMember, projectID); err != nil {
		return err
	}
	return s.projectRepo.RemoveMember(ctx, projectID, userID)
}

func (s *ProjectService) findProject(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	proj, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Project not found")
		}
		return nil, err
	}
	return proj, nil
}

func (s *ProjectService) publish(ctx context.Context, event shared.DomainEvent) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	}
}
