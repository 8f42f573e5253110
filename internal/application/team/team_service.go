package team

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pmo/backend/internal/domain/authz"
	"github.com/pmo/backend/internal/domain/identity"
	"github.com/pmo/backend/internal/domain/shared"
	"github.com/pmo/backend/internal/domain/team"
)

// TeamService handles team-related use cases
type TeamService struct {
	teamRepo  team.TeamRepository
	userRepo  identity.UserRepository
	evaluator *authz.Evaluator
	events    shared.EventPublisher
	logger    *zap.Logger
}

// NewTeamService creates a new team service
func NewTeamService(
	teamRepo team.TeamRepository,
	userRepo identity.UserRepository,
	evaluator *authz.Evaluator,
	events shared.EventPublisher,
	logger *zap.Logger,
) *TeamService {
	return &TeamService{
		teamRepo:  teamRepo,
		userRepo:  userRepo,
		evaluator: evaluator,
		events:    events,
		logger:    logger,
	}
}

// Create creates a new team. The lead, when given, gains authority
// through the lead_id column alone; no membership row is written.
func (s *TeamService) Create(ctx context.Context, p authz.Principal, req CreateTeamRequest) (*TeamResponse, error) {
	var opts []team.TeamOption
	if req.Description != nil {
		opts = append(opts, team.WithDescription(*req.Description))
	}
	if req.LeadID != nil {
		opts = append(opts, team.WithLead(*req.LeadID))
	}

	t, err := team.NewTeam(req.Name, opts...)
	if err != nil {
		return nil, err
	}

	if err := s.teamRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.publish(ctx, team.NewTeamCreatedEvent(t, p.ID))

	response := ToTeamResponse(t)
	return &response, nil
}

// List returns all teams for admins, otherwise teams the caller leads
// or belongs to
func (s *TeamService) List(ctx context.Context, p authz.Principal) ([]TeamResponse, error) {
	var (
		teams []*team.Team
		err   error
	)
	if p.IsAdmin() {
		teams, err = s.teamRepo.FindAll(ctx)
	} else {
		teams, err = s.teamRepo.FindAccessibleByUser(ctx, p.ID)
	}
	if err != nil {
		return nil, err
	}
	return ToTeamResponses(teams), nil
}

// GetByID returns a single team
func (s *TeamService) GetByID(ctx context.Context, p authz.Principal, id uuid.UUID) (*TeamResponse, error) {
	if err := s.evaluator.Evaluate(ctx, p, authz.ResourceTeam, authz.OpRead, id); err != nil {
		return nil, err
	}

	t, err := s.findTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToTeamResponse(t)
	return &response, nil
}

// Update applies a partial update to a team. Only the lead (or an
// admin) may update.
func (s *TeamService) Update(ctx context.Context, p authz.Principal, id uuid.UUID, req UpdateTeamRequest) (*TeamResponse, error) {
	if err := s.evaluator.Evaluate(ctx, p, authz.ResourceTeam, authz.OpUpdate, id); err != nil {
		return nil, err
	}

	t, err := s.findTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := t.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.LeadID != nil {
		t.LeadID = req.LeadID
	}
	t.Touch()

	if err := s.teamRepo.Update(ctx, t); err != nil {
		return nil, err
	}

	s.publish(ctx, team.NewTeamUpdatedEvent(t, p.ID))

	response := ToTeamResponse(t)
	return &response, nil
}

// Delete removes a team and its membership rows
func (s *TeamService) Delete(ctx context.Context, p authz.Principal, id uuid.UUID) error {
	if err := s.evaluator.Evaluate(ctx, p, authz.ResourceTeam, authz.OpDelete, id); err != nil {
		return err
	}

	t, err := s.findTeam(ctx, id)
	if err != nil {
		return err
	}

	if err := s.teamRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, team.NewTeamDeletedEvent(t, p.ID))
	return nil
}

// ListMembers returns the membership list of a team the caller can
// access
func (s *TeamService) ListMembers(ctx context.Context, p authz.Principal, teamID uuid.UUID) ([]TeamMemberResponse, error) {
	if err := s.evaluator.Evaluate(ctx, p, authz.ResourceTeam, authz.OpRead, teamID); err != nil {
		return nil, err
	}
	members, err := s.teamRepo.FindMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return ToTeamMemberResponses(members), nil
}

// AddMember adds a user to a team. Only the lead (or an admin) may add
// members.
func (s *TeamService) AddMember(ctx context.Context, p authz.Principal, teamID uuid.UUID, req AddTeamMemberRequest) (*TeamMemberResponse, error) {
	if err := s.evaluator.Evaluate(ctx, p, authz.ResourceTeam, authz.OpAddMember, teamID); err != nil {
		return nil, err
	}

	t, err := s.findTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "User not found")
		}
		return nil, err
	}

	// Check if the user is already a member
	members, err := s.teamRepo.FindMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if m.UserID == req.UserID {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "User is already a member of this team")
		}
	}

	role, err := team.ParseTeamMemberRole(req.Role)
	if err != nil {
		return nil, err
	}
	member, err := team.NewTeamMember(teamID, req.UserID, role)
	if err != nil {
		return nil, err
	}

	if err := s.teamRepo.AddMember(ctx, member); err != nil {
		return nil, err
	}

	s.publish(ctx, team.NewTeamMemberAddedEvent(t, member, p.ID))

	response := ToTeamMemberResponse(member)
	return &response, nil
}

func (s *TeamService) findTeam(ctx context.Context, id uuid.UUID) (*team.Team, error) {
	t, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Team not found")
		}
		return nil, err
	}
	return t, nil
}

func (s *TeamService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if err := s.events.Publish(ctx, events...); err != nil {
		for _, e := range events {
			s.logger.Warn("failed to publish event", zap.String("event_type", e.EventType()), zap.Error(err))
		}
	}
}
