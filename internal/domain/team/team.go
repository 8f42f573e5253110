package team

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/shared"
)

// TeamMemberRole represents the role of a user inside a team
type TeamMemberRole string

const (
	MemberRoleLead   TeamMemberRole = "lead"
	MemberRoleMember TeamMemberRole = "member"
)

// ParseTeamMemberRole parses a membership role string. An empty string
// yields the default member role.
func ParseTeamMemberRole(s string) (TeamMemberRole, error) {
	switch TeamMemberRole(strings.ToLower(strings.TrimSpace(s))) {
	case MemberRoleLead:
		return MemberRoleLead, nil
	case MemberRoleMember:
		return MemberRoleMember, nil
	case "":
		return MemberRoleMember, nil
	}
	return "", shared.NewDomainError("VALIDATION_ERROR", "Invalid team member role")
}

// IsValid reports whether the role is one of the known values
func (r TeamMemberRole) IsValid() bool {
	return r == MemberRoleLead || r == MemberRoleMember
}

// String returns the lowercase wire representation
func (r TeamMemberRole) String() string {
	return string(r)
}

// Team groups users under an optional lead. The lead_id column is the
// single source of authority for team management; membership role is
// informational only.
type Team struct {
	shared.BaseEntity
	Name        string
	Description *string
	LeadID      *uuid.UUID
}

// TeamOption configures optional fields at creation time
type TeamOption func(*Team)

// WithDescription sets the team description
func WithDescription(description string) TeamOption {
	return func(t *Team) {
		t.Description = &description
	}
}

// WithLead sets the team lead
func WithLead(userID uuid.UUID) TeamOption {
	return func(t *Team) {
		t.LeadID = &userID
	}
}

// NewTeam creates a new team
func NewTeam(name string, opts ...TeamOption) (*Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Team name cannot be empty")
	}

	t := &Team{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t, nil
}

// Rename changes the team name
func (t *Team) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Team name cannot be empty")
	}
	t.Name = name
	t.Touch()
	return nil
}

// IsLedBy reports whether the given user is the team lead
func (t *Team) IsLedBy(userID uuid.UUID) bool {
	return t.LeadID != nil && *t.LeadID == userID
}

// TeamMember is a row in the team membership list
type TeamMember struct {
	ID       uuid.UUID
	TeamID   uuid.UUID
	UserID   uuid.UUID
	Role     TeamMemberRole
	JoinedAt time.Time
}

// NewTeamMember adds a user to a team with the given role
func NewTeamMember(teamID, userID uuid.UUID, role TeamMemberRole) (*TeamMember, error) {
	if role == "" {
		role = MemberRoleMember
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid team member role")
	}
	return &TeamMember{
		ID:       uuid.New(),
		TeamID:   teamID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now(),
	}, nil
}
