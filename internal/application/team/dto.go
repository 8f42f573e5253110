package team

import (
	"time"

	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/team"
)

// CreateTeamRequest is the request to create a team
type CreateTeamRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=200"`
	Description *string    `json:"description"`
	LeadID      *uuid.UUID `json:"lead_id"`
}

// UpdateTeamRequest is the request to update a team. Nil fields are
// left unchanged.
type UpdateTeamRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description"`
	LeadID      *uuid.UUID `json:"lead_id"`
}

// AddTeamMemberRequest is the request to add a user to a team
type AddTeamMemberRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Role   string    `json:"role" binding:"omitempty,oneof=lead member"`
}

// TeamResponse is the team representation returned to clients
type TeamResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	LeadID      *uuid.UUID `json:"lead_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TeamMemberResponse is one row of a team's membership list
type TeamMemberResponse struct {
	ID       uuid.UUID `json:"id"`
	TeamID   uuid.UUID `json:"team_id"`
	UserID   uuid.UUID `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// ToTeamResponse converts a domain team to a response DTO
func ToTeamResponse(t *team.Team) TeamResponse {
	return TeamResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		LeadID:      t.LeadID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ToTeamResponses converts a slice of domain teams to response DTOs
func ToTeamResponses(teams []*team.Team) []TeamResponse {
	responses := make([]TeamResponse, len(teams))
	for i, t := range teams {
		responses[i] = ToTeamResponse(t)
	}
	return responses
}

// ToTeamMemberResponse converts a domain team member to a response DTO
func ToTeamMemberResponse(m *team.TeamMember) TeamMemberResponse {
	return TeamMemberResponse{
		ID:       m.ID,
		TeamID:   m.TeamID,
		UserID:   m.UserID,
		Role:     m.Role.String(),
		JoinedAt: m.JoinedAt,
	}
}

// ToTeamMemberResponses converts a slice of team members to response DTOs
func ToTeamMemberResponses(members []*team.TeamMember) []TeamMemberResponse {
	responses := make([]TeamMemberResponse, len(members))
	for i, m := range members {
		responses[i] = ToTeamMemberResponse(m)
	}
	return responses
}
