package handler

import (
	"github.com/gin-gonic/gin"

	teamapp "github.com/pmo/backend/internal/application/team"
)

// TeamHandler handles team endpoints and the member sub-resource
type TeamHandler struct {
	BaseHandler
	service *teamapp.TeamService
}

// NewTeamHandler creates a new TeamHandler
func NewTeamHandler(service *teamapp.TeamService) *TeamHandler {
	return &TeamHandler{service: service}
}

// List godoc
// @ID           listTeams
// @Summary      List teams
// @Description  Admins see every team, other callers see teams they lead or belong to
// @Tags         teams
// @Produce      json
// @Success      200 {object} APIResponse[[]teamapp.TeamResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /teams [get]
func (h *TeamHandler) List(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	teams, err := h.service.List(c.Request.Context(), p)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, teams)
}

// Create godoc
// @ID           createTeam
// @Summary      Create a team
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        request body teamapp.CreateTeamRequest true "Team creation request"
// @Success      200 {object} APIResponse[teamapp.TeamResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /teams [post]
func (h *TeamHandler) Create(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	var req teamapp.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	team, err := h.service.Create(c.Request.Context(), p, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, team)
}

// GetByID godoc
// @ID           getTeam
// @Summary      Get a team
// @Tags         teams
// @Produce      json
// @Param        id path string true "Team ID"
// @Success      200 {object} APIResponse[teamapp.TeamResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /teams/{id} [get]
func (h *TeamHandler) GetByID(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	team, err := h.service.GetByID(c.Request.Context(), p, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, team)
}

// Update godoc
// @ID           updateTeam
// @Summary      Update a team
// @Description  Only the team lead or an admin may update
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        id path string true "Team ID"
// @Param        request body teamapp.UpdateTeamRequest true "Fields to update"
// @Success      200 {object} APIResponse[teamapp.TeamResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /teams/{id} [put]
func (h *TeamHandler) Update(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req teamapp.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	team, err := h.service.Update(c.Request.Context(), p, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, team)
}

// Delete godoc
// @ID           deleteTeam
// @Summary      Delete a team
// @Description  Only the team lead or an admin may delete
// @Tags         teams
// @Produce      json
// @Param        id path string true "Team ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /teams/{id} [delete]
func (h *TeamHandler) Delete(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), p, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessMessage(c, "Team deleted successfully")
}

// ListMembers godoc
// @ID           listTeamMembers
// @Summary      List a team's members
// @Tags         teams
// @Produce      json
// @Param        id path string true "Team ID"
// @Success      200 {object} APIResponse[[]teamapp.TeamMemberResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /teams/{id}/members [get]
func (h *TeamHandler) ListMembers(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	members, err := h.service.ListMembers(c.Request.Context(), p, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, members)
}

// AddMember godoc
// @ID           addTeamMember
// @Summary      Add a member to a team
// @Description  Only the team lead or an admin may add members
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        id path string true "Team ID"
// @Param        request body teamapp.AddTeamMemberRequest true "Member to add"
// @Success      200 {object} APIResponse[teamapp.TeamMemberResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /teams/{id}/members [post]
func (h *TeamHandler) AddMember(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req teamapp.AddTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	member, err := h.service.AddMember(c.Request.Context(), p, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, member)
}
