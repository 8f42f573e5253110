package handler

import (
	"github.com/gin-gonic/gin"

	projectapp "github.com/pmo/backend/internal/application/project"
)

// ProjectHandler handles project endpoints including milestone and
// member sub-resources
type ProjectHandler struct {
	BaseHandler
	service *projectapp.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(service *projectapp.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// List godoc
// @ID           listProjects
// @Summary      List projects
// @Description  Admins see every project, other callers see projects they own or belong to
// @Tags         projects
// @Produce      json
// @Success      200 {object} APIResponse[[]projectapp.ProjectResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	projects, err := h.service.List(c.Request.Context(), p)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, projects)
}

// Create godoc
// @ID           createProject
// @Summary      Create a project
// @Description  Creates a project owned by the caller
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body projectapp.CreateProjectRequest true "Project creation request"
// @Success      200 {object} APIResponse[projectapp.ProjectResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	var req projectapp.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	project, err := h.service.Create(c.Request.Context(), p, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, project)
}

// GetByID godoc
// @ID           getProject
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} APIResponse[projectapp.ProjectResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{id} [get]
func (h *ProjectHandler) GetByID(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	project, err := h.service.GetByID(c.Request.Context(), p, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, project)
}

// Update godoc
// @ID           updateProject
// @Summary      Update a project
// @Description  Only the project owner or an admin may update
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        request body projectapp.UpdateProjectRequest true "Fields to update"
// @Success      200 {object} APIResponse[projectapp.ProjectResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req projectapp.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	project, err := h.service.Update(c.Request.Context(), p, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, project)
}

// Delete godoc
// @ID           deleteProject
// @Summary      Delete a project
// @Description  Only the project owner or an admin may delete
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
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

	h.SuccessMessage(c, "Project deleted successfully")
}

// ListMilestones godoc
// @ID           listProjectMilestones
// @Summary      List a project's milestones
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} APIResponse[[]projectapp.MilestoneResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{id}/milestones [get]
func (h *ProjectHandler) ListMilestones(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	milestones, err := h.service.ListMilestones(c.Request.Context(), p, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, milestones)
}

// ListMembers godoc
// @ID           listProjectMembers
// @Summary      List a project's members
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} APIResponse[[]projectapp.ProjectMemberResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{id}/members [get]
func (h *ProjectHandler) ListMembers(c *gin.Context) {
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
// @ID           addProjectMember
// @Summary      Add a member to a project
// @Description  Only the project owner or an admin may add members
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        request body projectapp.AddProjectMemberRequest true "Member to add"
// @Success      200 {object} APIResponse[projectapp.ProjectMemberResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{id}/members [post]
func (h *ProjectHandler) AddMember(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req projectapp.AddProjectMemberRequest
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

// RemoveMember godoc
// @ID           removeProjectMember
// @Summary      Remove a member from a project
// @Description  Only the project owner or an admin may remove members
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        user_id path string true "User ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{id}/members/{user_id} [delete]
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	userID, ok := h.pathUUID(c, "user_id")
	if !ok {
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), p, id, userID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessMessage(c, "Member removed from project")
}
