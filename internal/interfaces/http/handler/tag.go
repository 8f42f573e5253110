package handler

import (
	"github.com/gin-gonic/gin"

	tagapp "github.com/pmo/backend/internal/application/tag"
)

// TagHandler handles tag endpoints and task-tag assignments
type TagHandler struct {
	BaseHandler
	service *tagapp.TagService
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(service *tagapp.TagService) *TagHandler {
	return &TagHandler{service: service}
}

// List godoc
// @ID           listTags
// @Summary      List tags
// @Description  Returns every tag ordered by name
// @Tags         tags
// @Produce      json
// @Success      200 {object} APIResponse[[]tagapp.TagResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tags [get]
func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tags)
}

// Create godoc
// @ID           createTag
// @Summary      Create a tag
// @Tags         tags
// @Accept       json
// @Produce      json
// @Param        request body tagapp.CreateTagRequest true "Tag creation request"
// @Success      200 {object} APIResponse[tagapp.TagResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tags [post]
func (h *TagHandler) Create(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	var req tagapp.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	tag, err := h.service.Create(c.Request.Context(), p, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tag)
}

// GetByID godoc
// @ID           getTag
// @Summary      Get a tag
// @Tags         tags
// @Produce      json
// @Param        id path string true "Tag ID"
// @Success      200 {object} APIResponse[tagapp.TagResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tags/{id} [get]
func (h *TagHandler) GetByID(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	tag, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tag)
}

// Update godoc
// @ID           updateTag
// @Summary      Update a tag
// @Tags         tags
// @Accept       json
// @Produce      json
// @Param        id path string true "Tag ID"
// @Param        request body tagapp.UpdateTagRequest true "Fields to update"
// @Success      200 {object} APIResponse[tagapp.TagResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tags/{id} [put]
func (h *TagHandler) Update(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req tagapp.UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	tag, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tag)
}

// Delete godoc
// @ID           deleteTag
// @Summary      Delete a tag
// @Description  Removes the tag and all of its task assignments
// @Tags         tags
// @Produce      json
// @Param        id path string true "Tag ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tags/{id} [delete]
func (h *TagHandler) Delete(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessMessage(c, "Tag deleted successfully")
}

// ListByTask godoc
// @ID           listTaskTags
// @Summary      List a task's tags
// @Tags         tags
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} APIResponse[[]tagapp.TagResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id}/tags [get]
func (h *TagHandler) ListByTask(c *gin.Context) {
	taskID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	tags, err := h.service.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tags)
}

// SetTaskTags godoc
// @ID           setTaskTags
// @Summary      Replace a task's tag set
// @Description  Every referenced tag must exist; the previous assignments are replaced
// @Tags         tags
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        request body tagapp.SetTaskTagsRequest true "Tag IDs to assign"
// @Success      200 {object} APIResponse[[]tagapp.TagResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id}/tags [put]
func (h *TagHandler) SetTaskTags(c *gin.Context) {
	taskID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req tagapp.SetTaskTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	tags, err := h.service.SetTaskTags(c.Request.Context(), taskID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tags)
}

// AddTagToTask godoc
// @ID           addTagToTask
// @Summary      Add a tag to a task
// @Description  Adding a tag that is already assigned is a no-op
// @Tags         tags
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        tag_id path string true "Tag ID"
// @Success      200 {object} APIResponse[map[string]string]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id}/tags/{tag_id} [post]
func (h *TagHandler) AddTagToTask(c *gin.Context) {
	taskID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	tagID, ok := h.pathUUID(c, "tag_id")
	if !ok {
		return
	}

	if err := h.service.AddTagToTask(c.Request.Context(), taskID, tagID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"task_id": taskID, "tag_id": tagID})
}

// RemoveTagFromTask godoc
// @ID           removeTagFromTask
// @Summary      Remove a tag from a task
// @Tags         tags
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        tag_id path string true "Tag ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id}/tags/{tag_id} [delete]
func (h *TagHandler) RemoveTagFromTask(c *gin.Context) {
	taskID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	tagID, ok := h.pathUUID(c, "tag_id")
	if !ok {
		return
	}

	if err := h.service.RemoveTagFromTask(c.Request.Context(), taskID, tagID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessMessage(c, "Tag removed from task")
}
