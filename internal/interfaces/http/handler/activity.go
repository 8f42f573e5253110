package handler

import (
	"github.com/gin-gonic/gin"

	activityapp "github.com/pmo/backend/internal/application/activity"
)

// ActivityHandler handles the audit feed endpoint
type ActivityHandler struct {
	BaseHandler
	service *activityapp.ActivityService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(service *activityapp.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// List godoc
// @ID           listActivities
// @Summary      List activity log entries
// @Description  Returns recent activity, newest first. The project filter wins when both filters are present.
// @Tags         activities
// @Produce      json
// @Param        limit query int false "Page size (default 50, max 100)"
// @Param        offset query int false "Offset into the feed (default 0)"
// @Param        project_id query string false "Restrict to one project"
// @Param        user_id query string false "Restrict to one user"
// @Success      200 {object} APIResponse[[]activityapp.ActivityLogResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	var filter activityapp.ActivityFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	activities, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, activities)
}
