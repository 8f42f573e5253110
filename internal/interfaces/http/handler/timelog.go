package handler

import (
	"github.com/gin-gonic/gin"

	timelogapp "github.com/pmo/backend/internal/application/timelog"
)

// TimeLogHandler handles time log endpoints
type TimeLogHandler struct {
	BaseHandler
	service *timelogapp.TimeLogService
}

// NewTimeLogHandler creates a new TimeLogHandler
func NewTimeLogHandler(service *timelogapp.TimeLogService) *TimeLogHandler {
	return &TimeLogHandler{service: service}
}

// ListMine godoc
// @ID           listMyTimeLogs
// @Summary      List the caller's time logs
// @Description  Optionally restricted to an inclusive date window
// @Tags         time-logs
// @Produce      json
// @Param        start_date query string false "Window start (YYYY-MM-DD)"
// @Param        end_date query string false "Window end (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]timelogapp.TimeLogResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /time-logs [get]
func (h *TimeLogHandler) ListMine(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	var filter timelogapp.TimeLogFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	logs, err := h.service.ListMine(c.Request.Context(), p, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, logs)
}

// Create godoc
// @ID           createTimeLog
// @Summary      Log time against a task
// @Description  The log is always recorded for the authenticated caller
// @Tags         time-logs
// @Accept       json
// @Produce      json
// @Param        request body timelogapp.CreateTimeLogRequest true "Time log creation request"
// @Success      200 {object} APIResponse[timelogapp.TimeLogResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /time-logs [post]
func (h *TimeLogHandler) Create(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	var req timelogapp.CreateTimeLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	log, err := h.service.Create(c.Request.Context(), p, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, log)
}

// GetByID godoc
// @ID           getTimeLog
// @Summary      Get a time log
// @Tags         time-logs
// @Produce      json
// @Param        id path string true "Time log ID"
// @Success      200 {object} APIResponse[timelogapp.TimeLogResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /time-logs/{id} [get]
func (h *TimeLogHandler) GetByID(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	log, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, log)
}

// Update godoc
// @ID           updateTimeLog
// @Summary      Update a time log
// @Description  Only the user who logged the time may update it
// @Tags         time-logs
// @Accept       json
// @Produce      json
// @Param        id path string true "Time log ID"
// @Param        request body timelogapp.UpdateTimeLogRequest true "Fields to update"
// @Success      200 {object} APIResponse[timelogapp.TimeLogResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /time-logs/{id} [put]
func (h *TimeLogHandler) Update(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req timelogapp.UpdateTimeLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	log, err := h.service.Update(c.Request.Context(), p, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, log)
}

// Delete godoc
// @ID           deleteTimeLog
// @Summary      Delete a time log
// @Description  Only the user who logged the time may delete it
// @Tags         time-logs
// @Produce      json
// @Param        id path string true "Time log ID"
// @Success      200 {object} APIResponse[any]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /time-logs/{id} [delete]
func (h *TimeLogHandler) Delete(c *gin.Context) {
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

	h.Success(c, nil)
}

// ListByTask godoc
// @ID           listTaskTimeLogs
// @Summary      List a task's time logs
// @Tags         time-logs
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} APIResponse[[]timelogapp.TimeLogResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id}/time-logs [get]
func (h *TimeLogHandler) ListByTask(c *gin.Context) {
	taskID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	logs, err := h.service.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, logs)
}

// ListByUser godoc
// @ID           listUserTimeLogs
// @Summary      List a user's time logs
// @Description  Optionally restricted to an inclusive date window
// @Tags         time-logs
// @Produce      json
// @Param        user_id path string true "User ID"
// @Param        start_date query string false "Window start (YYYY-MM-DD)"
// @Param        end_date query string false "Window end (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]timelogapp.TimeLogResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{user_id}/time-logs [get]
func (h *TimeLogHandler) ListByUser(c *gin.Context) {
	userID, ok := h.pathUUID(c, "user_id")
	if !ok {
		return
	}

	var filter timelogapp.TimeLogFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	logs, err := h.service.ListByUser(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, logs)
}
