package handler

import (
	"github.com/gin-gonic/gin"

	taskapp "github.com/pmo/backend/internal/application/task"
)

// TaskHandler handles task endpoints
type TaskHandler struct {
	BaseHandler
	service *taskapp.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(service *taskapp.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// List godoc
// @ID           listTasks
// @Summary      List tasks
// @Description  Admins see every task, other callers see tasks in projects they can access
// @Tags         tasks
// @Produce      json
// @Success      200 {object} APIResponse[[]taskapp.TaskResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	tasks, err := h.service.List(c.Request.Context(), p)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tasks)
}

// ListByProject godoc
// @ID           listProjectTasks
// @Summary      List a project's tasks
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} APIResponse[[]taskapp.TaskResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{id}/tasks [get]
func (h *TaskHandler) ListByProject(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	projectID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	tasks, err := h.service.ListByProject(c.Request.Context(), p, projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tasks)
}

// Create godoc
// @ID           createTask
// @Summary      Create a task
// @Description  The caller must have access to the target project
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        request body taskapp.CreateTaskRequest true "Task creation request"
// @Success      200 {object} APIResponse[taskapp.TaskResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	var req taskapp.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	task, err := h.service.Create(c.Request.Context(), p, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, task)
}

// GetByID godoc
// @ID           getTask
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} APIResponse[taskapp.TaskResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	task, err := h.service.GetByID(c.Request.Context(), p, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, task)
}

// Update godoc
// @ID           updateTask
// @Summary      Update a task
// @Description  The caller must have access to the task's project
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        request body taskapp.UpdateTaskRequest true "Fields to update"
// @Success      200 {object} APIResponse[taskapp.TaskResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req taskapp.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	task, err := h.service.Update(c.Request.Context(), p, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, task)
}

// Delete godoc
// @ID           deleteTask
// @Summary      Delete a task
// @Description  Only the project owner or an admin may delete tasks
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
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

	h.SuccessMessage(c, "Task deleted successfully")
}
