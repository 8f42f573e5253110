package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	taskapp "github.com/pmo/backend/internal/application/task"
	"github.com/pmo/backend/internal/domain/authz"
	"github.com/pmo/backend/internal/domain/task"
)

// MockTaskRepository is a mock implementation of task.TaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindAll(ctx context.Context) ([]*task.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*task.Task, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByAssignee(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindAccessibleByUser(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindDueBetween(ctx context.Context, from, to time.Time) ([]*task.Task, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskRepository) CanUserAccess(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, taskID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskRepository) IsProjectOwner(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, taskID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskRepository) CanAccessProject(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, projectID, userID)
	return args.Bool(0), args.Error(1)
}

var _ task.TaskRepository = (*MockTaskRepository)(nil)

// setupTaskRouter wires the task routes the way the server does,
// reusing the project repository mock as the evaluator's project guard
func setupTaskRouter(taskRepo *MockTaskRepository, projects *MockProjectRepository, p authz.Principal) *gin.Engine {
	evaluator := authz.NewEvaluator(projects, taskRepo, nil)
	service := taskapp.NewTaskService(taskRepo, evaluator, nopPublisher{}, zap.NewNop())
	handler := NewTaskHandler(service)

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(asUser(p))
	{
		api.GET("/tasks", handler.List)
		api.POST("/tasks", handler.Create)
		api.GET("/tasks/:id", handler.GetByID)
		api.PUT("/tasks/:id", handler.Update)
		api.DELETE("/tasks/:id", handler.Delete)
		api.GET("/projects/:id/tasks", handler.ListByProject)
	}
	return r
}

func newStoredTask(projectID uuid.UUID) *task.Task {
	t, _ := task.NewTask(projectID, "Implement login page")
	return t
}

func TestTaskHandler_Create_Success(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	projects := new(MockProjectRepository)
	caller := memberPrincipal()
	router := setupTaskRouter(taskRepo, projects, caller)

	projID := uuid.New()
	projects.On("Exists", mock.Anything, projID).Return(true, nil)
	projects.On("CanUserAccess", mock.Anything, projID, caller.ID).Return(true, nil)
	taskRepo.On("Create", mock.Anything, mock.AnythingOfType("*task.Task")).Return(nil)

	body, _ := json.Marshal(taskapp.CreateTaskRequest{
		ProjectID: projID,
		Title:     "Implement login page",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "Implement login page", data["title"])
	assert.Equal(t, "todo", data["status"])
	assert.Equal(t, projID.String(), data["project_id"])
	taskRepo.AssertExpectations(t)
}

func TestTaskHandler_Create_ProjectInaccessible(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	projects := new(MockProjectRepository)
	caller := memberPrincipal()
	router := setupTaskRouter(taskRepo, projects, caller)

	projID := uuid.New()
	projects.On("Exists", mock.Anything, projID).Return(true, nil)
	projects.On("CanUserAccess", mock.Anything, projID, caller.ID).Return(false, nil)

	body, _ := json.Marshal(taskapp.CreateTaskRequest{
		ProjectID: projID,
		Title:     "Implement login page",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	resp := decodeBody(t, w)
	assert.Equal(t, "You don't have access to this project", resp["message"])
	taskRepo.AssertNotCalled(t, "Create")
}

func TestTaskHandler_Create_MissingTitle(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	projects := new(MockProjectRepository)
	router := setupTaskRouter(taskRepo, projects, memberPrincipal())

	body := []byte(`{"project_id":"` + uuid.New().String() + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_List_Member(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	projects := new(MockProjectRepository)
	caller := memberPrincipal()
	router := setupTaskRouter(taskRepo, projects, caller)

	tasks := []*task.Task{newStoredTask(uuid.New()), newStoredTask(uuid.New())}
	taskRepo.On("FindAccessibleByUser", mock.Anything, caller.ID).Return(tasks, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	assert.Len(t, resp["data"].([]interface{}), 2)
	taskRepo.AssertNotCalled(t, "FindAll")
}

func TestTaskHandler_ListByProject(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	projects := new(MockProjectRepository)
	caller := memberPrincipal()
	router := setupTaskRouter(taskRepo, projects, caller)

	projID := uuid.New()
	projects.On("Exists", mock.Anything, projID).Return(true, nil)
	projects.On("CanUserAccess", mock.Anything, projID, caller.ID).Return(true, nil)
	taskRepo.On("FindByProject", mock.Anything, projID).Return([]*task.Task{newStoredTask(projID)}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/"+projID.String()+"/tasks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	assert.Len(t, resp["data"].([]interface{}), 1)
}

func TestTaskHandler_GetByID_NotFound(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	projects := new(MockProjectRepository)
	router := setupTaskRouter(taskRepo, projects, memberPrincipal())

	id := uuid.New()
	taskRepo.On("Exists", mock.Anything, id).Return(false, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/"+id.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	resp := decodeBody(t, w)
	assert.Equal(t, "Task not found", resp["message"])
}

func TestTaskHandler_Update_Success(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	projects := new(MockProjectRepository)
	caller := memberPrincipal()
	router := setupTaskRouter(taskRepo, projects, caller)

	stored := newStoredTask(uuid.New())
	taskRepo.On("Exists", mock.Anything, stored.ID).Return(true, nil)
	taskRepo.On("CanUserAccess", mock.Anything, stored.ID, caller.ID).Return(true, nil)
	taskRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
	taskRepo.On("Update", mock.Anything, stored).Return(nil)

	status := "done"
	body, _ := json.Marshal(taskapp.UpdateTaskRequest{Status: &status})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/tasks/"+stored.ID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "done", data["status"])
	taskRepo.AssertExpectations(t)
}

func TestTaskHandler_Delete_ProjectOwnerSucceeds(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	projects := new(MockProjectRepository)
	caller := memberPrincipal()
	router := setupTaskRouter(taskRepo, projects, caller)

	stored := newStoredTask(uuid.New())
	taskRepo.On("Exists", mock.Anything, stored.ID).Return(true, nil)
	taskRepo.On("IsProjectOwner", mock.Anything, stored.ID, caller.ID).Return(true, nil)
	taskRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
	taskRepo.On("Delete", mock.Anything, stored.ID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/"+stored.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	assert.Equal(t, "Task deleted successfully", resp["message"])
}

func TestTaskHandler_Delete_AssigneeForbidden(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	projects := new(MockProjectRepository)
	caller := memberPrincipal()
	router := setupTaskRouter(taskRepo, projects, caller)

	id := uuid.New()
	taskRepo.On("Exists", mock.Anything, id).Return(true, nil)
	taskRepo.On("IsProjectOwner", mock.Anything, id, caller.ID).Return(false, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/"+id.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	resp := decodeBody(t, w)
	assert.Equal(t, "Only project owner can delete tasks", resp["message"])
	taskRepo.AssertNotCalled(t, "Delete")
}
