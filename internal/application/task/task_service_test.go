package task

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/pmo/backend/internal/domain/authz"
	"github.com/pmo/backend/internal/domain/identity"
	"github.com/pmo/backend/internal/domain/shared"
	"github.com/pmo/backend/internal/domain/task"
)

// =============================================================================
// Mocks
// =============================================================================

// MockTaskRepository is a mock implementation of TaskRepository
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

// MockProjectGuard mocks the project predicates the evaluator consumes
type MockProjectGuard struct {
	mock.Mock
}

func (m *MockProjectGuard) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectGuard) CanUserAccess(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, projectID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectGuard) IsOwner(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, projectID, userID)
	return args.Bool(0), args.Error(1)
}

var _ authz.ProjectGuard = (*MockProjectGuard)(nil)

// capturingPublisher records every published event
type capturingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *capturingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}

// =============================================================================
// Test helpers
// =============================================================================

func newTestService(taskRepo *MockTaskRepository, projects *MockProjectGuard) (*TaskService, *capturingPublisher) {
	evaluator := authz.NewEvaluator(projects, taskRepo, nil)
	publisher := &capturingPublisher{}
	service := NewTaskService(taskRepo, evaluator, publisher, zap.NewNop())
	return service, publisher
}

func memberPrincipal() authz.Principal {
	return authz.Principal{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Role: identity.RoleMember}
}

func adminPrincipal() authz.Principal {
	return authz.Principal{ID: uuid.MustParse("99999999-9999-9999-9999-999999999999"), Role: identity.RoleAdmin}
}

func createTestTask(projectID uuid.UUID) *task.Task {
	t, _ := task.NewTask(projectID, "Fix login bug")
	return t
}

// =============================================================================
// TaskService tests
// =============================================================================

func TestTaskService_Create_Success(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockProjects := new(MockProjectGuard)
	service, publisher := newTestService(mockRepo, mockProjects)

	ctx := context.Background()
	caller := memberPrincipal()
	projectID := uuid.New()
	req := CreateTaskRequest{ProjectID: projectID, Title: "Fix login bug"}

	mockProjects.On("Exists", ctx, projectID).Return(true, nil)
	mockProjects.On("CanUserAccess", ctx, projectID, caller.ID).Return(true, nil)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*task.Task")).Return(nil)

	result, err := service.Create(ctx, caller, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "Fix login bug", result.Title)
	assert.Equal(t, "todo", result.Status)
	assert.Equal(t, "medium", result.Priority)
	assert.Nil(t, result.AssigneeID)
	assert.Equal(t, []string{"task.created"}, publisher.types())
	mockRepo.AssertExpectations(t)
	mockProjects.AssertExpectations(t)
}

func TestTaskService_Create_WithAssigneeAndStatus(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockProjects := new(MockProjectGuard)
	service, publisher := newTestService(mockRepo, mockProjects)

	ctx := context.Background()
	caller := memberPrincipal()
	projectID := uuid.New()
	assigneeID := uuid.New()
	req := CreateTaskRequest{
		ProjectID:  projectID,
		Title:      "Fix login bug",
		Status:     "inprogress",
		Priority:   "high",
		AssigneeID: &assigneeID,
	}

	mockProjects.On("Exists", ctx, projectID).Return(true, nil)
	mockProjects.On("CanUserAccess", ctx, projectID, caller.ID).Return(true, nil)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*task.Task")).Return(nil)

	result, err := service.Create(ctx, caller, req)

	assert.NoError(t, err)
	assert.Equal(t, "inprogress", result.Status)
	assert.Equal(t, "high", result.Priority)
	assert.Equal(t, assigneeID, *result.AssigneeID)
	assert.Equal(t, []string{"task.created"}, publisher.types())
}

func TestTaskService_Create_ProjectNotFound(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockProjects := new(MockProjectGuard)
	service, _ := newTestService(mockRepo, mockProjects)

	ctx := context.Background()
	projectID := uuid.New()

	mockProjects.On("Exists", ctx, projectID).Return(false, nil)

	result, err := service.Create(ctx, memberPrincipal(), CreateTaskRequest{ProjectID: projectID, Title: "Fix login bug"})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	assert.Equal(t, "Project not found", domainErr.Message)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestTaskService_Create_NoProjectAccess(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockProjects := new(MockProjectGuard)
	service, _ := newTestService(mockRepo, mockProjects)

	ctx := context.Background()
	caller := memberPrincipal()
	projectID := uuid.New()

	mockProjects.On("Exists", ctx, projectID).Return(true, nil)
	mockProjects.On("CanUserAccess", ctx, projectID, caller.ID).Return(false, nil)

	result, err := service.Create(ctx, caller, CreateTaskRequest{ProjectID: projectID, Title: "Fix login bug"})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
	assert.Equal(t, "You don't have access to this project", domainErr.Message)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestTaskService_List_AdminSeesAll(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service, _ := newTestService(mockRepo, new(MockProjectGuard))

	ctx := context.Background()
	tasks := []*task.Task{createTestTask(uuid.New()), createTestTask(uuid.New())}

	mockRepo.On("FindAll", ctx).Return(tasks, nil)

	result, err := service.List(ctx, adminPrincipal())

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	mockRepo.AssertNotCalled(t, "FindAccessibleByUser")
}

func TestTaskService_List_MemberSeesAccessible(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service, _ := newTestService(mockRepo, new(MockProjectGuard))

	ctx := context.Background()
	caller := memberPrincipal()
	tasks := []*task.Task{createTestTask(uuid.New())}

	mockRepo.On("FindAccessibleByUser", ctx, caller.ID).Return(tasks, nil)

	result, err := service.List(ctx, caller)

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	mockRepo.AssertNotCalled(t, "FindAll")
}

func TestTaskService_ListByProject_Success(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockProjects := new(MockProjectGuard)
	service, _ := newTestService(mockRepo, mockProjects)

	ctx := context.Background()
	caller := memberPrincipal()
	projectID := uuid.New()
	tasks := []*task.Task{createTestTask(projectID)}

	mockProjects.On("Exists", ctx, projectID).Return(true, nil)
	mockProjects.On("CanUserAccess", ctx, projectID, caller.ID).Return(true, nil)
	mockRepo.On("FindByProject", ctx, projectID).Return(tasks, nil)

	result, err := service.ListByProject(ctx, caller, projectID)

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	mockRepo.AssertExpectations(t)
}

func TestTaskService_GetByID_NotFound(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service, _ := newTestService(mockRepo, new(MockProjectGuard))

	ctx := context.Background()
	taskID := uuid.New()

	mockRepo.On("Exists", ctx, taskID).Return(false, nil)

	result, err := service.GetByID(ctx, memberPrincipal(), taskID)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	assert.Equal(t, "Task not found", domainErr.Message)
}

func TestTaskService_GetByID_Forbidden(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service, _ := newTestService(mockRepo, new(MockProjectGuard))

	ctx := context.Background()
	caller := memberPrincipal()
	taskID := uuid.New()

	mockRepo.On("Exists", ctx, taskID).Return(true, nil)
	mockRepo.On("CanUserAccess", ctx, taskID, caller.ID).Return(false, nil)

	result, err := service.GetByID(ctx, caller, taskID)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
	assert.Equal(t, "You don't have access to this task", domainErr.Message)
}

func TestTaskService_Update_TitleOnly(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service, publisher := newTestService(mockRepo, new(MockProjectGuard))

	ctx := context.Background()
	caller := memberPrincipal()
	tsk := createTestTask(uuid.New())
	newTitle := "Fix signup bug"

	mockRepo.On("Exists", ctx, tsk.ID).Return(true, nil)
	mockRepo.On("CanUserAccess", ctx, tsk.ID, caller.ID).Return(true, nil)
	mockRepo.On("FindByID", ctx, tsk.ID).Return(tsk, nil)
	mockRepo.On("Update", ctx, mock.AnythingOfType("*task.Task")).Return(nil)

	result, err := service.Update(ctx, caller, tsk.ID, UpdateTaskRequest{Title: &newTitle})

	assert.NoError(t, err)
	assert.Equal(t, "Fix signup bug", result.Title)
	assert.Equal(t, []string{"task.updated"}, publisher.types())
	mockRepo.AssertExpectations(t)
}

func TestTaskService_Update_StatusToDone(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service, publisher := newTestService(mockRepo, new(MockProjectGuard))

	ctx := context.Background()
	caller := memberPrincipal()
	tsk := createTestTask(uuid.New())
	done := "done"

	mockRepo.On("Exists", ctx, tsk.ID).Return(true, nil)
	mockRepo.On("CanUserAccess", ctx, tsk.ID, caller.ID).Return(true, nil)
	mockRepo.On("FindByID", ctx, tsk.ID).Return(tsk, nil)
	mockRepo.On("Update", ctx, mock.AnythingOfType("*task.Task")).Return(nil)

	result, err := service.Update(ctx, caller, tsk.ID, UpdateTaskRequest{Status: &done})

	assert.NoError(t, err)
	assert.Equal(t, "done", result.Status)
	assert.Equal(t, []string{"task.completed"}, publisher.types())
}

func TestTaskService_Update_Reassign(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service, publisher := newTestService(mockRepo, new(MockProjectGuard))

	ctx := context.Background()
	caller := memberPrincipal()
	tsk := createTestTask(uuid.New())
	assigneeID := uuid.New()

	mockRepo.On("Exists", ctx, tsk.ID).Return(true, nil)
	mockRepo.On("CanUserAccess", ctx, tsk.ID, caller.ID).Return(true, nil)
	mockRepo.On("FindByID", ctx, tsk.ID).Return(tsk, nil)
	mockRepo.On("Update", ctx, mock.AnythingOfType("*task.Task")).Return(nil)

	result, err := service.Update(ctx, caller, tsk.ID, UpdateTaskRequest{AssigneeID: &assigneeID})

	assert.NoError(t, err)
	assert.Equal(t, assigneeID, *result.AssigneeID)
	assert.Equal(t, []string{"task.assigned"}, publisher.types())
}

func TestTaskService_Update_ReassignAndComplete(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service, publisher := newTestService(mockRepo, new(MockProjectGuard))

	ctx := context.Background()
	caller := memberPrincipal()
	tsk := createTestTask(uuid.New())
	assigneeID := uuid.New()
	done := "done"

	mockRepo.On("Exists", ctx, tsk.ID).Return(true, nil)
	mockRepo.On("CanUserAccess", ctx, tsk.ID, caller.ID).Return(true, nil)
	mockRepo.On("FindByID", ctx, tsk.ID).Return(tsk, nil)
	mockRepo.On("Update", ctx, mock.AnythingOfType("*task.Task")).Return(nil)

	_, err := service.Update(ctx, caller, tsk.ID, UpdateTaskRequest{AssigneeID: &assigneeID, Status: &done})

	assert.NoError(t, err)
	assert.Equal(t, []string{"task.assigned", "task.completed"}, publisher.types())
}

func TestTaskService_Update_SameAssigneeNoAssignEvent(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service, publisher := newTestService(mockRepo, new(MockProjectGuard))

	ctx := context.Background()
	caller := memberPrincipal()
	assigneeID := uuid.New()
	tsk, _ := task.NewTask(uuid.New(), "Fix login bug", task.WithAssignee(assigneeID))

	mockRepo.On("Exists", ctx, tsk.ID).Return(true, nil)
	mockRepo.On("CanUserAccess", ctx, tsk.ID, caller.ID).Return(true, nil)
	mockRepo.On("FindByID", ctx, tsk.ID).Return(tsk, nil)
	mockRepo.On("Update", ctx, mock.AnythingOfType("*task.Task")).Return(nil)

	_, err := service.Update(ctx, caller, tsk.ID, UpdateTaskRequest{AssigneeID: &assigneeID})

	assert.NoError(t, err)
	assert.Equal(t, []string{"task.updated"}, publisher.types())
}

func TestTaskService_Delete_ProjectOwner(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service, publisher := newTestService(mockRepo, new(MockProjectGuard))

	ctx := context.Background()
	caller := memberPrincipal()
	tsk := createTestTask(uuid.New())

	mockRepo.On("Exists", ctx, tsk.ID).Return(true, nil)
	mockRepo.On("IsProjectOwner", ctx, tsk.ID, caller.ID).Return(true, nil)
	mockRepo.On("FindByID", ctx, tsk.ID).Return(tsk, nil)
	mockRepo.On("Delete", ctx, tsk.ID).Return(nil)

	err := service.Delete(ctx, caller, tsk.ID)

	assert.NoError(t, err)
	assert.Equal(t, []string{"task.deleted"}, publisher.types())
	mockRepo.AssertExpectations(t)
}

func TestTaskService_Delete_MemberForbidden(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	service, _ := newTestService(mockRepo, new(MockProjectGuard))

	ctx := context.Background()
	caller := memberPrincipal()
	taskID := uuid.New()

	mockRepo.On("Exists", ctx, taskID).Return(true, nil)
	mockRepo.On("IsProjectOwner", ctx, taskID, caller.ID).Return(false, nil)

	err := service.Delete(ctx, caller, taskID)

	assert.Error(t, err)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
	assert.Equal(t, "Only project owner can delete tasks", domainErr.Message)
	mockRepo.AssertNotCalled(t, "Delete")
}
