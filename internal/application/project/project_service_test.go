package project

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/pmo/backend/internal/domain/authz"
	"github.com/pmo/backend/internal/domain/identity"
	"github.com/pmo/backend/internal/domain/project"
	"github.com/pmo/backend/internal/domain/shared"
	"github.com/pmo/backend/internal/domain/shared/valueobject"
)

// =============================================================================
// Mocks
// =============================================================================

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepository) Update(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindAll(ctx context.Context) ([]*project.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindAccessibleByUser(ctx context.Context, userID uuid.UUID) ([]*project.Project, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*project.Project), args.Error(1)
}

func (m *MockProjectRepository) CanUserAccess(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, projectID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectRepository) IsOwner(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, projectID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectRepository) FindMilestones(ctx context.Context, projectID uuid.UUID) ([]*project.Milestone, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*project.Milestone), args.Error(1)
}

func (m *MockProjectRepository) AddMember(ctx context.Context, member *project.ProjectMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockProjectRepository) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

func (m *MockProjectRepository) FindMembers(ctx context.Context, projectID uuid.UUID) ([]*project.ProjectMember, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*project.ProjectMember), args.Error(1)
}

// Verify interface compliance
var _ project.ProjectRepository = (*MockProjectRepository)(nil)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

var _ identity.UserRepository = (*MockUserRepository)(nil)

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

func newTestService(repo *MockProjectRepository, users *MockUserRepository) (*ProjectService, *capturingPublisher) {
	// Task and team guards are not exercised by project decisions
	evaluator := authz.NewEvaluator(repo, nil, nil)
	publisher := &capturingPublisher{}
	service := NewProjectService(repo, users, evaluator, publisher, zap.NewNop())
	return service, publisher
}

func memberPrincipal() authz.Principal {
	return authz.Principal{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Role: identity.RoleMember}
}

func adminPrincipal() authz.Principal {
	return authz.Principal{ID: uuid.MustParse("99999999-9999-9999-9999-999999999999"), Role: identity.RoleAdmin}
}

func createTestProject(ownerID uuid.UUID) *project.Project {
	proj, _ := project.NewProject("Website Redesign", ownerID)
	return proj
}

func createTestUser() *identity.User {
	user, _ := identity.NewUser(valueobject.MustNewEmail("bob@example.com"), "hash", "Bob", identity.RoleMember)
	return user
}

// =============================================================================
// ProjectService tests
// =============================================================================

func TestProjectService_Create_Success(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	service, publisher := newTestService(mockRepo, new(MockUserRepository))

	ctx := context.Background()
	caller := memberPrincipal()
	req := CreateProjectRequest{Name: "Website Redesign"}

	mockRepo.On("Create", ctx, mock.AnythingOfType("*project.Project")).Return(nil)

	result, err := service.Create(ctx, caller, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "Website Redesign", result.Name)
	assert.Equal(t, "planning", result.Status)
	assert.Equal(t, "medium", result.Priority)
	assert.Equal(t, caller.ID, result.OwnerID)
	assert.Equal(t, []string{"project.created"}, publisher.types())
	mockRepo.AssertExpectations(t)
}

func TestProjectService_Create_InvalidStatus(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	service, _ := newTestService(mockRepo, new(MockUserRepository))

	req := CreateProjectRequest{Name: "Website Redesign", Status: "archived"}

	result, err := service.Create(context.Background(), memberPrincipal(), req)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestProjectService_Create_EmptyName(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	service, _ := newTestService(mockRepo, new(MockUserRepository))

	req := CreateProjectRequest{Name: "   "}

	result, err := service.Create(context.Background(), memberPrincipal(), req)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
}

func TestProjectService_List_AdminSeesAll(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	service, _ := newTestService(mockRepo, new(MockUserRepository))

	ctx := context.Background()
	admin := adminPrincipal()
	projects := []*project.Project{
		createTestProject(uuid.New()),
		createTestProject(uuid.New()),
	}

	mockRepo.On("FindAll", ctx).Return(projects, nil)

	result, err := service.List(ctx, admin)

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	mockRepo.AssertNotCalled(t, "FindAccessibleByUser")
	mockRepo.AssertExpectations(t)
}

func TestProjectService_List_MemberSeesAccessible(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	service, _ := newTestService(mockRepo, new(MockUserRepository))

	ctx := context.Background()
	caller := memberPrincipal()
	projects := []*project.Project{createTestProject(caller.ID)}

	mockRepo.On("FindAccessibleByUser", ctx, caller.ID).Return(projects, nil)

	result, err := service.List(ctx, caller)

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	mockRepo.AssertNotCalled(t, "FindAll")
	mockRepo.AssertExpectations(t)
}

func TestProjectService_GetByID_Success(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	service, _ := newTestService(mockRepo, new(MockUserRepository))

	ctx := context.Background()
	caller := memberPrincipal()
	proj := createTestProject(caller.ID)

	mockRepo.On("Exists", ctx, proj.ID).Return(true, nil)
	mockRepo.On("CanUserAccess", ctx, proj.ID, caller.ID).Return(true, nil)
	mockRepo.On("FindByID", ctx, proj.ID).Return(proj, nil)

	result, err := service.GetByID(ctx, caller, proj.ID)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, proj.Name, result.Name)
	mockRepo.AssertExpectations(t)
}

func TestProjectService_GetByID_NotFound(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	service, _ := newTestService(mockRepo, new(MockUserRepository))

	ctx := context.Background()
	projectID := uuid.New()

	mockRepo.On("Exists", ctx, projectID).Return(false, nil)

	result, err := service.GetByID(ctx, memberPrincipal(), projectID)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	assert.Equal(t, "Project not found", domainErr.Message)
	mockRepo.AssertExpectations(t)
}

func TestProjectService_GetByID_Forbidden(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	service, _ := newTestService(mockRepo, new(MockUserRepository))

	ctx := context.Background()
	caller := memberPrincipal()
	projectID := uuid.New()

	mockRepo.On("Exists", ctx, projectID).Return(true, nil)
	mockRepo.On("CanUserAccess", ctx, projectID, caller.ID).Return(false, nil)

	result, err := service.GetByID(ctx, caller, projectID)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
	assert.Equal(t, "You don't have access to this project", domainErr.Message)
	mockRepo.AssertExpectations(t)
}

func TestProjectService_Update_Success(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	service, publisher := newTestService(mockRepo, new(MockUserRepository))

	ctx := context.Background()
	caller := memberPrincipal()
	proj := createTestProject(caller.ID)
	newName := "Mobile App"
	newStatus := "active"
	req := UpdateProjectRequest{Name: &newName, Status: &newStatus}

	mockRepo.On("Exists", ctx, proj.ID).Return(true, nil)
	mockRepo.On("IsOwner", ctx, proj.ID, caller.ID).Return(true, nil)
	mockRepo.On("FindByID", ctx, proj.ID).Return(proj, nil)
	mockRepo.On("Update", ctx, mock.AnythingOfType("*project.Project")).Return(nil)

	result, err := service.Update(ctx, caller, proj.ID, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "Mobile App", result.Name)
	assert.Equal(t, "active", result.Status)
	assert.Equal(t, []string{"project.updated"}, publisher.types())
	mockRepo.AssertExpectations(t)
}

func TestProjectService_Update_NonOwnerForbidden(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	service, _ := newTestService(mockRepo, new(MockUserRepository))

	ctx := context.Background()
	caller := memberPrincipal()
	projectID := uuid.New()
	newName := "Mobile App"

	mockRepo.On("Exists", ctx, projectID).Return(true, nil)
	mockRepo.On("IsOwner", ctx, projectID, caller.ID).Return(false, nil)

	result, err := service.Update(ctx, caller, projectID, UpdateProjectRequest{Name: &newName})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
	assert.Equal(t, "Only project owner can update this project", domainErr.Message)
	mockRepo.AssertNotCalled(t, "Update")
}

func TestProjectService_Update_AdminBypass(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	service, _ := newTestService(mockRepo, new(MockUserRepository))

	ctx := context.Background()
	admin := adminPrincipal()
	proj := createTestProject(uuid.New())
	newName := "Mobile App"

	mockRepo.On("Exists", ctx, proj.ID).Return(true, nil)
	mockRepo.On("FindByID", ctx, proj.ID).Return(proj, nil)
	mockRepo.On("Update", ctx, mock.AnythingOfType("*project.Project")).Return(nil)

	result, err := service.Update(ctx, admin, proj.ID, UpdateProjectRequest{Name: &newName})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	mockRepo.AssertNotCalled(t, "IsOwner")
	mockRepo.AssertExpectations(t)
}

func TestProjectService_Delete_Success(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	service, publisher := newTestService(mockRepo, new(MockUserRepository))

	ctx := context.Background()
	caller := memberPrincipal()
	proj := createTestProject(caller.ID)

	mockRepo.On("Exists", ctx, proj.ID).Return(true, nil)
	mockRepo.On("IsOwner", ctx, proj.ID, caller.ID).Return(true, nil)
	mockRepo.On("FindByID", ctx, proj.ID).Return(proj, nil)
	mockRepo.On("Delete", ctx, proj.ID).Return(nil)

	err := service.Delete(ctx, caller, proj.ID)

	assert.NoError(t, err)
	assert.Equal(t, []string{"project.deleted"}, publisher.types())
	mockRepo.AssertExpectations(t)
}

func TestProjectService_Delete_NonOwnerForbidden(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	service, _ := newTestService(mockRepo, new(MockUserRepository))

	ctx := context.Background()
	caller := memberPrincipal()
	projectID := uuid.New()

	mockRepo.On("Exists", ctx, projectID).Return(true, nil)
	mockRepo.On("IsOwner", ctx, projectID, caller.ID).Return(false, nil)

	err := service.Delete(ctx, caller, projectID)

	assert.Error(t, err)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "Only project owner can delete this project", domainErr.Message)
	mockRepo.AssertNotCalled(t, "Delete")
}

func TestProjectService_ListMilestones_Success(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	service, _ := newTestService(mockRepo, new(MockUserRepository))

	ctx := context.Background()
	caller := memberPrincipal()
	projectID := uuid.New()
	milestone, _ := project.NewMilestone(projectID, "Beta launch")

	mockRepo.On("Exists", ctx, projectID).Return(true, nil)
	mockRepo.On("CanUserAccess", ctx, projectID, caller.ID).Return(true, nil)
	mockRepo.On("FindMilestones", ctx, projectID).Return([]*project.Milestone{milestone}, nil)

	result, err := service.ListMilestones(ctx, caller, projectID)

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, "Beta launch", result[0].Name)
	mockRepo.AssertExpectations(t)
}

func TestProjectService_ListMembers_Success(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	service, _ := newTestService(mockRepo, new(MockUserRepository))

	ctx := context.Background()
	caller := memberPrincipal()
	projectID := uuid.New()
	member := project.NewProjectMember(projectID, uuid.New())

	mockRepo.On("Exists", ctx, projectID).Return(true, nil)
	mockRepo.On("CanUserAccess", ctx, projectID, caller.ID).Return(true, nil)
	mockRepo.On("FindMembers", ctx, projectID).Return([]*project.ProjectMember{member}, nil)

	result, err := service.ListMembers(ctx, caller, projectID)

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, member.UserID, result[0].UserID)
	mockRepo.AssertExpectations(t)
}

func TestProjectService_AddMember_Success(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	mockUsers := new(MockUserRepository)
	service, _ := newTestService(mockRepo, mockUsers)

	ctx := context.Background()
	caller := memberPrincipal()
	projectID := uuid.New()
	user := createTestUser()

	mockRepo.On("Exists", ctx, projectID).Return(true, nil)
	mockRepo.On("IsOwner", ctx, projectID, caller.ID).Return(true, nil)
	mockUsers.On("FindByID", ctx, user.ID).Return(user, nil)
	mockRepo.On("FindMembers", ctx, projectID).Return([]*project.ProjectMember{}, nil)
	mockRepo.On("AddMember", ctx, mock.AnythingOfType("*project.ProjectMember")).Return(nil)

	result, err := service.AddMember(ctx, caller, projectID, AddProjectMemberRequest{UserID: user.ID})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, user.ID, result.UserID)
	assert.Equal(t, projectID, result.ProjectID)
	mockRepo.AssertExpectations(t)
	mockUsers.AssertExpectations(t)
}

func TestProjectService_AddMember_UserNotFound(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	mockUsers := new(MockUserRepository)
	service, _ := newTestService(mockRepo, mockUsers)

	ctx := context.Background()
	caller := memberPrincipal()
	projectID := uuid.New()
	userID := uuid.New()

	mockRepo.On("Exists", ctx, projectID).Return(true, nil)
	mockRepo.On("IsOwner", ctx, projectID, caller.ID).Return(true, nil)
	mockUsers.On("FindByID", ctx, userID).Return(nil, shared.ErrNotFound)

	result, err := service.AddMember(ctx, caller, projectID, AddProjectMemberRequest{UserID: userID})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	assert.Equal(t, "User not found", domainErr.Message)
	mockRepo.AssertNotCalled(t, "AddMember")
}

func TestProjectService_AddMember_AlreadyMember(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	mockUsers := new(MockUserRepository)
	service, _ := newTestService(mockRepo, mockUsers)

	ctx := context.Background()
	caller := memberPrincipal()
	projectID := uuid.New()
	user := createTestUser()
	existing := project.NewProjectMember(projectID, user.ID)

	mockRepo.On("Exists", ctx, projectID).Return(true, nil)
	mockRepo.On("IsOwner", ctx, projectID, caller.ID).Return(true, nil)
	mockUsers.On("FindByID", ctx, user.ID).Return(user, nil)
	mockRepo.On("FindMembers", ctx, projectID).Return([]*project.ProjectMember{existing}, nil)

	result, err := service.AddMember(ctx, caller, projectID, AddProjectMemberRequest{UserID: user.ID})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mockRepo.AssertNotCalled(t, "AddMember")
}

func TestProjectService_AddMember_NonOwnerForbidden(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	mockUsers := new(MockUserRepository)
	service, _ := newTestService(mockRepo, mockUsers)

	ctx := context.Background()
	caller := memberPrincipal()
	projectID := uuid.New()

	mockRepo.On("Exists", ctx, projectID).Return(true, nil)
	mockRepo.On("IsOwner", ctx, projectID, caller.ID).Return(false, nil)

	result, err := service.AddMember(ctx, caller, projectID, AddProjectMemberRequest{UserID: uuid.New()})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "Only project owner can add members", domainErr.Message)
	mockUsers.AssertNotCalled(t, "FindByID")
}

func TestProjectService_RemoveMember_Success(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	service, _ := newTestService(mockRepo, new(MockUserRepository))

	ctx := context.Background()
	caller := memberPrincipal()
	projectID := uuid.New()
	userID := uuid.New()

	mockRepo.On("Exists", ctx, projectID).Return(true, nil)
	mockRepo.On("IsOwner", ctx, projectID, caller.ID).Return(true, nil)
	mockRepo.On("RemoveMember", ctx, projectID, userID).Return(nil)

	err := service.RemoveMember(ctx, caller, projectID, userID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestProjectService_RemoveMember_NonOwnerForbidden(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	service, _ := newTestService(mockRepo, new(MockUserRepository))

	ctx := context.Background()
	caller := memberPrincipal()
	projectID := uuid.New()

	mockRepo.On("Exists", ctx, projectID).Return(true, nil)
	mockRepo.On("IsOwner", ctx, projectID, caller.ID).Return(false, nil)

	err := service.RemoveMember(ctx, caller, projectID, uuid.New())

	assert.Error(t, err)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "Only project owner can remove members", domainErr.Message)
	mockRepo.AssertNotCalled(t, "RemoveMember")
}
