package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	activityapp "github.com/pmo/backend/internal/application/activity"
	attachmentapp "github.com/pmo/backend/internal/application/attachment"
	identityapp "github.com/pmo/backend/internal/application/identity"
	notificationapp "github.com/pmo/backend/internal/application/notification"
	projectapp "github.com/pmo/backend/internal/application/project"
	tagapp "github.com/pmo/backend/internal/application/tag"
	taskapp "github.com/pmo/backend/internal/application/task"
	teamapp "github.com/pmo/backend/internal/application/team"
	timelogapp "github.com/pmo/backend/internal/application/timelog"
	"github.com/pmo/backend/internal/domain/authz"
	"github.com/pmo/backend/internal/infrastructure/auth"
	"github.com/pmo/backend/internal/infrastructure/cache"
	"github.com/pmo/backend/internal/infrastructure/config"
	"github.com/pmo/backend/internal/infrastructure/event"
	"github.com/pmo/backend/internal/infrastructure/persistence"
	"github.com/pmo/backend/internal/infrastructure/storage"
	"github.com/pmo/backend/internal/interfaces/http/handler"
	"github.com/pmo/backend/internal/interfaces/http/middleware"
	"github.com/pmo/backend/internal/interfaces/http/router"
)

// TestServer wires the complete application stack over a test database:
// every repository, service and handler plus the event bus, registered
// on the same routes the production server uses.
type TestServer struct {
	DB     *TestDB
	Engine *gin.Engine
	Blobs  *storage.LocalBlobStore
	Bus    *event.InMemoryEventBus
	t      *testing.T
}

// NewTestServer builds a full in-process server backed by SQLite, a
// local blob store and an in-memory unread counter. The event bus is
// started and stopped with the test.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	log := zap.NewNop()
	testDB := NewTestDB(t)

	userRepo := persistence.NewGormUserRepository(testDB.DB)
	projectRepo := persistence.NewGormProjectRepository(testDB.DB)
	taskRepo := persistence.NewGormTaskRepository(testDB.DB)
	teamRepo := persistence.NewGormTeamRepository(testDB.DB)
	tagRepo := persistence.NewGormTagRepository(testDB.DB)
	timeLogRepo := persistence.NewGormTimeLogRepository(testDB.DB)
	attachmentRepo := persistence.NewGormAttachmentRepository(testDB.DB)
	notificationRepo := persistence.NewGormNotificationRepository(testDB.DB)
	activityLogRepo := persistence.NewGormActivityLogRepository(testDB.DB)

	evaluator := authz.NewEvaluator(projectRepo, taskRepo, teamRepo)

	// Light Argon2 parameters keep registration fast in tests
	hasher := auth.NewPasswordHasher(config.Argon2Config{
		Memory:      16 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	tokens := auth.NewTokenService(config.JWTConfig{
		Secret:     "integration-test-secret-0123456789abcdef",
		Expiration: time.Hour,
		Issuer:     "pmo-test",
	})

	counter, err := cache.NewFactory(config.RedisConfig{Enabled: false}, cache.WithLogger(log)).CreateCounter()
	require.NoError(t, err, "Failed to create unread counter")

	blobs, err := storage.NewLocalBlobStore(t.TempDir())
	require.NoError(t, err, "Failed to create blob store")

	eventBus := event.NewInMemoryEventBus(log)

	authService := identityapp.NewAuthService(userRepo, hasher, tokens, log)
	projectService := projectapp.NewProjectService(projectRepo, userRepo, evaluator, eventBus, log)
	taskService := taskapp.NewTaskService(taskRepo, evaluator, eventBus, log)
	teamService := teamapp.NewTeamService(teamRepo, userRepo, evaluator, eventBus, log)
	tagService := tagapp.NewTagService(tagRepo, eventBus, log)
	timeLogService := timelogapp.NewTimeLogService(timeLogRepo, eventBus, log)
	attachmentService := attachmentapp.NewAttachmentService(attachmentRepo, taskRepo, blobs, eventBus, log)
	notificationService := notificationapp.NewNotificationService(notificationRepo, counter, evaluator, log, 5*time.Minute)
	activityService := activityapp.NewActivityService(activityLogRepo, log)

	eventBus.Subscribe(notificationapp.NewNotifier(notificationService))
	eventBus.Subscribe(activityapp.NewRecorder(activityLogRepo, log))

	require.NoError(t, eventBus.Start(context.Background()), "Failed to start event bus")
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = eventBus.Stop(ctx)
	})

	authHandler := handler.NewAuthHandler(authService)
	projectHandler := handler.NewProjectHandler(projectService)
	taskHandler := handler.NewTaskHandler(taskService)
	teamHandler := handler.NewTeamHandler(teamService)
	tagHandler := handler.NewTagHandler(tagService)
	timeLogHandler := handler.NewTimeLogHandler(timeLogService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	activityHandler := handler.NewActivityHandler(activityService)

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.AuthWithConfig(middleware.AuthConfig{
		Tokens: tokens,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
		},
		Logger: log,
	}))

	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.GET("/me", authHandler.Me)

	projectRoutes := router.NewDomainGroup("projects", "/projects")
	projectRoutes.GET("", projectHandler.List)
	projectRoutes.POST("", projectHandler.Create)
	projectRoutes.GET("/:id", projectHandler.GetByID)
	projectRoutes.PUT("/:id", projectHandler.Update)
	projectRoutes.DELETE("/:id", projectHandler.Delete)
	projectRoutes.GET("/:id/tasks", taskHandler.ListByProject)
	projectRoutes.GET("/:id/milestones", projectHandler.ListMilestones)
	projectRoutes.GET("/:id/members", projectHandler.ListMembers)
	projectRoutes.POST("/:id/members", projectHandler.AddMember)
	projectRoutes.DELETE("/:id/members/:user_id", projectHandler.RemoveMember)

	taskRoutes := router.NewDomainGroup("tasks", "/tasks")
	taskRoutes.GET("", taskHandler.List)
	taskRoutes.POST("", taskHandler.Create)
	taskRoutes.GET("/:id", taskHandler.GetByID)
	taskRoutes.PUT("/:id", taskHandler.Update)
	taskRoutes.DELETE("/:id", taskHandler.Delete)
	taskRoutes.GET("/:id/tags", tagHandler.ListByTask)
	taskRoutes.PUT("/:id/tags", tagHandler.SetTaskTags)
	taskRoutes.POST("/:id/tags/:tag_id", tagHandler.AddTagToTask)
	taskRoutes.DELETE("/:id/tags/:tag_id", tagHandler.RemoveTagFromTask)
	taskRoutes.GET("/:id/time-logs", timeLogHandler.ListByTask)
	taskRoutes.GET("/:id/attachments", attachmentHandler.ListByTask)
	taskRoutes.POST("/:id/attachments", attachmentHandler.Upload)

	teamRoutes := router.NewDomainGroup("teams", "/teams")
	teamRoutes.GET("", teamHandler.List)
	teamRoutes.POST("", teamHandler.Create)
	teamRoutes.GET("/:id", teamHandler.GetByID)
	teamRoutes.PUT("/:id", teamHandler.Update)
	teamRoutes.DELETE("/:id", teamHandler.Delete)
	teamRoutes.GET("/:id/members", teamHandler.ListMembers)
	teamRoutes.POST("/:id/members", teamHandler.AddMember)

	tagRoutes := router.NewDomainGroup("tags", "/tags")
	tagRoutes.GET("", tagHandler.List)
	tagRoutes.POST("", tagHandler.Create)
	tagRoutes.GET("/:id", tagHandler.GetByID)
	tagRoutes.PUT("/:id", tagHandler.Update)
	tagRoutes.DELETE("/:id", tagHandler.Delete)

	timeLogRoutes := router.NewDomainGroup("time-logs", "/time-logs")
	timeLogRoutes.GET("", timeLogHandler.ListMine)
	timeLogRoutes.POST("", timeLogHandler.Create)
	timeLogRoutes.GET("/:id", timeLogHandler.GetByID)
	timeLogRoutes.PUT("/:id", timeLogHandler.Update)
	timeLogRoutes.DELETE("/:id", timeLogHandler.Delete)

	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.GET("/:user_id/time-logs", timeLogHandler.ListByUser)

	attachmentRoutes := router.NewDomainGroup("attachments", "/attachments")
	attachmentRoutes.GET("/:id", attachmentHandler.Download)
	attachmentRoutes.DELETE("/:id", attachmentHandler.Delete)

	activityRoutes := router.NewDomainGroup("activities", "/activities")
	activityRoutes.GET("", activityHandler.List)

	notificationRoutes := router.NewDomainGroup("notifications", "/notifications")
	notificationRoutes.GET("", notificationHandler.List)
	notificationRoutes.GET("/unread-count", notificationHandler.UnreadCount)
	notificationRoutes.PUT("/read-all", notificationHandler.MarkAllRead)
	notificationRoutes.PUT("/:id/read", notificationHandler.MarkRead)
	notificationRoutes.DELETE("/:id", notificationHandler.Delete)

	r.Register(authRoutes).
		Register(projectRoutes).
		Register(taskRoutes).
		Register(teamRoutes).
		Register(tagRoutes).
		Register(timeLogRoutes).
		Register(userRoutes).
		Register(attachmentRoutes).
		Register(activityRoutes).
		Register(notificationRoutes)

	r.Setup()

	return &TestServer{
		DB:     testDB,
		Engine: engine,
		Blobs:  blobs,
		Bus:    eventBus,
		t:      t,
	}
}

// Response captures a completed request for assertions.
type Response struct {
	Code int
	Body map[string]any
	Raw  []byte
}

// Do performs a JSON request against the server. An empty token sends
// no Authorization header.
func (s *TestServer) Do(method, path, token string, body any) *Response {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err, "Failed to marshal request body")
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Engine.ServeHTTP(w, req)

	resp := &Response{Code: w.Code, Raw: w.Body.Bytes()}
	if len(resp.Raw) > 0 && resp.Raw[0] == '{' {
		_ = json.Unmarshal(resp.Raw, &resp.Body)
	}
	return resp
}

// Upload performs a multipart file upload against the server.
func (s *TestServer) Upload(path, token, filename string, content []byte) *Response {
	s.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(s.t, err, "Failed to create form file")
	_, err = fw.Write(content)
	require.NoError(s.t, err, "Failed to write form file")
	require.NoError(s.t, mw.Close(), "Failed to close multipart writer")

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Engine.ServeHTTP(w, req)

	resp := &Response{Code: w.Code, Raw: w.Body.Bytes()}
	if len(resp.Raw) > 0 && resp.Raw[0] == '{' {
		_ = json.Unmarshal(resp.Raw, &resp.Body)
	}
	return resp
}

// Data returns the response envelope's data field as a map.
func (r *Response) Data(t *testing.T) map[string]any {
	t.Helper()
	data, ok := r.Body["data"].(map[string]any)
	require.True(t, ok, "Expected object data field, body: %s", string(r.Raw))
	return data
}

// DataSlice returns the response envelope's data field as a slice.
func (r *Response) DataSlice(t *testing.T) []any {
	t.Helper()
	data, ok := r.Body["data"].([]any)
	require.True(t, ok, "Expected array data field, body: %s", string(r.Raw))
	return data
}

// DataMap returns the data field as a map, or nil when absent. Unlike
// Data it never fails the test, so it is safe inside polling loops.
func (r *Response) DataMap() map[string]any {
	data, _ := r.Body["data"].(map[string]any)
	return data
}

// DataList returns the data field as a slice, or nil when absent.
func (r *Response) DataList() []any {
	data, _ := r.Body["data"].([]any)
	return data
}

// ErrorCode returns the response envelope's error code.
func (r *Response) ErrorCode() string {
	code, _ := r.Body["code"].(string)
	return code
}

// Register creates a user account and returns its token and user ID.
func (s *TestServer) Register(email, password, name, role string) (token, userID string) {
	s.t.Helper()

	body := map[string]any{"email": email, "password": password, "name": name}
	if role != "" {
		body["role"] = role
	}
	resp := s.Do(http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(s.t, http.StatusOK, resp.Code, "Registration failed: %s", string(resp.Raw))

	data := resp.Data(s.t)
	token, _ = data["token"].(string)
	require.NotEmpty(s.t, token, "Expected token in registration response")

	user, ok := data["user"].(map[string]any)
	require.True(s.t, ok, "Expected user in registration response")
	userID, _ = user["id"].(string)
	require.NotEmpty(s.t, userID, "Expected user ID in registration response")

	return token, userID
}

// CreateProject creates a project as the given user and returns its ID.
func (s *TestServer) CreateProject(token, name string) string {
	s.t.Helper()

	resp := s.Do(http.MethodPost, "/api/v1/projects", token, map[string]any{"name": name})
	require.Equal(s.t, http.StatusOK, resp.Code, "Project creation failed: %s", string(resp.Raw))

	projectID, _ := resp.Data(s.t)["id"].(string)
	require.NotEmpty(s.t, projectID, "Expected project ID")
	return projectID
}

// CreateTask creates a task in the project and returns its ID.
func (s *TestServer) CreateTask(token, projectID, title string, extra map[string]any) string {
	s.t.Helper()

	body := map[string]any{"project_id": projectID, "title": title}
	for k, v := range extra {
		body[k] = v
	}
	resp := s.Do(http.MethodPost, "/api/v1/tasks", token, body)
	require.Equal(s.t, http.StatusOK, resp.Code, "Task creation failed: %s", string(resp.Raw))

	taskID, _ := resp.Data(s.t)["id"].(string)
	require.NotEmpty(s.t, taskID, "Expected task ID")
	return taskID
}

// WaitForEvents blocks until the event bus has delivered pending events.
func (s *TestServer) WaitForEvents(condition func() bool) {
	s.t.Helper()
	require.Eventually(s.t, condition, 3*time.Second, 20*time.Millisecond, "Event-driven condition not met")
}
