// Package scenario turns profile operation names into API traffic. Each
// operation draws the identifiers it needs from the pool and publishes
// the ones it creates, so the mix keeps referencing live server state.
package scenario

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/pmo/tools/loadgen/internal/client"
	"github.com/pmo/tools/loadgen/internal/config"
	"github.com/pmo/tools/loadgen/internal/pool"
)

// projectRef ties a project id to a session that owns it.
type projectRef struct {
	ID    string
	Owner client.Session
}

// taskRef ties a task id to its project and a session with access.
type taskRef struct {
	ID      string
	Project string
	Session client.Session
}

// Outcome is what one executed operation reports to the collector.
type Outcome struct {
	Status int
	OK     bool
}

// Set owns the operation implementations for one run.
type Set struct {
	client *client.Client
	pool   *pool.Pool

	mu    sync.Mutex
	faker *gofakeit.Faker

	seq atomic.Uint64 // uniqueness suffix for emails and tag names

	ops map[string]func(ctx context.Context) (Outcome, error)
}

// New builds the operation set backed by the given client and pool.
func New(c *client.Client, p *pool.Pool) *Set {
	s := &Set{
		client: c,
		pool:   p,
		faker:  gofakeit.New(0),
	}
	s.ops = map[string]func(context.Context) (Outcome, error){
		"createProject":     s.createProject,
		"createTask":        s.createTask,
		"completeTask":      s.completeTask,
		"listProjects":      s.listProjects,
		"listTasks":         s.listTasks,
		"logTime":           s.logTime,
		"listNotifications": s.listNotifications,
		"createTag":         s.createTag,
	}
	return s
}

// Names lists the operations this set implements.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.ops))
	for name := range s.ops {
		names = append(names, name)
	}
	return names
}

// Validate checks that every operation named in the mix exists.
func (s *Set) Validate(mix map[string]int) error {
	for name := range mix {
		if _, ok := s.ops[name]; !ok {
			return fmt.Errorf("unknown operation %q in mix", name)
		}
	}
	return nil
}

// Run executes one named operation.
func (s *Set) Run(ctx context.Context, name string) (Outcome, error) {
	op, ok := s.ops[name]
	if !ok {
		return Outcome{}, fmt.Errorf("unknown operation %q", name)
	}
	return op(ctx)
}

// Seed registers users and creates the initial projects and tasks so
// steady-state operations have entities to reference.
func (s *Set) Seed(ctx context.Context, seed config.Seed) error {
	for i := 0; i < seed.Users; i++ {
		email := s.uniqueEmail()
		sess, err := s.client.Register(ctx, email, "loadgen-secret-1", s.fakeName())
		if err != nil {
			return fmt.Errorf("seed user %d: %w", i, err)
		}
		s.pool.Add(pool.KindSession, sess)
		s.pool.Add(pool.KindEmail, email)
		s.pool.Add(pool.KindUser, sess.UserID)

		for j := 0; j < seed.ProjectsPerUser; j++ {
			ref, err := s.newProject(ctx, sess)
			if err != nil {
				return fmt.Errorf("seed project %d for user %d: %w", j, i, err)
			}
			for k := 0; k < seed.TasksPerProject; k++ {
				if _, err := s.newTask(ctx, ref); err != nil {
					return fmt.Errorf("seed task %d in project %s: %w", k, ref.ID, err)
				}
			}
		}
	}
	return nil
}

func (s *Set) session() (client.Session, bool) {
	v, ok := s.pool.Random(pool.KindSession)
	if !ok {
		return client.Session{}, false
	}
	sess, ok := v.(client.Session)
	return sess, ok
}

func (s *Set) createProject(ctx context.Context) (Outcome, error) {
	sess, ok := s.session()
	if !ok {
		return Outcome{}, fmt.Errorf("no session available")
	}
	if _, err := s.newProject(ctx, sess); err != nil {
		return Outcome{}, err
	}
	return Outcome{Status: http.StatusOK, OK: true}, nil
}

func (s *Set) newProject(ctx context.Context, sess client.Session) (projectRef, error) {
	body := map[string]any{
		"name":        s.fakeProjectName(),
		"description": s.fakeSentence(),
		"priority":    s.pick("low", "medium", "high", "critical"),
	}
	res, err := s.client.Do(ctx, http.MethodPost, "/projects", sess.Token, body)
	if err != nil {
		return projectRef{}, err
	}
	if res.Status != http.StatusOK {
		return projectRef{}, fmt.Errorf("create project: status %d code %s", res.Status, res.Body.Code)
	}
	ref := projectRef{ID: client.ID(res.Body), Owner: sess}
	s.pool.Add(pool.KindProject, ref)
	return ref, nil
}

func (s *Set) createTask(ctx context.Context) (Outcome, error) {
	v, ok := s.pool.Random(pool.KindProject)
	if !ok {
		return Outcome{}, fmt.Errorf("no project available")
	}
	ref := v.(projectRef)
	if _, err := s.newTask(ctx, ref); err != nil {
		return Outcome{}, err
	}
	return Outcome{Status: http.StatusOK, OK: true}, nil
}

func (s *Set) newTask(ctx context.Context, project projectRef) (taskRef, error) {
	body := map[string]any{
		"project_id": project.ID,
		"title":      s.fakeTaskTitle(),
		"priority":   s.pick("low", "medium", "high"),
		"due_date":   time.Now().Add(72 * time.Hour).Format(time.RFC3339),
	}
	res, err := s.client.Do(ctx, http.MethodPost, "/tasks", project.Owner.Token, body)
	if err != nil {
		return taskRef{}, err
	}
	if res.Status != http.StatusOK {
		return taskRef{}, fmt.Errorf("create task: status %d code %s", res.Status, res.Body.Code)
	}
	ref := taskRef{ID: client.ID(res.Body), Project: project.ID, Session: project.Owner}
	s.pool.Add(pool.KindTask, ref)
	return ref, nil
}

func (s *Set) completeTask(ctx context.Context) (Outcome, error) {
	v, ok := s.pool.Random(pool.KindTask)
	if !ok {
		return Outcome{}, fmt.Errorf("no task available")
	}
	ref := v.(taskRef)
	res, err := s.client.Do(ctx, http.MethodPut, "/tasks/"+ref.ID, ref.Session.Token, map[string]any{
		"status": "done",
	})
	if err != nil {
		return Outcome{}, err
	}
	// A task deleted by a concurrent worker legitimately 404s.
	ok = res.Status == http.StatusOK || res.Status == http.StatusNotFound
	return Outcome{Status: res.Status, OK: ok}, nil
}

func (s *Set) listProjects(ctx context.Context) (Outcome, error) {
	return s.simpleGet(ctx, "/projects")
}

func (s *Set) listTasks(ctx context.Context) (Outcome, error) {
	return s.simpleGet(ctx, "/tasks")
}

func (s *Set) listNotifications(ctx context.Context) (Outcome, error) {
	return s.simpleGet(ctx, "/notifications")
}

func (s *Set) simpleGet(ctx context.Context, path string) (Outcome, error) {
	sess, ok := s.session()
	if !ok {
		return Outcome{}, fmt.Errorf("no session available")
	}
	res, err := s.client.Do(ctx, http.MethodGet, path, sess.Token, nil)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Status: res.Status, OK: res.Status == http.StatusOK}, nil
}

func (s *Set) logTime(ctx context.Context) (Outcome, error) {
	v, ok := s.pool.Random(pool.KindTask)
	if !ok {
		return Outcome{}, fmt.Errorf("no task available")
	}
	ref := v.(taskRef)
	res, err := s.client.Do(ctx, http.MethodPost, "/time-logs", ref.Session.Token, map[string]any{
		"task_id": ref.ID,
		"hours":   s.fakeHours(),
		"date":    time.Now().Format("2006-01-02"),
	})
	if err != nil {
		return Outcome{}, err
	}
	ok = res.Status == http.StatusOK || res.Status == http.StatusNotFound
	return Outcome{Status: res.Status, OK: ok}, nil
}

func (s *Set) createTag(ctx context.Context) (Outcome, error) {
	sess, ok := s.session()
	if !ok {
		return Outcome{}, fmt.Errorf("no session available")
	}
	res, err := s.client.Do(ctx, http.MethodPost, "/tags", sess.Token, map[string]any{
		"name":  s.uniqueTagName(),
		"color": s.fakeColor(),
	})
	if err != nil {
		return Outcome{}, err
	}
	// Names carry a unique suffix, but a retried request can still
	// collide; the duplicate rejection is correct behavior.
	ok = res.Status == http.StatusOK || res.Status == http.StatusBadRequest || res.Status == http.StatusConflict
	if res.Status == http.StatusOK {
		s.pool.Add(pool.KindTag, client.ID(res.Body))
	}
	return Outcome{Status: res.Status, OK: ok}, nil
}

// gofakeit's Faker is not safe for concurrent use, so every draw goes
// through the mutex.

func (s *Set) fakeName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.Name()
}

func (s *Set) fakeProjectName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.AppName() + " " + s.faker.Word()
}

func (s *Set) fakeTaskTitle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.Verb() + " " + s.faker.NounConcrete()
}

func (s *Set) fakeSentence() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.Sentence(8)
}

func (s *Set) fakeColor() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.HexColor()
}

func (s *Set) fakeHours() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.Float32Range(0.25, 8)
}

func (s *Set) pick(options ...string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return options[s.faker.Number(0, len(options)-1)]
}

func (s *Set) uniqueEmail() string {
	s.mu.Lock()
	user := s.faker.Username()
	s.mu.Unlock()
	return fmt.Sprintf("%s-%d@loadgen.local", user, s.seq.Add(1))
}

func (s *Set) uniqueTagName() string {
	s.mu.Lock()
	word := s.faker.Word()
	s.mu.Unlock()
	return fmt.Sprintf("%s-%d", word, s.seq.Add(1))
}
