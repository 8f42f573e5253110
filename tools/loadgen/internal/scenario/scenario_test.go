package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmo/tools/loadgen/internal/client"
	"github.com/pmo/tools/loadgen/internal/config"
	"github.com/pmo/tools/loadgen/internal/pool"
)

// fakeBackend implements just enough of the PMO API for scenarios.
type fakeBackend struct {
	nextID  atomic.Uint64
	updates atomic.Int64
}

func (f *fakeBackend) id(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, f.nextID.Add(1))
}

func respond(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]any{
			"token": "tok-" + f.id("u"),
			"user":  map[string]string{"id": f.id("user")},
		})
	})
	mux.HandleFunc("POST /api/v1/projects", func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]string{"id": f.id("project")})
	})
	mux.HandleFunc("POST /api/v1/tasks", func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]string{"id": f.id("task")})
	})
	mux.HandleFunc("PUT /api/v1/tasks/", func(w http.ResponseWriter, r *http.Request) {
		f.updates.Add(1)
		respond(w, map[string]string{"status": "done"})
	})
	mux.HandleFunc("GET /api/v1/projects", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		respond(w, []any{})
	})
	return mux
}

func newTestSet(t *testing.T) (*Set, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	ids := pool.New(pool.Config{Capacity: 100})
	t.Cleanup(ids.Close)

	api := client.New(config.Target{
		BaseURL:    srv.URL,
		APIVersion: "v1",
		Timeout:    config.Duration(5 * time.Second),
	})
	return New(api, ids), backend
}

func TestSeedPopulatesPool(t *testing.T) {
	set, _ := newTestSet(t)

	err := set.Seed(context.Background(), config.Seed{
		Users:           2,
		ProjectsPerUser: 1,
		TasksPerProject: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, set.pool.Len(pool.KindSession))
	assert.Equal(t, 2, set.pool.Len(pool.KindProject))
	assert.Equal(t, 6, set.pool.Len(pool.KindTask))
}

func TestRunCompleteTaskUsesSeededState(t *testing.T) {
	set, backend := newTestSet(t)
	require.NoError(t, set.Seed(context.Background(), config.Seed{
		Users:           1,
		ProjectsPerUser: 1,
		TasksPerProject: 1,
	}))

	outcome, err := set.Run(context.Background(), "completeTask")
	require.NoError(t, err)

	assert.True(t, outcome.OK)
	assert.Equal(t, http.StatusOK, outcome.Status)
	assert.EqualValues(t, 1, backend.updates.Load())
}

func TestRunFailsWithoutPrecondition(t *testing.T) {
	set, _ := newTestSet(t)

	// An empty pool means there is no session to issue requests as.
	_, err := set.Run(context.Background(), "createProject")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no session")
}

func TestValidateRejectsUnknownOperations(t *testing.T) {
	set, _ := newTestSet(t)

	assert.NoError(t, set.Validate(map[string]int{"createTask": 1, "listProjects": 2}))

	err := set.Validate(map[string]int{"dropDatabase": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dropDatabase")
}
