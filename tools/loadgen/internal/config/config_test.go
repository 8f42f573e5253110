package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFullProfile(t *testing.T) {
	path := writeProfile(t, `
name: nightly
description: sustained write-heavy run
target:
  baseURL: http://pmo.internal:8080
  apiVersion: v1
  timeout: 15s
  headers:
    X-Load-Test: nightly
duration: 30m
concurrency: 16
qps: 120
seed:
  users: 20
  projectsPerUser: 3
  tasksPerProject: 10
mix:
  createTask: 40
  listTasks: 30
  logTime: 30
prometheus: ":9109"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "nightly", cfg.Name)
	assert.Equal(t, "http://pmo.internal:8080", cfg.Target.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Target.Timeout.Std())
	assert.Equal(t, "nightly", cfg.Target.Headers["X-Load-Test"])
	assert.Equal(t, 30*time.Minute, cfg.Duration.Std())
	assert.Equal(t, 16, cfg.Concurrency)
	assert.Equal(t, 120.0, cfg.QPS)
	assert.Equal(t, 20, cfg.Seed.Users)
	assert.Equal(t, 40, cfg.Mix["createTask"])
	assert.Equal(t, ":9109", cfg.Prometheus)
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeProfile(t, `
target:
  baseURL: http://localhost:9999
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pmo-smoke", cfg.Name)
	assert.Equal(t, "http://localhost:9999", cfg.Target.BaseURL)
	assert.Equal(t, "v1", cfg.Target.APIVersion)
	assert.Equal(t, 10*time.Second, cfg.Target.Timeout.Std())
	assert.Equal(t, time.Minute, cfg.Duration.Std())
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 25.0, cfg.QPS)
	assert.Equal(t, 5, cfg.Seed.Users)
	assert.NotEmpty(t, cfg.Mix)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeProfile(t, `
target:
  baseURL: http://localhost:8080
concurency: 8
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "concurency")
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeProfile(t, `
target:
  baseURL: http://localhost:8080
duration: fast
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateMixWeights(t *testing.T) {
	cfg := Default()
	cfg.Mix = map[string]int{"listProjects": 0}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listProjects")

	cfg.Mix = map[string]int{"listProjects": 10}
	assert.NoError(t, cfg.Validate())
}

func TestValidateRequiresBaseURL(t *testing.T) {
	cfg := Default()
	cfg.Target.BaseURL = ""
	require.Error(t, cfg.Validate())
}
