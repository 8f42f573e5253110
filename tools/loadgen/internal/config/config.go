// Package config loads and validates load test profiles from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so profiles can say "90s" or "5m" instead of
// raw nanoseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Target describes the backend under test.
type Target struct {
	BaseURL    string            `yaml:"baseURL"`
	APIVersion string            `yaml:"apiVersion"`
	Timeout    Duration          `yaml:"timeout"`
	Headers    map[string]string `yaml:"headers"`
}

// Seed controls how much state is created before steady load starts. Every
// run needs at least one registered user so authenticated operations have a
// session to draw from.
type Seed struct {
	Users           int `yaml:"users"`
	ProjectsPerUser int `yaml:"projectsPerUser"`
	TasksPerProject int `yaml:"tasksPerProject"`
}

// Config is a complete load test profile.
type Config struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Target      Target         `yaml:"target"`
	Duration    Duration       `yaml:"duration"`
	Concurrency int            `yaml:"concurrency"`
	QPS         float64        `yaml:"qps"`
	Seed        Seed           `yaml:"seed"`
	Mix         map[string]int `yaml:"mix"`
	Prometheus  string         `yaml:"prometheus"`
}

// Default returns a profile suitable for a quick local smoke run.
func Default() *Config {
	return &Config{
		Name: "pmo-smoke",
		Target: Target{
			BaseURL:    "http://localhost:8080",
			APIVersion: "v1",
			Timeout:    Duration(10 * time.Second),
		},
		Duration:    Duration(time.Minute),
		Concurrency: 4,
		QPS:         25,
		Seed: Seed{
			Users:           5,
			ProjectsPerUser: 2,
			TasksPerProject: 5,
		},
		Mix: map[string]int{
			"createProject":     5,
			"createTask":        20,
			"completeTask":      10,
			"listProjects":      20,
			"listTasks":         15,
			"logTime":           15,
			"listNotifications": 10,
			"createTag":         5,
		},
	}
}

// Load reads a profile from path, filling unset fields with defaults.
// Unknown keys are rejected so typos fail fast instead of silently running
// with defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg := &Config{}
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Name == "" {
		c.Name = def.Name
	}
	if c.Target.BaseURL == "" {
		c.Target.BaseURL = def.Target.BaseURL
	}
	if c.Target.APIVersion == "" {
		c.Target.APIVersion = def.Target.APIVersion
	}
	if c.Target.Timeout <= 0 {
		c.Target.Timeout = def.Target.Timeout
	}
	if c.Duration <= 0 {
		c.Duration = def.Duration
	}
	if c.Concurrency <= 0 {
		c.Concurrency = def.Concurrency
	}
	if c.QPS <= 0 {
		c.QPS = def.QPS
	}
	if c.Seed.Users <= 0 {
		c.Seed.Users = def.Seed.Users
	}
	if c.Seed.ProjectsPerUser < 0 {
		c.Seed.ProjectsPerUser = 0
	}
	if c.Seed.TasksPerProject < 0 {
		c.Seed.TasksPerProject = 0
	}
	if len(c.Mix) == 0 {
		c.Mix = def.Mix
	}
}

// Validate rejects profiles that cannot produce a meaningful run.
func (c *Config) Validate() error {
	if c.Target.BaseURL == "" {
		return fmt.Errorf("target.baseURL is required")
	}
	if c.Concurrency > 10000 {
		return fmt.Errorf("concurrency %d is unreasonably high", c.Concurrency)
	}
	total := 0
	for op, weight := range c.Mix {
		if weight <= 0 {
			return fmt.Errorf("mix weight for %q must be positive, got %d", op, weight)
		}
		total += weight
	}
	if total == 0 {
		return fmt.Errorf("mix must contain at least one operation")
	}
	return nil
}
