// loadgen replays a weighted mix of PMO API operations against a
// running backend and reports latency and error statistics.
//
// Usage:
//
//	loadgen -config profile.yaml
//	loadgen -duration 30s -qps 50
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pmo/tools/loadgen/internal/client"
	"github.com/pmo/tools/loadgen/internal/config"
	"github.com/pmo/tools/loadgen/internal/metrics"
	"github.com/pmo/tools/loadgen/internal/pool"
	"github.com/pmo/tools/loadgen/internal/runner"
	"github.com/pmo/tools/loadgen/internal/scenario"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "loadgen:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  = flag.String("config", "", "path to a YAML profile (defaults apply when omitted)")
		baseURL     = flag.String("target", "", "override target base URL")
		duration    = flag.Duration("duration", 0, "override run duration")
		qps         = flag.Float64("qps", 0, "override target requests per second")
		concurrency = flag.Int("concurrency", 0, "override worker count")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *baseURL != "" {
		cfg.Target.BaseURL = *baseURL
	}
	if *duration > 0 {
		cfg.Duration = config.Duration(*duration)
	}
	if *qps > 0 {
		cfg.QPS = *qps
	}
	if *concurrency > 0 {
		cfg.Concurrency = *concurrency
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := client.New(cfg.Target)
	ids := pool.New(pool.DefaultConfig())
	defer ids.Close()

	set := scenario.New(api, ids)
	if err := set.Validate(cfg.Mix); err != nil {
		return err
	}

	collector := metrics.NewCollector()
	if cfg.Prometheus != "" {
		prom := metrics.NewPrometheus(cfg.Prometheus)
		collector.Attach(prom)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = prom.Shutdown(shutdownCtx)
		}()
		fmt.Printf("Prometheus metrics on %s/metrics\n", cfg.Prometheus)
	}

	fmt.Printf("Seeding %d users (%d projects each, %d tasks per project) against %s\n",
		cfg.Seed.Users, cfg.Seed.ProjectsPerUser, cfg.Seed.TasksPerProject, cfg.Target.BaseURL)
	if err := set.Seed(ctx, cfg.Seed); err != nil {
		return fmt.Errorf("seeding: %w", err)
	}

	fmt.Printf("Running %q for %s at %.0f qps with %d workers\n",
		cfg.Name, cfg.Duration.Std(), cfg.QPS, cfg.Concurrency)
	runner.New(cfg, set, collector).Run(ctx)

	fmt.Println()
	collector.Snapshot().WriteText(os.Stdout, cfg.Name)
	return nil
}
