package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is a unit of background work the runner drives on a fixed interval
type Job interface {
	// Name identifies the job in logs
	Name() string
	// Run performs one pass of the job's work
	Run(ctx context.Context) error
}

// Runner periodically runs registered jobs on a shared ticker.
// Each run gets its own timeout, and a panicking job is contained so the
// ticker keeps going.
type Runner struct {
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	mu        sync.Mutex
	jobs      []Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
}

// NewRunner creates a runner that fires every interval and gives each job
// run at most timeout to finish
func NewRunner(interval, timeout time.Duration, logger *zap.Logger) *Runner {
	return &Runner{
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Register adds a job to the runner. Jobs must be registered before Start;
// later registrations are ignored until the next Start.
func (r *Runner) Register(job Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, job)
}

// Start launches the ticker loop. Jobs run once immediately, then on every
// tick. Calling Start on a running runner is a no-op.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.isRunning {
		r.mu.Unlock()
		return nil
	}
	r.isRunning = true
	jobs := append([]Job(nil), r.jobs...)
	r.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go r.loop(ctx, jobs)

	r.logger.Info("scheduler started",
		zap.Duration("interval", r.interval),
		zap.Duration("job_timeout", r.timeout),
		zap.Int("jobs", len(jobs)),
	)

	return nil
}

// Stop cancels the ticker loop and waits for an in-flight pass to finish
func (r *Runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return nil
	}
	r.isRunning = false
	r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}

	// Wait for the loop to drain with timeout
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		r.logger.Warn("scheduler stop timed out")
		return ctx.Err()
	}
}

// loop runs all jobs immediately and then on every tick
func (r *Runner) loop(ctx context.Context, jobs []Job) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.runAll(ctx, jobs)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.runAll(ctx, jobs)
		}
	}
}

// runAll performs one pass over every registered job
func (r *Runner) runAll(ctx context.Context, jobs []Job) {
	for _, job := range jobs {
		if ctx.Err() != nil {
			return
		}
		r.runJob(ctx, job)
	}
}

// runJob executes one pass of a job with a per-run timeout, converting a
// panic into an error so one bad job cannot take down the runner
func (r *Runner) runJob(ctx context.Context, job Job) {
	jobCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()

	err := func() (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("job panicked: %v", rec)
			}
		}()
		return job.Run(jobCtx)
	}()

	if err != nil {
		r.logger.Error("scheduled job failed",
			zap.String("job", job.Name()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return
	}

	r.logger.Debug("scheduled job completed",
		zap.String("job", job.Name()),
		zap.Duration("elapsed", time.Since(start)),
	)
}
