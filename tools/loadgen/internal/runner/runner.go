// Package runner drives the steady-state phase of a load test: a fixed
// worker pool draws weighted operations and executes them until the
// run duration elapses, throttled by a shared rate limiter.
package runner

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pmo/tools/loadgen/internal/config"
	"github.com/pmo/tools/loadgen/internal/metrics"
	"github.com/pmo/tools/loadgen/internal/scenario"
)

// Mix picks operations with probability proportional to their weight.
type Mix struct {
	names  []string
	cumsum []int
	total  int
	mu     sync.Mutex
	rng    *rand.Rand
}

// NewMix builds a weighted picker. Names are sorted so equal profiles
// pick identically regardless of map iteration order.
func NewMix(weights map[string]int) *Mix {
	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)

	m := &Mix{
		names: names,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, name := range names {
		m.total += weights[name]
		m.cumsum = append(m.cumsum, m.total)
	}
	return m
}

// Pick returns one operation name.
func (m *Mix) Pick() string {
	m.mu.Lock()
	n := m.rng.Intn(m.total)
	m.mu.Unlock()
	idx := sort.SearchInts(m.cumsum, n+1)
	return m.names[idx]
}

// Runner executes a profile's steady-state phase.
type Runner struct {
	cfg       *config.Config
	set       *scenario.Set
	collector *metrics.Collector
}

// New wires a runner from its parts.
func New(cfg *config.Config, set *scenario.Set, collector *metrics.Collector) *Runner {
	return &Runner{cfg: cfg, set: set, collector: collector}
}

// Run blocks until the configured duration elapses or ctx is
// cancelled. Every operation outcome is recorded in the collector;
// transport and precondition failures count as status 0.
func (r *Runner) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Duration.Std())
	defer cancel()

	limiter := rate.NewLimiter(rate.Limit(r.cfg.QPS), r.cfg.Concurrency)
	mix := NewMix(r.cfg.Mix)

	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if err := limiter.Wait(ctx); err != nil {
					return
				}
				op := mix.Pick()
				start := time.Now()
				outcome, err := r.set.Run(ctx, op)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					r.collector.Record(op, 0, time.Since(start), false)
					continue
				}
				r.collector.Record(op, outcome.Status, time.Since(start), outcome.OK)
			}
		}()
	}
	wg.Wait()
}
