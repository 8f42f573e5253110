// Package metrics aggregates request outcomes during a run and renders them
// as a console report, optionally mirroring them to Prometheus.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"text/tabwriter"
	"time"
)

// maxLatencySamples caps the latency buffer so multi-hour runs do not grow
// memory without bound. Percentiles are computed over the most recent window.
const maxLatencySamples = 100000

// Collector accumulates per-request results. All methods are safe for
// concurrent use by many workers.
type Collector struct {
	started time.Time

	total   atomic.Int64
	success atomic.Int64
	failed  atomic.Int64

	mu        sync.Mutex
	latencies []int64 // nanoseconds, capped at maxLatencySamples
	ops       map[string]*opStats
	statuses  map[int]int64

	prom *Prometheus
}

type opStats struct {
	count  int64
	errors int64
	total  time.Duration
	max    time.Duration
}

// NewCollector returns a collector with its clock started.
func NewCollector() *Collector {
	return &Collector{
		started:  time.Now(),
		ops:      make(map[string]*opStats),
		statuses: make(map[int]int64),
	}
}

// Attach mirrors every recorded sample to the given Prometheus exporter.
func (c *Collector) Attach(p *Prometheus) { c.prom = p }

// Record stores one request outcome. A request counts as successful when
// ok is true, regardless of transport status, so scenarios decide what
// success means for their operation.
func (c *Collector) Record(op string, status int, latency time.Duration, ok bool) {
	c.total.Add(1)
	if ok {
		c.success.Add(1)
	} else {
		c.failed.Add(1)
	}

	c.mu.Lock()
	if len(c.latencies) >= maxLatencySamples {
		copy(c.latencies, c.latencies[1:])
		c.latencies = c.latencies[:maxLatencySamples-1]
	}
	c.latencies = append(c.latencies, int64(latency))
	s := c.ops[op]
	if s == nil {
		s = &opStats{}
		c.ops[op] = s
	}
	s.count++
	if !ok {
		s.errors++
	}
	s.total += latency
	if latency > s.max {
		s.max = latency
	}
	c.statuses[status]++
	c.mu.Unlock()

	if c.prom != nil {
		c.prom.Observe(op, ok, latency)
	}
}

// LatencySummary is the latency distribution of a snapshot.
type LatencySummary struct {
	Min time.Duration
	Avg time.Duration
	P50 time.Duration
	P95 time.Duration
	P99 time.Duration
	Max time.Duration
}

// OpSummary is the per-operation slice of a snapshot.
type OpSummary struct {
	Count  int64
	Errors int64
	Avg    time.Duration
	Max    time.Duration
}

// Snapshot is a consistent view of everything recorded so far.
type Snapshot struct {
	Elapsed  time.Duration
	Total    int64
	Success  int64
	Failed   int64
	RPS      float64
	Latency  LatencySummary
	Ops      map[string]OpSummary
	Statuses map[int]int64
}

// Snapshot computes the current aggregate view.
func (c *Collector) Snapshot() Snapshot {
	snap := Snapshot{
		Elapsed:  time.Since(c.started),
		Total:    c.total.Load(),
		Success:  c.success.Load(),
		Failed:   c.failed.Load(),
		Ops:      make(map[string]OpSummary),
		Statuses: make(map[int]int64),
	}
	if secs := snap.Elapsed.Seconds(); secs > 0 {
		snap.RPS = float64(snap.Total) / secs
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for op, s := range c.ops {
		sum := OpSummary{Count: s.count, Errors: s.errors, Max: s.max}
		if s.count > 0 {
			sum.Avg = s.total / time.Duration(s.count)
		}
		snap.Ops[op] = sum
	}
	for code, n := range c.statuses {
		snap.Statuses[code] = n
	}

	if len(c.latencies) > 0 {
		sorted := make([]int64, len(c.latencies))
		copy(sorted, c.latencies)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		var total int64
		for _, v := range sorted {
			total += v
		}
		snap.Latency = LatencySummary{
			Min: time.Duration(sorted[0]),
			Avg: time.Duration(total / int64(len(sorted))),
			P50: percentile(sorted, 50),
			P95: percentile(sorted, 95),
			P99: percentile(sorted, 99),
			Max: time.Duration(sorted[len(sorted)-1]),
		}
	}
	return snap
}

func percentile(sorted []int64, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)) * p / 100)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return time.Duration(sorted[idx])
}

// WriteText renders the snapshot as the console report shown when a run
// finishes.
func (s Snapshot) WriteText(w io.Writer, name string) {
	errRate := 0.0
	if s.Total > 0 {
		errRate = float64(s.Failed) / float64(s.Total) * 100
	}
	fmt.Fprintf(w, "Run:        %s\n", name)
	fmt.Fprintf(w, "Elapsed:    %s\n", s.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "Requests:   %d total, %d ok, %d failed (%.1f%% errors)\n", s.Total, s.Success, s.Failed, errRate)
	fmt.Fprintf(w, "Throughput: %.1f req/s\n", s.RPS)
	fmt.Fprintf(w, "Latency:    min %s  avg %s  p50 %s  p95 %s  p99 %s  max %s\n\n",
		round(s.Latency.Min), round(s.Latency.Avg), round(s.Latency.P50),
		round(s.Latency.P95), round(s.Latency.P99), round(s.Latency.Max))

	if len(s.Ops) > 0 {
		fmt.Fprintln(w, "Per operation:")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  OPERATION\tCOUNT\tERRORS\tAVG\tMAX")
		names := make([]string, 0, len(s.Ops))
		for op := range s.Ops {
			names = append(names, op)
		}
		sort.Strings(names)
		for _, op := range names {
			o := s.Ops[op]
			fmt.Fprintf(tw, "  %s\t%d\t%d\t%s\t%s\n", op, o.Count, o.Errors, round(o.Avg), round(o.Max))
		}
		tw.Flush()
		fmt.Fprintln(w)
	}

	if len(s.Statuses) > 0 {
		fmt.Fprintln(w, "Status codes:")
		codes := make([]int, 0, len(s.Statuses))
		for code := range s.Statuses {
			codes = append(codes, code)
		}
		sort.Ints(codes)
		for _, code := range codes {
			label := fmt.Sprintf("%d", code)
			if code == 0 {
				label = "transport error"
			}
			fmt.Fprintf(w, "  %s: %d\n", label, s.Statuses[code])
		}
	}
}

func round(d time.Duration) time.Duration {
	switch {
	case d >= time.Second:
		return d.Round(10 * time.Millisecond)
	case d >= time.Millisecond:
		return d.Round(100 * time.Microsecond)
	default:
		return d.Round(time.Microsecond)
	}
}
