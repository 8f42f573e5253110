package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus exposes live run metrics on /metrics so long runs can be
// watched from Grafana instead of waiting for the final console report.
type Prometheus struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	server   *http.Server
}

// NewPrometheus builds the exporter and starts serving on addr.
func NewPrometheus(addr string) *Prometheus {
	reg := prometheus.NewRegistry()
	p := &Prometheus{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loadgen_requests_total",
			Help: "Requests issued, labelled by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "loadgen_request_duration_seconds",
			Help:    "Request latency by operation.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"operation"}),
	}
	reg.MustRegister(
		p.requests,
		p.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	p.server = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := p.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			// The exporter is best effort; the run itself continues.
			return
		}
	}()
	return p
}

// Observe records one request outcome.
func (p *Prometheus) Observe(op string, ok bool, latency time.Duration) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	p.requests.WithLabelValues(op, outcome).Inc()
	p.duration.WithLabelValues(op).Observe(latency.Seconds())
}

// Shutdown stops the /metrics listener.
func (p *Prometheus) Shutdown(ctx context.Context) error {
	return p.server.Shutdown(ctx)
}
