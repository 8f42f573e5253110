// Package pool keeps identifiers harvested from earlier responses so later
// requests can reference live server state. Each semantic kind is stored in
// a fixed-capacity ring: once a ring is full the oldest value is overwritten,
// which keeps the working set fresh without unbounded growth during long
// runs.
package pool

import (
	"math/rand"
	"sync"
	"time"
)

// Config tunes a Pool. Zero values fall back to defaults.
type Config struct {
	// Capacity is the maximum number of values retained per kind.
	Capacity int
	// DefaultTTL bounds the lifetime of values added with Add. Zero means
	// values never expire.
	DefaultTTL time.Duration
	// CleanupInterval is how often expired values are swept out. Zero
	// disables the background sweeper; expired values are then only
	// skipped lazily on draw.
	CleanupInterval time.Duration
}

// DefaultConfig matches a medium-length run against a single backend.
func DefaultConfig() Config {
	return Config{
		Capacity:        10000,
		DefaultTTL:      30 * time.Minute,
		CleanupInterval: time.Minute,
	}
}

// Stats is a point-in-time snapshot of pool activity.
type Stats struct {
	Adds      uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Expired   uint64
	Sizes     map[Kind]int
}

type ring struct {
	values []Value
	next   int // insertion cursor, wraps at cap
	filled bool
}

// Pool is a thread-safe store of recently seen identifiers grouped by kind.
type Pool struct {
	mu    sync.Mutex
	rings map[Kind]*ring
	cfg   Config
	rng   *rand.Rand

	adds      uint64
	hits      uint64
	misses    uint64
	evictions uint64
	expired   uint64

	stop chan struct{}
	done chan struct{}
}

// New builds a Pool and, when configured, starts its background sweeper.
func New(cfg Config) *Pool {
	def := DefaultConfig()
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	p := &Pool{
		rings: make(map[Kind]*ring),
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	if cfg.CleanupInterval > 0 {
		go p.sweep()
	} else {
		close(p.done)
	}
	return p
}

// Add stores data under the given kind using the pool's default TTL.
func (p *Pool) Add(kind Kind, data any) {
	var expires time.Time
	if p.cfg.DefaultTTL > 0 {
		expires = time.Now().Add(p.cfg.DefaultTTL)
	}
	p.put(Value{Data: data, Kind: kind, CreatedAt: time.Now(), ExpiresAt: expires})
}

// AddWithTTL stores data with an explicit lifetime. A non-positive ttl makes
// the value permanent.
func (p *Pool) AddWithTTL(kind Kind, data any, ttl time.Duration) {
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}
	p.put(Value{Data: data, Kind: kind, CreatedAt: time.Now(), ExpiresAt: expires})
}

func (p *Pool) put(v Value) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r := p.rings[v.Kind]
	if r == nil {
		r = &ring{values: make([]Value, 0, p.cfg.Capacity)}
		p.rings[v.Kind] = r
	}
	if len(r.values) < p.cfg.Capacity {
		r.values = append(r.values, v)
	} else {
		r.values[r.next] = v
		r.next = (r.next + 1) % p.cfg.Capacity
		r.filled = true
		p.evictions++
	}
	p.adds++
}

// Random draws a uniformly random live value of the given kind. The value
// stays in the pool so many workers can reuse the same identifier, mirroring
// real clients hammering hot entities.
func (p *Pool) Random(kind Kind) (any, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r := p.rings[kind]
	if r == nil || len(r.values) == 0 {
		p.misses++
		return nil, false
	}
	now := time.Now()
	// A few probes before giving up keeps the fast path allocation free
	// even when part of the ring has expired.
	for range 4 {
		v := r.values[p.rng.Intn(len(r.values))]
		if !v.Expired(now) {
			p.hits++
			return v.Data, true
		}
	}
	for _, v := range r.values {
		if !v.Expired(now) {
			p.hits++
			return v.Data, true
		}
	}
	p.misses++
	return nil, false
}

// Len reports how many values (live or expired) are held for a kind.
func (p *Pool) Len(kind Kind) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if r := p.rings[kind]; r != nil {
		return len(r.values)
	}
	return 0
}

// Stats returns a snapshot of counters and per-kind sizes.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := Stats{
		Adds:      p.adds,
		Hits:      p.hits,
		Misses:    p.misses,
		Evictions: p.evictions,
		Expired:   p.expired,
		Sizes:     make(map[Kind]int, len(p.rings)),
	}
	for k, r := range p.rings {
		s.Sizes[k] = len(r.values)
	}
	return s
}

// Close stops the background sweeper and waits for it to exit.
func (p *Pool) Close() {
	select {
	case <-p.stop:
	default:
		close(p.stop)
	}
	<-p.done
}

func (p *Pool) sweep() {
	defer close(p.done)
	ticker := time.NewTicker(p.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.removeExpired()
		}
	}
}

func (p *Pool) removeExpired() {
	now := time.Now()
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.rings {
		kept := r.values[:0]
		for _, v := range r.values {
			if v.Expired(now) {
				p.expired++
				continue
			}
			kept = append(kept, v)
		}
		r.values = kept
		if r.next >= len(r.values) {
			r.next = 0
		}
	}
}
