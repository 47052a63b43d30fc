package health

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// ProbeResult is the outcome of one dependency check.
type ProbeResult struct {
	Name      string `json:"name"`
	OK        bool   `json:"ok"`
	LatencyMs int64  `json:"latencyMs"`
	Error     string `json:"error,omitempty"`
}

// PingFunc checks a single dependency.
type PingFunc func(ctx context.Context) error

// NewCircuitBreaker returns a breaker that trips after maxFailures consecutive
// failures and half-opens after openTimeout.
func NewCircuitBreaker(name string, maxFailures uint32, openTimeout time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
	})
}

// Probe runs a PingFunc through a circuit breaker with a per-call timeout.
type Probe struct {
	name    string
	ping    PingFunc
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
}

// NewProbe creates a probe.
func NewProbe(name string, ping PingFunc, cb *gobreaker.CircuitBreaker, timeout time.Duration) *Probe {
	return &Probe{name: name, ping: ping, cb: cb, timeout: timeout}
}

// Name returns the dependency name.
func (p *Probe) Name() string {
	return p.name
}

// Check pings the dependency. While the breaker is open the call returns
// immediately with "circuit open".
func (p *Probe) Check(ctx context.Context) ProbeResult {
	start := time.Now()

	_, err := p.cb.Execute(func() (interface{}, error) {
		pctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return nil, p.ping(pctx)
	})

	result := ProbeResult{
		Name:      p.name,
		OK:        err == nil,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		result.Error = err.Error()
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			result.Error = "circuit open"
		}
	}
	return result
}

// Checker aggregates probes.
type Checker struct {
	probes []*Probe
}

// NewChecker creates a checker over probes.
func NewChecker(probes ...*Probe) *Checker {
	return &Checker{probes: probes}
}

// Add registers another probe.
func (c *Checker) Add(p *Probe) {
	c.probes = append(c.probes, p)
}

// Check runs every probe concurrently and reports whether all passed.
func (c *Checker) Check(ctx context.Context) (bool, []ProbeResult) {
	results := make([]ProbeResult, len(c.probes))

	var wg sync.WaitGroup
	for i, p := range c.probes {
		wg.Add(1)
		go func(i int, p *Probe) {
			defer wg.Done()
			results[i] = p.Check(ctx)
		}(i, p)
	}
	wg.Wait()

	healthy := true
	for _, r := range results {
		if !r.OK {
			healthy = false
		}
	}
	return healthy, results
}
