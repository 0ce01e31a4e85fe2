package observability

import (
	"context"
	"sync"
)

// HealthStatus is ordered: down is worse than degraded, degraded worse than up.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusDown     HealthStatus = "down"
)

func (s HealthStatus) rank() int {
	switch s {
	case HealthStatusDown:
		return 2
	case HealthStatusDegraded:
		return 1
	}
	return 0
}

// Health is one dependency's report, such as the rule table, the snapshot
// cache or the upstream API.
type Health struct {
	Name    string            `json:"name"`
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// ServiceHealth is the body of /health. Status is the worst component status.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// Unhealthy lists the components that are not up.
func (sh ServiceHealth) Unhealthy() []Health {
	var out []Health
	for _, h := range sh.Components {
		if h.Status != HealthStatusUp {
			out = append(out, h)
		}
	}
	return out
}

type HealthChecker interface {
	CheckHealth(ctx context.Context) Health
}

// HealthCheckerFunc adapts a function to HealthChecker.
type HealthCheckerFunc func(ctx context.Context) Health

func (f HealthCheckerFunc) CheckHealth(ctx context.Context) Health { return f(ctx) }

// Check runs checkers concurrently and reports them in the order given.
func Check(ctx context.Context, service, version string, checkers ...HealthChecker) ServiceHealth {
	sh := ServiceHealth{
		Service:    service,
		Status:     HealthStatusUp,
		Version:    version,
		Components: make([]Health, len(checkers)),
	}

	var wg sync.WaitGroup
	for i, hc := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sh.Components[i] = hc.CheckHealth(ctx)
		}()
	}
	wg.Wait()

	for _, h := range sh.Components {
		if h.Status.rank() > sh.Status.rank() {
			sh.Status = h.Status
		}
	}
	return sh
}
