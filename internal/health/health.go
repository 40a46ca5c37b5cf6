package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aashari/go-worklist-extractor/internal/logger"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// HealthCheck is one named probe
type HealthCheck struct {
	Name        string
	Description string
	Check       func(ctx context.Context) HealthCheckResult
	Timeout     time.Duration
	// Critical failures make the whole service unhealthy; others only degrade it
	Critical bool
}

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status   HealthStatus
	Message  string
	Duration time.Duration
}

// HealthChecker runs registered checks
type HealthChecker struct {
	mu     sync.RWMutex
	checks map[string]*HealthCheck
}

// NewHealthChecker creates an empty checker
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{checks: make(map[string]*HealthCheck)}
}

// RegisterCheck adds or replaces a check
func (hc *HealthChecker) RegisterCheck(check *HealthCheck) {
	if check.Timeout == 0 {
		check.Timeout = 2 * time.Second
	}

	hc.mu.Lock()
	hc.checks[check.Name] = check
	hc.mu.Unlock()
}

// Names returns the registered check names in sorted order
func (hc *HealthChecker) Names() []string {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	names := make([]string, 0, len(hc.checks))
	for name := range hc.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Evaluate runs every check concurrently and folds the results into one status
func (hc *HealthChecker) Evaluate(ctx context.Context) (HealthStatus, map[string]HealthCheckResult) {
	hc.mu.RLock()
	checks := make([]*HealthCheck, 0, len(hc.checks))
	for _, check := range hc.checks {
		checks = append(checks, check)
	}
	hc.mu.RUnlock()

	results := make(map[string]HealthCheckResult, len(checks))
	var wg sync.WaitGroup
	var resultsMu sync.Mutex

	for _, check := range checks {
		wg.Add(1)
		go func(check *HealthCheck) {
			defer wg.Done()
			result := run(ctx, check)
			resultsMu.Lock()
			results[check.Name] = result
			resultsMu.Unlock()
		}(check)
	}
	wg.Wait()

	overall := StatusHealthy
	for _, check := range checks {
		switch results[check.Name].Status {
		case StatusUnhealthy:
			if check.Critical {
				overall = StatusUnhealthy
			} else if overall == StatusHealthy {
				overall = StatusDegraded
			}
		case StatusDegraded:
			if overall == StatusHealthy {
				overall = StatusDegraded
			}
		}
	}

	return overall, results
}

func run(ctx context.Context, check *HealthCheck) HealthCheckResult {
	checkCtx, cancel := context.WithTimeout(ctx, check.Timeout)
	defer cancel()

	start := time.Now()
	result := check.Check(checkCtx)
	result.Duration = time.Since(start)

	logger.DebugCtx(logger.WithStage(ctx, logger.LogStages.HealthCheck), "Health check executed",
		"name", check.Name,
		"status", result.Status,
		"duration_ms", result.Duration.Milliseconds(),
		"message", result.Message,
	)

	return result
}

// StandardChecks builds the checks the service reports on /health
func StandardChecks(extractorReady, apiKeyConfigured bool) *HealthChecker {
	hc := NewHealthChecker()

	hc.RegisterCheck(&HealthCheck{
		Name:        "api",
		Description: "HTTP server is serving requests",
		Critical:    true,
		Check: func(ctx context.Context) HealthCheckResult {
			return HealthCheckResult{Status: StatusHealthy, Message: "serving"}
		},
	})

	hc.RegisterCheck(&HealthCheck{
		Name:        "extractor",
		Description: "Extraction service is wired",
		Critical:    true,
		Check: func(ctx context.Context) HealthCheckResult {
			if !extractorReady {
				return HealthCheckResult{Status: StatusUnhealthy, Message: "extraction service not initialized"}
			}
			return HealthCheckResult{Status: StatusHealthy, Message: "ready"}
		},
	})

	// a missing key is reported per request, so it only degrades the service
	hc.RegisterCheck(&HealthCheck{
		Name:        "gemini_api_key",
		Description: "Model service credential is configured",
		Critical:    false,
		Check: func(ctx context.Context) HealthCheckResult {
			if !apiKeyConfigured {
				return HealthCheckResult{Status: StatusUnhealthy, Message: "GEMINI_API_KEY not set"}
			}
			return HealthCheckResult{Status: StatusHealthy, Message: "configured"}
		},
	})

	return hc
}
