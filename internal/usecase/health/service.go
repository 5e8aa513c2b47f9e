package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckEmpty indicates a loaded but empty dataset.
	CheckEmpty CheckResult = "empty"
)

// datasetTable is the count key that decides the "dataset" check.
const datasetTable = "dataset"

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
	Tables map[string]int
}

// Service coordinates health checks.
type Service struct {
	tables TableCounter
	cache  CachePinger
}

// New creates a Service. cache can be nil.
func New(tables TableCounter, cache CachePinger) *Service {
	return &Service{tables: tables, cache: cache}
}

// Check runs health checks against all components. Tables are loaded once
// at startup, so only an empty dataset or an unreachable cache degrade.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	counts := s.tables.Counts()

	if counts[datasetTable] > 0 {
		checks[datasetTable] = CheckOK
	} else {
		checks[datasetTable] = CheckEmpty
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
		} else {
			checks["cache"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v != CheckOK {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks, Tables: counts}
}
