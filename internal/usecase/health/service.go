// Package health aggregates component availability into a single report.
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
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db     DBPinger
	ranker RankerChecker
	index  IndexReporter
}

// New creates a Service. db and ranker can be nil when the matching tier is
// not configured.
func New(db DBPinger, ranker RankerChecker, index IndexReporter) *Service {
	return &Service{db: db, ranker: ranker, index: index}
}

// Check runs health checks against all configured components. The local index
// never degrades the status unless its snapshot came up empty.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			checks["database"] = CheckError
		} else {
			checks["database"] = CheckOK
		}
	}

	if s.ranker != nil {
		if err := s.ranker.HealthCheck(ctx); err != nil {
			checks["ranking_engine"] = CheckError
		} else {
			checks["ranking_engine"] = CheckOK
		}
	}

	if s.index != nil {
		if s.index.Len() == 0 {
			checks["local_index"] = CheckError
		} else {
			checks["local_index"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
