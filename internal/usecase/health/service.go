package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
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
	solr   SolrPinger
	events EventsPinger
}

// New creates a Service. events can be nil.
func New(solr SolrPinger, events EventsPinger) *Service {
	return &Service{solr: solr, events: events}
}

// Check runs health checks against all components.
// A failing Solr core is Unhealthy; a failing event transport only Degraded.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.solr.Ping(ctx); err != nil {
		checks["solr"] = CheckError
		status = Unhealthy
	} else {
		checks["solr"] = CheckOK
	}

	if s.events != nil {
		if err := s.events.Ping(ctx); err != nil {
			checks["events"] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks["events"] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
