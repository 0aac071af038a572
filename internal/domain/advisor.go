package domain

import "context"

// Advisor produces risk assessments and per-criterion explanations for a
// business profile. The HTTP-backed implementation may fail (timeout, parse
// error, contract violation); callers substitute the deterministic fallback
// advisor on any error.
type Advisor interface {
	// Assess returns a structured risk assessment for the profile.
	Assess(ctx context.Context, profile *BusinessProfile) (*RiskAssessment, error)

	// Explain returns a short natural-language explanation of one criterion
	// result.
	Explain(ctx context.Context, criterion string, achieved, max float64, profile *BusinessProfile) (string, error)
}

// AdvisoryConfig holds configuration for the external advisory service.
// An empty Endpoint is a valid, expected state: the pipeline then runs on the
// fallback advisor alone.
type AdvisoryConfig struct {
	Endpoint string
	APIKey   string

	// TimeoutSeconds bounds each advisory call. Timeouts are treated the same
	// as malformed responses.
	TimeoutSeconds int
}
