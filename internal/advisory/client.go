// Package advisory provides the external risk-advisory client and its
// deterministic local fallback.
package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SherlockH0olms/Lendly/internal/domain"
)

// Client calls the external advisory service over HTTP. Every call carries a
// bounded timeout; timeouts, non-2xx responses, and contract violations are
// all reported as errors so the caller can substitute the fallback advisor.
type Client struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	httpc    *http.Client
}

// NewClient creates an advisory client. Returns nil when no endpoint is
// configured; callers then run on the fallback advisor alone.
func NewClient(cfg domain.AdvisoryConfig) *Client {
	if cfg.Endpoint == "" {
		return nil
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:   cfg.APIKey,
		timeout:  timeout,
		httpc:    &http.Client{Timeout: timeout},
	}
}

// Assess requests a risk assessment for the profile and validates it against
// the RiskAssessment contract.
func (c *Client) Assess(ctx context.Context, profile *domain.BusinessProfile) (*domain.RiskAssessment, error) {
	var assessment domain.RiskAssessment
	if err := c.post(ctx, "/assess", profile, &assessment); err != nil {
		return nil, err
	}
	if err := validateAssessment(&assessment); err != nil {
		return nil, fmt.Errorf("advisory response violates contract: %w", err)
	}
	return &assessment, nil
}

type explainRequest struct {
	Criterion string                  `json:"criterion"`
	Achieved  float64                 `json:"achieved"`
	MaxScore  float64                 `json:"max_score"`
	Profile   *domain.BusinessProfile `json:"profile"`
}

type explainResponse struct {
	Explanation string `json:"explanation"`
}

// Explain requests a short explanation of one criterion result.
func (c *Client) Explain(ctx context.Context, criterion string, achieved, max float64, profile *domain.BusinessProfile) (string, error) {
	req := explainRequest{
		Criterion: criterion,
		Achieved:  achieved,
		MaxScore:  max,
		Profile:   profile,
	}

	var resp explainResponse
	if err := c.post(ctx, "/explain", req, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Explanation) == "" {
		return "", fmt.Errorf("advisory returned an empty explanation")
	}
	return resp.Explanation, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("advisory request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("advisory returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("advisory response is not valid JSON: %w", err)
	}
	return nil
}

// validateAssessment enforces the advisory contract. Any violation routes the
// caller to the fallback advisor; no partial recovery is attempted.
func validateAssessment(a *domain.RiskAssessment) error {
	if !a.RiskLevel.Valid() {
		return fmt.Errorf("risk_level %q is not one of Low/Medium/High", a.RiskLevel)
	}
	if a.RiskScore < 0 || a.RiskScore > 100 {
		return fmt.Errorf("risk_score %.2f outside [0, 100]", a.RiskScore)
	}
	if len(a.Strengths) > 3 {
		return fmt.Errorf("more than 3 strengths")
	}
	if len(a.Weaknesses) > 3 {
		return fmt.Errorf("more than 3 weaknesses")
	}
	if len(a.Recommendations) > 3 {
		return fmt.Errorf("more than 3 recommendations")
	}
	if a.Confidence < 0 || a.Confidence > 1 {
		return fmt.Errorf("confidence %.2f outside [0, 1]", a.Confidence)
	}
	return nil
}
