package advisory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/SherlockH0olms/Lendly/internal/domain"
)

func strongProfile() *domain.BusinessProfile {
	return &domain.BusinessProfile{
		ID:               "prof-1",
		CompanyName:      "Bakı Tech MMC",
		CompanyAge:       5,
		MonthlyRevenue:   60000,
		NetProfit:        12000,
		TaxDebt:          0,
		Sector:           "IT",
		EmployeeCount:    25,
		CashflowPositive: true,
	}
}

func weakProfile() *domain.BusinessProfile {
	return &domain.BusinessProfile{
		ID:               "prof-2",
		CompanyName:      "Yeni Restoran MMC",
		CompanyAge:       1,
		MonthlyRevenue:   8000,
		NetProfit:        500,
		TaxDebt:          3000,
		Sector:           "Restoran",
		EmployeeCount:    4,
		CashflowPositive: false,
	}
}

func TestFallbackAssess(t *testing.T) {
	fb := NewFallback()
	ctx := context.Background()

	t.Run("StrongProfileLowRisk", func(t *testing.T) {
		a, err := fb.Assess(ctx, strongProfile())
		if err != nil {
			t.Fatalf("Assess failed: %v", err)
		}
		// 50 + 20 + 15 + 10 = 95
		if a.RiskScore != 95 {
			t.Errorf("expected risk score 95, got %.2f", a.RiskScore)
		}
		if a.RiskLevel != domain.RiskLow {
			t.Errorf("expected Low risk, got %s", a.RiskLevel)
		}
		if a.Confidence != 0.75 {
			t.Errorf("expected fixed fallback confidence 0.75, got %.2f", a.Confidence)
		}
	})

	t.Run("WeakProfileHighRisk", func(t *testing.T) {
		a, err := fb.Assess(ctx, weakProfile())
		if err != nil {
			t.Fatalf("Assess failed: %v", err)
		}
		// 50 - 15 - 10 = 25
		if a.RiskScore != 25 {
			t.Errorf("expected risk score 25, got %.2f", a.RiskScore)
		}
		if a.RiskLevel != domain.RiskHigh {
			t.Errorf("expected High risk, got %s", a.RiskLevel)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		first, err := fb.Assess(ctx, weakProfile())
		if err != nil {
			t.Fatalf("Assess failed: %v", err)
		}
		second, err := fb.Assess(ctx, weakProfile())
		if err != nil {
			t.Fatalf("Assess failed: %v", err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Error("same profile produced different assessments")
		}
	})

	t.Run("ListsCappedAtThree", func(t *testing.T) {
		a, err := fb.Assess(ctx, weakProfile())
		if err != nil {
			t.Fatalf("Assess failed: %v", err)
		}
		if len(a.Strengths) == 0 || len(a.Strengths) > 3 {
			t.Errorf("strengths length %d outside [1, 3]", len(a.Strengths))
		}
		if len(a.Weaknesses) == 0 || len(a.Weaknesses) > 3 {
			t.Errorf("weaknesses length %d outside [1, 3]", len(a.Weaknesses))
		}
		if len(a.Recommendations) == 0 || len(a.Recommendations) > 3 {
			t.Errorf("recommendations length %d outside [1, 3]", len(a.Recommendations))
		}
	})

	t.Run("MediumBand", func(t *testing.T) {
		p := strongProfile()
		p.MonthlyRevenue = 30000 // 50 + 15 + 10 = 75... drop profit too
		p.NetProfit = 2000       // 50 + 15 = 65
		a, err := fb.Assess(ctx, p)
		if err != nil {
			t.Fatalf("Assess failed: %v", err)
		}
		if a.RiskLevel != domain.RiskMedium {
			t.Errorf("expected Medium risk at score %.0f, got %s", a.RiskScore, a.RiskLevel)
		}
	})
}

func TestFallbackExplain(t *testing.T) {
	fb := NewFallback()

	first, err := fb.Explain(context.Background(), "monthlyRevenue", 0.8, 1.0, strongProfile())
	if err != nil {
		t.Fatalf("Explain failed: %v", err)
	}
	second, err := fb.Explain(context.Background(), "monthlyRevenue", 0.8, 1.0, strongProfile())
	if err != nil {
		t.Fatalf("Explain failed: %v", err)
	}
	if first == "" || first != second {
		t.Errorf("expected stable non-empty explanation, got %q and %q", first, second)
	}
}

func TestClientAssess(t *testing.T) {
	ctx := context.Background()

	t.Run("NoEndpointReturnsNil", func(t *testing.T) {
		if c := NewClient(domain.AdvisoryConfig{}); c != nil {
			t.Error("expected nil client when no endpoint is configured")
		}
	})

	t.Run("ValidResponse", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/assess" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
				t.Errorf("unexpected authorization header %q", got)
			}
			json.NewEncoder(w).Encode(domain.RiskAssessment{
				RiskLevel:       domain.RiskLow,
				RiskScore:       82,
				Strengths:       []string{"solid revenue"},
				Weaknesses:      []string{"young company"},
				Recommendations: []string{"keep growing"},
				Summary:         "Low risk overall.",
				Confidence:      0.9,
			})
		}))
		defer srv.Close()

		c := NewClient(domain.AdvisoryConfig{Endpoint: srv.URL, APIKey: "test-key", TimeoutSeconds: 5})
		a, err := c.Assess(ctx, strongProfile())
		if err != nil {
			t.Fatalf("Assess failed: %v", err)
		}
		if a.RiskLevel != domain.RiskLow || a.RiskScore != 82 {
			t.Errorf("unexpected assessment: %+v", a)
		}
	})

	t.Run("NonJSONResponse", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>upstream error</html>"))
		}))
		defer srv.Close()

		c := NewClient(domain.AdvisoryConfig{Endpoint: srv.URL, TimeoutSeconds: 5})
		if _, err := c.Assess(ctx, strongProfile()); err == nil {
			t.Error("expected error for non-JSON response")
		}
	})

	t.Run("ServerError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c := NewClient(domain.AdvisoryConfig{Endpoint: srv.URL, TimeoutSeconds: 5})
		if _, err := c.Assess(ctx, strongProfile()); err == nil {
			t.Error("expected error for 502 response")
		}
	})

	t.Run("ContractViolations", func(t *testing.T) {
		cases := []struct {
			name string
			resp domain.RiskAssessment
		}{
			{"UnknownLevel", domain.RiskAssessment{RiskLevel: "Severe", RiskScore: 50, Confidence: 0.5}},
			{"ScoreOutOfRange", domain.RiskAssessment{RiskLevel: domain.RiskLow, RiskScore: 140, Confidence: 0.5}},
			{"ConfidenceOutOfRange", domain.RiskAssessment{RiskLevel: domain.RiskLow, RiskScore: 50, Confidence: 1.4}},
			{"TooManyStrengths", domain.RiskAssessment{
				RiskLevel: domain.RiskLow, RiskScore: 50, Confidence: 0.5,
				Strengths: []string{"a", "b", "c", "d"},
			}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					json.NewEncoder(w).Encode(tc.resp)
				}))
				defer srv.Close()

				c := NewClient(domain.AdvisoryConfig{Endpoint: srv.URL, TimeoutSeconds: 5})
				if _, err := c.Assess(ctx, strongProfile()); err == nil {
					t.Error("expected contract violation error")
				}
			})
		}
	})
}

func TestClientExplain(t *testing.T) {
	t.Run("ValidResponse", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/explain" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			var req explainRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}
			if req.Criterion != "taxDebt" {
				t.Errorf("unexpected criterion %q", req.Criterion)
			}
			json.NewEncoder(w).Encode(explainResponse{Explanation: "No tax debt, full points."})
		}))
		defer srv.Close()

		c := NewClient(domain.AdvisoryConfig{Endpoint: srv.URL, TimeoutSeconds: 5})
		got, err := c.Explain(context.Background(), "taxDebt", 0.75, 0.75, strongProfile())
		if err != nil {
			t.Fatalf("Explain failed: %v", err)
		}
		if got != "No tax debt, full points." {
			t.Errorf("unexpected explanation %q", got)
		}
	})

	t.Run("EmptyExplanation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(explainResponse{Explanation: "  "})
		}))
		defer srv.Close()

		c := NewClient(domain.AdvisoryConfig{Endpoint: srv.URL, TimeoutSeconds: 5})
		if _, err := c.Explain(context.Background(), "taxDebt", 0.75, 0.75, strongProfile()); err == nil {
			t.Error("expected error for empty explanation")
		}
	})
}
