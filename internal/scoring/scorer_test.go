package scoring

import (
	"reflect"
	"testing"

	"github.com/SherlockH0olms/Lendly/internal/domain"
)

func strongProfile() *domain.BusinessProfile {
	return &domain.BusinessProfile{
		ID:               "prof-strong",
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
		ID:               "prof-weak",
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

func TestCriteriaTable(t *testing.T) {
	sum := 0
	for _, c := range Criteria {
		sum += c.Weight
	}
	if sum != 100 {
		t.Fatalf("criterion weights must sum to 100, got %d", sum)
	}

	maxTotal := 0.0
	for _, c := range Criteria {
		maxTotal += c.MaxScore()
	}
	if maxTotal != 5.0 {
		t.Fatalf("max scores must sum to 5.0, got %.4f", maxTotal)
	}
}

func TestScore(t *testing.T) {
	s := NewScorer()

	t.Run("StrongProfileMaxesOut", func(t *testing.T) {
		result := s.Score(strongProfile())
		if result.TotalScore != 5.0 {
			t.Errorf("expected total 5.0, got %.2f", result.TotalScore)
		}
		if len(result.Breakdown) != len(Criteria) {
			t.Fatalf("expected %d criteria, got %d", len(Criteria), len(result.Breakdown))
		}
		for _, c := range result.Breakdown {
			if c.Percentage != 100 {
				t.Errorf("criterion %s expected 100%%, got %d%%", c.Key, c.Percentage)
			}
		}
		if len(result.Recommendations) != 0 {
			t.Errorf("full-score profile should get no recommendations, got %v", result.Recommendations)
		}
	})

	t.Run("WeakProfileLow", func(t *testing.T) {
		result := s.Score(weakProfile())
		if result.TotalScore >= 2.0 {
			t.Errorf("expected weak profile below 2.0, got %.2f", result.TotalScore)
		}
		if len(result.Recommendations) == 0 {
			t.Error("expected recommendations for a weak profile")
		}
	})

	t.Run("TaxDebtZeroesCriterion", func(t *testing.T) {
		p := strongProfile()
		p.TaxDebt = 1
		result := s.Score(p)
		for _, c := range result.Breakdown {
			if c.Key == CriterionTaxDebt && c.Score != 0 {
				t.Errorf("any tax debt must zero the criterion, got %.2f", c.Score)
			}
		}
	})

	t.Run("UnknownSectorTakesDefault", func(t *testing.T) {
		p := strongProfile()
		p.Sector = "Nəqliyyat"
		result := s.Score(p)
		for _, c := range result.Breakdown {
			if c.Key == CriterionSectorRisk {
				// 0.5 of the 10% share: 0.5 * 0.5 = 0.25
				if c.Score != 0.25 {
					t.Errorf("expected default sector contribution 0.25, got %.2f", c.Score)
				}
			}
		}
	})

	t.Run("BreakdownInTableOrder", func(t *testing.T) {
		result := s.Score(weakProfile())
		for i, c := range result.Breakdown {
			if c.Key != Criteria[i].Key {
				t.Errorf("position %d: expected %s, got %s", i, Criteria[i].Key, c.Key)
			}
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		first := s.Score(weakProfile())
		second := s.Score(weakProfile())
		if !reflect.DeepEqual(first, second) {
			t.Error("same profile produced different scores")
		}
	})

	t.Run("RecommendationPriorityOrder", func(t *testing.T) {
		result := s.Score(weakProfile())
		if len(result.Recommendations) < 2 {
			t.Fatalf("expected several recommendations, got %v", result.Recommendations)
		}
		if result.Recommendations[0] != "Build up the company's operating history" {
			t.Errorf("expected company age advice first, got %q", result.Recommendations[0])
		}
		if result.Recommendations[1] != "Pay off the outstanding tax debt" {
			t.Errorf("expected tax debt advice second, got %q", result.Recommendations[1])
		}
	})
}

func TestRevenueBands(t *testing.T) {
	s := NewScorer()

	cases := []struct {
		name    string
		revenue float64
		want    float64 // revenue criterion score, max 1.0
	}{
		{"FullBand", 50000, 1.0},
		{"UpperMiddleBand", 20000, 0.7},
		{"LowerMiddleBand", 15000, 0.4},
		{"EdgeOfLowerMiddle", 10000, 0.4},
		{"BottomBand", 8000, 0.2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := strongProfile()
			p.MonthlyRevenue = tc.revenue
			result := s.Score(p)
			for _, c := range result.Breakdown {
				if c.Key == CriterionRevenue && c.Score != tc.want {
					t.Errorf("revenue %.0f: expected %.2f, got %.2f", tc.revenue, tc.want, c.Score)
				}
			}
		})
	}
}

func TestLoanCapacityBands(t *testing.T) {
	s := NewScorer()

	cases := []struct {
		name    string
		revenue float64
		want    float64 // loanCapacity criterion score, max 0.75
	}{
		{"FullBand", 50000, 0.75},   // capacity 15000
		{"MiddleBand", 20000, 0.5},  // capacity 6000
		{"BottomBand", 10000, 0.25}, // capacity 3000
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := strongProfile()
			p.MonthlyRevenue = tc.revenue
			result := s.Score(p)
			for _, c := range result.Breakdown {
				if c.Key == CriterionLoanCapacity && c.Score != tc.want {
					t.Errorf("revenue %.0f: expected %.2f, got %.2f", tc.revenue, tc.want, c.Score)
				}
			}
		})
	}
}
