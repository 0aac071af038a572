package advisory

import (
	"context"
	"fmt"

	"github.com/SherlockH0olms/Lendly/internal/domain"
)

// fallbackConfidence marks assessments produced by the local heuristic. The
// external advisory reports its own confidence; the fallback always reports
// the same fixed value so downstream consumers can tell the two apart.
const fallbackConfidence = 0.75

// Fallback is a deterministic local advisor. It never fails and never blocks;
// the pipeline uses it whenever the external advisory is unconfigured or
// returns an unusable response.
type Fallback struct{}

// NewFallback returns the local heuristic advisor.
func NewFallback() *Fallback {
	return &Fallback{}
}

// Assess derives a risk assessment from the profile using fixed additive
// modifiers over a base score of 50. Same profile in, same assessment out.
func (f *Fallback) Assess(_ context.Context, p *domain.BusinessProfile) (*domain.RiskAssessment, error) {
	score := 50.0
	if p.MonthlyRevenue >= 50000 {
		score += 20
	}
	if p.TaxDebt == 0 {
		score += 15
	}
	if p.NetProfit > 5000 {
		score += 10
	}
	if !p.CashflowPositive {
		score -= 15
	}
	if p.CompanyAge < 2 {
		score -= 10
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	var level domain.RiskLevel
	switch {
	case score >= 70:
		level = domain.RiskLow
	case score >= 40:
		level = domain.RiskMedium
	default:
		level = domain.RiskHigh
	}

	var strengths []string
	if p.MonthlyRevenue >= 50000 {
		strengths = append(strengths, "High monthly revenue indicates financial stability")
	}
	if p.TaxDebt == 0 {
		strengths = append(strengths, "No tax debt shows good fiscal discipline")
	}
	if p.CompanyAge >= 3 {
		strengths = append(strengths, "Established company with market experience")
	}
	if len(strengths) == 0 {
		strengths = append(strengths, "The business is operational and generating revenue")
	}

	var weaknesses []string
	if p.TaxDebt > 0 {
		weaknesses = append(weaknesses, "Outstanding tax debt increases credit risk")
	}
	if p.MonthlyRevenue < 20000 {
		weaknesses = append(weaknesses, "Low monthly revenue limits repayment capacity")
	}
	if !p.CashflowPositive {
		weaknesses = append(weaknesses, "Negative cashflow signals operational strain")
	}
	if len(weaknesses) == 0 {
		weaknesses = append(weaknesses, "No significant weaknesses identified")
	}

	var recommendations []string
	if p.TaxDebt > 0 {
		recommendations = append(recommendations, "Pay off the outstanding tax debt")
	}
	if p.MonthlyRevenue < 50000 {
		recommendations = append(recommendations, "Improve sales strategy and grow revenue")
	}
	recommendations = append(recommendations, "Keep financial records accurate and well documented")

	concern := "ongoing monitoring of financial indicators"
	if p.TaxDebt > 0 || p.MonthlyRevenue < 20000 || !p.CashflowPositive {
		concern = weaknesses[0]
	}

	return &domain.RiskAssessment{
		RiskLevel:       level,
		RiskScore:       score,
		Strengths:       capList(strengths),
		Weaknesses:      capList(weaknesses),
		Recommendations: capList(recommendations),
		Summary:         fmt.Sprintf("%s presents a %s risk profile. Primary concern: %s.", p.CompanyName, level, concern),
		Confidence:      fallbackConfidence,
	}, nil
}

// Explain produces a fixed-template explanation for a criterion result.
func (f *Fallback) Explain(_ context.Context, criterion string, achieved, max float64, _ *domain.BusinessProfile) (string, error) {
	ratio := 0.0
	if max > 0 {
		ratio = achieved / max
	}
	switch {
	case ratio >= 0.8:
		return fmt.Sprintf("Strong result on %s: %.2f of %.2f points earned.", criterion, achieved, max), nil
	case ratio >= 0.5:
		return fmt.Sprintf("Moderate result on %s: %.2f of %.2f points earned, with room to improve.", criterion, achieved, max), nil
	default:
		return fmt.Sprintf("Weak result on %s: %.2f of %.2f points earned, this area needs attention.", criterion, achieved, max), nil
	}
}

func capList(items []string) []string {
	if len(items) > 3 {
		return items[:3]
	}
	return items
}
