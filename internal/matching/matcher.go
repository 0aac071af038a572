package matching

import (
	"context"
	"fmt"
	"math"

	"github.com/SherlockH0olms/Lendly/internal/domain"
)

// revenueShareLimit caps how much of the monthly revenue a single requested
// amount may represent.
const revenueShareLimit = 0.5

// Matcher evaluates a profile against lender offers. The policy engine is
// optional; without one, offers match on thresholds alone.
type Matcher struct {
	policy *PolicyEngine
}

// NewMatcher creates a matcher. A nil policy engine is valid.
func NewMatcher(policy *PolicyEngine) *Matcher {
	return &Matcher{policy: policy}
}

// Match checks one profile and score against one offer. All failing checks
// are collected, not just the first, so the applicant sees every blocker at
// once. A requestedAmount of zero means no amount was specified and the
// affordability checks are skipped.
func (m *Matcher) Match(ctx context.Context, p *domain.BusinessProfile, score float64, offer *domain.LenderOffer, requestedAmount float64) *domain.EligibilityDecision {
	var reasons []string
	scoreTooLow := false
	taxBlocked := false

	if score < offer.MinimumScore {
		scoreTooLow = true
		reasons = append(reasons, fmt.Sprintf("Credit score %.2f is below the required minimum %.2f", score, offer.MinimumScore))
	}
	if p.TaxDebt > 0 {
		taxBlocked = true
		reasons = append(reasons, fmt.Sprintf("Outstanding tax debt of %.0f AZN must be cleared first", p.TaxDebt))
	}
	if requestedAmount > 0 {
		if requestedAmount > p.MonthlyRevenue*revenueShareLimit {
			reasons = append(reasons, fmt.Sprintf("Requested amount %.0f AZN exceeds 50%% of monthly revenue", requestedAmount))
		}
		if requestedAmount > offer.MaxAmount {
			reasons = append(reasons, fmt.Sprintf("Requested amount %.0f AZN exceeds the offer maximum of %.0f AZN", requestedAmount, offer.MaxAmount))
		}
	}
	if m.policy != nil && !m.policy.Evaluate(ctx, offer.ID, p) {
		reasons = append(reasons, "Profile does not satisfy the lender's eligibility policy")
	}

	if len(reasons) == 0 {
		return &domain.EligibilityDecision{
			Eligible: true,
			Message:  "ELIGIBLE - application can be submitted",
			Reasons:  []string{"All offer requirements are met"},
		}
	}

	message := "RISKY - terms not suitable"
	switch {
	case scoreTooLow:
		message = "REJECTED - score below the offer minimum"
	case taxBlocked:
		message = "BLOCKED - outstanding tax debt"
	}

	return &domain.EligibilityDecision{
		Eligible: false,
		Message:  message,
		Reasons:  reasons,
	}
}

// MonthlyPayment computes the flat repayment installment for a credit
// product: total owed spread evenly across the term, rounded to whole AZN.
func MonthlyPayment(amount, annualRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}
	return math.Round(amount * (1 + annualRate/100) / float64(termMonths))
}
