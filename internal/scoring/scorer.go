package scoring

import (
	"math"

	"github.com/SherlockH0olms/Lendly/internal/domain"
)

// Scorer computes the deterministic rule-based credit score. It is pure and
// total: no I/O, no failure modes, identical output for identical input.
type Scorer struct{}

// NewScorer creates a rule scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score evaluates the eight weighted criteria for a profile and returns the
// total (clamped to [0, 5], rounded to two decimals), the per-criterion
// breakdown in table order, and improvement recommendations.
func (s *Scorer) Score(p *domain.BusinessProfile) *domain.ScoreResult {
	total := 0.0
	breakdown := make([]domain.CriterionResult, 0, len(Criteria))
	contributions := make(map[string]float64, len(Criteria))

	for _, c := range Criteria {
		achieved := contribution(c, p)
		total += achieved
		contributions[c.Key] = achieved

		max := c.MaxScore()
		breakdown = append(breakdown, domain.CriterionResult{
			Key:         c.Key,
			Label:       c.Label,
			Score:       round2(achieved),
			Weight:      c.Weight,
			MaxScore:    round2(max),
			Percentage:  int(math.Round(achieved / max * 100)),
			Explanation: templateExplanation(c, p),
		})
	}

	return &domain.ScoreResult{
		TotalScore:      round2(clamp(total, 0, 5)),
		Breakdown:       breakdown,
		Recommendations: recommendations(contributions),
	}
}

// recommendationOrder fixes the priority in which improvement advice is
// emitted.
var recommendationOrder = []struct {
	key  string
	text string
}{
	{CriterionAge, "Build up the company's operating history"},
	{CriterionTaxDebt, "Pay off the outstanding tax debt"},
	{CriterionProfit, "Focus on improving profitability"},
	{CriterionRevenue, "Work on growing monthly revenue"},
	{CriterionCashflow, "Improve cashflow management"},
}

// recommendations appends advice for every criterion whose contribution fell
// below half of its allotted share.
func recommendations(contributions map[string]float64) []string {
	var recs []string
	for _, r := range recommendationOrder {
		for _, c := range Criteria {
			if c.Key != r.key {
				continue
			}
			if contributions[c.Key] < c.MaxScore()/2 {
				recs = append(recs, r.text)
			}
		}
	}
	return recs
}
