package scoring

import (
	"github.com/SherlockH0olms/Lendly/internal/domain"
)

// Blend ratio: the deterministic rule score dominates, the advisory
// assessment contributes a fixed 20%.
const (
	ruleShare     = 0.8
	advisoryShare = 0.2
)

const maxRecommendations = 5

// Blend combines the rule score with an advisory risk assessment into the
// final blended result. It never fails: any advisory failure has already been
// absorbed upstream by the fallback advisor.
func Blend(rule *domain.ScoreResult, assessment *domain.RiskAssessment) *domain.EnhancedScoreResult {
	// The assessment's risk score is inverse creditworthiness on a 0-100
	// scale; map it onto the 0-5 scale before weighting.
	advisoryScore := (100 - assessment.RiskScore) / 100 * 5
	total := rule.TotalScore*ruleShare + advisoryScore*advisoryShare

	merged := mergeRecommendations(rule.Recommendations, assessment.Recommendations)

	return &domain.EnhancedScoreResult{
		TotalScore:      round2(clamp(total, 0, 5)),
		RuleScore:       rule.TotalScore,
		Assessment:      *assessment,
		Breakdown:       rule.Breakdown,
		Recommendations: merged,
		RiskLevel:       assessment.RiskLevel,
		Confidence:      assessment.Confidence,
	}
}

// mergeRecommendations concatenates rule recommendations with the advisory's,
// deduplicates preserving first occurrence, and caps the list.
func mergeRecommendations(rule, advisory []string) []string {
	seen := make(map[string]bool, len(rule)+len(advisory))
	merged := make([]string, 0, maxRecommendations)

	for _, rec := range append(append([]string{}, rule...), advisory...) {
		if rec == "" || seen[rec] {
			continue
		}
		seen[rec] = true
		merged = append(merged, rec)
		if len(merged) == maxRecommendations {
			break
		}
	}
	return merged
}
