package domain

// RiskLevel is the advisory's creditworthiness classification.
// The three levels are mutually exclusive.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Valid reports whether the level is one of the three defined values.
func (l RiskLevel) Valid() bool {
	switch l {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// CriterionResult is the outcome of a single weighted scoring criterion.
type CriterionResult struct {
	Key         string  `json:"key"`
	Label       string  `json:"criteria"`
	Score       float64 `json:"score"`
	Weight      int     `json:"weight"` // percentage, the eight weights sum to 100
	MaxScore    float64 `json:"max_score"`
	Percentage  int     `json:"percentage"`
	Explanation string  `json:"explanation"`
}

// ScoreResult is the output of the deterministic rule scorer.
type ScoreResult struct {
	TotalScore      float64           `json:"total_score"` // clamped to [0, 5]
	Breakdown       []CriterionResult `json:"breakdown"`
	Recommendations []string          `json:"recommendations"`
}

// RiskAssessment is the advisory service's structured opinion on an
// applicant. RiskScore is the inverse of creditworthiness: 0 means highest
// risk, 100 means lowest.
type RiskAssessment struct {
	RiskLevel       RiskLevel `json:"risk_level"`
	RiskScore       float64   `json:"risk_score"` // 0..100
	Strengths       []string  `json:"strengths"`  // at most 3
	Weaknesses      []string  `json:"weaknesses"` // at most 3
	Recommendations []string  `json:"recommendations"`
	Summary         string    `json:"summary"`
	Confidence      float64   `json:"confidence"` // 0..1
}

// EnhancedScoreResult is the blended pipeline output: the rule score combined
// with the advisory assessment, plus the enriched criterion breakdown.
type EnhancedScoreResult struct {
	TotalScore      float64           `json:"total_score"` // clamped to [0, 5]
	RuleScore       float64           `json:"rule_score"`
	Assessment      RiskAssessment    `json:"risk_assessment"`
	Breakdown       []CriterionResult `json:"breakdown"`
	Recommendations []string          `json:"recommendations"` // deduplicated, capped at 5
	RiskLevel       RiskLevel         `json:"risk_level"`
	Confidence      float64           `json:"confidence"`
}
