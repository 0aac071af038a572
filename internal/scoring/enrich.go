package scoring

import (
	"context"
	"math"
	"sync"

	"github.com/SherlockH0olms/Lendly/internal/domain"
)

// Enricher decorates criterion results with natural-language explanations
// from the advisory service, falling back to per-criterion templates. The
// per-criterion advisory calls fan out concurrently; output order always
// matches the criteria table regardless of completion order, and one failed
// enrichment never affects the others.
type Enricher struct {
	advisor    domain.Advisor // may be nil: template-only enrichment
	maxWorkers int
}

// NewEnricher creates an enricher. maxWorkers bounds the concurrent advisory
// calls.
func NewEnricher(advisor domain.Advisor, maxWorkers int) *Enricher {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	return &Enricher{advisor: advisor, maxWorkers: maxWorkers}
}

// Enrich returns a copy of breakdown with max scores, percentages, and
// explanations populated. The input slice is not modified.
func (e *Enricher) Enrich(ctx context.Context, profile *domain.BusinessProfile, breakdown []domain.CriterionResult) []domain.CriterionResult {
	enriched := make([]domain.CriterionResult, len(breakdown))

	var wg sync.WaitGroup
	sem := make(chan struct{}, e.maxWorkers)

	for i, cr := range breakdown {
		wg.Add(1)
		go func(idx int, cr domain.CriterionResult) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			enriched[idx] = e.enrichOne(ctx, profile, cr)
		}(i, cr)
	}

	wg.Wait()
	return enriched
}

func (e *Enricher) enrichOne(ctx context.Context, profile *domain.BusinessProfile, cr domain.CriterionResult) domain.CriterionResult {
	crit, ok := criterionByKey(cr.Key)
	if ok {
		cr.MaxScore = round2(crit.MaxScore())
		cr.Percentage = int(math.Round(cr.Score / crit.MaxScore() * 100))
	}

	if e.advisor != nil {
		explanation, err := e.advisor.Explain(ctx, cr.Label, cr.Score, cr.MaxScore, profile)
		if err == nil && explanation != "" {
			cr.Explanation = explanation
			return cr
		}
	}

	if ok {
		cr.Explanation = templateExplanation(crit, profile)
	}
	return cr
}

func criterionByKey(key string) (Criterion, bool) {
	for _, c := range Criteria {
		if c.Key == key {
			return c, true
		}
	}
	return Criterion{}, false
}
