package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/SherlockH0olms/Lendly/internal/domain"
)

// Analytics counter bucket for scoring usage.
const analyticsScores = "analytics:scores"

// Pipeline runs the full blended scoring flow: cache lookup, rule scoring,
// advisory assessment with deterministic fallback, blending, breakdown
// enrichment, cache write, and usage accounting. Scoring always succeeds once
// the profile exists; every advisory or cache failure degrades locally.
type Pipeline struct {
	repo     domain.Repository
	store    domain.Store
	advisor  domain.Advisor // primary advisory; nil when unconfigured
	fallback domain.Advisor
	scorer   *Scorer
	enricher *Enricher
	bus      domain.EventBus // optional
	scoreTTL time.Duration
}

// NewPipeline wires the scoring pipeline. advisor and bus may be nil;
// fallback must not be.
func NewPipeline(repo domain.Repository, store domain.Store, advisor, fallback domain.Advisor, enricher *Enricher, bus domain.EventBus, scoreTTL time.Duration) *Pipeline {
	if scoreTTL <= 0 {
		scoreTTL = domain.DefaultScoreTTL
	}
	return &Pipeline{
		repo:     repo,
		store:    store,
		advisor:  advisor,
		fallback: fallback,
		scorer:   NewScorer(),
		enricher: enricher,
		bus:      bus,
		scoreTTL: scoreTTL,
	}
}

// ComputeResult is the pipeline output for one profile.
type ComputeResult struct {
	ProfileID   string
	CompanyName string
	Score       *domain.EnhancedScoreResult
	Cached      bool
}

// ComputeScore scores a profile, serving from cache when possible.
// Returns the repository's not-found error unchanged when the profile does
// not exist; no other failure reaches the caller.
func (p *Pipeline) ComputeScore(ctx context.Context, profileID string) (*ComputeResult, error) {
	profile, err := p.repo.GetProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("profile lookup: %w", err)
	}

	cacheKey := "score:" + profileID
	if data, err := p.store.Get(ctx, cacheKey); err == nil && data != nil {
		var cached domain.EnhancedScoreResult
		if err := json.Unmarshal(data, &cached); err == nil {
			return &ComputeResult{
				ProfileID:   profileID,
				CompanyName: profile.CompanyName,
				Score:       &cached,
				Cached:      true,
			}, nil
		}
		// Unreadable cache entries are dropped and recomputed.
		_ = p.store.Delete(ctx, cacheKey)
	}

	rule := p.scorer.Score(profile)
	assessment, usedFallback := p.assess(ctx, profile)

	result := Blend(rule, assessment)
	result.Breakdown = p.enricher.Enrich(ctx, profile, result.Breakdown)

	if data, err := json.Marshal(result); err == nil {
		if err := p.store.Set(ctx, cacheKey, data, p.scoreTTL); err != nil {
			slog.Warn("failed to cache score", "profile_id", profileID, "error", err)
		}
	}

	p.recordUsage(ctx, profile)
	p.publishComputed(ctx, profile, result, usedFallback)

	return &ComputeResult{
		ProfileID:   profileID,
		CompanyName: profile.CompanyName,
		Score:       result,
		Cached:      false,
	}, nil
}

// assess obtains a risk assessment from the primary advisor, substituting the
// deterministic fallback on any failure or when no advisor is configured.
func (p *Pipeline) assess(ctx context.Context, profile *domain.BusinessProfile) (*domain.RiskAssessment, bool) {
	if p.advisor != nil {
		assessment, err := p.advisor.Assess(ctx, profile)
		if err == nil {
			return assessment, false
		}
		slog.Warn("advisory assessment failed, using fallback",
			"profile_id", profile.ID, "error", err)
	}

	assessment, _ := p.fallback.Assess(ctx, profile)
	return assessment, true
}

func (p *Pipeline) recordUsage(ctx context.Context, profile *domain.BusinessProfile) {
	if _, err := p.store.IncrementField(ctx, analyticsScores, "total", 1); err != nil {
		slog.Warn("failed to record usage counter", "error", err)
	}
	if _, err := p.store.IncrementField(ctx, analyticsScores, "sector:"+profile.Sector, 1); err != nil {
		slog.Warn("failed to record sector counter", "error", err)
	}
}

func (p *Pipeline) publishComputed(ctx context.Context, profile *domain.BusinessProfile, result *domain.EnhancedScoreResult, usedFallback bool) {
	if p.bus == nil {
		return
	}

	payload, err := json.Marshal(domain.ScoreComputedEvent{
		ProfileID:  profile.ID,
		Sector:     profile.Sector,
		TotalScore: result.TotalScore,
		RiskLevel:  string(result.RiskLevel),
		Fallback:   usedFallback,
	})
	if err != nil {
		return
	}
	if err := p.bus.Publish(ctx, domain.TopicScoreComputed, payload); err != nil {
		slog.Warn("failed to publish score event", "profile_id", profile.ID, "error", err)
	}
}
