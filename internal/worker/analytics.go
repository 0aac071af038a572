// Package worker provides async event consumers.
package worker

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/SherlockH0olms/Lendly/internal/domain"
)

// Counter buckets maintained by the analytics worker. The scoring pipeline
// owns its own usage buckets; these track risk distribution and application
// volume from bus events.
const (
	bucketRisk         = "analytics:risk"
	bucketApplications = "analytics:applications"
)

// Analytics consumes scoring and application events and maintains rolling
// usage counters in the store. Counters are best-effort; a failed increment
// is logged and dropped.
type Analytics struct {
	bus   domain.EventBus
	store domain.Store

	subscriptions []domain.Subscription
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewAnalytics creates the analytics worker.
func NewAnalytics(bus domain.EventBus, store domain.Store) *Analytics {
	ctx, cancel := context.WithCancel(context.Background())
	return &Analytics{
		bus:    bus,
		store:  store,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start subscribes to the scoring and application topics.
func (a *Analytics) Start() error {
	sub, err := a.bus.Subscribe(a.ctx, domain.TopicScoreComputed, a.handleScoreComputed)
	if err != nil {
		return err
	}
	a.subscriptions = append(a.subscriptions, sub)

	sub, err = a.bus.Subscribe(a.ctx, domain.TopicApplicationSubmitted, a.handleApplicationSubmitted)
	if err != nil {
		return err
	}
	a.subscriptions = append(a.subscriptions, sub)

	slog.Info("analytics worker started",
		"topics", []string{domain.TopicScoreComputed, domain.TopicApplicationSubmitted},
	)
	return nil
}

func (a *Analytics) handleScoreComputed(ctx context.Context, msg *domain.Message) error {
	var event domain.ScoreComputedEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		slog.Error("failed to parse score event",
			"message_id", msg.ID,
			"error", err,
		)
		return err
	}

	a.increment(ctx, bucketRisk, "level:"+event.RiskLevel)
	if event.Fallback {
		a.increment(ctx, bucketRisk, "fallback")
	}

	slog.Debug("score event recorded",
		"profile_id", event.ProfileID,
		"risk_level", event.RiskLevel,
	)
	return nil
}

func (a *Analytics) handleApplicationSubmitted(ctx context.Context, msg *domain.Message) error {
	var event domain.ApplicationSubmittedEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		slog.Error("failed to parse application event",
			"message_id", msg.ID,
			"error", err,
		)
		return err
	}

	a.increment(ctx, bucketApplications, "total")
	a.increment(ctx, bucketApplications, "offer:"+event.OfferID)

	slog.Debug("application event recorded",
		"application_id", event.ApplicationID,
		"offer_id", event.OfferID,
	)
	return nil
}

func (a *Analytics) increment(ctx context.Context, bucket, field string) {
	if _, err := a.store.IncrementField(ctx, bucket, field, 1); err != nil {
		slog.Warn("failed to increment analytics counter",
			"bucket", bucket,
			"field", field,
			"error", err,
		)
	}
}

// Stop unsubscribes from all topics.
func (a *Analytics) Stop() error {
	a.cancel()

	for _, sub := range a.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			slog.Error("failed to unsubscribe",
				"topic", sub.Topic(),
				"error", err,
			)
		}
	}
	a.subscriptions = nil

	slog.Info("analytics worker stopped")
	return nil
}
