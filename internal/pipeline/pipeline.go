package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/weather-risk-etl/internal/domain"
	"github.com/couchcryptid/weather-risk-etl/internal/observability"
)

// TriggerExtractor reads the next trigger envelope from the source.
type TriggerExtractor interface {
	Extract(ctx context.Context) (domain.TriggerMessage, error)
}

// ObjectFetcher reads a raw payload object from the raw bucket.
type ObjectFetcher interface {
	Fetch(ctx context.Context, ref domain.ObjectRef) ([]byte, error)
}

// RecordPutter writes one coerced weather risk item to the table.
type RecordPutter interface {
	PutItem(ctx context.Context, item map[string]any) error
}

// Notifier publishes processing outcomes. Implementations with no configured
// destination must treat each call as a no-op.
type Notifier interface {
	NotifySuccess(ctx context.Context, rec domain.WeatherRiskRecord) error
	NotifyFailure(ctx context.Context, fctx domain.FailureContext, cause error) error
	NotifyStorm(ctx context.Context, rec domain.WeatherRiskRecord) error
}

// Orchestrator drives the trigger-fetch-transform-store-notify loop.
type Orchestrator struct {
	extractor      TriggerExtractor
	objects        ObjectFetcher
	records        RecordPutter
	notifier       Notifier
	logger         *slog.Logger
	metrics        *observability.Metrics
	stormThreshold float64
	ready          atomic.Bool
}

// New creates an Orchestrator with the given stages and observability.
func New(e TriggerExtractor, o ObjectFetcher, r RecordPutter, n Notifier, logger *slog.Logger, metrics *observability.Metrics, stormThreshold float64) *Orchestrator {
	return &Orchestrator{
		extractor:      e,
		objects:        o,
		records:        r,
		notifier:       n,
		logger:         logger,
		metrics:        metrics,
		stormThreshold: stormThreshold,
	}
}

// CheckReadiness returns nil if the orchestrator has processed at least one
// trigger batch, or an error describing why the service is not yet ready.
func (o *Orchestrator) CheckReadiness(_ context.Context) error {
	if !o.ready.Load() {
		return errors.New("pipeline has not processed any trigger batches yet")
	}
	return nil
}

// Run executes the trigger loop until the context is cancelled.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.logger.Info("pipeline started", "storm_threshold", o.stormThreshold)
	o.metrics.PipelineRunning.Set(1)
	defer o.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	// Keeps retry storms short while avoiding tight loops during outages.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !o.processNext(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// processNext handles one trigger envelope end to end. Returns false if the
// pipeline should stop.
func (o *Orchestrator) processNext(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	msg, err := o.extractor.Extract(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		o.logger.Error("extract trigger failed", "error", err)
		return o.backoffOrStop(ctx, backoff, maxBackoff)
	}

	start := time.Now()

	refs, err := domain.ParseTriggerEvent(msg.Value)
	if err != nil {
		// Poison envelope: redelivery cannot fix it, so commit and move on.
		o.logger.Warn("skipping unparseable trigger envelope",
			"error", err,
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
		)
		o.metrics.TriggerParseErrors.Inc()
		o.commit(ctx, msg)
		return true
	}

	if err := o.ProcessBatch(ctx, refs); err != nil {
		if ctx.Err() != nil {
			return false
		}
		// Leave the envelope uncommitted so the transport redelivers it.
		o.logger.Error("trigger batch failed", "error", err,
			"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
		o.metrics.BatchFailures.Inc()
		return o.backoffOrStop(ctx, backoff, maxBackoff)
	}

	*backoff = 200 * time.Millisecond
	o.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	o.commit(ctx, msg)
	o.ready.Store(true)
	return true
}

// backoffOrStop checks for context cancellation, sleeps with the current
// backoff, and advances the backoff. Returns false if the pipeline should stop.
func (o *Orchestrator) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

// commit acknowledges the trigger envelope if a commit function is available.
func (o *Orchestrator) commit(ctx context.Context, msg domain.TriggerMessage) {
	if msg.Commit == nil {
		return
	}
	if err := msg.Commit(ctx); err != nil {
		o.logger.Warn("commit trigger failed", "error", err,
			"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
