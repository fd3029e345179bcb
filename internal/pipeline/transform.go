package pipeline

import (
	"context"
	"fmt"

	"github.com/couchcryptid/weather-risk-etl/internal/domain"
)

// ProcessBatch transforms and stores every object referenced by a trigger
// envelope, in delivery order. The first failing object aborts the batch:
// a failure notification is published and the original error returned, so
// the caller can leave the envelope uncommitted for redelivery.
func (o *Orchestrator) ProcessBatch(ctx context.Context, refs []domain.ObjectRef) error {
	for _, ref := range refs {
		rec, fctx, err := o.processObject(ctx, ref)
		if err != nil {
			if nerr := o.notifier.NotifyFailure(ctx, fctx, err); nerr != nil {
				return fmt.Errorf("notify failure for %s/%s: %w", ref.Bucket, ref.Key, nerr)
			}
			return err
		}

		if err := o.notifier.NotifySuccess(ctx, rec); err != nil {
			return fmt.Errorf("notify success for %s/%s: %w", ref.Bucket, ref.Key, err)
		}

		if rec.RiskScore >= o.stormThreshold {
			o.metrics.StormAlerts.Inc()
			if err := o.notifier.NotifyStorm(ctx, rec); err != nil {
				return fmt.Errorf("notify storm for %s/%s: %w", ref.Bucket, ref.Key, err)
			}
		}

		o.metrics.ObjectsProcessed.Inc()
		o.metrics.RiskScore.Observe(rec.RiskScore)
		o.logger.Info("object processed",
			"bucket", ref.Bucket,
			"key", ref.Key,
			"pk", rec.PK,
			"sk", rec.SK,
			"risk_score", rec.RiskScore,
			"risk_level", rec.RiskLevel,
		)
	}
	return nil
}

// processObject fetches one raw payload, builds its risk record, and writes
// the coerced item. The returned FailureContext carries whatever payload
// identity was known at the point of failure.
func (o *Orchestrator) processObject(ctx context.Context, ref domain.ObjectRef) (domain.WeatherRiskRecord, domain.FailureContext, error) {
	var fctx domain.FailureContext

	body, err := o.objects.Fetch(ctx, ref)
	if err != nil {
		return domain.WeatherRiskRecord{}, fctx, err
	}

	payload, err := domain.ParseRawPayload(body)
	if err != nil {
		o.metrics.TransformErrors.Inc()
		return domain.WeatherRiskRecord{}, fctx, err
	}
	if payload.Location != nil {
		fctx.Location = *payload.Location
	}
	if payload.Date != nil {
		fctx.Date = *payload.Date
	}

	rec, err := domain.BuildRecord(payload)
	if err != nil {
		o.metrics.TransformErrors.Inc()
		return domain.WeatherRiskRecord{}, fctx, err
	}
	rec = rec.DeriveKeys()

	item := domain.CoerceItem(rec.Item())
	if err := o.records.PutItem(ctx, item); err != nil {
		return domain.WeatherRiskRecord{}, fctx, fmt.Errorf("put item %s/%d: %w", rec.PK, rec.SK, err)
	}

	return rec, fctx, nil
}
