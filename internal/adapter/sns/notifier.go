package sns

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/couchcryptid/weather-risk-etl/internal/config"
	"github.com/couchcryptid/weather-risk-etl/internal/domain"
)

// API is the subset of the SNS client used by the dispatcher.
type API interface {
	Publish(ctx context.Context, params *awssns.PublishInput, optFns ...func(*awssns.Options)) (*awssns.PublishOutput, error)
}

// Dispatcher publishes processing outcomes to the status and storm topics.
// An empty topic ARN disables that channel; the corresponding calls become
// no-ops. It implements pipeline.Notifier.
type Dispatcher struct {
	client         API
	statusTopicARN string
	stormTopicARN  string
	logger         *slog.Logger
}

// NewDispatcher creates a Dispatcher from the configured topic ARNs.
func NewDispatcher(client API, cfg *config.Config, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		client:         client,
		statusTopicARN: cfg.StatusTopicARN,
		stormTopicARN:  cfg.StormTopicARN,
		logger:         logger,
	}
}

// statusMessage is the JSON body published to the status topic for both
// outcomes. Failure messages omit the record fields they never had.
type statusMessage struct {
	Status    string   `json:"status"`
	Location  string   `json:"location,omitempty"`
	Date      string   `json:"date,omitempty"`
	RiskScore *float64 `json:"risk_score,omitempty"`
	RiskLevel string   `json:"risk_level,omitempty"`
	PK        string   `json:"pk,omitempty"`
	SK        *int64   `json:"sk,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// stormMessage is the JSON body published to the storm topic, carrying the
// full set of metrics an alert consumer might render.
type stormMessage struct {
	Location         string  `json:"location"`
	Date             string  `json:"date"`
	RiskScore        float64 `json:"risk_score"`
	RiskLevel        string  `json:"risk_level"`
	RainRisk         float64 `json:"rain_risk"`
	WindRisk         float64 `json:"wind_risk"`
	TempRisk         float64 `json:"temp_risk"`
	WeathercodeRisk  float64 `json:"weathercode_risk"`
	WeathercodeLabel string  `json:"weathercode_label"`
	PrecipProbMax    float64 `json:"precip_prob_max"`
	WindGustMax      float64 `json:"wind_gust_max"`
	TempMin          float64 `json:"temp_min"`
	TempMax          float64 `json:"temp_max"`
}

// NotifySuccess publishes a success status for a stored record.
func (d *Dispatcher) NotifySuccess(ctx context.Context, rec domain.WeatherRiskRecord) error {
	if d.statusTopicARN == "" {
		return nil
	}
	msg := statusMessage{
		Status:    "SUCCESS",
		Location:  rec.Location,
		Date:      rec.Date,
		RiskScore: &rec.RiskScore,
		RiskLevel: rec.RiskLevel,
		PK:        rec.PK,
		SK:        &rec.SK,
	}
	return d.publish(ctx, d.statusTopicARN, "Weather risk pipeline: SUCCESS", msg)
}

// NotifyFailure publishes a failure status with whatever payload identity was
// known when processing failed.
func (d *Dispatcher) NotifyFailure(ctx context.Context, fctx domain.FailureContext, cause error) error {
	if d.statusTopicARN == "" {
		return nil
	}
	msg := statusMessage{
		Status:   "FAILURE",
		Location: fctx.Location,
		Date:     fctx.Date,
		Error:    cause.Error(),
	}
	return d.publish(ctx, d.statusTopicARN, "Weather risk pipeline: FAILURE", msg)
}

// NotifyStorm publishes a storm alert for a record whose score crossed the
// alert threshold.
func (d *Dispatcher) NotifyStorm(ctx context.Context, rec domain.WeatherRiskRecord) error {
	if d.stormTopicARN == "" {
		return nil
	}
	msg := stormMessage{
		Location:         rec.Location,
		Date:             rec.Date,
		RiskScore:        rec.RiskScore,
		RiskLevel:        rec.RiskLevel,
		RainRisk:         rec.RainRisk,
		WindRisk:         rec.WindRisk,
		TempRisk:         rec.TempRisk,
		WeathercodeRisk:  rec.WeathercodeRisk,
		WeathercodeLabel: rec.WeathercodeLabel,
		PrecipProbMax:    rec.PrecipProbMax,
		WindGustMax:      rec.WindGustMax,
		TempMin:          rec.TempMin,
		TempMax:          rec.TempMax,
	}
	subject := fmt.Sprintf("Storm alert: %s %s", rec.Location, rec.Date)
	return d.publish(ctx, d.stormTopicARN, subject, msg)
}

func (d *Dispatcher) publish(ctx context.Context, topicARN, subject string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	_, err = d.client.Publish(ctx, &awssns.PublishInput{
		TopicArn: aws.String(topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(string(data)),
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topicARN, err)
	}
	d.logger.Debug("notification published", "topic", topicARN, "subject", subject)
	return nil
}
