package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Daily metric names required in every raw payload.
const (
	MetricTempMin       = "temperature_2m_min"
	MetricTempMax       = "temperature_2m_max"
	MetricTempMean      = "temperature_2m_mean"
	MetricPrecipProbMax = "precipitation_probability_max"
	MetricWindSpeedMax  = "wind_speed_10m_max"
	MetricWindGustMax   = "wind_gusts_10m_max"
	MetricWeathercode   = "weathercode"
)

// requiredDailyMetrics lists the series every payload must carry, each a
// non-empty numeric sequence with one sample per forecast day.
var requiredDailyMetrics = []string{
	MetricTempMin,
	MetricTempMax,
	MetricTempMean,
	MetricPrecipProbMax,
	MetricWindSpeedMax,
	MetricWindGustMax,
	MetricWeathercode,
}

// RawForecastPayload is the capture envelope read from the raw bucket.
// Pointer fields distinguish an absent key from a zero value.
type RawForecastPayload struct {
	UnixTimestamp *int64        `json:"unix_timestamp"`
	Date          *string       `json:"date"`
	Location      *string       `json:"location"`
	Raw           *ForecastData `json:"raw"`
}

// ForecastData holds the provider response. Only the daily block is read;
// other provider fields are ignored.
type ForecastData struct {
	Daily map[string]json.RawMessage `json:"daily"`
}

// DailyFirstDay holds the first-day sample of each required daily metric.
type DailyFirstDay struct {
	TempMin       float64
	TempMax       float64
	TempMean      float64
	PrecipProbMax float64
	WindSpeedMax  float64
	WindGustMax   float64
	Weathercode   int
}

// ParseRawPayload deserializes a raw object body into a payload.
func ParseRawPayload(body []byte) (RawForecastPayload, error) {
	var p RawForecastPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return RawForecastPayload{}, fmt.Errorf("parse raw payload: %w", err)
	}
	return p, nil
}

// Validate checks that the payload carries all four top-level fields and the
// seven required daily metrics, each a non-empty numeric sequence.
func (p RawForecastPayload) Validate() error {
	_, err := p.validateDaily()
	return err
}

// validateDaily performs the full structural check and decodes the required
// daily series in one pass.
func (p RawForecastPayload) validateDaily() (map[string][]float64, error) {
	switch {
	case p.UnixTimestamp == nil:
		return nil, &ValidationError{Field: "unix_timestamp", Reason: "missing"}
	case p.Date == nil:
		return nil, &ValidationError{Field: "date", Reason: "missing"}
	case p.Location == nil:
		return nil, &ValidationError{Field: "location", Reason: "missing"}
	case p.Raw == nil:
		return nil, &ValidationError{Field: "raw", Reason: "missing"}
	}

	daily := make(map[string][]float64, len(requiredDailyMetrics))
	for _, name := range requiredDailyMetrics {
		raw, ok := p.Raw.Daily[name]
		if !ok {
			return nil, &ValidationError{Field: name, Reason: "missing daily metric"}
		}
		var series []float64
		if err := json.Unmarshal(raw, &series); err != nil || len(series) == 0 {
			return nil, &ValidationError{Field: name, Reason: "not a non-empty numeric sequence"}
		}
		daily[name] = series
	}
	return daily, nil
}

// firstDay extracts the current-day sample of each validated series.
func firstDay(daily map[string][]float64) DailyFirstDay {
	return DailyFirstDay{
		TempMin:       daily[MetricTempMin][0],
		TempMax:       daily[MetricTempMax][0],
		TempMean:      daily[MetricTempMean][0],
		PrecipProbMax: daily[MetricPrecipProbMax][0],
		WindSpeedMax:  daily[MetricWindSpeedMax][0],
		WindGustMax:   daily[MetricWindGustMax][0],
		Weathercode:   int(daily[MetricWeathercode][0]),
	}
}

// CapturedForecast is the envelope the fetcher writes to the raw bucket.
// Raw carries the complete provider response untouched.
type CapturedForecast struct {
	Date          string          `json:"date"`
	UnixTimestamp int64           `json:"unix_timestamp"`
	Location      string          `json:"location"`
	Raw           json.RawMessage `json:"raw"`
}

// NewCapturedForecast stamps a raw provider response with the capture date,
// unix timestamp, and location name using the package clock.
func NewCapturedForecast(location string, raw json.RawMessage) CapturedForecast {
	now := clock.Now().UTC()
	return CapturedForecast{
		Date:          now.Format(time.DateOnly),
		UnixTimestamp: now.Unix(),
		Location:      location,
		Raw:           raw,
	}
}

// ObjectKey returns the raw bucket key for the captured payload,
// e.g. "raw/2025-11-29-edinburgh.json".
func (c CapturedForecast) ObjectKey(prefix string) string {
	return prefix + c.Date + "-" + strings.ToLower(c.Location) + ".json"
}
