package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validPayloadJSON builds a complete capture envelope with one forecast day.
func validPayloadJSON() []byte {
	return []byte(`{
		"unix_timestamp": 1732905600,
		"date": "2025-11-29",
		"location": "Edinburgh",
		"raw": {
			"daily": {
				"temperature_2m_min": [3.1],
				"temperature_2m_max": [8.4],
				"temperature_2m_mean": [5.6],
				"precipitation_probability_max": [40],
				"wind_speed_10m_max": [22.3],
				"wind_gusts_10m_max": [41.0],
				"weathercode": [61]
			}
		}
	}`)
}

func TestParseRawPayload(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		p, err := ParseRawPayload(validPayloadJSON())
		require.NoError(t, err)

		require.NotNil(t, p.UnixTimestamp)
		assert.Equal(t, int64(1732905600), *p.UnixTimestamp)
		require.NotNil(t, p.Date)
		assert.Equal(t, "2025-11-29", *p.Date)
		require.NotNil(t, p.Location)
		assert.Equal(t, "Edinburgh", *p.Location)
		require.NotNil(t, p.Raw)
		assert.Len(t, p.Raw.Daily, 7)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseRawPayload([]byte("{not json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse raw payload")
	})

	t.Run("provider extras are ignored", func(t *testing.T) {
		body := []byte(`{
			"unix_timestamp": 1, "date": "2025-11-29", "location": "Edinburgh",
			"raw": {"latitude": 55.9486, "daily_units": {"weathercode": "wmo code"}, "daily": {}}
		}`)
		p, err := ParseRawPayload(body)
		require.NoError(t, err)
		assert.NotNil(t, p.Raw)
	})
}

func TestValidate(t *testing.T) {
	mutate := func(t *testing.T, fn func(m map[string]any)) RawForecastPayload {
		t.Helper()
		var m map[string]any
		require.NoError(t, json.Unmarshal(validPayloadJSON(), &m))
		fn(m)
		body, err := json.Marshal(m)
		require.NoError(t, err)
		p, err := ParseRawPayload(body)
		require.NoError(t, err)
		return p
	}

	daily := func(m map[string]any) map[string]any {
		return m["raw"].(map[string]any)["daily"].(map[string]any)
	}

	t.Run("valid payload passes", func(t *testing.T) {
		p, err := ParseRawPayload(validPayloadJSON())
		require.NoError(t, err)
		assert.NoError(t, p.Validate())
	})

	for _, key := range []string{"unix_timestamp", "date", "location", "raw"} {
		t.Run(fmt.Sprintf("missing %s", key), func(t *testing.T) {
			p := mutate(t, func(m map[string]any) { delete(m, key) })

			err := p.Validate()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, key, verr.Field)
			assert.Equal(t, "missing", verr.Reason)
		})
	}

	for _, metric := range requiredDailyMetrics {
		t.Run(fmt.Sprintf("missing metric %s", metric), func(t *testing.T) {
			p := mutate(t, func(m map[string]any) { delete(daily(m), metric) })

			err := p.Validate()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, metric, verr.Field)
		})
	}

	t.Run("empty metric sequence", func(t *testing.T) {
		p := mutate(t, func(m map[string]any) { daily(m)["weathercode"] = []any{} })

		err := p.Validate()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "weathercode", verr.Field)
		assert.Equal(t, "not a non-empty numeric sequence", verr.Reason)
	})

	t.Run("scalar metric", func(t *testing.T) {
		p := mutate(t, func(m map[string]any) { daily(m)["temperature_2m_min"] = 3.1 })

		err := p.Validate()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "temperature_2m_min", verr.Field)
	})

	t.Run("non-numeric metric sequence", func(t *testing.T) {
		p := mutate(t, func(m map[string]any) { daily(m)["wind_gusts_10m_max"] = []any{"fast"} })

		err := p.Validate()
		assert.True(t, errors.As(err, new(*ValidationError)))
	})

	t.Run("missing daily block", func(t *testing.T) {
		p := mutate(t, func(m map[string]any) { m["raw"] = map[string]any{} })

		err := p.Validate()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "temperature_2m_min", verr.Field)
		assert.Equal(t, "missing daily metric", verr.Reason)
	})
}

func TestNewCapturedForecast(t *testing.T) {
	fixedTime := time.Date(2025, 11, 29, 6, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer SetClock(nil)

	raw := json.RawMessage(`{"daily":{"weathercode":[61]}}`)
	captured := NewCapturedForecast("Edinburgh", raw)

	assert.Equal(t, "2025-11-29", captured.Date)
	assert.Equal(t, fixedTime.Unix(), captured.UnixTimestamp)
	assert.Equal(t, "Edinburgh", captured.Location)
	assert.Equal(t, raw, captured.Raw)
	assert.Equal(t, "raw/2025-11-29-edinburgh.json", captured.ObjectKey("raw/"))

	// The envelope round-trips into a payload the validator accepts the
	// shape of (top-level fields present, raw carried verbatim).
	body, err := json.Marshal(captured)
	require.NoError(t, err)
	p, err := ParseRawPayload(body)
	require.NoError(t, err)
	require.NotNil(t, p.Location)
	assert.Equal(t, "Edinburgh", *p.Location)
}
