package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRecord(t *testing.T) {
	t.Run("flattens payload and assessment", func(t *testing.T) {
		p, err := ParseRawPayload(validPayloadJSON())
		require.NoError(t, err)

		rec, err := BuildRecord(p)
		require.NoError(t, err)

		expected := WeatherRiskRecord{
			UnixTimestamp: 1732905600,
			Date:          "2025-11-29",
			Location:      "Edinburgh",

			TempMin:       3.1,
			TempMax:       8.4,
			TempMean:      5.6,
			PrecipProbMax: 40,
			WindSpeedMax:  22.3,
			WindGustMax:   41.0,
			Weathercode:   61,

			RainRisk:         0.4,
			WindRisk:         41.0 / 70.0,
			TempRisk:         0,
			WeathercodeRisk:  0.4,
			WeathercodeLabel: "rain",
			RiskScore:        0.4*0.4 + 0.3*(41.0/70.0) + 0.1*0.4,
			RiskLevel:        RiskLevelMedium,
		}
		if diff := cmp.Diff(expected, rec); diff != "" {
			t.Fatalf("record mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("only first-day samples are read", func(t *testing.T) {
		body := []byte(`{
			"unix_timestamp": 10, "date": "2025-11-29", "location": "Edinburgh",
			"raw": {"daily": {
				"temperature_2m_min": [1, -99],
				"temperature_2m_max": [5, 99],
				"temperature_2m_mean": [3, 0],
				"precipitation_probability_max": [20, 100],
				"wind_speed_10m_max": [10, 200],
				"wind_gusts_10m_max": [14, 300],
				"weathercode": [2, 99]
			}}
		}`)
		p, err := ParseRawPayload(body)
		require.NoError(t, err)

		rec, err := BuildRecord(p)
		require.NoError(t, err)
		assert.Equal(t, 1.0, rec.TempMin)
		assert.Equal(t, 2, rec.Weathercode)
		assert.Equal(t, RiskLevelLow, rec.RiskLevel)
	})

	t.Run("propagates validation error unchanged", func(t *testing.T) {
		p, err := ParseRawPayload([]byte(`{"unix_timestamp": 1, "date": "d", "location": "l"}`))
		require.NoError(t, err)

		rec, err := BuildRecord(p)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "raw", verr.Field)
		assert.Zero(t, rec)
	})
}

func TestDeriveKeys(t *testing.T) {
	rec := WeatherRiskRecord{Location: "edinburgh", UnixTimestamp: 1732905600}

	keyed := rec.DeriveKeys()

	assert.Equal(t, "EDINBURGH", keyed.PK)
	assert.Equal(t, int64(1732905600), keyed.SK)
	// The receiver is not mutated.
	assert.Empty(t, rec.PK)
}

func TestRecordItem(t *testing.T) {
	p, err := ParseRawPayload(validPayloadJSON())
	require.NoError(t, err)
	rec, err := BuildRecord(p)
	require.NoError(t, err)
	rec = rec.DeriveKeys()

	item := rec.Item()

	assert.Len(t, item, 19)
	assert.Equal(t, "EDINBURGH", item["PK"])
	assert.Equal(t, int64(1732905600), item["SK"])
	assert.Equal(t, "Edinburgh", item["location"])
	assert.Equal(t, 61, item["weathercode"])
	assert.Equal(t, "rain", item["weathercode_label"])
	assert.Equal(t, rec.RiskScore, item["risk_score"])
	assert.IsType(t, float64(0), item["temp_min"])
}
