// Package domain models daily Open-Meteo forecast data and the storm risk
// score derived from it.
//
// # Data Source
//
// Raw payloads are produced by the fetcher (cmd/fetch), which calls the
// Open-Meteo forecast API (https://open-meteo.com/en/docs) for a single
// configured location and wraps the provider response in a capture envelope:
//
//	{
//	  "unix_timestamp": 1732905600,
//	  "date": "2025-11-29",
//	  "location": "Edinburgh",
//	  "raw": { "daily": { "<metric>": [<day0>, <day1>, ...], ... } }
//	}
//
// Each daily metric is an ordered series with one sample per forecast day.
// The pipeline only reads index 0, the current forecast day. Seven metrics
// are required:
//
//	temperature_2m_min, temperature_2m_max, temperature_2m_mean   (°C)
//	precipitation_probability_max                                 (percent)
//	wind_speed_10m_max, wind_gusts_10m_max                        (km/h)
//	weathercode                                                   (WMO code)
//
// # Risk Model
//
// Four sub-scores, each in [0, 1]:
//
//	rain_risk = precipitation_probability_max / 100
//	wind_risk = min(wind_gusts_10m_max / 70, 1)
//	temp_risk = 0 inside the 0–25°C comfort band; otherwise the shortfall
//	            below 0°C (cold takes precedence) or the excess above 25°C,
//	            scaled over 10 degrees and capped at 1
//	weathercode_risk = table lookup on the WMO weather interpretation code
//
// The composite score is the weighted sum 0.4·rain + 0.3·wind + 0.2·temp +
// 0.1·weathercode, clamped to 1. Levels: LOW below 0.3, MEDIUM below 0.7,
// HIGH otherwise — boundaries belong to the higher level.
//
// # Weathercode Table
//
//	0-3            0.0  clear_or_cloudy
//	45, 48         0.3  fog
//	51, 53, 55     0.2  drizzle
//	56, 57         0.6  freezing_drizzle
//	61, 63, 80, 81 0.4  rain
//	65, 82         0.7  heavy_rain
//	66, 67         0.8  freezing_rain
//	71, 73, 77, 85 0.5  snow
//	75, 86         0.8  heavy_snow
//	95             0.8  thunderstorm
//	96, 99         1.0  thunderstorm_hail
//	anything else  0.0  unknown
//
// # Record Keys
//
// Persisted records are keyed by PK = upper-cased location name and
// SK = the payload's unix timestamp. A later write with the same pair
// overwrites the earlier one; records are never mutated or deleted by the
// pipeline.
//
// # Numeric Coercion
//
// The record store holds numbers as exact decimals. [CoerceNumerics] walks a
// record item and replaces every float with a decimal built from the float's
// shortest decimal string, so "17.8" is stored as 17.8 and not as the
// float64 closest to it. The copy used for notifications keeps native floats.
package domain
