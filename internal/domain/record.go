package domain

import "strings"

// WeatherRiskRecord is the persisted entity: payload scalars, first-day
// metric values, the risk assessment, and the derived PK/SK pair. (PK, SK)
// uniquely identifies a record; a later write with the same pair overwrites
// the earlier one.
type WeatherRiskRecord struct {
	PK string `json:"PK" dynamodbav:"PK"`
	SK int64  `json:"SK" dynamodbav:"SK"`

	UnixTimestamp int64  `json:"unix_timestamp" dynamodbav:"unix_timestamp"`
	Date          string `json:"date" dynamodbav:"date"`
	Location      string `json:"location" dynamodbav:"location"`

	TempMin       float64 `json:"temp_min" dynamodbav:"temp_min"`
	TempMax       float64 `json:"temp_max" dynamodbav:"temp_max"`
	TempMean      float64 `json:"temp_mean" dynamodbav:"temp_mean"`
	PrecipProbMax float64 `json:"precip_prob_max" dynamodbav:"precip_prob_max"`
	WindSpeedMax  float64 `json:"wind_speed_max" dynamodbav:"wind_speed_max"`
	WindGustMax   float64 `json:"wind_gust_max" dynamodbav:"wind_gust_max"`
	Weathercode   int     `json:"weathercode" dynamodbav:"weathercode"`

	RainRisk         float64 `json:"rain_risk" dynamodbav:"rain_risk"`
	WindRisk         float64 `json:"wind_risk" dynamodbav:"wind_risk"`
	TempRisk         float64 `json:"temp_risk" dynamodbav:"temp_risk"`
	WeathercodeRisk  float64 `json:"weathercode_risk" dynamodbav:"weathercode_risk"`
	WeathercodeLabel string  `json:"weathercode_label" dynamodbav:"weathercode_label"`
	RiskScore        float64 `json:"risk_score" dynamodbav:"risk_score"`
	RiskLevel        string  `json:"risk_level" dynamodbav:"risk_level"`
}

// BuildRecord validates the payload, scores the first forecast day, and
// flattens both into a record. A validation failure is returned unchanged
// and no record is produced. PK and SK are left unset; DeriveKeys fills
// them.
func BuildRecord(p RawForecastPayload) (WeatherRiskRecord, error) {
	daily, err := p.validateDaily()
	if err != nil {
		return WeatherRiskRecord{}, err
	}

	d := firstDay(daily)
	risk := AssessRisk(d)

	return WeatherRiskRecord{
		UnixTimestamp: *p.UnixTimestamp,
		Date:          *p.Date,
		Location:      *p.Location,

		TempMin:       d.TempMin,
		TempMax:       d.TempMax,
		TempMean:      d.TempMean,
		PrecipProbMax: d.PrecipProbMax,
		WindSpeedMax:  d.WindSpeedMax,
		WindGustMax:   d.WindGustMax,
		Weathercode:   d.Weathercode,

		RainRisk:         risk.RainRisk,
		WindRisk:         risk.WindRisk,
		TempRisk:         risk.TempRisk,
		WeathercodeRisk:  risk.WeathercodeRisk,
		WeathercodeLabel: risk.WeathercodeLabel,
		RiskScore:        risk.RiskScore,
		RiskLevel:        risk.RiskLevel,
	}, nil
}

// DeriveKeys returns the record with its partition and sort key set:
// PK is the upper-cased location name, SK the payload unix timestamp.
func (r WeatherRiskRecord) DeriveKeys() WeatherRiskRecord {
	r.PK = strings.ToUpper(r.Location)
	r.SK = r.UnixTimestamp
	return r
}

// Item flattens the record into the generic map shape consumed by
// CoerceNumerics and the record store. Values keep their native types;
// coercion happens on the outbound copy only.
func (r WeatherRiskRecord) Item() map[string]any {
	return map[string]any{
		"PK":                r.PK,
		"SK":                r.SK,
		"unix_timestamp":    r.UnixTimestamp,
		"date":              r.Date,
		"location":          r.Location,
		"temp_min":          r.TempMin,
		"temp_max":          r.TempMax,
		"temp_mean":         r.TempMean,
		"precip_prob_max":   r.PrecipProbMax,
		"wind_speed_max":    r.WindSpeedMax,
		"wind_gust_max":     r.WindGustMax,
		"weathercode":       r.Weathercode,
		"rain_risk":         r.RainRisk,
		"wind_risk":         r.WindRisk,
		"temp_risk":         r.TempRisk,
		"weathercode_risk":  r.WeathercodeRisk,
		"weathercode_label": r.WeathercodeLabel,
		"risk_score":        r.RiskScore,
		"risk_level":        r.RiskLevel,
	}
}
