package domain

import "math"

// Risk level labels. Boundaries are inclusive on the higher level: a score
// of exactly 0.3 is MEDIUM and exactly 0.7 is HIGH.
const (
	RiskLevelLow    = "LOW"
	RiskLevelMedium = "MEDIUM"
	RiskLevelHigh   = "HIGH"
)

// Sub-score weights. They sum to 1.0, so the composite of four sub-scores
// each ≤ 1 cannot exceed 1; the clamp in AssessRisk guards against future
// sub-score changes.
const (
	rainWeight        = 0.4
	windWeight        = 0.3
	tempWeight        = 0.2
	weathercodeWeight = 0.1

	// gustCeiling is the km/h gust speed that saturates wind risk at 1.0.
	gustCeiling = 70.0
	// comfortMaxTemp bounds the zero-risk temperature band; the lower bound
	// is 0°C.
	comfortMaxTemp = 25.0
	// tempRiskSpan is how many degrees past the comfort band reach full risk.
	tempRiskSpan = 10.0
)

// RiskAssessment is the scored view of one forecast day. Computed fresh on
// every invocation, never persisted standalone.
type RiskAssessment struct {
	RainRisk         float64
	WindRisk         float64
	TempRisk         float64
	WeathercodeRisk  float64
	WeathercodeLabel string
	RiskScore        float64
	RiskLevel        string
}

// AssessRisk computes the risk assessment for the first forecast day.
// Pure function, no I/O.
func AssessRisk(d DailyFirstDay) RiskAssessment {
	rain := d.PrecipProbMax / 100.0
	wind := math.Min(d.WindGustMax/gustCeiling, 1.0)
	temp := tempRisk(d.TempMin, d.TempMax)
	wcRisk, wcLabel := weathercodeRisk(d.Weathercode)

	score := rainWeight*rain + windWeight*wind + tempWeight*temp + weathercodeWeight*wcRisk
	score = math.Min(score, 1.0)

	return RiskAssessment{
		RainRisk:         rain,
		WindRisk:         wind,
		TempRisk:         temp,
		WeathercodeRisk:  wcRisk,
		WeathercodeLabel: wcLabel,
		RiskScore:        score,
		RiskLevel:        riskLevel(score),
	}
}

// tempRisk penalizes temperatures outside the 0–25°C comfort band. The cold
// penalty takes precedence when both bounds are violated.
func tempRisk(tempMin, tempMax float64) float64 {
	switch {
	case tempMin >= 0 && tempMax <= comfortMaxTemp:
		return 0
	case tempMin < 0:
		return math.Min((0-tempMin)/tempRiskSpan, 1.0)
	default:
		return math.Min((tempMax-comfortMaxTemp)/tempRiskSpan, 1.0)
	}
}

func riskLevel(score float64) string {
	switch {
	case score < 0.3:
		return RiskLevelLow
	case score < 0.7:
		return RiskLevelMedium
	default:
		return RiskLevelHigh
	}
}

// weathercodeRisk maps a WMO weather interpretation code to a risk
// contribution and a human label. The mapping is total: codes outside the
// table yield (0, "unknown").
func weathercodeRisk(code int) (float64, string) {
	switch code {
	case 0, 1, 2, 3:
		return 0.0, "clear_or_cloudy"
	case 45, 48:
		return 0.3, "fog"
	case 51, 53, 55:
		return 0.2, "drizzle"
	case 56, 57:
		return 0.6, "freezing_drizzle"
	case 61, 63, 80, 81:
		return 0.4, "rain"
	case 65, 82:
		return 0.7, "heavy_rain"
	case 66, 67:
		return 0.8, "freezing_rain"
	case 71, 73, 77, 85:
		return 0.5, "snow"
	case 75, 86:
		return 0.8, "heavy_snow"
	case 95:
		return 0.8, "thunderstorm"
	case 96, 99:
		return 1.0, "thunderstorm_hail"
	default:
		return 0.0, "unknown"
	}
}
