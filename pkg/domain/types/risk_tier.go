package types

// RiskTier is the Low/Medium/High classification of a total risk score
type RiskTier string

const (
	RiskTierLow    RiskTier = "Low"
	RiskTierMedium RiskTier = "Medium"
	RiskTierHigh   RiskTier = "High"
)

// Tier boundaries on the 0-100 total score
const (
	MediumRiskThreshold = 30
	HighRiskThreshold   = 60
)

// RiskTierOf classifies a total score
func RiskTierOf(total int) RiskTier {
	switch {
	case total >= HighRiskThreshold:
		return RiskTierHigh
	case total >= MediumRiskThreshold:
		return RiskTierMedium
	default:
		return RiskTierLow
	}
}

// String returns the string representation of the risk tier
func (t RiskTier) String() string {
	return string(t)
}
