package rules

import "github.com/sentinela-gov/sentinela/internal/common/cnst"

// ClassifyRisk derives the risk level from probability x impact, both on
// a 1-5 scale. Score up to 5 is BAIXO, up to 15 MÉDIO, above that ALTO.
// With either input missing no level can be derived and nil is returned.
func ClassifyRisk(probability, impact *int) *string {
	if probability == nil || impact == nil {
		return nil
	}
	score := *probability * *impact
	var level string
	switch {
	case score <= 5:
		level = cnst.RiskLow
	case score <= 15:
		level = cnst.RiskMedium
	default:
		level = cnst.RiskHigh
	}
	return &level
}
