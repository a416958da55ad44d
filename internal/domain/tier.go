package domain

import "strings"

// Tier is the qualitative risk level assigned by the judgment step.
type Tier string

const (
	TierLow      Tier = "LOW"
	TierMedium   Tier = "MEDIUM"
	TierHigh     Tier = "HIGH"
	TierCritical Tier = "CRITICAL"
)

var tierAliases = map[string]Tier{
	"LOW":      TierLow,
	"BAIXO":    TierLow,
	"MEDIUM":   TierMedium,
	"MEDIO":    TierMedium,
	"MÉDIO":    TierMedium,
	"HIGH":     TierHigh,
	"ALTO":     TierHigh,
	"CRITICAL": TierCritical,
	"CRITICO":  TierCritical,
	"CRÍTICO":  TierCritical,
}

// ParseTier accepts English and Portuguese tier names in any case.
func ParseTier(s string) (Tier, bool) {
	t, ok := tierAliases[strings.ToUpper(strings.TrimSpace(s))]
	return t, ok
}
