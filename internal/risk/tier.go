package risk

import "fmt"

// Tier is the qualitative band a score falls into.
type Tier string

const (
	TierLow      Tier = "Low"
	TierModerate Tier = "Moderate"
	TierHigh     Tier = "High"
)

// Band boundaries; a score equal to a boundary belongs to the upper tier.
const (
	ModerateFrom = 30
	HighFrom     = 60
)

// TierFromScore classifies a 0-100 score.
func TierFromScore(score int) Tier {
	switch {
	case score >= HighFrom:
		return TierHigh
	case score >= ModerateFrom:
		return TierModerate
	default:
		return TierLow
	}
}

// ParseTier reconstructs a Tier from its string form.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierLow, TierModerate, TierHigh:
		return Tier(s), nil
	default:
		return "", fmt.Errorf("invalid risk tier: %q", s)
	}
}

func (t Tier) String() string { return string(t) }
