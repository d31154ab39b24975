package domain

// Tier is a reputation band derived from the score.
type Tier string

// Tiers, lowest to highest.
const (
	TierExplorer   Tier = "explorer"
	TierBuilder    Tier = "builder"
	TierStrategist Tier = "strategist"
	TierArchitect  Tier = "architect"
	TierElite      Tier = "elite"
)

// tierThresholds lists minimum scores, highest first.
var tierThresholds = []struct {
	tier Tier
	min  int
}{
	{TierElite, 850},
	{TierArchitect, 700},
	{TierStrategist, 500},
	{TierBuilder, 300},
	{TierExplorer, 0},
}

// TierForScore maps a score to its tier.
func TierForScore(score int) Tier {
	for _, t := range tierThresholds {
		if score >= t.min {
			return t.tier
		}
	}
	return TierExplorer
}

// MinScore returns the lowest score of the tier, or -1 for an unknown tier.
func (t Tier) MinScore() int {
	for _, th := range tierThresholds {
		if th.tier == t {
			return th.min
		}
	}
	return -1
}

// Valid reports whether t is one of the five defined tiers.
func (t Tier) Valid() bool {
	return t.MinScore() >= 0
}

// NextTier returns the tier above the one score falls in and the points
// still needed to reach it. Elite has no next tier: ("", 0, false).
func NextTier(score int) (Tier, int, bool) {
	current := TierForScore(score)
	for i, th := range tierThresholds {
		if th.tier != current {
			continue
		}
		if i == 0 {
			return "", 0, false
		}
		next := tierThresholds[i-1]
		return next.tier, next.min - score, true
	}
	return "", 0, false
}
