package morality

const (
	butcherInnocentKills = 10
	legendaryLivesSaved  = 50
	corruptedLevel       = 90
	redeemedPoints       = 30
	redeemedCorruption   = 25

	// DefaultTitle is used when no ladder rung applies.
	DefaultTitle = "Wanderer"
)

// alignmentTitles holds three rungs per alignment, highest first.
var alignmentTitles = map[Alignment][3]string{
	LawfulGood:     {"Paragon of Justice", "Knight of Virtue", "Honorable Soul"},
	NeutralGood:    {"Beacon of Hope", "Friend of the People", "Kind Heart"},
	ChaoticGood:    {"Liberator", "Rebel with a Cause", "Free Spirit"},
	LawfulNeutral:  {"Voice of the Law", "Steadfast Arbiter", "Dutiful Servant"},
	TrueNeutral:    {"Keeper of Balance", "Watchful Observer", "Drifter"},
	ChaoticNeutral: {"Living Storm", "Unbound Wanderer", "Wildcard"},
	LawfulEvil:     {"Iron Tyrant", "Cold Enforcer", "Ruthless Schemer"},
	NeutralEvil:    {"Harbinger of Ruin", "Shadow Dealer", "Opportunist"},
	ChaoticEvil:    {"Bringer of Chaos", "Reaver", "Troublemaker"},
}

// Title resolves the display title for m. Extreme records win over the
// alignment ladder.
func Title(m PlayerMorality) string {
	switch {
	case m.InnocentKills >= butcherInnocentKills:
		return "The Butcher"
	case m.LivesSaved >= legendaryLivesSaved:
		return "Legendary Hero"
	case m.CorruptionLevel >= corruptedLevel:
		return "The Utterly Corrupted"
	case m.RedemptionPoints >= redeemedPoints && m.CorruptionLevel < redeemedCorruption:
		return "The Redeemed"
	}
	rungs, ok := alignmentTitles[m.Alignment]
	if !ok {
		return DefaultTitle
	}
	return rungs[titleRung(m)]
}

// titleRung picks 0 (highest) to 2. Good alignments climb with karma, evil
// ones with corruption and neutral ones with their best group standing.
func titleRung(m PlayerMorality) int {
	var value, high, mid int
	switch m.Alignment.Ethic() {
	case EthicGood:
		value, high, mid = m.TotalKarma, 200, 50
	case EthicEvil:
		value, high, mid = m.CorruptionLevel, 60, 30
	default:
		value, high, mid = bestGroupScore(m.Reputation), 60, 30
	}
	switch {
	case value >= high:
		return 0
	case value >= mid:
		return 1
	default:
		return 2
	}
}

func bestGroupScore(rep PlayerReputation) int {
	best := ReputationMin
	for _, group := range Groups() {
		if score, _ := rep.Group(group); score > best {
			best = score
		}
	}
	return best
}
