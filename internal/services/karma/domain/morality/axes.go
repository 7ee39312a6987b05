package morality

const (
	// LawfulStep is the fixed lawful/chaotic axis movement per tagged action.
	LawfulStep = 5

	corruptionGainThreshold    = -10
	corruptionCleanseThreshold = 15
)

// updateAxes moves the good/evil axis by the event magnitude and the
// lawful/chaotic axis by a fixed step.
func updateAxes(m *PlayerMorality, action Action, final int) {
	tags := action.Tags()
	switch {
	case tags.Has(TagGood):
		m.GoodEvilAxis = clamp(m.GoodEvilAxis+abs(final), AxisMin, AxisMax)
	case tags.Has(TagEvil):
		m.GoodEvilAxis = clamp(m.GoodEvilAxis+final, AxisMin, AxisMax)
	}
	switch {
	case tags.Has(TagLawful):
		m.LawfulChaoticAxis = clamp(m.LawfulChaoticAxis+LawfulStep, AxisMin, AxisMax)
	case tags.Has(TagChaotic):
		m.LawfulChaoticAxis = clamp(m.LawfulChaoticAxis-LawfulStep, AxisMin, AxisMax)
	}
}

// updateCorruption grows corruption on harmful acts. Strongly good acts
// cleanse corruption and grant redemption in the same step.
func updateCorruption(m *PlayerMorality, final int) {
	switch {
	case final <= corruptionGainThreshold:
		m.CorruptionLevel = clamp(m.CorruptionLevel+abs(final)/2, CorruptionMin, CorruptionMax)
	case final >= corruptionCleanseThreshold:
		m.CorruptionLevel = clamp(m.CorruptionLevel-final/3, CorruptionMin, CorruptionMax)
		m.RedemptionPoints += final / 5
	}
}
