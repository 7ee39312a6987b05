package morality

const (
	// ShiftWindow is the number of trailing events that can force a shift.
	ShiftWindow = 5
	// ShiftBaseThreshold is scaled by stability to get the shift threshold.
	ShiftBaseThreshold = 20.0

	stabilityShiftPenalty = 0.1
	stabilityRecovery     = 0.05
)

// ShiftThreshold is the trailing karma needed to commit a shift at the given
// stability.
func ShiftThreshold(stability float64) float64 {
	return ShiftBaseThreshold * stability
}

// checkAlignmentShift commits the alignment the axes point to only when the
// last ShiftWindow events push hard enough. Otherwise the current alignment
// holds and becomes a little stickier.
func checkAlignmentShift(m *PlayerMorality, evt KarmaEvent) {
	candidate := AlignmentFromAxes(m.GoodEvilAxis, m.LawfulChaoticAxis)
	threshold := ShiftThreshold(m.Stability)
	recent := float64(abs(m.trailingMagnitude(ShiftWindow)))

	if recent >= threshold && candidate != m.Alignment {
		m.AlignmentHistory = append(m.AlignmentHistory, AlignmentShift{
			Old:       m.Alignment,
			New:       candidate,
			Trigger:   evt.Description,
			Magnitude: recent / threshold,
			EventSeq:  evt.Seq,
			Timestamp: evt.Timestamp,
		})
		m.Alignment = candidate
		m.Stability = clampFloat(m.Stability-stabilityShiftPenalty, StabilityMin, StabilityMax)
		return
	}
	m.Stability = clampFloat(m.Stability+stabilityRecovery, StabilityMin, StabilityMax)
}
