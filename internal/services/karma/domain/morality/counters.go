package morality

const (
	infamyWitnessCap = 5
	infamyStep       = 10
)

// updateCounters bumps the tracking counters and infamy for evt.
func updateCounters(m *PlayerMorality, evt KarmaEvent) {
	switch evt.Action {
	case ActionMurderInnocent, ActionMassacre:
		m.TotalKills++
		m.InnocentKills++
	case ActionKillInSelfDefense:
		m.TotalKills++
	case ActionSaveInnocent, ActionSelfSacrifice:
		m.LivesSaved++
	case ActionKeepPromise:
		m.PromisesKept++
	case ActionBreakPromise:
		m.PromisesBroken++
	}

	// Misdeeds become infamous only when someone saw them.
	if evt.Magnitude < 0 && len(evt.Witnesses) > 0 {
		witnesses := len(evt.Witnesses)
		if witnesses > infamyWitnessCap {
			witnesses = infamyWitnessCap
		}
		step := abs(evt.Magnitude) / infamyStep
		if step < 1 {
			step = 1
		}
		m.InfamyLevel = clamp(m.InfamyLevel+witnesses*step, 0, InfamyMax)
	}
}
