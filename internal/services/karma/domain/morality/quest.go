package morality

const (
	darkQuestThreshold   = -15
	heroicQuestThreshold = 15

	darkQuestCorruption      = 50
	legendaryQuestLivesSaved = 10
	notoriousKillerKills     = 5
	legendarySaviorSaved     = 20
)

// applyQuestPolicy fills the unlock, lock and flag lists of evt from the
// state as it was before evt.
func (e *Engine) applyQuestPolicy(m *PlayerMorality, evt *KarmaEvent) {
	policy := e.registry.Quests
	final := evt.Magnitude

	switch {
	case final <= darkQuestThreshold:
		if m.CorruptionLevel >= darkQuestCorruption {
			evt.Unlocks = append(evt.Unlocks, policy.Dark...)
		}
		evt.Locks = append(evt.Locks, policy.Holy...)
	case final >= heroicQuestThreshold:
		evt.Unlocks = append(evt.Unlocks, policy.Heroic...)
		if m.LivesSaved >= legendaryQuestLivesSaved && policy.Legendary != "" {
			evt.Unlocks = append(evt.Unlocks, policy.Legendary)
		}
	}

	if policy.isRebellionAction(evt.Action) {
		evt.Unlocks = append(evt.Unlocks, policy.Rebellion...)
		evt.Locks = append(evt.Locks, policy.Order...)
	}

	switch {
	case evt.Action == ActionMurderInnocent && m.InnocentKills >= notoriousKillerKills:
		evt.StoryFlags = append(evt.StoryFlags, FlagNotoriousKiller)
	case evt.Action == ActionSaveInnocent && m.LivesSaved >= legendarySaviorSaved:
		evt.StoryFlags = append(evt.StoryFlags, FlagLegendarySavior)
	}
}
