package morality

// companionImpactFloor is the smallest companion reaction worth recording.
const companionImpactFloor = 3

// factionImpact converts the event magnitude into per-faction standing
// deltas using the coefficient for the player's current alignment.
func (e *Engine) factionImpact(current Alignment, final int, ctx ActionContext) map[FactionID]int {
	involved := idSet(ctx.InvolvedFactions)
	opposed := idSet(ctx.OpposedFactions)

	var out map[FactionID]int
	for _, faction := range e.registry.Factions {
		coefficient, ok := faction.Coefficients[current]
		if !ok {
			continue
		}
		impact := float64(final) * coefficient
		if involved[faction.ID] {
			impact *= 1.5
		}
		if opposed[faction.ID] {
			impact = -impact
		}
		delta := int(impact)
		if delta == 0 {
			continue
		}
		if out == nil {
			out = make(map[FactionID]int)
		}
		out[faction.ID] += delta
	}
	return out
}

// companionImpact scales the signed magnitude by each companion's
// compatibility with the action's tags.
func (e *Engine) companionImpact(action Action, final int, ctx ActionContext) map[CompanionID]int {
	present := idSet(ctx.PresentCompanions)

	var out map[CompanionID]int
	for _, companion := range e.registry.Companions {
		prefs, ok := e.registry.Preferences[companion.Alignment]
		if !ok {
			continue
		}
		impact := roundHalfEven(float64(final) * compatibility(prefs, action.Tags()))
		if present[companion.ID] {
			impact *= 2
		}
		if abs(impact) < companionImpactFloor {
			continue
		}
		if out == nil {
			out = make(map[CompanionID]int)
		}
		out[companion.ID] = impact
	}
	return out
}

// compatibility averages the preferences for the tags present. Untagged
// actions are neutral.
func compatibility(prefs TagPreferences, set TagSet) float64 {
	tags := set.Tags()
	if len(tags) == 0 {
		return 0
	}
	total := 0.0
	for _, tag := range tags {
		total += prefs.forTag(tag)
	}
	return total / float64(len(tags))
}

func idSet[T ~string](ids []T) map[T]bool {
	if len(ids) == 0 {
		return nil
	}
	out := make(map[T]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}
