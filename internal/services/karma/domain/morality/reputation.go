package morality

// ReputationLevel is a named band of a reputation score.
type ReputationLevel string

const (
	ReputationRevered    ReputationLevel = "revered"
	ReputationHonored    ReputationLevel = "honored"
	ReputationRespected  ReputationLevel = "respected"
	ReputationTrusted    ReputationLevel = "trusted"
	ReputationNeutral    ReputationLevel = "neutral"
	ReputationDisliked   ReputationLevel = "disliked"
	ReputationDistrusted ReputationLevel = "distrusted"
	ReputationDespised   ReputationLevel = "despised"
	ReputationHated      ReputationLevel = "hated"
)

// ReputationLevelFor classifies a score. Positive bands start at their cut
// point; negative bands start once the score reaches their cut point from
// above, so -20 is already disliked while 20 is the first trusted score.
func ReputationLevelFor(score int) ReputationLevel {
	switch {
	case score >= 80:
		return ReputationRevered
	case score >= 60:
		return ReputationHonored
	case score >= 40:
		return ReputationRespected
	case score >= 20:
		return ReputationTrusted
	case score > -20:
		return ReputationNeutral
	case score > -40:
		return ReputationDisliked
	case score > -60:
		return ReputationDistrusted
	case score > -80:
		return ReputationDespised
	default:
		return ReputationHated
	}
}

// underworldThreshold is the magnitude at or below which any act earns
// underworld standing.
const underworldThreshold = -10

// magicalCommunityFaction feeds half its delta into the magical community.
const magicalCommunityFaction FactionID = "arcane_conclave"

// applyReputation updates group, faction, location and NPC standing for evt.
func applyReputation(m *PlayerMorality, evt KarmaEvent) {
	rep := &m.Reputation
	size := abs(evt.Magnitude)

	switch evt.Action {
	case ActionObeyLaw, ActionRespectAuthority, ActionUpholdJustice, ActionHonorContract:
		adjustGroup(rep, GroupLawfulAuthorities, size/2)
	case ActionBreakLaw, ActionDefyAuthority, ActionStartRebellion, ActionSteal:
		adjustGroup(rep, GroupLawfulAuthorities, -size/2)
		adjustGroup(rep, GroupCriminalUnderworld, size/3)
	case ActionHelpPoor, ActionProtectWeak, ActionSaveInnocent, ActionSelfSacrifice:
		adjustGroup(rep, GroupCommonFolk, size)
	case ActionExtortWeak, ActionStealFromPoor:
		adjustGroup(rep, GroupCommonFolk, -2*size)
	case ActionHealWounded, ActionShowMercy:
		adjustGroup(rep, GroupReligiousOrders, size)
	case ActionDesecrateTemple, ActionTorture:
		adjustGroup(rep, GroupReligiousOrders, -2*size)
	}

	if evt.Magnitude <= underworldThreshold {
		adjustGroup(rep, GroupCriminalUnderworld, size/2)
	}

	for faction, delta := range evt.FactionImpact {
		if rep.Factions == nil {
			rep.Factions = make(map[FactionID]int)
		}
		rep.Factions[faction] = clamp(rep.Factions[faction]+delta, ReputationMin, ReputationMax)
		if faction == magicalCommunityFaction {
			adjustGroup(rep, GroupMagicalCommunity, delta/2)
		}
	}

	if evt.Location != UnknownLocation {
		if delta := evt.Magnitude / 2; delta != 0 {
			if rep.Locations == nil {
				rep.Locations = make(map[string]int)
			}
			rep.Locations[evt.Location] = clamp(rep.Locations[evt.Location]+delta, ReputationMin, ReputationMax)
		}
	}

	if delta := evt.Magnitude / 2; delta != 0 {
		for _, npc := range evt.Witnesses {
			if rep.NPCs == nil {
				rep.NPCs = make(map[string]int)
			}
			rep.NPCs[npc] = clamp(rep.NPCs[npc]+delta, ReputationMin, ReputationMax)
		}
	}
}

func adjustGroup(rep *PlayerReputation, group Group, delta int) {
	field := rep.groupField(group)
	if field == nil {
		return
	}
	*field = clamp(*field+delta, ReputationMin, ReputationMax)
}
