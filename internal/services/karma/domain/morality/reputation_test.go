package morality

import "testing"

func TestReputationLevelFor(t *testing.T) {
	tests := []struct {
		score int
		want  ReputationLevel
	}{
		{100, ReputationRevered},
		{80, ReputationRevered},
		{79, ReputationHonored},
		{60, ReputationHonored},
		{59, ReputationRespected},
		{40, ReputationRespected},
		{39, ReputationTrusted},
		{20, ReputationTrusted},
		{19, ReputationNeutral},
		{0, ReputationNeutral},
		{-19, ReputationNeutral},
		{-20, ReputationDisliked},
		{-39, ReputationDisliked},
		{-40, ReputationDistrusted},
		{-59, ReputationDistrusted},
		{-60, ReputationDespised},
		{-79, ReputationDespised},
		{-80, ReputationHated},
		{-100, ReputationHated},
	}
	for _, tt := range tests {
		if got := ReputationLevelFor(tt.score); got != tt.want {
			t.Fatalf("ReputationLevelFor(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestReputationLevelIsMonotonic(t *testing.T) {
	order := []ReputationLevel{
		ReputationHated, ReputationDespised, ReputationDistrusted, ReputationDisliked,
		ReputationNeutral, ReputationTrusted, ReputationRespected, ReputationHonored, ReputationRevered,
	}
	rank := make(map[ReputationLevel]int, len(order))
	for i, level := range order {
		rank[level] = i
	}
	prev := rank[ReputationLevelFor(ReputationMin)]
	for score := ReputationMin + 1; score <= ReputationMax; score++ {
		cur := rank[ReputationLevelFor(score)]
		if cur < prev {
			t.Fatalf("band drops at score %d", score)
		}
		prev = cur
	}
}

func TestApplyReputationGroups(t *testing.T) {
	tests := []struct {
		name      string
		action    Action
		magnitude int
		want      map[Group]int
	}{
		{"obey law", ActionObeyLaw, 3, map[Group]int{GroupLawfulAuthorities: 1}},
		{"steal", ActionSteal, -6, map[Group]int{GroupLawfulAuthorities: -3, GroupCriminalUnderworld: 2}},
		{"extort", ActionExtortWeak, -12, map[Group]int{GroupCommonFolk: -24, GroupCriminalUnderworld: 6}},
		{"desecrate", ActionDesecrateTemple, -18, map[Group]int{GroupReligiousOrders: -36, GroupCriminalUnderworld: 9}},
		{"heal", ActionHealWounded, 10, map[Group]int{GroupReligiousOrders: 10}},
		{"save", ActionSaveInnocent, 15, map[Group]int{GroupCommonFolk: 15}},
		{"neutral", ActionNeutralAction, 0, map[Group]int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMorality()
			applyReputation(&m, KarmaEvent{Action: tt.action, Magnitude: tt.magnitude, Location: UnknownLocation})
			for _, group := range Groups() {
				got, _ := m.Reputation.Group(group)
				if got != tt.want[group] {
					t.Fatalf("%s = %d, want %d", group, got, tt.want[group])
				}
			}
		})
	}
}

func TestApplyReputationClamps(t *testing.T) {
	m := newTestMorality()
	m.Reputation.CommonFolk = 95
	m.Reputation.CriminalUnderworld = 98
	applyReputation(&m, KarmaEvent{Action: ActionSaveInnocent, Magnitude: 15, Location: UnknownLocation})
	if m.Reputation.CommonFolk != ReputationMax {
		t.Fatalf("common folk = %d, want %d", m.Reputation.CommonFolk, ReputationMax)
	}
	applyReputation(&m, KarmaEvent{Action: ActionMassacre, Magnitude: -40, Location: UnknownLocation})
	if m.Reputation.CriminalUnderworld != ReputationMax {
		t.Fatalf("criminal underworld = %d, want %d", m.Reputation.CriminalUnderworld, ReputationMax)
	}

	m.Reputation.Factions = map[FactionID]int{"shadow_cult": -95}
	applyReputation(&m, KarmaEvent{
		Action:        ActionNeutralAction,
		Location:      UnknownLocation,
		FactionImpact: map[FactionID]int{"shadow_cult": -20},
	})
	if m.Reputation.Factions["shadow_cult"] != ReputationMin {
		t.Fatalf("shadow cult = %d, want %d", m.Reputation.Factions["shadow_cult"], ReputationMin)
	}
}

func TestApplyReputationFeedsMagicalCommunity(t *testing.T) {
	m := newTestMorality()
	applyReputation(&m, KarmaEvent{
		Action:        ActionHelpPoor,
		Magnitude:     10,
		Location:      UnknownLocation,
		FactionImpact: map[FactionID]int{"arcane_conclave": 9, "city_watch": 4},
	})
	if m.Reputation.MagicalCommunity != 4 {
		t.Fatalf("magical community = %d, want 4", m.Reputation.MagicalCommunity)
	}
	if m.Reputation.Factions["city_watch"] != 4 || m.Reputation.Factions["arcane_conclave"] != 9 {
		t.Fatalf("factions = %v", m.Reputation.Factions)
	}
}
