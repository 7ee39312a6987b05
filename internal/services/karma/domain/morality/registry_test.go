package morality

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultRegistryIsValid(t *testing.T) {
	reg := DefaultRegistry()
	if err := reg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(reg.Factions) != 6 || len(reg.Companions) != 6 {
		t.Fatalf("factions/companions = %d/%d, want 6/6", len(reg.Factions), len(reg.Companions))
	}
	for _, alignment := range Alignments() {
		if _, ok := reg.Preferences[alignment]; !ok {
			t.Fatalf("missing preferences for %s", alignment)
		}
	}
}

func TestLoadRegistry(t *testing.T) {
	data := `{
		"factions": [{"id": "river_folk", "name": "River Folk", "coefficients": {"neutral_good": 1.2}}],
		"companions": [{"id": "wren", "name": "Wren", "alignment": "chaotic_good"}],
		"preferences": {"chaotic_good": {"good": 1, "evil": -1, "lawful": -0.5, "chaotic": 0.8}},
		"quests": {"holy": ["shrine_visit"], "rebellion_actions": ["break_law"]}
	}`
	reg, err := LoadRegistry(strings.NewReader(data))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if reg.Factions[0].Coefficients[NeutralGood] != 1.2 {
		t.Fatalf("faction = %+v", reg.Factions[0])
	}
	if reg.Companions[0].Alignment != ChaoticGood {
		t.Fatalf("companion = %+v", reg.Companions[0])
	}
	if !reg.Quests.isRebellionAction(ActionBreakLaw) || reg.Quests.isRebellionAction(ActionStartRebellion) {
		t.Fatalf("rebellion actions = %v", reg.Quests.RebellionActions)
	}
}

func TestLoadRegistryRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", `{`},
		{"unknown field", `{"factoins": []}`},
		{"missing faction id", `{"factions": [{"name": "x"}]}`},
		{"duplicate faction", `{"factions": [{"id": "a"}, {"id": "a"}]}`},
		{"bad coefficient alignment", `{"factions": [{"id": "a", "coefficients": {"sorta_good": 1}}]}`},
		{"bad preference alignment", `{"preferences": {"good": {"good": 1}}}`},
		{"duplicate companion", `{"companions": [{"id": "c", "alignment": "lawful_good"}, {"id": "c", "alignment": "lawful_good"}]}`},
		{"bad companion alignment", `{"companions": [{"id": "c", "alignment": "heroic"}]}`},
		{"unknown rebellion action", `{"quests": {"rebellion_actions": ["riot"]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRegistry(strings.NewReader(tt.data))
			if !errors.Is(err, ErrInvalidRegistry) {
				t.Fatalf("err = %v, want ErrInvalidRegistry", err)
			}
		})
	}
}

func TestEngineWithCustomRegistry(t *testing.T) {
	reg := Registry{
		Factions: []Faction{{ID: "river_folk", Coefficients: map[Alignment]float64{TrueNeutral: 2}}},
	}
	e := NewEngine(reg)
	m := newTestMorality()
	evt := recordAction(e, &m, ActionHelpPoor)
	if evt.FactionImpact["river_folk"] != 20 {
		t.Fatalf("faction impact = %v, want river_folk 20", evt.FactionImpact)
	}
	if len(evt.CompanionImpact) != 0 || len(evt.Unlocks) != 0 {
		t.Fatalf("empty registry produced companions %v unlocks %v", evt.CompanionImpact, evt.Unlocks)
	}
	if m.Reputation.Factions["river_folk"] != 20 {
		t.Fatalf("river folk standing = %d, want 20", m.Reputation.Factions["river_folk"])
	}
}
