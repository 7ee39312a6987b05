package morality

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInvalidRegistry indicates registry configuration that cannot be used.
var ErrInvalidRegistry = errors.New("invalid registry")

// Faction maps player alignments to sympathy coefficients. Alignments
// without a coefficient leave the faction untouched.
type Faction struct {
	ID           FactionID             `json:"id"`
	Name         string                `json:"name"`
	Coefficients map[Alignment]float64 `json:"coefficients"`
}

// Companion is a companion with a preferred alignment.
type Companion struct {
	ID        CompanionID `json:"id"`
	Name      string      `json:"name"`
	Alignment Alignment   `json:"alignment"`
}

// TagPreferences is the signed approval an alignment has for each action tag.
type TagPreferences struct {
	Good    float64 `json:"good"`
	Evil    float64 `json:"evil"`
	Lawful  float64 `json:"lawful"`
	Chaotic float64 `json:"chaotic"`
}

func (p TagPreferences) forTag(tag Tag) float64 {
	switch tag {
	case TagGood:
		return p.Good
	case TagEvil:
		return p.Evil
	case TagLawful:
		return p.Lawful
	case TagChaotic:
		return p.Chaotic
	}
	return 0
}

// QuestPolicy names the quest ids and flags emitted on karma events. The
// ids belong to the external quest catalog.
type QuestPolicy struct {
	Dark      []string `json:"dark"`
	Holy      []string `json:"holy"`
	Heroic    []string `json:"heroic"`
	Legendary string   `json:"legendary"`
	Rebellion []string `json:"rebellion"`
	Order     []string `json:"order"`
	// RebellionActions unlock Rebellion and lock Order.
	RebellionActions []Action `json:"rebellion_actions"`
}

// Registry is the immutable configuration consumed by the engine.
type Registry struct {
	Factions    []Faction                    `json:"factions"`
	Companions  []Companion                  `json:"companions"`
	Preferences map[Alignment]TagPreferences `json:"preferences"`
	Quests      QuestPolicy                  `json:"quests"`
}

// Story flags emitted by the quest policy.
const (
	FlagNotoriousKiller = "notorious_killer"
	FlagLegendarySavior = "legendary_savior"
)

// DefaultRegistry returns the built-in factions, companions and quest ids.
func DefaultRegistry() Registry {
	return Registry{
		Factions: []Faction{
			{ID: "city_watch", Name: "City Watch", Coefficients: map[Alignment]float64{
				LawfulGood: 1.0, LawfulNeutral: 1.0, LawfulEvil: 0.5, NeutralGood: 0.5, TrueNeutral: 0.3,
			}},
			{ID: "temple_of_light", Name: "Temple of Light", Coefficients: map[Alignment]float64{
				LawfulGood: 1.0, NeutralGood: 1.0, ChaoticGood: 0.8, LawfulNeutral: 0.3,
			}},
			{ID: "thieves_guild", Name: "Thieves' Guild", Coefficients: map[Alignment]float64{
				ChaoticNeutral: -0.8, ChaoticEvil: -1.0, NeutralEvil: -0.6, ChaoticGood: 0.3,
			}},
			{ID: "merchants_guild", Name: "Merchants' Guild", Coefficients: map[Alignment]float64{
				LawfulNeutral: 0.8, LawfulGood: 0.6, TrueNeutral: 0.5, NeutralGood: 0.4,
			}},
			{ID: "shadow_cult", Name: "Shadow Cult", Coefficients: map[Alignment]float64{
				NeutralEvil: -1.0, ChaoticEvil: -1.0, LawfulEvil: -0.8,
			}},
			{ID: "arcane_conclave", Name: "Arcane Conclave", Coefficients: map[Alignment]float64{
				TrueNeutral: 0.6, LawfulNeutral: 0.5, NeutralGood: 0.4, ChaoticNeutral: 0.4,
			}},
		},
		Companions: []Companion{
			{ID: "sir_aldric", Name: "Sir Aldric", Alignment: LawfulGood},
			{ID: "lyra", Name: "Lyra", Alignment: ChaoticGood},
			{ID: "brother_tomas", Name: "Brother Tomas", Alignment: NeutralGood},
			{ID: "vex", Name: "Vex", Alignment: ChaoticNeutral},
			{ID: "morrigan", Name: "Morrigan", Alignment: NeutralEvil},
			{ID: "kael", Name: "Kael", Alignment: LawfulNeutral},
		},
		Preferences: map[Alignment]TagPreferences{
			LawfulGood:     {Good: 1.0, Evil: -1.0, Lawful: 0.8, Chaotic: -0.5},
			NeutralGood:    {Good: 1.0, Evil: -1.0, Lawful: 0.2, Chaotic: 0.2},
			ChaoticGood:    {Good: 1.0, Evil: -1.0, Lawful: -0.5, Chaotic: 0.8},
			LawfulNeutral:  {Good: 0.2, Evil: -0.2, Lawful: 1.0, Chaotic: -1.0},
			TrueNeutral:    {Good: 0.1, Evil: -0.1, Lawful: 0.1, Chaotic: 0.1},
			ChaoticNeutral: {Good: 0.0, Evil: 0.0, Lawful: -1.0, Chaotic: 1.0},
			LawfulEvil:     {Good: -0.8, Evil: 1.0, Lawful: 0.8, Chaotic: -0.5},
			NeutralEvil:    {Good: -1.0, Evil: 1.0, Lawful: 0.0, Chaotic: 0.2},
			ChaoticEvil:    {Good: -1.0, Evil: 1.0, Lawful: -0.8, Chaotic: 1.0},
		},
		Quests: QuestPolicy{
			Dark:             []string{"cult_initiation", "shadow_pact"},
			Holy:             []string{"temple_blessing", "paladin_trial"},
			Heroic:           []string{"heroes_guild_invitation", "champion_of_the_people"},
			Legendary:        "legendary_guardian",
			Rebellion:        []string{"rebel_alliance", "underground_network"},
			Order:            []string{"royal_guard_commission", "order_of_law"},
			RebellionActions: []Action{ActionStartRebellion, ActionDefyAuthority, ActionBreakLaw},
		},
	}
}

// LoadRegistry decodes a JSON registry and validates it.
func LoadRegistry(r io.Reader) (Registry, error) {
	var reg Registry
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&reg); err != nil {
		return Registry{}, fmt.Errorf("%w: decode: %v", ErrInvalidRegistry, err)
	}
	if err := reg.Validate(); err != nil {
		return Registry{}, err
	}
	return reg, nil
}

// Validate checks ids and alignment references.
func (r Registry) Validate() error {
	seenFactions := make(map[FactionID]bool, len(r.Factions))
	for _, faction := range r.Factions {
		id := FactionID(strings.TrimSpace(string(faction.ID)))
		if id == "" {
			return fmt.Errorf("%w: faction id is required", ErrInvalidRegistry)
		}
		if seenFactions[id] {
			return fmt.Errorf("%w: duplicate faction %q", ErrInvalidRegistry, id)
		}
		seenFactions[id] = true
		for alignment := range faction.Coefficients {
			if !alignment.Valid() {
				return fmt.Errorf("%w: faction %q: unknown alignment %q", ErrInvalidRegistry, id, alignment)
			}
		}
	}
	for alignment := range r.Preferences {
		if !alignment.Valid() {
			return fmt.Errorf("%w: preferences: unknown alignment %q", ErrInvalidRegistry, alignment)
		}
	}
	seenCompanions := make(map[CompanionID]bool, len(r.Companions))
	for _, companion := range r.Companions {
		id := CompanionID(strings.TrimSpace(string(companion.ID)))
		if id == "" {
			return fmt.Errorf("%w: companion id is required", ErrInvalidRegistry)
		}
		if seenCompanions[id] {
			return fmt.Errorf("%w: duplicate companion %q", ErrInvalidRegistry, id)
		}
		seenCompanions[id] = true
		if !companion.Alignment.Valid() {
			return fmt.Errorf("%w: companion %q: unknown alignment %q", ErrInvalidRegistry, id, companion.Alignment)
		}
	}
	for _, action := range r.Quests.RebellionActions {
		if !action.Valid() {
			return fmt.Errorf("%w: quests: %v", ErrInvalidRegistry, fmt.Errorf("%w: %q", ErrUnknownAction, action))
		}
	}
	return nil
}

func (p QuestPolicy) isRebellionAction(action Action) bool {
	for _, candidate := range p.RebellionActions {
		if candidate == action {
			return true
		}
	}
	return false
}
