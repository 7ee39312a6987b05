package morality

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// eventNamespace scopes name-based karma event ids.
var eventNamespace = uuid.MustParse("6f1c2a8e-3d4b-5c6d-8e7f-9a0b1c2d3e4f")

// ActionContext carries optional situational details of an action.
type ActionContext struct {
	// InvolvedFactions have their impact multiplied by 1.5.
	InvolvedFactions []FactionID `json:"involved_factions,omitempty"`
	// OpposedFactions have their impact sign inverted.
	OpposedFactions []FactionID `json:"opposed_factions,omitempty"`
	// PresentCompanions have their impact doubled.
	PresentCompanions []CompanionID `json:"present_companions,omitempty"`
}

// Input is one classified action submitted for a player.
type Input struct {
	Action      Action   `json:"action"`
	Description string   `json:"description"`
	Location    string   `json:"location,omitempty"`
	Witnesses   []string `json:"witnesses,omitempty"`
	// MagnitudeModifier scales the base weight; nil means 1.0. An explicit
	// zero cancels the act's karma.
	MagnitudeModifier *float64      `json:"magnitude_modifier,omitempty"`
	Context           ActionContext `json:"context"`
	Timestamp         time.Time     `json:"timestamp"`
}

// Modifier returns a magnitude modifier for Input.MagnitudeModifier.
func Modifier(value float64) *float64 { return &value }

func (in Input) modifier() float64 {
	if in.MagnitudeModifier == nil {
		return 1.0
	}
	return *in.MagnitudeModifier
}

// KarmaEvent is an immutable fact appended to a player's history.
type KarmaEvent struct {
	Seq         int       `json:"seq"`
	ID          string    `json:"id"`
	PlayerID    string    `json:"player_id"`
	Action      Action    `json:"action"`
	Magnitude   int       `json:"magnitude"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Witnesses   []string  `json:"witnesses,omitempty"`
	Timestamp   time.Time `json:"timestamp"`

	FactionImpact   map[FactionID]int   `json:"faction_impact,omitempty"`
	CompanionImpact map[CompanionID]int `json:"companion_impact,omitempty"`

	Unlocks    []string `json:"unlocks,omitempty"`
	Locks      []string `json:"locks,omitempty"`
	StoryFlags []string `json:"story_flags,omitempty"`
}

// EventID derives the id of the seq-th event of a player. Equal inputs always
// give equal ids so replays reproduce history exactly.
func EventID(playerID string, seq int) string {
	return uuid.NewSHA1(eventNamespace, []byte(playerID+"/"+strconv.Itoa(seq))).String()
}
