package morality

import (
	"sort"
	"time"
)

const (
	AxisMin = -100
	AxisMax = 100

	StabilityMin     = 0.5
	StabilityMax     = 2.0
	StabilityDefault = 1.0

	CorruptionMin = 0
	CorruptionMax = 100

	ReputationMin = -100
	ReputationMax = 100

	InfamyMax = 100

	// RecentKarmaWindow is the number of trailing events summed into RecentKarma.
	RecentKarmaWindow = 10

	// UnknownLocation is recorded when an action carries no location.
	UnknownLocation = "unknown"
)

// FactionID identifies a faction from the faction registry.
type FactionID string

// CompanionID identifies a companion from the companion registry.
type CompanionID string

// Group is one of the general reputation groups.
type Group string

const (
	GroupLawfulAuthorities  Group = "lawful_authorities"
	GroupCommonFolk         Group = "common_folk"
	GroupCriminalUnderworld Group = "criminal_underworld"
	GroupReligiousOrders    Group = "religious_orders"
	GroupMagicalCommunity   Group = "magical_community"
)

// Groups lists the reputation groups in reporting order.
func Groups() []Group {
	return []Group{
		GroupLawfulAuthorities,
		GroupCommonFolk,
		GroupCriminalUnderworld,
		GroupReligiousOrders,
		GroupMagicalCommunity,
	}
}

// PlayerReputation holds bounded standing scores.
type PlayerReputation struct {
	LawfulAuthorities  int `json:"lawful_authorities"`
	CommonFolk         int `json:"common_folk"`
	CriminalUnderworld int `json:"criminal_underworld"`
	ReligiousOrders    int `json:"religious_orders"`
	MagicalCommunity   int `json:"magical_community"`

	Factions  map[FactionID]int `json:"faction_reputation,omitempty"`
	Locations map[string]int    `json:"location_reputation,omitempty"`
	NPCs      map[string]int    `json:"npc_reputation,omitempty"`
}

// Group returns the score of a general group.
func (r PlayerReputation) Group(group Group) (int, bool) {
	switch group {
	case GroupLawfulAuthorities:
		return r.LawfulAuthorities, true
	case GroupCommonFolk:
		return r.CommonFolk, true
	case GroupCriminalUnderworld:
		return r.CriminalUnderworld, true
	case GroupReligiousOrders:
		return r.ReligiousOrders, true
	case GroupMagicalCommunity:
		return r.MagicalCommunity, true
	}
	return 0, false
}

func (r *PlayerReputation) groupField(group Group) *int {
	switch group {
	case GroupLawfulAuthorities:
		return &r.LawfulAuthorities
	case GroupCommonFolk:
		return &r.CommonFolk
	case GroupCriminalUnderworld:
		return &r.CriminalUnderworld
	case GroupReligiousOrders:
		return &r.ReligiousOrders
	case GroupMagicalCommunity:
		return &r.MagicalCommunity
	}
	return nil
}

// AlignmentShift records a committed alignment change.
type AlignmentShift struct {
	Old       Alignment `json:"old_alignment"`
	New       Alignment `json:"new_alignment"`
	Trigger   string    `json:"trigger_event"`
	Magnitude float64   `json:"shift_magnitude"`
	EventSeq  int       `json:"event_seq"`
	Timestamp time.Time `json:"timestamp"`
}

// PlayerMorality is the full moral state of one player.
type PlayerMorality struct {
	PlayerID string `json:"player_id"`

	Alignment Alignment `json:"alignment"`
	Stability float64   `json:"stability"`

	GoodEvilAxis      int `json:"good_evil_axis"`
	LawfulChaoticAxis int `json:"lawful_chaotic_axis"`

	TotalKarma  int `json:"total_karma"`
	RecentKarma int `json:"recent_karma"`

	KarmaHistory     []KarmaEvent     `json:"karma_history,omitempty"`
	AlignmentHistory []AlignmentShift `json:"alignment_history,omitempty"`

	Reputation PlayerReputation `json:"reputation"`

	CorruptionLevel  int `json:"corruption_level"`
	RedemptionPoints int `json:"redemption_points"`
	InfamyLevel      int `json:"infamy_level"`

	TotalKills     int `json:"total_kills"`
	InnocentKills  int `json:"innocent_kills"`
	LivesSaved     int `json:"lives_saved"`
	PromisesKept   int `json:"promises_kept"`
	PromisesBroken int `json:"promises_broken"`

	// StoryFlags is the sorted union of every recorded event's flags.
	StoryFlags []string `json:"story_flags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPlayerMorality returns the default state for a player seen for the
// first time.
func NewPlayerMorality(playerID string, now time.Time) PlayerMorality {
	return PlayerMorality{
		PlayerID:  playerID,
		Alignment: TrueNeutral,
		Stability: StabilityDefault,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

// HasFlag reports whether any recorded event set flag.
func (m PlayerMorality) HasFlag(flag string) bool {
	i := sort.SearchStrings(m.StoryFlags, flag)
	return i < len(m.StoryFlags) && m.StoryFlags[i] == flag
}

func (m *PlayerMorality) addFlags(flags []string) {
	for _, flag := range flags {
		if flag == "" || m.HasFlag(flag) {
			continue
		}
		i := sort.SearchStrings(m.StoryFlags, flag)
		m.StoryFlags = append(m.StoryFlags, "")
		copy(m.StoryFlags[i+1:], m.StoryFlags[i:])
		m.StoryFlags[i] = flag
	}
}

// RecentEvents returns up to n trailing events, oldest first.
func (m PlayerMorality) RecentEvents(n int) []KarmaEvent {
	if n <= 0 {
		return nil
	}
	start := len(m.KarmaHistory) - n
	if start < 0 {
		start = 0
	}
	out := make([]KarmaEvent, len(m.KarmaHistory)-start)
	copy(out, m.KarmaHistory[start:])
	return out
}

// trailingMagnitude sums the magnitudes of the last n events.
func (m PlayerMorality) trailingMagnitude(n int) int {
	sum := 0
	for i := len(m.KarmaHistory) - 1; i >= 0 && i >= len(m.KarmaHistory)-n; i-- {
		sum += m.KarmaHistory[i].Magnitude
	}
	return sum
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

func clampFloat(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

func abs(value int) int {
	if value < 0 {
		return -value
	}
	return value
}
