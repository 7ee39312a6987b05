package morality

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SummaryEventCount is the number of recent events included in a summary.
const SummaryEventCount = 5

// Standing is a score with its reputation band.
type Standing struct {
	Score int             `json:"score"`
	Level ReputationLevel `json:"level"`
}

// EventDigest is the reporting view of one karma event.
type EventDigest struct {
	Seq         int       `json:"seq"`
	Action      Action    `json:"action"`
	Category    Category  `json:"category"`
	Magnitude   int       `json:"magnitude"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Timestamp   time.Time `json:"timestamp"`
}

// Counters groups the tracking counters.
type Counters struct {
	TotalKills     int `json:"total_kills"`
	InnocentKills  int `json:"innocent_kills"`
	LivesSaved     int `json:"lives_saved"`
	PromisesKept   int `json:"promises_kept"`
	PromisesBroken int `json:"promises_broken"`
}

// MoralitySummary is a read-only report of a player's moral state.
type MoralitySummary struct {
	PlayerID          string                 `json:"player_id"`
	Alignment         Alignment              `json:"alignment"`
	AlignmentName     string                 `json:"alignment_name"`
	Title             string                 `json:"title"`
	GoodEvilAxis      int                    `json:"good_evil_axis"`
	LawfulChaoticAxis int                    `json:"lawful_chaotic_axis"`
	Stability         float64                `json:"stability"`
	TotalKarma        int                    `json:"total_karma"`
	RecentKarma       int                    `json:"recent_karma"`
	CorruptionLevel   int                    `json:"corruption_level"`
	RedemptionPoints  int                    `json:"redemption_points"`
	InfamyLevel       int                    `json:"infamy_level"`
	Reputation        map[Group]Standing     `json:"reputation"`
	Factions          map[FactionID]Standing `json:"factions,omitempty"`
	Counters          Counters               `json:"counters"`
	RecentEvents      []EventDigest          `json:"recent_events"`
	StoryFlags        []string               `json:"story_flags"`
	AlignmentShifts   int                    `json:"alignment_shifts"`
	EventCount        int                    `json:"event_count"`
}

// DisplayName renders an alignment for people, e.g. "Lawful Good".
func (a Alignment) DisplayName() string {
	// Casers keep state between calls, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(string(a), "_", " "))
}

// Summarize builds the summary report for m.
func Summarize(m PlayerMorality) MoralitySummary {
	summary := MoralitySummary{
		PlayerID:          m.PlayerID,
		Alignment:         m.Alignment,
		AlignmentName:     m.Alignment.DisplayName(),
		Title:             Title(m),
		GoodEvilAxis:      m.GoodEvilAxis,
		LawfulChaoticAxis: m.LawfulChaoticAxis,
		Stability:         m.Stability,
		TotalKarma:        m.TotalKarma,
		RecentKarma:       m.RecentKarma,
		CorruptionLevel:   m.CorruptionLevel,
		RedemptionPoints:  m.RedemptionPoints,
		InfamyLevel:       m.InfamyLevel,
		Reputation:        make(map[Group]Standing, len(Groups())),
		Counters: Counters{
			TotalKills:     m.TotalKills,
			InnocentKills:  m.InnocentKills,
			LivesSaved:     m.LivesSaved,
			PromisesKept:   m.PromisesKept,
			PromisesBroken: m.PromisesBroken,
		},
		RecentEvents:    []EventDigest{},
		StoryFlags:      append([]string{}, m.StoryFlags...),
		AlignmentShifts: len(m.AlignmentHistory),
		EventCount:      len(m.KarmaHistory),
	}
	for _, group := range Groups() {
		score, _ := m.Reputation.Group(group)
		summary.Reputation[group] = standing(score)
	}
	if len(m.Reputation.Factions) > 0 {
		summary.Factions = make(map[FactionID]Standing, len(m.Reputation.Factions))
		for faction, score := range m.Reputation.Factions {
			summary.Factions[faction] = standing(score)
		}
	}
	for _, evt := range m.RecentEvents(SummaryEventCount) {
		summary.RecentEvents = append(summary.RecentEvents, EventDigest{
			Seq:         evt.Seq,
			Action:      evt.Action,
			Category:    evt.Action.Category(),
			Magnitude:   evt.Magnitude,
			Description: evt.Description,
			Location:    evt.Location,
			Timestamp:   evt.Timestamp,
		})
	}
	sort.Strings(summary.StoryFlags)
	return summary
}

func standing(score int) Standing {
	return Standing{Score: score, Level: ReputationLevelFor(score)}
}
