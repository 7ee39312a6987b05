package morality

import (
	"math"
	"sort"
	"strings"
)

// Engine applies karma events using an immutable registry.
type Engine struct {
	registry Registry
}

// NewEngine returns an engine over registry.
func NewEngine(registry Registry) *Engine {
	return &Engine{registry: registry}
}

// Registry returns the configuration the engine was built with.
func (e *Engine) Registry() Registry { return e.registry }

// Record appends one karma event to m and recomputes every derived field.
//
// The order of steps is fixed: impacts and quest effects are computed
// against the state before the event, then the event is appended and the
// totals, axes, corruption, alignment, reputation and counters are updated
// in that order.
func (e *Engine) Record(m *PlayerMorality, in Input) KarmaEvent {
	final := roundHalfEven(float64(in.Action.Weight()) * in.modifier())

	location := strings.TrimSpace(in.Location)
	if location == "" {
		location = UnknownLocation
	}
	evt := KarmaEvent{
		Seq:         len(m.KarmaHistory) + 1,
		PlayerID:    m.PlayerID,
		Action:      in.Action,
		Magnitude:   final,
		Description: in.Description,
		Location:    location,
		Witnesses:   normalizeIDs(in.Witnesses),
		Timestamp:   in.Timestamp.UTC(),
	}
	evt.ID = EventID(m.PlayerID, evt.Seq)

	evt.FactionImpact = e.factionImpact(m.Alignment, final, in.Context)
	evt.CompanionImpact = e.companionImpact(in.Action, final, in.Context)
	e.applyQuestPolicy(m, &evt)

	m.KarmaHistory = append(m.KarmaHistory, evt)
	m.TotalKarma += final
	m.RecentKarma = m.trailingMagnitude(RecentKarmaWindow)
	m.addFlags(evt.StoryFlags)

	updateAxes(m, in.Action, final)
	updateCorruption(m, final)
	checkAlignmentShift(m, evt)
	applyReputation(m, evt)
	updateCounters(m, evt)

	if evt.Timestamp.After(m.UpdatedAt) {
		m.UpdatedAt = evt.Timestamp
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = evt.Timestamp
	}
	return evt
}

// roundHalfEven rounds to the nearest integer, ties to even.
func roundHalfEven(value float64) int {
	return int(math.RoundToEven(value))
}

// normalizeIDs trims, drops empties, deduplicates and sorts.
func normalizeIDs(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}
