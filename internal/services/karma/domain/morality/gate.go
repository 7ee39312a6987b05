package morality

import (
	"encoding/json"
	"fmt"
)

// AlignmentRequirement lists acceptable alignment tokens; any match passes.
// It decodes from either a JSON string or a JSON list of strings.
type AlignmentRequirement []string

// UnmarshalJSON accepts "good" as well as ["good", "lawful"].
func (r *AlignmentRequirement) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*r = nil
		} else {
			*r = AlignmentRequirement{single}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("alignment requirement must be a string or list of strings: %w", err)
	}
	*r = list
	return nil
}

// QuestRequirements constrains who may start a quest. Absent fields are
// unconstrained.
type QuestRequirements struct {
	Alignment     AlignmentRequirement `json:"alignment,omitempty"`
	MinKarma      *int                 `json:"min_karma,omitempty"`
	MaxKarma      *int                 `json:"max_karma,omitempty"`
	MinCorruption *int                 `json:"min_corruption,omitempty"`
	MaxCorruption *int                 `json:"max_corruption,omitempty"`
	// Reputation maps a group name, or a faction id when the name is not a
	// group, to the minimum score required.
	Reputation     map[string]int `json:"reputation_requirements,omitempty"`
	RequiredFlags  []string       `json:"required_flags,omitempty"`
	ForbiddenFlags []string       `json:"forbidden_flags,omitempty"`
}

// CanStartQuest reports whether m satisfies every requirement. Checks run in
// a fixed order and stop at the first failure.
func CanStartQuest(m PlayerMorality, req QuestRequirements) bool {
	if len(req.Alignment) > 0 && !m.Alignment.MatchesAny(req.Alignment) {
		return false
	}
	if req.MinKarma != nil && m.TotalKarma < *req.MinKarma {
		return false
	}
	if req.MaxKarma != nil && m.TotalKarma > *req.MaxKarma {
		return false
	}
	if req.MinCorruption != nil && m.CorruptionLevel < *req.MinCorruption {
		return false
	}
	if req.MaxCorruption != nil && m.CorruptionLevel > *req.MaxCorruption {
		return false
	}
	for name, minimum := range req.Reputation {
		if reputationScore(m.Reputation, name) < minimum {
			return false
		}
	}
	for _, flag := range req.RequiredFlags {
		if !m.HasFlag(flag) {
			return false
		}
	}
	for _, flag := range req.ForbiddenFlags {
		if m.HasFlag(flag) {
			return false
		}
	}
	return true
}

func reputationScore(rep PlayerReputation, name string) int {
	if score, ok := rep.Group(Group(name)); ok {
		return score
	}
	return rep.Factions[FactionID(name)]
}
