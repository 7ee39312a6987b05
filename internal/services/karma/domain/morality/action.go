package morality

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownAction indicates an action name outside the closed action table.
var ErrUnknownAction = errors.New("unknown action")

// Action identifies a classified moral action.
type Action string

const (
	ActionSaveInnocent  Action = "save_innocent"
	ActionHelpPoor      Action = "help_poor"
	ActionShowMercy     Action = "show_mercy"
	ActionSelfSacrifice Action = "self_sacrifice"
	ActionProtectWeak   Action = "protect_weak"

	ActionMurderInnocent Action = "murder_innocent"
	ActionTorture        Action = "torture"
	ActionBetrayAlly     Action = "betray_ally"
	ActionMassacre       Action = "massacre"

	ActionKeepPromise      Action = "keep_promise"
	ActionObeyLaw          Action = "obey_law"
	ActionRespectAuthority Action = "respect_authority"
	ActionHonorContract    Action = "honor_contract"
	ActionUpholdJustice    Action = "uphold_justice"

	ActionBreakPromise    Action = "break_promise"
	ActionBreakLaw        Action = "break_law"
	ActionDefyAuthority   Action = "defy_authority"
	ActionSteal           Action = "steal"
	ActionStartRebellion  Action = "start_rebellion"
	ActionDesecrateTemple Action = "desecrate_temple"

	ActionHealWounded       Action = "heal_wounded"
	ActionIgnoreSuffering   Action = "ignore_suffering"
	ActionSelfishChoice     Action = "selfish_choice"
	ActionPragmaticChoice   Action = "pragmatic_choice"
	ActionNeutralAction     Action = "neutral_action"
	ActionKillInSelfDefense Action = "kill_in_self_defense"
	ActionExtortWeak        Action = "extort_weak"
	ActionStealFromPoor     Action = "steal_from_poor"
)

// Category groups actions for reporting.
type Category string

const (
	CategoryGood    Category = "good"
	CategoryEvil    Category = "evil"
	CategoryLawful  Category = "lawful"
	CategoryChaotic Category = "chaotic"
	CategoryNeutral Category = "neutral"
)

// Tag marks the moral axes an action pushes on.
type Tag uint8

const (
	TagGood Tag = 1 << iota
	TagEvil
	TagLawful
	TagChaotic
)

// TagSet is a set of tags.
type TagSet uint8

// Has reports whether the set contains tag.
func (s TagSet) Has(tag Tag) bool { return s&TagSet(tag) != 0 }

// Tags lists the members of the set in a fixed order.
func (s TagSet) Tags() []Tag {
	var out []Tag
	for _, tag := range []Tag{TagGood, TagEvil, TagLawful, TagChaotic} {
		if s.Has(tag) {
			out = append(out, tag)
		}
	}
	return out
}

func (t Tag) String() string {
	switch t {
	case TagGood:
		return "good"
	case TagEvil:
		return "evil"
	case TagLawful:
		return "lawful"
	case TagChaotic:
		return "chaotic"
	default:
		return fmt.Sprintf("tag(%d)", uint8(t))
	}
}

type actionEntry struct {
	weight   int
	category Category
	tags     TagSet
}

func tags(values ...Tag) TagSet {
	var set TagSet
	for _, v := range values {
		set |= TagSet(v)
	}
	return set
}

var actionTable = map[Action]actionEntry{
	ActionSaveInnocent:  {15, CategoryGood, tags(TagGood)},
	ActionHelpPoor:      {10, CategoryGood, tags(TagGood)},
	ActionShowMercy:     {8, CategoryGood, tags(TagGood)},
	ActionSelfSacrifice: {25, CategoryGood, tags(TagGood)},
	ActionProtectWeak:   {12, CategoryGood, tags(TagGood, TagLawful)},

	ActionMurderInnocent: {-25, CategoryEvil, tags(TagEvil)},
	ActionTorture:        {-20, CategoryEvil, tags(TagEvil)},
	ActionBetrayAlly:     {-15, CategoryEvil, tags(TagEvil, TagChaotic)},
	ActionMassacre:       {-40, CategoryEvil, tags(TagEvil)},

	ActionKeepPromise:      {5, CategoryLawful, tags(TagLawful)},
	ActionObeyLaw:          {3, CategoryLawful, tags(TagLawful)},
	ActionRespectAuthority: {2, CategoryLawful, tags(TagLawful)},
	ActionHonorContract:    {4, CategoryLawful, tags(TagLawful)},
	ActionUpholdJustice:    {10, CategoryLawful, tags(TagLawful)},

	ActionBreakPromise:    {-8, CategoryChaotic, tags(TagChaotic)},
	ActionBreakLaw:        {-5, CategoryChaotic, tags(TagChaotic)},
	ActionDefyAuthority:   {-3, CategoryChaotic, tags(TagChaotic)},
	ActionSteal:           {-6, CategoryChaotic, tags(TagChaotic)},
	ActionStartRebellion:  {-5, CategoryChaotic, tags(TagChaotic)},
	ActionDesecrateTemple: {-18, CategoryChaotic, tags()},

	ActionHealWounded:       {10, CategoryNeutral, tags()},
	ActionIgnoreSuffering:   {-3, CategoryNeutral, tags()},
	ActionSelfishChoice:     {-2, CategoryNeutral, tags()},
	ActionPragmaticChoice:   {0, CategoryNeutral, tags()},
	ActionNeutralAction:     {0, CategoryNeutral, tags()},
	ActionKillInSelfDefense: {0, CategoryNeutral, tags()},
	ActionExtortWeak:        {-12, CategoryNeutral, tags()},
	ActionStealFromPoor:     {-15, CategoryNeutral, tags()},
}

// Valid reports whether a is part of the action table.
func (a Action) Valid() bool {
	_, ok := actionTable[a]
	return ok
}

// Weight returns the base karma weight. Unknown actions weigh zero.
func (a Action) Weight() int { return actionTable[a].weight }

// Category returns the reporting category. Unknown actions are neutral.
func (a Action) Category() Category {
	entry, ok := actionTable[a]
	if !ok {
		return CategoryNeutral
	}
	return entry.category
}

// Tags returns the axis tags of the action.
func (a Action) Tags() TagSet { return actionTable[a].tags }

// ParseAction resolves an action name, ignoring case and surrounding space.
func ParseAction(value string) (Action, error) {
	action := Action(strings.ToLower(strings.TrimSpace(value)))
	if !action.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, value)
	}
	return action, nil
}

// UnmarshalText implements encoding.TextUnmarshaler so that decoded inputs
// can only carry known actions.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Actions lists every known action sorted by name.
func Actions() []Action {
	out := make([]Action, 0, len(actionTable))
	for action := range actionTable {
		out = append(out, action)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
