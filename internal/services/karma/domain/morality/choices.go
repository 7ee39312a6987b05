package morality

const (
	intimidationCorruption = 25
	atrocityCorruption     = 50
)

// Choice is a dialogue or quest option. An empty AlignmentRequirement is
// available to everyone.
type Choice struct {
	ID                   string `json:"id"`
	Text                 string `json:"text"`
	AlignmentRequirement string `json:"alignment_requirement,omitempty"`
}

var (
	intimidationChoice = Choice{
		ID:   "intimidate",
		Text: "Threaten them until they comply.",
	}
	atrocityChoice = Choice{
		ID:                   "make_an_example",
		Text:                 "Make an example of them.",
		AlignmentRequirement: string(EthicEvil),
	}
	lawfulChoice = Choice{
		ID:                   "invoke_the_law",
		Text:                 "Invoke the authority of the law.",
		AlignmentRequirement: string(OrderLawful),
	}
	chaoticChoice = Choice{
		ID:                   "defy_the_rules",
		Text:                 "Ignore the rules and do it your way.",
		AlignmentRequirement: string(OrderChaotic),
	}
)

// AvailableChoices extends base with the choices unlocked by corruption and
// alignment, then drops every choice whose alignment requirement the player
// does not meet. base is not modified.
func AvailableChoices(m PlayerMorality, base []Choice) []Choice {
	combined := make([]Choice, 0, len(base)+4)
	combined = append(combined, base...)
	if m.CorruptionLevel >= intimidationCorruption {
		combined = append(combined, intimidationChoice)
	}
	if m.CorruptionLevel >= atrocityCorruption {
		combined = append(combined, atrocityChoice)
	}
	if m.Alignment.Order() == OrderLawful {
		combined = append(combined, lawfulChoice)
	}
	if m.Alignment.Order() == OrderChaotic {
		combined = append(combined, chaoticChoice)
	}

	out := combined[:0]
	for _, choice := range combined {
		if choice.AlignmentRequirement == "" || m.Alignment.Matches(choice.AlignmentRequirement) {
			out = append(out, choice)
		}
	}
	return out
}
