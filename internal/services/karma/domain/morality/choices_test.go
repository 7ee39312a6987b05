package morality

import (
	"reflect"
	"testing"
)

func choiceIDs(choices []Choice) []string {
	ids := make([]string, 0, len(choices))
	for _, choice := range choices {
		ids = append(ids, choice.ID)
	}
	return ids
}

func TestAvailableChoices(t *testing.T) {
	base := []Choice{
		{ID: "talk", Text: "Talk it out."},
		{ID: "bless", Text: "Offer a blessing.", AlignmentRequirement: "good"},
		{ID: "bargain", Text: "Strike a deal.", AlignmentRequirement: "lawful_neutral"},
	}

	tests := []struct {
		name       string
		alignment  Alignment
		corruption int
		want       []string
	}{
		{"neutral and clean", TrueNeutral, 0, []string{"talk"}},
		{"lawful good", LawfulGood, 0, []string{"talk", "bless", "invoke_the_law"}},
		{"lawful neutral", LawfulNeutral, 0, []string{"talk", "bargain", "invoke_the_law"}},
		{"corrupted neutral", TrueNeutral, 25, []string{"talk", "intimidate"}},
		{"deeply corrupted neutral", TrueNeutral, 50, []string{"talk", "intimidate"}},
		{"deeply corrupted evil", NeutralEvil, 50, []string{"talk", "intimidate", "make_an_example"}},
		{"chaotic evil", ChaoticEvil, 60, []string{"talk", "intimidate", "make_an_example", "defy_the_rules"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMorality()
			m.Alignment = tt.alignment
			m.CorruptionLevel = tt.corruption
			got := choiceIDs(AvailableChoices(m, base))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("choices = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAvailableChoicesLeavesBaseUntouched(t *testing.T) {
	base := []Choice{
		{ID: "bless", AlignmentRequirement: "good"},
		{ID: "talk"},
	}
	snapshot := append([]Choice(nil), base...)
	m := newTestMorality()
	m.CorruptionLevel = 30

	got := AvailableChoices(m, base)
	if !reflect.DeepEqual(base, snapshot) {
		t.Fatalf("base modified: %v", base)
	}
	if !reflect.DeepEqual(choiceIDs(got), []string{"talk", "intimidate"}) {
		t.Fatalf("choices = %v", choiceIDs(got))
	}
}
