package morality

import "testing"

func TestTitle(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*PlayerMorality)
		want  string
	}{
		{"fresh player", nil, "Drifter"},
		{"butcher wins over hero", func(m *PlayerMorality) { m.InnocentKills = 10; m.LivesSaved = 60 }, "The Butcher"},
		{"legendary hero", func(m *PlayerMorality) { m.LivesSaved = 50 }, "Legendary Hero"},
		{"utterly corrupted", func(m *PlayerMorality) { m.CorruptionLevel = 90 }, "The Utterly Corrupted"},
		{"redeemed", func(m *PlayerMorality) { m.RedemptionPoints = 30; m.CorruptionLevel = 24 }, "The Redeemed"},
		{"redemption blocked by corruption", func(m *PlayerMorality) { m.RedemptionPoints = 30; m.CorruptionLevel = 25 }, "Drifter"},
		{"paragon", func(m *PlayerMorality) { m.Alignment = LawfulGood; m.TotalKarma = 200 }, "Paragon of Justice"},
		{"knight", func(m *PlayerMorality) { m.Alignment = LawfulGood; m.TotalKarma = 50 }, "Knight of Virtue"},
		{"honorable", func(m *PlayerMorality) { m.Alignment = LawfulGood; m.TotalKarma = 49 }, "Honorable Soul"},
		{"evil by corruption", func(m *PlayerMorality) { m.Alignment = NeutralEvil; m.CorruptionLevel = 30 }, "Shadow Dealer"},
		{"neutral by standing", func(m *PlayerMorality) { m.Alignment = LawfulNeutral; m.Reputation.CommonFolk = 60 }, "Voice of the Law"},
		{"unknown alignment", func(m *PlayerMorality) { m.Alignment = "" }, DefaultTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMorality()
			if tt.setup != nil {
				tt.setup(&m)
			}
			if got := Title(m); got != tt.want {
				t.Fatalf("title = %q, want %q", got, tt.want)
			}
		})
	}
}
