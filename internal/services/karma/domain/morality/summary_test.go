package morality

import "testing"

func TestSummaryDisplayNames(t *testing.T) {
	tests := map[Alignment]string{
		LawfulGood:     "Lawful Good",
		TrueNeutral:    "True Neutral",
		ChaoticEvil:    "Chaotic Evil",
		NeutralGood:    "Neutral Good",
		ChaoticNeutral: "Chaotic Neutral",
	}
	for alignment, want := range tests {
		if got := alignment.DisplayName(); got != want {
			t.Fatalf("%s display name = %q, want %q", alignment, got, want)
		}
	}
}

func TestSummarize(t *testing.T) {
	e := NewEngine(DefaultRegistry())
	m := newTestMorality()
	actions := []Action{
		ActionHelpPoor, ActionSteal, ActionSaveInnocent, ActionKeepPromise,
		ActionMurderInnocent, ActionShowMercy, ActionObeyLaw,
	}
	for _, action := range actions {
		recordAction(e, &m, action)
	}

	summary := Summarize(m)
	if summary.PlayerID != "player-1" || summary.EventCount != len(actions) {
		t.Fatalf("summary identity = %q/%d", summary.PlayerID, summary.EventCount)
	}
	if summary.TotalKarma != m.TotalKarma || summary.RecentKarma != m.RecentKarma {
		t.Fatalf("karma = %d/%d, want %d/%d", summary.TotalKarma, summary.RecentKarma, m.TotalKarma, m.RecentKarma)
	}
	if summary.AlignmentName != m.Alignment.DisplayName() {
		t.Fatalf("alignment name = %q", summary.AlignmentName)
	}
	if summary.Title != Title(m) {
		t.Fatalf("title = %q, want %q", summary.Title, Title(m))
	}
	if len(summary.RecentEvents) != SummaryEventCount {
		t.Fatalf("recent events = %d, want %d", len(summary.RecentEvents), SummaryEventCount)
	}
	if summary.RecentEvents[0].Seq != 3 || summary.RecentEvents[4].Seq != 7 {
		t.Fatalf("recent events span %d..%d, want 3..7", summary.RecentEvents[0].Seq, summary.RecentEvents[4].Seq)
	}
	if summary.RecentEvents[2].Category != CategoryEvil {
		t.Fatalf("murder category = %s, want evil", summary.RecentEvents[2].Category)
	}
	if len(summary.Reputation) != len(Groups()) {
		t.Fatalf("reputation groups = %d, want %d", len(summary.Reputation), len(Groups()))
	}
	common := summary.Reputation[GroupCommonFolk]
	if common.Score != m.Reputation.CommonFolk || common.Level != ReputationLevelFor(common.Score) {
		t.Fatalf("common folk standing = %+v", common)
	}
	if summary.Counters.InnocentKills != 1 || summary.Counters.PromisesKept != 1 || summary.Counters.LivesSaved != 1 {
		t.Fatalf("counters = %+v", summary.Counters)
	}
	if summary.StoryFlags == nil {
		t.Fatal("story flags should be an empty list, not nil")
	}
}

func TestSummarizeFreshPlayer(t *testing.T) {
	summary := Summarize(newTestMorality())
	if summary.Alignment != TrueNeutral || summary.Title != "Drifter" {
		t.Fatalf("summary = %s/%q", summary.Alignment, summary.Title)
	}
	if len(summary.RecentEvents) != 0 || summary.Factions != nil {
		t.Fatalf("fresh summary has events %v factions %v", summary.RecentEvents, summary.Factions)
	}
	if summary.Reputation[GroupLawfulAuthorities].Level != ReputationNeutral {
		t.Fatalf("fresh standing = %+v", summary.Reputation[GroupLawfulAuthorities])
	}
}
