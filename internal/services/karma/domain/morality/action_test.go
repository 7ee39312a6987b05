package morality

import (
	"errors"
	"testing"
)

func TestActionTable(t *testing.T) {
	actions := Actions()
	if len(actions) != 28 {
		t.Fatalf("actions = %d, want 28", len(actions))
	}
	for _, action := range actions {
		if w := action.Weight(); w < -40 || w > 25 {
			t.Fatalf("%s weight %d out of range", action, w)
		}
	}

	good := []Action{ActionSaveInnocent, ActionHelpPoor, ActionShowMercy, ActionSelfSacrifice, ActionProtectWeak}
	evil := []Action{ActionMurderInnocent, ActionTorture, ActionBetrayAlly, ActionMassacre}
	var goodCount, evilCount int
	for _, action := range actions {
		if action.Tags().Has(TagGood) {
			goodCount++
		}
		if action.Tags().Has(TagEvil) {
			evilCount++
		}
	}
	if goodCount != len(good) || evilCount != len(evil) {
		t.Fatalf("good/evil tagged = %d/%d, want %d/%d", goodCount, evilCount, len(good), len(evil))
	}
	for _, action := range good {
		if !action.Tags().Has(TagGood) {
			t.Fatalf("%s should be tagged good", action)
		}
	}
	for _, action := range evil {
		if !action.Tags().Has(TagEvil) {
			t.Fatalf("%s should be tagged evil", action)
		}
	}
}

func TestParseAction(t *testing.T) {
	got, err := ParseAction("  Save_Innocent ")
	if err != nil {
		t.Fatalf("parse action: %v", err)
	}
	if got != ActionSaveInnocent {
		t.Fatalf("action = %s, want %s", got, ActionSaveInnocent)
	}
	if _, err := ParseAction("dance"); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("error = %v, want %v", err, ErrUnknownAction)
	}
}

func TestUnknownActionDefaults(t *testing.T) {
	unknown := Action("dance")
	if unknown.Valid() {
		t.Fatal("expected unknown action to be invalid")
	}
	if unknown.Weight() != 0 {
		t.Fatalf("weight = %d, want 0", unknown.Weight())
	}
	if unknown.Category() != CategoryNeutral {
		t.Fatalf("category = %s, want neutral", unknown.Category())
	}
	if len(unknown.Tags().Tags()) != 0 {
		t.Fatal("expected no tags")
	}
}

func TestTagSetTags(t *testing.T) {
	got := ActionBetrayAlly.Tags().Tags()
	if len(got) != 2 || got[0] != TagEvil || got[1] != TagChaotic {
		t.Fatalf("tags = %v", got)
	}
	if TagLawful.String() != "lawful" {
		t.Fatalf("tag string = %q", TagLawful.String())
	}
}
