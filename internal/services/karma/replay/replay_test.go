package replay

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/louisbranch/karma.space/internal/services/karma/domain/morality"
	"github.com/louisbranch/karma.space/internal/services/karma/storage"
	"github.com/louisbranch/karma.space/internal/services/karma/storage/memory"
	"github.com/louisbranch/karma.space/internal/services/karma/storage/storagetest"
)

var testActions = []morality.Action{
	morality.ActionSaveInnocent,
	morality.ActionSaveInnocent,
	morality.ActionSteal,
	morality.ActionKeepPromise,
	morality.ActionMurderInnocent,
	morality.ActionHealWounded,
}

func seededStore(t *testing.T, playerID string) (*memory.Store, morality.PlayerMorality, []storage.ActionRecord) {
	t.Helper()
	store := memory.New()
	m, records := storagetest.Play(playerID, testActions...)
	for _, rec := range records {
		if err := store.AppendAction(context.Background(), rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := store.PutMorality(context.Background(), m); err != nil {
		t.Fatalf("put: %v", err)
	}
	return store, m, records
}

func TestReplayReproducesState(t *testing.T) {
	store, want, _ := seededStore(t, "p1")
	engine := morality.NewEngine(morality.DefaultRegistry())

	result, err := Replay(context.Background(), store, engine, "p1", Options{})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if result.Applied != len(testActions) || result.LastSeq != len(testActions) {
		t.Fatalf("applied/last = %d/%d, want %d", result.Applied, result.LastSeq, len(testActions))
	}
	if !reflect.DeepEqual(result.State, want) {
		t.Fatalf("replayed state mismatch\ngot  %+v\nwant %+v", result.State, want)
	}
}

func TestReplayUntilSeq(t *testing.T) {
	store, _, _ := seededStore(t, "p1")
	engine := morality.NewEngine(morality.DefaultRegistry())

	result, err := Replay(context.Background(), store, engine, "p1", Options{UntilSeq: 2})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if result.Applied != 2 || result.State.TotalKarma != 30 {
		t.Fatalf("applied %d karma %d, want 2 and 30", result.Applied, result.State.TotalKarma)
	}
}

func TestReplayValidatesArguments(t *testing.T) {
	engine := morality.NewEngine(morality.DefaultRegistry())
	store := memory.New()
	ctx := context.Background()

	if _, err := Replay(ctx, nil, engine, "p1", Options{}); !errors.Is(err, ErrJournalRequired) {
		t.Fatalf("err = %v, want ErrJournalRequired", err)
	}
	if _, err := Replay(ctx, store, nil, "p1", Options{}); !errors.Is(err, ErrEngineRequired) {
		t.Fatalf("err = %v, want ErrEngineRequired", err)
	}
	if _, err := Replay(ctx, store, engine, " ", Options{}); !errors.Is(err, ErrPlayerIDRequired) {
		t.Fatalf("err = %v, want ErrPlayerIDRequired", err)
	}
	if _, err := Replay(ctx, store, engine, "p1", Options{}); !errors.Is(err, ErrEmptyJournal) {
		t.Fatalf("err = %v, want ErrEmptyJournal", err)
	}
}

type gappedJournal struct {
	records []storage.ActionRecord
}

func (g gappedJournal) AppendAction(context.Context, storage.ActionRecord) error { return nil }

func (g gappedJournal) ListActions(context.Context, string) ([]storage.ActionRecord, error) {
	return g.records, nil
}

func TestReplayRejectsGaps(t *testing.T) {
	_, records := storagetest.Play("p1", testActions...)
	journal := gappedJournal{records: append(append([]storage.ActionRecord{}, records[:2]...), records[3:]...)}
	engine := morality.NewEngine(morality.DefaultRegistry())

	result, err := Replay(context.Background(), journal, engine, "p1", Options{})
	if err == nil {
		t.Fatal("expected sequence gap error")
	}
	if result.LastSeq != 2 {
		t.Fatalf("last seq = %d, want 2", result.LastSeq)
	}
}

func TestVerifyMatches(t *testing.T) {
	store, m, _ := seededStore(t, "p1")
	engine := morality.NewEngine(morality.DefaultRegistry())

	report, err := Verify(context.Background(), store, engine, "p1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !report.Match || report.FirstDivergence != 0 {
		t.Fatalf("report = %+v, want match", report)
	}
	if report.Events != len(testActions) || report.StoredKarma != m.TotalKarma || report.ReplayedKarma != m.TotalKarma {
		t.Fatalf("report = %+v", report)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	store, m, _ := seededStore(t, "p1")
	engine := morality.NewEngine(morality.DefaultRegistry())

	m.KarmaHistory[2].Magnitude = 50
	m.TotalKarma += 56
	if err := store.PutMorality(context.Background(), m); err != nil {
		t.Fatalf("put tampered: %v", err)
	}

	report, err := Verify(context.Background(), store, engine, "p1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if report.Match {
		t.Fatal("expected mismatch")
	}
	if report.FirstDivergence != 3 {
		t.Fatalf("first divergence = %d, want 3", report.FirstDivergence)
	}
	if report.StoredKarma == report.ReplayedKarma {
		t.Fatalf("karma should differ: %+v", report)
	}
}

func TestVerifyDetectsDifferentRegistry(t *testing.T) {
	store, _, _ := seededStore(t, "p1")
	engine := morality.NewEngine(morality.Registry{})

	report, err := Verify(context.Background(), store, engine, "p1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if report.Match || report.FirstDivergence != 1 {
		t.Fatalf("report = %+v, want divergence at 1", report)
	}
}

func TestVerifyMissingSnapshot(t *testing.T) {
	engine := morality.NewEngine(morality.DefaultRegistry())
	_, err := Verify(context.Background(), memory.New(), engine, "p1")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRebuildRepairsSnapshot(t *testing.T) {
	store, want, _ := seededStore(t, "p1")
	engine := morality.NewEngine(morality.DefaultRegistry())

	broken := want
	broken.CorruptionLevel = 99
	if err := store.PutMorality(context.Background(), broken); err != nil {
		t.Fatalf("put broken: %v", err)
	}

	rebuilt, err := Rebuild(context.Background(), store, engine, "p1")
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if !reflect.DeepEqual(rebuilt, want) {
		t.Fatal("rebuilt state differs from the original")
	}
	report, err := Verify(context.Background(), store, engine, "p1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !report.Match {
		t.Fatalf("report after rebuild = %+v", report)
	}
}

func TestFirstDivergence(t *testing.T) {
	a := []morality.KarmaEvent{{Seq: 1}, {Seq: 2}}
	b := []morality.KarmaEvent{{Seq: 1}, {Seq: 2}, {Seq: 3}}
	if got := firstDivergence(a, b); got != 3 {
		t.Fatalf("divergence = %d, want 3", got)
	}
	if got := firstDivergence(a, a); got != 2 {
		t.Fatalf("divergence = %d, want 2", got)
	}
	if got := firstDivergence(nil, nil); got != 0 {
		t.Fatalf("divergence = %d, want 0", got)
	}
}
