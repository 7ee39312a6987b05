// Package storagetest provides a reusable behavior suite for storage.Store
// backends. RunStoreSuite asserts:
//
//   - missing players report storage.ErrNotFound
//   - snapshots round-trip and are copies, not shared state
//   - journals keep sequence order and reject gaps and duplicates
//   - CommitAction writes nothing when the journal append fails
package storagetest

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	apperrors "github.com/louisbranch/karma.space/internal/platform/errors"
	"github.com/louisbranch/karma.space/internal/services/karma/domain/morality"
	"github.com/louisbranch/karma.space/internal/services/karma/storage"
)

// OpenFunc returns a fresh, empty store. The suite closes it.
type OpenFunc func(t *testing.T) storage.Store

var epoch = time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

// RunStoreSuite runs every behavior check against stores built by open.
func RunStoreSuite(t *testing.T, open OpenFunc) {
	t.Helper()
	cases := []struct {
		name string
		run  func(t *testing.T, store storage.Store)
	}{
		{"missing player", testMissingPlayer},
		{"snapshot round trip", testSnapshotRoundTrip},
		{"snapshot copy semantics", testSnapshotCopies},
		{"journal order", testJournalOrder},
		{"journal conflicts", testJournalConflicts},
		{"commit action", testCommitAction},
		{"commit rejects conflicts", testCommitRejectsConflicts},
		{"blank player id", testBlankPlayerID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := open(t)
			t.Cleanup(func() {
				if err := store.Close(); err != nil {
					t.Fatalf("close store: %v", err)
				}
			})
			tc.run(t, store)
		})
	}
}

// Play records actions for playerID with the default engine, one minute
// apart, and returns the resulting state with one journal record per action.
// The state is created at the first action's timestamp, as a replay would.
func Play(playerID string, actions ...morality.Action) (morality.PlayerMorality, []storage.ActionRecord) {
	engine := morality.NewEngine(morality.DefaultRegistry())
	m := morality.NewPlayerMorality(playerID, epoch)
	records := make([]storage.ActionRecord, 0, len(actions))
	for i, action := range actions {
		in := morality.Input{
			Action:      action,
			Description: string(action),
			Location:    "market",
			Witnesses:   []string{"npc-1"},
			Timestamp:   epoch.Add(time.Duration(i) * time.Minute),
		}
		evt := engine.Record(&m, in)
		records = append(records, storage.ActionRecord{PlayerID: playerID, Seq: evt.Seq, Input: in})
	}
	return m, records
}

func testMissingPlayer(t *testing.T, store storage.Store) {
	ctx := context.Background()
	_, err := store.GetMorality(ctx, "nobody")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get missing = %v, want ErrNotFound", err)
	}
	records, err := store.ListActions(ctx, "nobody")
	if err != nil {
		t.Fatalf("list missing: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("records = %d, want 0", len(records))
	}
}

func testSnapshotRoundTrip(t *testing.T, store storage.Store) {
	ctx := context.Background()
	m, _ := Play("p1", morality.ActionSaveInnocent, morality.ActionSteal, morality.ActionMurderInnocent)
	if err := store.PutMorality(ctx, m); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.GetMorality(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Fatalf("snapshot mismatch\ngot  %+v\nwant %+v", got, m)
	}

	replaced, _ := Play("p1", morality.ActionHelpPoor)
	if err := store.PutMorality(ctx, replaced); err != nil {
		t.Fatalf("put replacement: %v", err)
	}
	got, err = store.GetMorality(ctx, "p1")
	if err != nil {
		t.Fatalf("get replacement: %v", err)
	}
	if got.TotalKarma != replaced.TotalKarma || len(got.KarmaHistory) != 1 {
		t.Fatalf("replacement not stored: %+v", got)
	}
}

func testSnapshotCopies(t *testing.T, store storage.Store) {
	ctx := context.Background()
	m, _ := Play("p1", morality.ActionHelpPoor)
	if err := store.PutMorality(ctx, m); err != nil {
		t.Fatalf("put: %v", err)
	}
	m.TotalKarma = 999
	m.KarmaHistory[0].Description = "changed"

	got, err := store.GetMorality(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TotalKarma == 999 || got.KarmaHistory[0].Description == "changed" {
		t.Fatal("store shares state with the caller")
	}
	got.Reputation.NPCs["npc-1"] = -100

	again, err := store.GetMorality(ctx, "p1")
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if again.Reputation.NPCs["npc-1"] == -100 {
		t.Fatal("store shares state between reads")
	}
}

func testJournalOrder(t *testing.T, store storage.Store) {
	ctx := context.Background()
	_, records := Play("p1", morality.ActionKeepPromise, morality.ActionBreakPromise, morality.ActionHealWounded)
	for _, rec := range records {
		if err := store.AppendAction(ctx, rec); err != nil {
			t.Fatalf("append %d: %v", rec.Seq, err)
		}
	}
	_, other := Play("p2", morality.ActionTorture)
	if err := store.AppendAction(ctx, other[0]); err != nil {
		t.Fatalf("append other player: %v", err)
	}

	got, err := store.ListActions(ctx, "p1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Fatalf("journal mismatch\ngot  %+v\nwant %+v", got, records)
	}
}

func testJournalConflicts(t *testing.T, store storage.Store) {
	ctx := context.Background()
	_, records := Play("p1", morality.ActionKeepPromise, morality.ActionBreakPromise, morality.ActionSteal)
	if err := store.AppendAction(ctx, records[0]); err != nil {
		t.Fatalf("append first: %v", err)
	}
	if err := store.AppendAction(ctx, records[0]); !errors.Is(err, storage.ErrJournalConflict) {
		t.Fatalf("duplicate append = %v, want ErrJournalConflict", err)
	}
	if err := store.AppendAction(ctx, records[2]); !errors.Is(err, storage.ErrJournalConflict) {
		t.Fatalf("gap append = %v, want ErrJournalConflict", err)
	}
	got, err := store.ListActions(ctx, "p1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("journal length = %d, want 1", len(got))
	}
}

func testCommitAction(t *testing.T, store storage.Store) {
	ctx := context.Background()
	engine := morality.NewEngine(morality.DefaultRegistry())
	m := morality.NewPlayerMorality("p1", epoch)
	var want []storage.ActionRecord
	for i, action := range []morality.Action{morality.ActionSaveInnocent, morality.ActionObeyLaw} {
		in := morality.Input{Action: action, Timestamp: epoch.Add(time.Duration(i) * time.Second)}
		evt := engine.Record(&m, in)
		rec := storage.ActionRecord{PlayerID: "p1", Seq: evt.Seq, Input: in}
		if err := store.CommitAction(ctx, m, rec); err != nil {
			t.Fatalf("commit %d: %v", evt.Seq, err)
		}
		want = append(want, rec)
	}

	got, err := store.GetMorality(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Fatalf("snapshot mismatch\ngot  %+v\nwant %+v", got, m)
	}
	records, err := store.ListActions(ctx, "p1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !reflect.DeepEqual(records, want) {
		t.Fatalf("journal mismatch\ngot  %+v\nwant %+v", records, want)
	}
}

func testCommitRejectsConflicts(t *testing.T, store storage.Store) {
	ctx := context.Background()
	first, records := Play("p1", morality.ActionHelpPoor)
	if err := store.CommitAction(ctx, first, records[0]); err != nil {
		t.Fatalf("commit: %v", err)
	}

	// A second writer that started from the same empty state.
	stale, staleRecords := Play("p1", morality.ActionMassacre)
	if err := store.CommitAction(ctx, stale, staleRecords[0]); !errors.Is(err, storage.ErrJournalConflict) {
		t.Fatalf("stale commit = %v, want ErrJournalConflict", err)
	}
	got, err := store.GetMorality(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TotalKarma != first.TotalKarma {
		t.Fatalf("snapshot overwritten by rejected commit: karma %d", got.TotalKarma)
	}

	mismatched := records[0]
	mismatched.Seq = 2
	if err := store.CommitAction(ctx, first, mismatched); err == nil {
		t.Fatal("expected error for record that does not match snapshot")
	}
}

func testBlankPlayerID(t *testing.T, store storage.Store) {
	ctx := context.Background()
	_, err := store.GetMorality(ctx, " ")
	if apperrors.CodeOf(err) != apperrors.CodePlayerIDRequired {
		t.Fatalf("get blank = %v, want %s", err, apperrors.CodePlayerIDRequired)
	}
	if err := store.PutMorality(ctx, morality.PlayerMorality{}); apperrors.CodeOf(err) != apperrors.CodePlayerIDRequired {
		t.Fatalf("put blank = %v, want %s", err, apperrors.CodePlayerIDRequired)
	}
	if _, err := store.ListActions(ctx, ""); apperrors.CodeOf(err) != apperrors.CodePlayerIDRequired {
		t.Fatalf("list blank = %v, want %s", err, apperrors.CodePlayerIDRequired)
	}
}
