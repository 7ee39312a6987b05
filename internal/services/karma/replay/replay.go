// Package replay rebuilds player morality from the action journal.
//
// Replaying a journal with the engine that produced it must reproduce the
// stored snapshot byte for byte; Verify checks that and Rebuild repairs a
// snapshot from the journal.
package replay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/louisbranch/karma.space/internal/services/karma/codec"
	"github.com/louisbranch/karma.space/internal/services/karma/domain/morality"
	"github.com/louisbranch/karma.space/internal/services/karma/storage"
)

var (
	// ErrJournalRequired indicates a missing action journal.
	ErrJournalRequired = errors.New("action journal is required")
	// ErrEngineRequired indicates a missing engine.
	ErrEngineRequired = errors.New("engine is required")
	// ErrPlayerIDRequired indicates a missing player id.
	ErrPlayerIDRequired = errors.New("player id is required")
	// ErrEmptyJournal indicates a player without journaled actions.
	ErrEmptyJournal = errors.New("journal is empty")
)

// Store is what Verify and Rebuild need from a backend.
type Store interface {
	storage.MoralityStore
	storage.ActionJournal
}

// Options configures replay behavior.
type Options struct {
	// UntilSeq stops after this sequence when positive.
	UntilSeq int
}

// Result captures replay outcomes.
type Result struct {
	State   morality.PlayerMorality
	LastSeq int
	Applied int
}

// Replay applies the journal of playerID, in order, to a fresh state created
// at the first journaled timestamp.
func Replay(ctx context.Context, journal storage.ActionJournal, engine *morality.Engine, playerID string, options Options) (Result, error) {
	if journal == nil {
		return Result{}, ErrJournalRequired
	}
	if engine == nil {
		return Result{}, ErrEngineRequired
	}
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return Result{}, ErrPlayerIDRequired
	}

	records, err := journal.ListActions(ctx, playerID)
	if err != nil {
		return Result{}, err
	}
	if len(records) == 0 {
		return Result{}, fmt.Errorf("%w: player %s", ErrEmptyJournal, playerID)
	}

	result := Result{State: morality.NewPlayerMorality(playerID, records[0].Input.Timestamp)}
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if options.UntilSeq > 0 && rec.Seq > options.UntilSeq {
			break
		}
		expectedSeq := result.LastSeq + 1
		if rec.Seq != expectedSeq {
			return result, fmt.Errorf("action sequence gap: expected %d got %d", expectedSeq, rec.Seq)
		}
		engine.Record(&result.State, rec.Input)
		result.LastSeq = rec.Seq
		result.Applied++
	}
	return result, nil
}

// Verification reports how a stored snapshot compares to its replay.
type Verification struct {
	PlayerID      string `json:"player_id"`
	Events        int    `json:"events"`
	Match         bool   `json:"match"`
	StoredKarma   int    `json:"stored_karma"`
	ReplayedKarma int    `json:"replayed_karma"`
	// FirstDivergence is the first event seq that differs, or 0.
	FirstDivergence int `json:"first_divergence,omitempty"`
}

// Verify replays the journal and compares the serialized result with the
// stored snapshot.
func Verify(ctx context.Context, store Store, engine *morality.Engine, playerID string) (Verification, error) {
	if store == nil {
		return Verification{}, ErrJournalRequired
	}
	stored, err := store.GetMorality(ctx, playerID)
	if err != nil {
		return Verification{}, err
	}
	result, err := Replay(ctx, store, engine, playerID, Options{})
	if err != nil {
		return Verification{}, err
	}

	storedBytes, err := codec.Serialize(stored)
	if err != nil {
		return Verification{}, err
	}
	replayedBytes, err := codec.Serialize(result.State)
	if err != nil {
		return Verification{}, err
	}

	report := Verification{
		PlayerID:      result.State.PlayerID,
		Events:        result.Applied,
		Match:         bytes.Equal(storedBytes, replayedBytes),
		StoredKarma:   stored.TotalKarma,
		ReplayedKarma: result.State.TotalKarma,
	}
	if !report.Match {
		report.FirstDivergence = firstDivergence(stored.KarmaHistory, result.State.KarmaHistory)
	}
	return report, nil
}

// Rebuild replays the journal and overwrites the stored snapshot.
func Rebuild(ctx context.Context, store Store, engine *morality.Engine, playerID string) (morality.PlayerMorality, error) {
	if store == nil {
		return morality.PlayerMorality{}, ErrJournalRequired
	}
	result, err := Replay(ctx, store, engine, playerID, Options{})
	if err != nil {
		return morality.PlayerMorality{}, err
	}
	if err := store.PutMorality(ctx, result.State); err != nil {
		return morality.PlayerMorality{}, fmt.Errorf("store rebuilt snapshot: %w", err)
	}
	return result.State, nil
}

// firstDivergence returns the first seq at which the histories differ. When
// every shared event matches, it points one past the shorter history; when
// the histories are equal the difference is in derived fields and the last
// seq is reported.
func firstDivergence(stored, replayed []morality.KarmaEvent) int {
	n := min(len(stored), len(replayed))
	for i := 0; i < n; i++ {
		if !reflect.DeepEqual(stored[i], replayed[i]) {
			return i + 1
		}
	}
	if len(stored) != len(replayed) {
		return n + 1
	}
	return n
}
