package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/karma.space/internal/platform/errors"
	"github.com/louisbranch/karma.space/internal/services/karma/domain/morality"
)

// ErrNotFound indicates a requested persistence record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrJournalConflict indicates an action record whose sequence does not
// directly follow the last journaled one.
var ErrJournalConflict = apperrors.New(apperrors.CodeJournalConflict, "journal sequence conflict")

// ActionRecord is one journaled input. Seq matches the KarmaEvent it produced.
type ActionRecord struct {
	PlayerID string
	Seq      int
	Input    morality.Input
}

// MoralityStore reads and replaces morality snapshots.
type MoralityStore interface {
	// GetMorality returns ErrNotFound for players without a snapshot.
	GetMorality(ctx context.Context, playerID string) (morality.PlayerMorality, error)
	PutMorality(ctx context.Context, m morality.PlayerMorality) error
}

// ActionJournal appends and lists the inputs recorded for a player.
type ActionJournal interface {
	AppendAction(ctx context.Context, rec ActionRecord) error
	// ListActions returns records in sequence order.
	ListActions(ctx context.Context, playerID string) ([]ActionRecord, error)
}

// Store is a backend holding both snapshots and the journal.
type Store interface {
	MoralityStore
	ActionJournal
	// CommitAction appends rec and replaces the snapshot with m as one unit.
	CommitAction(ctx context.Context, m morality.PlayerMorality, rec ActionRecord) error
	Close() error
}

// ValidatePlayerID rejects blank player ids.
func ValidatePlayerID(playerID string) error {
	if strings.TrimSpace(playerID) == "" {
		return apperrors.New(apperrors.CodePlayerIDRequired, "player id is required")
	}
	return nil
}

// ValidateRecord checks that rec can be journaled.
func ValidateRecord(rec ActionRecord) error {
	if err := ValidatePlayerID(rec.PlayerID); err != nil {
		return err
	}
	if rec.Seq < 1 {
		return fmt.Errorf("action seq must be positive, got %d", rec.Seq)
	}
	if !rec.Input.Action.Valid() {
		return apperrors.New(apperrors.CodeUnknownAction, fmt.Sprintf("unknown action %q", rec.Input.Action))
	}
	return nil
}

// ValidateCommit checks that m and rec describe the same event.
func ValidateCommit(m morality.PlayerMorality, rec ActionRecord) error {
	if err := ValidateRecord(rec); err != nil {
		return err
	}
	if m.PlayerID != rec.PlayerID {
		return fmt.Errorf("snapshot player %q does not match record player %q", m.PlayerID, rec.PlayerID)
	}
	if len(m.KarmaHistory) != rec.Seq {
		return fmt.Errorf("snapshot has %d events, record seq is %d", len(m.KarmaHistory), rec.Seq)
	}
	return nil
}

// EncodeInput renders a journal payload.
func EncodeInput(in morality.Input) ([]byte, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode action input: %w", err)
	}
	return data, nil
}

// DecodeInput parses a journal payload written by EncodeInput.
func DecodeInput(data []byte) (morality.Input, error) {
	var in morality.Input
	if err := json.Unmarshal(data, &in); err != nil {
		return morality.Input{}, fmt.Errorf("decode action input: %w", err)
	}
	return in, nil
}
