// Package memory keeps morality snapshots and journals in process memory.
//
// Snapshots are held as codec bytes so callers never share state with the
// store, which matches the copy semantics of the SQL backends.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/louisbranch/karma.space/internal/services/karma/codec"
	"github.com/louisbranch/karma.space/internal/services/karma/domain/morality"
	"github.com/louisbranch/karma.space/internal/services/karma/storage"
)

type journalEntry struct {
	seq     int
	payload []byte
}

// Store is a storage.Store backed by maps.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
	journals  map[string][]journalEntry
}

// New returns an empty store.
func New() *Store {
	return &Store{
		snapshots: make(map[string][]byte),
		journals:  make(map[string][]journalEntry),
	}
}

// GetMorality decodes the stored snapshot for playerID.
func (s *Store) GetMorality(ctx context.Context, playerID string) (morality.PlayerMorality, error) {
	if err := ctx.Err(); err != nil {
		return morality.PlayerMorality{}, err
	}
	if err := storage.ValidatePlayerID(playerID); err != nil {
		return morality.PlayerMorality{}, err
	}
	s.mu.RLock()
	data, ok := s.snapshots[playerID]
	s.mu.RUnlock()
	if !ok {
		return morality.PlayerMorality{}, storage.ErrNotFound
	}
	return codec.Deserialize(data)
}

// PutMorality replaces the snapshot for m.PlayerID.
func (s *Store) PutMorality(ctx context.Context, m morality.PlayerMorality) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := storage.ValidatePlayerID(m.PlayerID); err != nil {
		return err
	}
	data, err := codec.Serialize(m)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snapshots[m.PlayerID] = data
	s.mu.Unlock()
	return nil
}

// AppendAction journals rec. rec.Seq must follow the last journaled seq.
func (s *Store) AppendAction(ctx context.Context, rec storage.ActionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry, err := newEntry(rec)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(rec.PlayerID, entry)
}

// ListActions returns the journal of playerID in sequence order.
func (s *Store) ListActions(ctx context.Context, playerID string) ([]storage.ActionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := storage.ValidatePlayerID(playerID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	entries := append([]journalEntry(nil), s.journals[playerID]...)
	s.mu.RUnlock()

	records := make([]storage.ActionRecord, 0, len(entries))
	for _, entry := range entries {
		in, err := storage.DecodeInput(entry.payload)
		if err != nil {
			return nil, fmt.Errorf("journal %s/%d: %w", playerID, entry.seq, err)
		}
		records = append(records, storage.ActionRecord{PlayerID: playerID, Seq: entry.seq, Input: in})
	}
	return records, nil
}

// CommitAction journals rec and stores m under one lock.
func (s *Store) CommitAction(ctx context.Context, m morality.PlayerMorality, rec storage.ActionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := storage.ValidateCommit(m, rec); err != nil {
		return err
	}
	entry, err := newEntry(rec)
	if err != nil {
		return err
	}
	data, err := codec.Serialize(m)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.appendLocked(rec.PlayerID, entry); err != nil {
		return err
	}
	s.snapshots[m.PlayerID] = data
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func newEntry(rec storage.ActionRecord) (journalEntry, error) {
	if err := storage.ValidateRecord(rec); err != nil {
		return journalEntry{}, err
	}
	payload, err := storage.EncodeInput(rec.Input)
	if err != nil {
		return journalEntry{}, err
	}
	return journalEntry{seq: rec.Seq, payload: payload}, nil
}

func (s *Store) appendLocked(playerID string, entry journalEntry) error {
	journal := s.journals[playerID]
	if entry.seq != len(journal)+1 {
		return fmt.Errorf("%w: player %s has %d actions, got seq %d", storage.ErrJournalConflict, playerID, len(journal), entry.seq)
	}
	s.journals[playerID] = append(journal, entry)
	return nil
}
