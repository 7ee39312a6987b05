// Package postgres stores morality snapshots and journals in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/louisbranch/karma.space/internal/platform/storage/sqlmigrate"
	"github.com/louisbranch/karma.space/internal/services/karma/codec"
	"github.com/louisbranch/karma.space/internal/services/karma/domain/morality"
	"github.com/louisbranch/karma.space/internal/services/karma/storage"
	"github.com/louisbranch/karma.space/internal/services/karma/storage/postgres/migrations"
)

const (
	pingTimeout = 5 * time.Second

	uniqueViolation = "23505"
)

// Store is a storage.Store backed by PostgreSQL.
type Store struct {
	db *sql.DB
}

// Open connects to dsn, verifies the connection and applies migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("empty postgres dsn")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres db: %w", err)
	}
	if err := sqlmigrate.Apply(ctx, db, sqlmigrate.Postgres, migrations.KarmaFS, "karma"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the connection pool. It is safe on a nil store.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// GetMorality loads the snapshot for playerID.
func (s *Store) GetMorality(ctx context.Context, playerID string) (morality.PlayerMorality, error) {
	if err := s.ready(ctx); err != nil {
		return morality.PlayerMorality{}, err
	}
	if err := storage.ValidatePlayerID(playerID); err != nil {
		return morality.PlayerMorality{}, err
	}

	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT snapshot FROM morality_snapshots WHERE player_id = $1`, playerID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return morality.PlayerMorality{}, storage.ErrNotFound
	}
	if err != nil {
		return morality.PlayerMorality{}, fmt.Errorf("get morality: %w", err)
	}
	return codec.Deserialize(data)
}

// PutMorality replaces the snapshot for m.PlayerID.
func (s *Store) PutMorality(ctx context.Context, m morality.PlayerMorality) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := storage.ValidatePlayerID(m.PlayerID); err != nil {
		return err
	}
	return putSnapshot(ctx, s.db, m)
}

// AppendAction journals rec.
func (s *Store) AppendAction(ctx context.Context, rec storage.ActionRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := storage.ValidateRecord(rec); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := appendAction(ctx, tx, rec); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}

// ListActions returns the journal of playerID in sequence order.
func (s *Store) ListActions(ctx context.Context, playerID string) ([]storage.ActionRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if err := storage.ValidatePlayerID(playerID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT seq, input_json
FROM karma_actions
WHERE player_id = $1
ORDER BY seq ASC
`, playerID)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	records := make([]storage.ActionRecord, 0)
	for rows.Next() {
		var seq int
		var payload []byte
		if err := rows.Scan(&seq, &payload); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		in, err := storage.DecodeInput(payload)
		if err != nil {
			return nil, fmt.Errorf("journal %s/%d: %w", playerID, seq, err)
		}
		records = append(records, storage.ActionRecord{PlayerID: playerID, Seq: seq, Input: in})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read actions: %w", err)
	}
	return records, nil
}

// CommitAction journals rec and replaces the snapshot in one transaction.
func (s *Store) CommitAction(ctx context.Context, m morality.PlayerMorality, rec storage.ActionRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := storage.ValidateCommit(m, rec); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := appendAction(ctx, tx, rec); err != nil {
		return err
	}
	if err := putSnapshot(ctx, tx, m); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit action: %w", err)
	}
	return nil
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putSnapshot(ctx context.Context, db execer, m morality.PlayerMorality) error {
	data, err := codec.Serialize(m)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
INSERT INTO morality_snapshots (player_id, event_count, snapshot, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (player_id) DO UPDATE
SET
    event_count = EXCLUDED.event_count,
    snapshot = EXCLUDED.snapshot,
    updated_at = NOW()
`, m.PlayerID, len(m.KarmaHistory), data)
	if err != nil {
		return fmt.Errorf("put morality: %w", err)
	}
	return nil
}

// appendAction inserts rec after checking the journal head. A concurrent
// writer that wins the race trips the primary key instead.
func appendAction(ctx context.Context, tx *sql.Tx, rec storage.ActionRecord) error {
	var last int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) FROM karma_actions WHERE player_id = $1`, rec.PlayerID,
	).Scan(&last); err != nil {
		return fmt.Errorf("read journal head: %w", err)
	}
	if rec.Seq != last+1 {
		return fmt.Errorf("%w: player %s has %d actions, got seq %d", storage.ErrJournalConflict, rec.PlayerID, last, rec.Seq)
	}

	payload, err := storage.EncodeInput(rec.Input)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO karma_actions (player_id, seq, action, input_json)
VALUES ($1, $2, $3, $4::jsonb)
`, rec.PlayerID, rec.Seq, string(rec.Input.Action), string(payload))
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: player %s seq %d already journaled", storage.ErrJournalConflict, rec.PlayerID, rec.Seq)
	}
	if err != nil {
		return fmt.Errorf("append action: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}
