// Package sqlite stores morality snapshots and journals in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/louisbranch/karma.space/internal/platform/storage/sqlmigrate"
	"github.com/louisbranch/karma.space/internal/services/karma/codec"
	"github.com/louisbranch/karma.space/internal/services/karma/domain/morality"
	"github.com/louisbranch/karma.space/internal/services/karma/storage"
	"github.com/louisbranch/karma.space/internal/services/karma/storage/sqlite/migrations"
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Store is a storage.Store backed by a SQLite file.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens the database at path, creating parent directories, and applies
// the embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlmigrate.Apply(ctx, sqlDB, sqlmigrate.SQLite, migrations.KarmaFS, "karma"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the underlying database. It is safe on a nil store.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
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
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT snapshot FROM morality_snapshots WHERE player_id = ?", playerID,
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
	return putSnapshot(ctx, s.sqlDB, m, s.now())
}

// AppendAction journals rec.
func (s *Store) AppendAction(ctx context.Context, rec storage.ActionRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := storage.ValidateRecord(rec); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := appendAction(ctx, tx, rec, s.now()); err != nil {
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

	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT seq, input_json FROM karma_actions WHERE player_id = ? ORDER BY seq", playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	records := make([]storage.ActionRecord, 0)
	for rows.Next() {
		var seq int
		var payload string
		if err := rows.Scan(&seq, &payload); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		in, err := storage.DecodeInput([]byte(payload))
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

	now := s.now()
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := appendAction(ctx, tx, rec, now); err != nil {
		return err
	}
	if err := putSnapshot(ctx, tx, m, now); err != nil {
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
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putSnapshot(ctx context.Context, db execer, m morality.PlayerMorality, now time.Time) error {
	data, err := codec.Serialize(m)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
INSERT INTO morality_snapshots (player_id, event_count, snapshot, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (player_id) DO UPDATE SET
    event_count = excluded.event_count,
    snapshot = excluded.snapshot,
    updated_at = excluded.updated_at
`, m.PlayerID, len(m.KarmaHistory), data, toMillis(now))
	if err != nil {
		return fmt.Errorf("put morality: %w", err)
	}
	return nil
}

// appendAction checks the journal head inside tx so gaps and duplicates
// surface as storage.ErrJournalConflict.
func appendAction(ctx context.Context, tx *sql.Tx, rec storage.ActionRecord, now time.Time) error {
	var last int
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq), 0) FROM karma_actions WHERE player_id = ?", rec.PlayerID,
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
	if _, err := tx.ExecContext(ctx, `
INSERT INTO karma_actions (player_id, seq, action, input_json, recorded_at)
VALUES (?, ?, ?, ?, ?)
`, rec.PlayerID, rec.Seq, string(rec.Input.Action), string(payload), toMillis(now)); err != nil {
		return fmt.Errorf("append action: %w", err)
	}
	return nil
}
