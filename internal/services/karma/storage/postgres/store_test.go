package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/lib/pq"

	"github.com/louisbranch/karma.space/internal/services/karma/storage"
	"github.com/louisbranch/karma.space/internal/services/karma/storage/storagetest"
)

const testDSNEnv = "KARMA_SPACE_TEST_POSTGRES_DSN"

// openTestStore opens a store on the test database and empties its tables.
// Tests skip when no database is configured.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := strings.TrimSpace(os.Getenv(testDSNEnv))
	if dsn == "" {
		t.Skipf("%s not set", testDSNEnv)
	}
	store, err := Open(context.Background(), dsn)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := store.db.Exec(`TRUNCATE karma_actions, morality_snapshots`); err != nil {
		_ = store.Close()
		t.Fatalf("truncate: %v", err)
	}
	return store
}

func TestStoreSuite(t *testing.T) {
	storagetest.RunStoreSuite(t, func(t *testing.T) storage.Store {
		return openTestStore(t)
	})
}

func TestOpenRequiresDSN(t *testing.T) {
	if _, err := Open(context.Background(), " "); err == nil {
		t.Fatal("expected error for blank dsn")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"unique", &pq.Error{Code: "23505"}, true},
		{"wrapped unique", fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), true},
		{"other pq error", &pq.Error{Code: "23503"}, false},
		{"no rows", sql.ErrNoRows, false},
	}
	for _, tt := range tests {
		if got := isUniqueViolation(tt.err); got != tt.want {
			t.Fatalf("%s: isUniqueViolation = %v, want %v", tt.name, got, tt.want)
		}
	}
}
