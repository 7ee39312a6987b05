package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestKarmaMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(KarmaFS, "karma")
	if err != nil {
		t.Fatalf("read karma migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected karma migrations to be embedded")
	}
	for _, entry := range entries {
		data, err := fs.ReadFile(KarmaFS, "karma/"+entry.Name())
		if err != nil {
			t.Fatalf("read %s: %v", entry.Name(), err)
		}
		if !strings.Contains(string(data), "-- +migrate Up") {
			t.Fatalf("%s has no Up section", entry.Name())
		}
	}
}
