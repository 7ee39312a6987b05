package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	apperrors "github.com/louisbranch/karma.space/internal/platform/errors"
	"github.com/louisbranch/karma.space/internal/services/karma/domain/morality"
	"github.com/louisbranch/karma.space/internal/services/karma/storage"
	"github.com/louisbranch/karma.space/internal/services/karma/storage/memory"
	"github.com/louisbranch/karma.space/internal/services/karma/storage/postgres"
	"github.com/louisbranch/karma.space/internal/services/karma/storage/sqlite"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config selects the store backend and the registry.
type Config struct {
	Store        string `env:"KARMA_SPACE_STORE" envDefault:"sqlite"`
	SQLitePath   string `env:"KARMA_SPACE_SQLITE_PATH" envDefault:"data/karma.sqlite"`
	PostgresDSN  string `env:"KARMA_SPACE_POSTGRES_DSN"`
	RegistryPath string `env:"KARMA_SPACE_REGISTRY_PATH"`
}

// OpenStore opens the backend named by cfg.Store.
func OpenStore(ctx context.Context, cfg Config) (storage.Store, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Store))
	switch mode {
	case StoreMemory:
		return memory.New(), nil
	case "", StoreSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	case StorePostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return store, nil
	default:
		return nil, apperrors.WithMetadata(apperrors.CodeStoreBackendUnsupported,
			fmt.Sprintf("unsupported store backend %q", cfg.Store),
			map[string]string{"store": cfg.Store})
	}
}

// LoadRegistry reads the registry at path, or returns the default registry
// when path is empty.
func LoadRegistry(path string) (morality.Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return morality.DefaultRegistry(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return morality.Registry{}, apperrors.Wrap(apperrors.CodeRegistryInvalid, "open registry "+path, err)
	}
	defer f.Close()
	reg, err := morality.LoadRegistry(f)
	if err != nil {
		return morality.Registry{}, apperrors.Wrap(apperrors.CodeRegistryInvalid, "load registry "+path, err)
	}
	return reg, nil
}

// NewServiceFromConfig opens the configured store and registry.
func NewServiceFromConfig(ctx context.Context, cfg Config, opts ...Option) (*Service, error) {
	reg, err := LoadRegistry(cfg.RegistryPath)
	if err != nil {
		return nil, err
	}
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	svc, err := NewService(store, morality.NewEngine(reg), opts...)
	if err != nil {
		if closeErr := store.Close(); closeErr != nil {
			log.Printf("close store: %v", closeErr)
		}
		return nil, err
	}
	return svc, nil
}
