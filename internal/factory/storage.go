package factory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/config"
	storepkg "github.com/Acurioustractor/palm-island-repository-sub003/internal/store"
	storepg "github.com/Acurioustractor/palm-island-repository-sub003/internal/store/postgres"
	storesqlite "github.com/Acurioustractor/palm-island-repository-sub003/internal/store/sqlite"
)

// NewStore opens the store selected by cfg.DBDriver and applies its
// migrations within the bootstrap timeout. The returned close func releases
// the connection pool.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, func() error, error) {
	var (
		db      *sql.DB
		err     error
		migrate func(context.Context, *sql.DB) error
		wrap    func(*sql.DB) storepkg.Store
	)
	switch cfg.DBDriver {
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, nil, fmt.Errorf("STORY_SERVICE_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
		db, err = storepg.Open(cfg.PostgresDSN)
		migrate, wrap = storepg.Migrate, storepg.NewWithDB
	case "sqlite":
		if cfg.SQLitePath == "" {
			return nil, nil, fmt.Errorf("STORY_SERVICE_SQLITE_PATH is required when DB_DRIVER=sqlite")
		}
		db, err = storesqlite.Open(cfg.SQLitePath)
		migrate, wrap = storesqlite.Migrate, storesqlite.NewWithDB
	default:
		return nil, nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.DBDriver, err)
	}

	bootstrapCtx, cancel := context.WithTimeout(ctx, cfg.BootstrapTimeout())
	defer cancel()
	if err := migrate(bootstrapCtx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	log.Debug().Str("driver", cfg.DBDriver).Msg("store migrations applied")
	return wrap(db), db.Close, nil
}
