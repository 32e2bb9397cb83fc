package gradebook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ltilibrary/lti-go/internal/config"
)

// Open returns the store selected by cfg: PostgreSQL when DATABASE_URL is set, otherwise an
// in-memory store. The PostgreSQL schema is migrated before the store is returned.
func Open(ctx context.Context, cfg *config.ServerEnvironment, logger *slog.Logger) (Store, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL is not set, using the in-memory gradebook (data is lost on restart)")
		return NewMemoryStore(), nil
	}

	dbCtx, cancel := context.WithTimeout(ctx, cfg.DatabasePingTimeout)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = cfg.DBMaxConnections
	poolConfig.MinConns = cfg.DBMinConnections
	poolConfig.MaxConnLifetime = cfg.DBMaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.DBMaxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = cfg.DBConnectTimeout

	pool, err := pgxpool.NewWithConfig(dbCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(dbCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database via pool: %w", err)
	}
	logger.Info("connected to PostgreSQL")

	if err := Migrate(dbCtx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return NewPostgresStore(pool), nil
}
