package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"urlshortener/internal/config"
	"urlshortener/internal/database"

	pkgpostgres "urlshortener/pkg/postgres"
)

const uniqueViolationErrCode = "23505"

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.SQLState() == uniqueViolationErrCode
}

// New connects to Postgres and configures the connection pool.
// Failures are wrapped in database.ErrStorageInit: a store that cannot
// be reached at startup must not serve traffic.
func New(ctx context.Context, cfg config.Postgres) (*sqlx.DB, error) {
	const op = "database.postgres.New"

	db, err := pkgpostgres.New(
		ctx,
		cfg.DSN(),
		pkgpostgres.WithConnMaxIdleTime(cfg.ConnMaxIdleTime),
		pkgpostgres.WithConnMaxLifetime(cfg.ConnMaxLifetime),
		pkgpostgres.WithMaxIdleConns(cfg.MaxIdleConns),
		pkgpostgres.WithMaxOpenConns(cfg.MaxOpenConns),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, database.ErrStorageInit, err)
	}

	return db, nil
}

// Bootstrap brings the urls table schema up to date. Safe to call on
// every process start.
func Bootstrap(migrationsPath, dsn string) error {
	const op = "database.postgres.Bootstrap"

	if err := pkgpostgres.RunMigrations(migrationsPath, dsn); err != nil {
		return fmt.Errorf("%s: %w: %w", op, database.ErrStorageInit, err)
	}

	return nil
}
