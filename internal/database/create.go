package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

// EnsureDatabase connects with adminConnString, usually pointing at the
// "postgres" maintenance database, and creates name if it does not exist.
// It reports whether the database was created.
func EnsureDatabase(ctx context.Context, adminConnString, name string) (bool, error) {
	conn, err := pgx.Connect(ctx, adminConnString)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToConnectAdmin, err)
	}
	defer conn.Close(ctx)

	var exists bool
	if err := conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", name).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToCheckDatabase, err)
	}
	if exists {
		return false, nil
	}

	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize()); err != nil {
		return false, fmt.Errorf("%s %q: %w", ErrMsgFailedToCreateDatabase, name, err)
	}
	slog.Info(LogMsgDatabaseCreated, "database", name)
	return true, nil
}
