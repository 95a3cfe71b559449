package database

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	TypeMongoDB = "mongodb"
	TypeSQLite  = "sqlite"
	TypeRedis   = "redis"
)

// Options selects and configures a storage driver.
// Name and Collection are only meaningful for drivers that have such a notion;
// the redis driver uses Collection as its key prefix.
type Options struct {
	Type             string
	ConnectionString string
	Name             string
	Collection       string
}

func NewDatabase(ctx context.Context, opts Options) (database DatabaseService, err error) {
	switch opts.Type {
	case TypeMongoDB:
		database, err = NewMongoDatabase(ctx, opts.ConnectionString, opts.Name, opts.Collection)
	case TypeSQLite:
		database, err = NewSQLiteDatabase(opts.ConnectionString)
	case TypeRedis:
		database, err = NewRedisDatabase(ctx, opts.ConnectionString, opts.Collection)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", opts.Type)
	}
	if err != nil {
		return nil, err
	}

	// Ensure database schema exists (idempotent), important for in-memory SQLite
	slog.Info("initializing database schema (ensuring storage exists)", "type", opts.Type)
	if err = database.CreateDatabase(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	return database, nil
}
