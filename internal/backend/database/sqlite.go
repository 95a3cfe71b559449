package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

type SQLiteDatabase struct {
	db               *sql.DB
	connectionString string
}

func NewSQLiteDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("sqlite", withBusyTimeout(connectionString))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite allows a single writer. One pooled connection serializes the process's own
	// writers and keeps :memory: on one database; busy_timeout covers other processes.
	db.SetMaxOpenConns(1)

	return &SQLiteDatabase{
		db:               db,
		connectionString: connectionString,
	}, nil
}

const sqliteBusyTimeoutMillis = 5000

// withBusyTimeout adds a busy_timeout pragma unless the connection string already sets one
func withBusyTimeout(connectionString string) string {
	if strings.Contains(connectionString, "busy_timeout") {
		return connectionString
	}
	separator := "?"
	if strings.Contains(connectionString, "?") {
		separator = "&"
	}
	return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)", connectionString, separator, sqliteBusyTimeoutMillis)
}

func (s *SQLiteDatabase) CreateDatabase(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS images (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		data BLOB NOT NULL,
		content_type TEXT NOT NULL
	)`)
	return err
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) DoesDatabaseExist(ctx context.Context) bool {
	// In SQLite, the database file is created when you connect to it.
	// So we can assume it exists if we can successfully ping the database.
	err := s.db.PingContext(ctx)
	return err == nil
}

func (s *SQLiteDatabase) CreateImage(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	id := generateID()
	if data == nil {
		data = []byte{}
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO images (id, name, data, content_type) VALUES (?, ?, ?, ?)",
		id, name, data, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to insert image: %w", err)
	}

	return id, nil
}

func (s *SQLiteDatabase) GetImageByID(ctx context.Context, id string) (*ImageRecord, error) {
	id, ok := normalizeID(id)
	if !ok {
		return nil, ErrNotFound
	}

	row := s.db.QueryRowContext(ctx, "SELECT id, name, data, content_type FROM images WHERE id = ?", id)
	var img ImageRecord
	if err := row.Scan(&img.ID, &img.Name, &img.Data, &img.ContentType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query image %s: %w", id, err)
	}
	if img.Data == nil {
		img.Data = []byte{}
	}
	return &img, nil
}
