package repository

import (
	"LineBridge/entity"
	"LineBridge/internal/lib/sl"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS config_entries (
	domain     TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS api_keys (
	username TEXT PRIMARY KEY,
	key      TEXT NOT NULL UNIQUE
);
`

// SQLite keeps the config entry as a JSON blob in a local database file.
type SQLite struct {
	db  *sql.DB
	log *slog.Logger
}

func NewSqliteClient(path string, logger *slog.Logger) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err = db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLite{
		db:  db,
		log: logger.With(sl.Module("sqlite")),
	}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) LoadEntry(ctx context.Context) (*entity.ConfigEntry, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM config_entries WHERE domain = ?`, entity.Domain,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlite select error: %w", err)
	}

	var entry entity.ConfigEntry
	if err = json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, fmt.Errorf("decode config entry: %w", err)
	}
	if entry.AllowedChatIDs == nil {
		entry.AllowedChatIDs = entity.AllowList{}
	}
	return &entry, nil
}

func (s *SQLite) SaveEntry(ctx context.Context, entry *entity.ConfigEntry) error {
	entry.Domain = entity.Domain
	entry.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode config entry: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO config_entries (domain, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(domain) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		entry.Domain, string(data), entry.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("sqlite upsert error: %w", err)
	}
	return nil
}

func (s *SQLite) CheckApiKey(ctx context.Context, key string) (string, error) {
	var username string
	err := s.db.QueryRowContext(ctx, `SELECT username FROM api_keys WHERE key = ?`, key).Scan(&username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("api key not found")
		}
		return "", fmt.Errorf("sqlite select error: %w", err)
	}
	return username, nil
}

func (s *SQLite) GenerateApiKey(ctx context.Context, username string) (string, error) {
	var key string
	err := s.db.QueryRowContext(ctx, `SELECT key FROM api_keys WHERE username = ?`, username).Scan(&key)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("failed to get existing API key: %w", err)
	}

	key = uuid.NewString()
	_, err = s.db.ExecContext(ctx, `INSERT INTO api_keys (username, key) VALUES (?, ?)`, username, key)
	if err != nil {
		return "", fmt.Errorf("sqlite insert error: %w", err)
	}
	return key, nil
}
