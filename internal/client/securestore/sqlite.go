package securestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/medinvest/medinvest/internal/client/securestore/migrations"
	"github.com/medinvest/medinvest/internal/common"
	"github.com/medinvest/medinvest/internal/cryptox"
	"github.com/medinvest/medinvest/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

const saltSize = 16

// SQLiteStore keeps sealed values in the secure_items table.
type SQLiteStore struct {
	db  *sql.DB
	key []byte
}

// RunMigrations applies the embedded schema. It is idempotent.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// Open opens (creating when needed) the store at dsn and derives the value
// key from deviceSecret and the store's persisted salt.
func Open(ctx context.Context, dsn string, deviceSecret []byte) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open secure store: %w", err)
	}
	// a single connection keeps ":memory:" databases alive and serialises writers
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	salt, err := loadOrCreateSalt(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, key: cryptox.DeriveKey(deviceSecret, salt)}, nil
}

func loadOrCreateSalt(ctx context.Context, db *sql.DB) ([]byte, error) {
	var salt []byte
	err := db.QueryRowContext(ctx, `SELECT salt FROM keystore WHERE id = 1`).Scan(&salt)
	if err == nil {
		return salt, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to read keystore salt: %w", err)
	}

	salt = common.GenerateRandByteArray(saltSize)
	if _, err := db.ExecContext(ctx, `INSERT INTO keystore (id, salt) VALUES (1, ?)`, salt); err != nil {
		return nil, fmt.Errorf("failed to write keystore salt: %w", err)
	}
	return salt, nil
}

// Close releases the database and wipes the in-memory key.
func (s *SQLiteStore) Close() error {
	common.WipeByteArray(s.key)
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var sealed []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM secure_items WHERE key = ?`, key).Scan(&sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get secure item[%s]: %w", key, err)
	}

	value, err := cryptox.Open(s.key, sealed)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorrupted, key)
	}
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	return s.writer(s.db).Set(ctx, key, value)
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	return s.writer(s.db).Delete(ctx, key)
}

func (s *SQLiteStore) Batch(ctx context.Context, fn func(ctx context.Context, w Writer) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, s.writer(tx))
	})
}

func (s *SQLiteStore) writer(db dbx.DBTX) *sqliteWriter {
	return &sqliteWriter{db: db, key: s.key}
}

type sqliteWriter struct {
	db  dbx.DBTX
	key []byte
}

func (w *sqliteWriter) Set(ctx context.Context, key string, value []byte) error {
	sealed, err := cryptox.Seal(w.key, value)
	if err != nil {
		return fmt.Errorf("failed to seal secure item[%s]: %w", key, err)
	}

	_, err = w.db.ExecContext(ctx, `
		INSERT INTO secure_items (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, sealed)
	if err != nil {
		return fmt.Errorf("failed to set secure item[%s]: %w", key, err)
	}
	return nil
}

func (w *sqliteWriter) Delete(ctx context.Context, key string) error {
	if _, err := w.db.ExecContext(ctx, `DELETE FROM secure_items WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete secure item[%s]: %w", key, err)
	}
	return nil
}
