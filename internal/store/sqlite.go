// Package store provides storage backends for HealthMate.
//
// This file implements the SQLite-backed store.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "embed"

	"github.com/healthhack/healthmate/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN. The DSN is a
// file path; the containing directory is created if missing.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running SQLite migrations")
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) CreateAccount(a models.Account) error {
	_, err := s.db.Exec(
		`INSERT INTO accounts (id, email, password_hash, display_name, photo_url, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, strings.ToLower(a.Email), a.PasswordHash, a.DisplayName, a.PhotoURL, a.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			slog.Debug("SQLiteStore CreateAccount duplicate email", "email", a.Email)
			return models.ErrEmailInUse
		}
		slog.Error("SQLiteStore CreateAccount failed", "error", err, "id", a.ID)
		return fmt.Errorf("failed to insert account %s: %w", a.ID, err)
	}
	slog.Debug("SQLiteStore CreateAccount succeeded", "id", a.ID)
	return nil
}

func (s *SQLiteStore) GetAccountByEmail(email string) (*models.Account, error) {
	row := s.db.QueryRow(
		`SELECT id, email, password_hash, display_name, photo_url, created_at FROM accounts WHERE email = ?`,
		strings.ToLower(email),
	)
	return scanAccount(row)
}

func (s *SQLiteStore) GetAccount(id string) (*models.Account, error) {
	row := s.db.QueryRow(
		`SELECT id, email, password_hash, display_name, photo_url, created_at FROM accounts WHERE id = ?`,
		id,
	)
	return scanAccount(row)
}

func (s *SQLiteStore) GetProfile(userID string) (*models.UserProfile, error) {
	row := s.db.QueryRow(
		`SELECT user_id, name, age, height, weight, bmi, bio, avatar, email, created_at FROM profiles WHERE user_id = ?`,
		userID,
	)
	return scanProfile(row)
}

func (s *SQLiteStore) SaveProfile(p models.UserProfile) error {
	_, err := s.db.Exec(
		`INSERT INTO profiles (user_id, name, age, height, weight, bmi, bio, avatar, email, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   name = excluded.name, age = excluded.age, height = excluded.height,
		   weight = excluded.weight, bmi = excluded.bmi, bio = excluded.bio,
		   avatar = excluded.avatar, email = excluded.email`,
		p.UserID, p.Name, p.Age, p.Height, p.Weight, p.BMI, p.Bio, p.Avatar, p.Email, p.CreatedAt,
	)
	if err != nil {
		slog.Error("SQLiteStore SaveProfile failed", "error", err, "user_id", p.UserID)
		return fmt.Errorf("failed to upsert profile for %s: %w", p.UserID, err)
	}
	slog.Debug("SQLiteStore SaveProfile succeeded", "user_id", p.UserID)
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	slog.Debug("Closing SQLite database connection")
	return s.db.Close()
}
