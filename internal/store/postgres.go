// Package store provides storage backends for HealthMate.
//
// This file implements the PostgreSQL-backed store.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "embed"

	"github.com/healthhack/healthmate/internal/models"
	"github.com/lib/pq"
)

// Database connection pool configuration constants
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("PostgresStore.NewPostgresStore: creating Postgres store", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running Postgres migrations")
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) CreateAccount(a models.Account) error {
	_, err := s.db.Exec(
		`INSERT INTO accounts (id, email, password_hash, display_name, photo_url, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, strings.ToLower(a.Email), a.PasswordHash, a.DisplayName, a.PhotoURL, a.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		// 23505 is unique_violation.
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			slog.Debug("PostgresStore CreateAccount duplicate email", "email", a.Email)
			return models.ErrEmailInUse
		}
		slog.Error("PostgresStore CreateAccount failed", "error", err, "id", a.ID)
		return fmt.Errorf("failed to insert account %s: %w", a.ID, err)
	}
	slog.Debug("PostgresStore CreateAccount succeeded", "id", a.ID)
	return nil
}

func (s *PostgresStore) GetAccountByEmail(email string) (*models.Account, error) {
	row := s.db.QueryRow(
		`SELECT id, email, password_hash, display_name, photo_url, created_at FROM accounts WHERE email = $1`,
		strings.ToLower(email),
	)
	return scanAccount(row)
}

func (s *PostgresStore) GetAccount(id string) (*models.Account, error) {
	row := s.db.QueryRow(
		`SELECT id, email, password_hash, display_name, photo_url, created_at FROM accounts WHERE id = $1`,
		id,
	)
	return scanAccount(row)
}

func (s *PostgresStore) GetProfile(userID string) (*models.UserProfile, error) {
	row := s.db.QueryRow(
		`SELECT user_id, name, age, height, weight, bmi, bio, avatar, email, created_at FROM profiles WHERE user_id = $1`,
		userID,
	)
	return scanProfile(row)
}

func (s *PostgresStore) SaveProfile(p models.UserProfile) error {
	_, err := s.db.Exec(
		`INSERT INTO profiles (user_id, name, age, height, weight, bmi, bio, avatar, email, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (user_id) DO UPDATE SET
		   name = EXCLUDED.name, age = EXCLUDED.age, height = EXCLUDED.height,
		   weight = EXCLUDED.weight, bmi = EXCLUDED.bmi, bio = EXCLUDED.bio,
		   avatar = EXCLUDED.avatar, email = EXCLUDED.email`,
		p.UserID, p.Name, p.Age, p.Height, p.Weight, p.BMI, p.Bio, p.Avatar, p.Email, p.CreatedAt,
	)
	if err != nil {
		slog.Error("PostgresStore SaveProfile failed", "error", err, "user_id", p.UserID)
		return fmt.Errorf("failed to upsert profile for %s: %w", p.UserID, err)
	}
	slog.Debug("PostgresStore SaveProfile succeeded", "user_id", p.UserID)
	return nil
}

// Close closes the Postgres database connection.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing Postgres database connection")
	return s.db.Close()
}
