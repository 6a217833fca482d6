// Package store provides storage backends for HealthMate.
//
// It persists identity accounts and per-user profile documents behind a
// single Store interface, with in-memory, SQLite and PostgreSQL
// implementations selected by DSN.
package store

import (
	"strings"

	"github.com/healthhack/healthmate/internal/models"
)

// Store defines the persistence operations needed by the local identity
// provider and the profile/dashboard endpoints.
type Store interface {
	// CreateAccount inserts a new account. Returns models.ErrEmailInUse if
	// an account with the same email already exists.
	CreateAccount(a models.Account) error

	// GetAccountByEmail retrieves an account by email, or nil when absent.
	GetAccountByEmail(email string) (*models.Account, error)

	// GetAccount retrieves an account by id, or nil when absent.
	GetAccount(id string) (*models.Account, error)

	// GetProfile retrieves the profile document for a user, or nil when the
	// user has never saved one.
	GetProfile(userID string) (*models.UserProfile, error)

	// SaveProfile upserts the full profile document. Merge semantics are the
	// caller's concern; the store writes what it is given.
	SaveProfile(p models.UserProfile) error

	// Close releases any underlying resources.
	Close() error
}

// Opts holds configuration for store backends.
type Opts struct {
	DSN string
}

// Option configures store construction.
type Option func(*Opts)

// WithSQLiteDSN sets a SQLite file path as the store DSN.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// WithPostgresDSN sets a PostgreSQL connection string as the store DSN.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// DetectDSNType classifies a DSN as "postgres" or "sqlite". Anything that is
// not recognizably a Postgres URL or key/value DSN is treated as a SQLite
// file path.
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite"
}
