// Package identity wraps the external identity/document provider behind an
// explicit session capability.
//
// It exposes the current-user state as an observable value, the async auth
// operations (login, signup, federated login, logout), and per-user profile
// document access. Session values are produced only here; every other
// component reads them.
package identity

import (
	"context"

	"github.com/healthhack/healthmate/internal/models"
)

// Provider is the opaque identity/document-store boundary. Implementations
// map their failures onto the models auth taxonomy: ErrInvalidCredentials,
// ErrEmailInUse, ErrPopupClosed, ErrNetwork, ErrUnknown.
type Provider interface {
	// Login authenticates an email/password credential and returns the
	// established session.
	Login(ctx context.Context, email, password string) (*models.Session, error)

	// Signup creates an account and returns the established session.
	Signup(ctx context.Context, email, password string) (*models.Session, error)

	// LoginFederated runs the provider-controlled interactive flow (popup or
	// redirect) and returns the established session.
	LoginFederated(ctx context.Context) (*models.Session, error)

	// Logout clears the provider-side session. On error the caller must not
	// assume the logout succeeded.
	Logout(ctx context.Context) error

	// GetProfile reads the per-user profile document, or nil when the user
	// has never saved one.
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)

	// SaveProfile merge-writes the profile document keyed by its UserID:
	// non-empty fields overwrite, absent fields are preserved.
	SaveProfile(ctx context.Context, p models.UserProfile) error
}
