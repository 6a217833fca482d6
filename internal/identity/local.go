package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/healthhack/healthmate/internal/models"
	"github.com/healthhack/healthmate/internal/store"
)

// Default token parameters for the local provider.
const (
	DefaultTokenTTL = 24 * time.Hour
	DefaultIssuer   = "healthmate"
)

// Opts holds configuration for the local provider.
type Opts struct {
	Secret    string
	Issuer    string
	TokenTTL  time.Duration
	Federated func(ctx context.Context) (*models.Account, error)
}

// Option configures the local provider.
type Option func(*Opts)

// WithSecret sets the token signing secret.
func WithSecret(secret string) Option {
	return func(o *Opts) { o.Secret = secret }
}

// WithIssuer sets the token issuer.
func WithIssuer(issuer string) Option {
	return func(o *Opts) { o.Issuer = issuer }
}

// WithTokenTTL sets the access token lifetime.
func WithTokenTTL(ttl time.Duration) Option {
	return func(o *Opts) { o.TokenTTL = ttl }
}

// WithFederatedFlow injects the interactive federated sign-in flow. The flow
// returns the externally authenticated account, or an error from the auth
// taxonomy (models.ErrPopupClosed when the user aborts).
func WithFederatedFlow(fn func(ctx context.Context) (*models.Account, error)) Option {
	return func(o *Opts) { o.Federated = fn }
}

// LocalProvider is the self-hosted rendition of the identity/document
// provider: store-backed accounts with bcrypt password hashes and JWT access
// tokens.
type LocalProvider struct {
	store     store.Store
	secret    string
	issuer    string
	tokenTTL  time.Duration
	federated func(ctx context.Context) (*models.Account, error)
}

// NewLocalProvider creates a local identity provider backed by st.
func NewLocalProvider(st store.Store, opts ...Option) *LocalProvider {
	cfg := Opts{Issuer: DefaultIssuer, TokenTTL: DefaultTokenTTL}
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("Creating LocalProvider", "issuer", cfg.Issuer, "token_ttl", cfg.TokenTTL, "federated_set", cfg.Federated != nil)
	return &LocalProvider{
		store:     st,
		secret:    cfg.Secret,
		issuer:    cfg.Issuer,
		tokenTTL:  cfg.TokenTTL,
		federated: cfg.Federated,
	}
}

func (p *LocalProvider) Login(ctx context.Context, email, password string) (*models.Session, error) {
	if email == "" || password == "" {
		return nil, models.ErrInvalidCredentials
	}
	account, err := p.store.GetAccountByEmail(email)
	if err != nil {
		slog.Error("LocalProvider Login store error", "error", err)
		return nil, fmt.Errorf("%w: %v", models.ErrUnknown, err)
	}
	if account == nil {
		return nil, models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		slog.Debug("LocalProvider Login password mismatch", "email", email)
		return nil, models.ErrInvalidCredentials
	}
	slog.Debug("LocalProvider Login succeeded", "user_id", account.ID)
	return account.Session(), nil
}

func (p *LocalProvider) Signup(ctx context.Context, email, password string) (*models.Session, error) {
	if email == "" || password == "" {
		return nil, models.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnknown, err)
	}
	account := models.Account{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		DisplayName:  displayNameFromEmail(email),
		CreatedAt:    time.Now().UTC(),
	}
	if err := p.store.CreateAccount(account); err != nil {
		if errors.Is(err, models.ErrEmailInUse) {
			return nil, models.ErrEmailInUse
		}
		slog.Error("LocalProvider Signup store error", "error", err)
		return nil, fmt.Errorf("%w: %v", models.ErrUnknown, err)
	}
	slog.Debug("LocalProvider Signup succeeded", "user_id", account.ID)
	return account.Session(), nil
}

func (p *LocalProvider) LoginFederated(ctx context.Context) (*models.Session, error) {
	if p.federated == nil {
		return nil, fmt.Errorf("%w: no federated provider configured", models.ErrUnknown)
	}
	account, err := p.federated(ctx)
	if err != nil {
		slog.Debug("LocalProvider federated flow failed", "error", err)
		return nil, err
	}
	// First federated sign-in provisions the account.
	existing, err := p.store.GetAccountByEmail(account.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnknown, err)
	}
	if existing == nil {
		if err := p.store.CreateAccount(*account); err != nil && !errors.Is(err, models.ErrEmailInUse) {
			return nil, fmt.Errorf("%w: %v", models.ErrUnknown, err)
		}
		existing = account
	}
	slog.Debug("LocalProvider federated login succeeded", "user_id", existing.ID)
	return existing.Session(), nil
}

// Logout is stateless on the provider side: access tokens are not revocable
// and the session hub owns the current-session value. It only acknowledges.
func (p *LocalProvider) Logout(ctx context.Context) error {
	slog.Debug("LocalProvider Logout succeeded")
	return nil
}

func (p *LocalProvider) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	doc, err := p.store.GetProfile(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnknown, err)
	}
	return doc, nil
}

// SaveProfile merge-writes the profile document: the stored document (or a
// fresh one on first write) is overlaid with the non-empty incoming fields.
func (p *LocalProvider) SaveProfile(ctx context.Context, incoming models.UserProfile) error {
	existing, err := p.store.GetProfile(incoming.UserID)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUnknown, err)
	}
	var doc models.UserProfile
	if existing != nil {
		doc = existing.Merge(incoming)
	} else {
		doc = incoming
		if doc.CreatedAt.IsZero() {
			doc.CreatedAt = time.Now().UTC()
		}
		if doc.Email == "" {
			if account, err := p.store.GetAccount(incoming.UserID); err == nil && account != nil {
				doc.Email = account.Email
			}
		}
	}
	if err := p.store.SaveProfile(doc); err != nil {
		return fmt.Errorf("%w: %v", models.ErrUnknown, err)
	}
	return nil
}

// IssueToken mints a bearer token for an authenticated user, for use against
// the HTTP API.
func (p *LocalProvider) IssueToken(userID, email string) (string, error) {
	return NewAccessToken(p.secret, p.issuer, p.tokenTTL, userID, email)
}

// VerifyToken validates a bearer token and returns the user id it carries.
func (p *LocalProvider) VerifyToken(token string) (string, error) {
	claims, err := ParseToken(p.secret, token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// displayNameFromEmail derives a human-ish display name from the address
// local part, matching what the views fall back to when the provider has no
// display name.
func displayNameFromEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return email
	}
	return email[:at]
}
