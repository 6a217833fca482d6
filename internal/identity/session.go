package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/healthhack/healthmate/internal/models"
)

// Service is the identity session hub. It owns the current Session value,
// delegates the async auth operations to the Provider, and notifies
// observers of every session change in emission order.
type Service struct {
	provider Provider

	mu      sync.Mutex
	current *models.Session
	nextID  int
	order   []int
	subs    map[int]func(*models.Session)
}

// NewService creates a session hub over the given provider, starting
// anonymous.
func NewService(provider Provider) *Service {
	slog.Debug("Creating identity Service")
	return &Service{
		provider: provider,
		subs:     make(map[int]func(*models.Session)),
	}
}

// Current returns the session value as of the last provider notification.
// Nil means anonymous.
func (s *Service) Current() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Observe registers a subscriber, which is invoked once immediately with the
// current session and again on every change, until the returned unsubscribe
// function is called. After unsubscribe returns, no further invocations
// happen. Notifications are delivered in the order changes occur; the
// callback runs under the hub's lock and must not call back into the
// Service.
func (s *Service) Observe(fn func(*models.Session)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.order = append(s.order, id)
	fn(s.current)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// publish commits a new session value and notifies subscribers. The mutex is
// held across the callbacks, which serializes notifications and guarantees
// that an unsubscribed observer is never invoked again.
func (s *Service) publish(session *models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = session
	for _, id := range s.order {
		if fn, ok := s.subs[id]; ok {
			fn(session)
		}
	}
}

// Login authenticates an email/password credential. On success the session
// change is published to observers; callers must not assume synchronous
// visibility elsewhere.
func (s *Service) Login(ctx context.Context, email, password string) error {
	session, err := s.provider.Login(ctx, email, password)
	if err != nil {
		slog.Debug("Service Login failed", "error", err)
		return mapAuthErr(err)
	}
	slog.Info("Session established", "user_id", session.UserID, "method", "password")
	s.publish(session)
	return nil
}

// Signup creates an account and establishes its session.
func (s *Service) Signup(ctx context.Context, email, password string) error {
	session, err := s.provider.Signup(ctx, email, password)
	if err != nil {
		slog.Debug("Service Signup failed", "error", err)
		return mapAuthErr(err)
	}
	slog.Info("Session established", "user_id", session.UserID, "method", "signup")
	s.publish(session)
	return nil
}

// LoginFederated runs the provider-controlled interactive sign-in flow.
func (s *Service) LoginFederated(ctx context.Context) error {
	session, err := s.provider.LoginFederated(ctx)
	if err != nil {
		slog.Debug("Service LoginFederated failed", "error", err)
		return mapAuthErr(err)
	}
	slog.Info("Session established", "user_id", session.UserID, "method", "federated")
	s.publish(session)
	return nil
}

// Logout clears the session. If the provider reports an error the local
// session is kept: the logout must not be assumed to have succeeded.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.provider.Logout(ctx); err != nil {
		slog.Warn("Service Logout failed, session retained", "error", err)
		return mapAuthErr(err)
	}
	slog.Info("Session cleared")
	s.publish(nil)
	return nil
}

// Profile reads the current user's profile document, defaulting an empty one
// on first access.
func (s *Service) Profile(ctx context.Context) (models.UserProfile, error) {
	session := s.Current()
	if session == nil {
		return models.UserProfile{}, fmt.Errorf("%w: no session", models.ErrUnknown)
	}
	doc, err := s.provider.GetProfile(ctx, session.UserID)
	if err != nil {
		return models.UserProfile{}, err
	}
	if doc == nil {
		return models.UserProfile{UserID: session.UserID, Email: session.Email}, nil
	}
	return *doc, nil
}

// SaveProfile merge-writes the current user's profile document.
func (s *Service) SaveProfile(ctx context.Context, doc models.UserProfile) error {
	session := s.Current()
	if session == nil {
		return fmt.Errorf("%w: no session", models.ErrUnknown)
	}
	doc.UserID = session.UserID
	return s.provider.SaveProfile(ctx, doc)
}

// mapAuthErr clamps provider failures to the auth taxonomy. Errors already
// in the taxonomy pass through; anything else becomes ErrUnknown.
func mapAuthErr(err error) error {
	switch {
	case errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrEmailInUse),
		errors.Is(err, models.ErrPopupClosed),
		errors.Is(err, models.ErrNetwork),
		errors.Is(err, models.ErrUnknown):
		return err
	default:
		return fmt.Errorf("%w: %v", models.ErrUnknown, err)
	}
}
