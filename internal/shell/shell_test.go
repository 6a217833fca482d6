package shell

import (
	"context"
	"testing"

	"github.com/healthhack/healthmate/internal/identity"
	"github.com/healthhack/healthmate/internal/models"
)

// scriptedProvider drives session state for shell tests.
type scriptedProvider struct {
	session *models.Session
}

func (p *scriptedProvider) Login(ctx context.Context, email, password string) (*models.Session, error) {
	return p.session, nil
}

func (p *scriptedProvider) Signup(ctx context.Context, email, password string) (*models.Session, error) {
	return p.session, nil
}

func (p *scriptedProvider) LoginFederated(ctx context.Context) (*models.Session, error) {
	return p.session, nil
}

func (p *scriptedProvider) Logout(ctx context.Context) error { return nil }

func (p *scriptedProvider) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return nil, nil
}

func (p *scriptedProvider) SaveProfile(ctx context.Context, doc models.UserProfile) error {
	return nil
}

func newTestShell(t *testing.T) (*Shell, *identity.Service, *scriptedProvider) {
	t.Helper()
	p := &scriptedProvider{session: &models.Session{UserID: "u1", Email: "a@example.com"}}
	sessions := identity.NewService(p)
	s := New(NewRouter(), sessions)
	t.Cleanup(s.Close)
	return s, sessions, p
}

func TestAnonymousDashboardRedirectsToLogin(t *testing.T) {
	s, _, _ := newTestShell(t)

	s.Navigate(models.ViewDashboard)

	if got := s.Current(); got != models.ViewLogin {
		t.Errorf("current = %q, want login redirect", got)
	}
}

func TestAuthenticatedDashboardAllowed(t *testing.T) {
	s, sessions, _ := newTestShell(t)
	if err := sessions.Login(context.Background(), "a@example.com", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	s.Navigate(models.ViewDashboard)

	if got := s.Current(); got != models.ViewDashboard {
		t.Errorf("current = %q, want dashboard", got)
	}
}

func TestRedirectIsIdempotent(t *testing.T) {
	s, _, _ := newTestShell(t)
	count := 0
	unsub := s.Subscribe(func(Transition) { count++ })
	defer unsub()

	s.Navigate(models.ViewLogin)     // commits login
	s.Navigate(models.ViewDashboard) // denied; redirect to login is a no-op

	if s.Current() != models.ViewLogin {
		t.Errorf("current = %q", s.Current())
	}
	if count != 1 {
		t.Errorf("notifications = %d, want 1 (redirect to current view must not re-commit)", count)
	}
}

func TestSessionChangeDoesNotRetryNavigation(t *testing.T) {
	s, sessions, _ := newTestShell(t)

	s.Navigate(models.ViewDashboard)
	if s.Current() != models.ViewLogin {
		t.Fatalf("precondition: expected login redirect, got %q", s.Current())
	}

	// Signing in afterwards must not replay the denied navigation.
	if err := sessions.Login(context.Background(), "a@example.com", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if s.Current() != models.ViewLogin {
		t.Errorf("current = %q; session change must not navigate", s.Current())
	}

	// The user navigates again explicitly, and now it is allowed.
	s.Navigate(models.ViewDashboard)
	if s.Current() != models.ViewDashboard {
		t.Errorf("explicit re-navigation failed, current = %q", s.Current())
	}
}

// The committed view after any sequence of navigations equals the fold of
// the gate's decisions over that sequence, starting from home.
func TestNavigationFoldsAuthorizeOverSequence(t *testing.T) {
	s, sessions, _ := newTestShell(t)

	sequence := []models.ViewName{
		models.ViewDiabetes,
		models.ViewDashboard, // denied -> login
		models.ViewMental,
		models.ViewProfile, // denied -> login
		models.ViewSignup,
		models.ViewHome,
	}

	expected := models.DefaultView
	for _, target := range sequence {
		s.Navigate(target)
		d := Authorize(target, s.Session())
		if d.Allow {
			expected = target
		} else {
			expected = d.RedirectTo
		}
		if got := s.Current(); got != expected {
			t.Fatalf("after navigate(%q): current = %q, want %q", target, got, expected)
		}
	}

	// Same fold, now with a session present.
	if err := sessions.Login(context.Background(), "a@example.com", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	for _, target := range sequence {
		s.Navigate(target)
		if got := s.Current(); got != target {
			t.Fatalf("authenticated navigate(%q) landed on %q", target, got)
		}
	}
}

func TestShellExposesSessionSnapshot(t *testing.T) {
	s, sessions, _ := newTestShell(t)
	if s.Session() != nil {
		t.Fatalf("expected anonymous snapshot")
	}
	if err := sessions.Login(context.Background(), "a@example.com", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	got := s.Session()
	if got == nil || got.UserID != "u1" {
		t.Errorf("session snapshot = %+v", got)
	}
}
