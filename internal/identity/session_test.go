package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/healthhack/healthmate/internal/models"
)

// fakeProvider scripts provider outcomes for hub tests.
type fakeProvider struct {
	loginSession *models.Session
	loginErr     error
	logoutErr    error
}

func (f *fakeProvider) Login(ctx context.Context, email, password string) (*models.Session, error) {
	return f.loginSession, f.loginErr
}

func (f *fakeProvider) Signup(ctx context.Context, email, password string) (*models.Session, error) {
	return f.loginSession, f.loginErr
}

func (f *fakeProvider) LoginFederated(ctx context.Context) (*models.Session, error) {
	return f.loginSession, f.loginErr
}

func (f *fakeProvider) Logout(ctx context.Context) error { return f.logoutErr }

func (f *fakeProvider) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return nil, nil
}

func (f *fakeProvider) SaveProfile(ctx context.Context, p models.UserProfile) error { return nil }

func TestObserveImmediateReplay(t *testing.T) {
	svc := NewService(&fakeProvider{})
	var got []*models.Session
	unsub := svc.Observe(func(s *models.Session) { got = append(got, s) })
	defer unsub()

	if len(got) != 1 || got[0] != nil {
		t.Fatalf("expected one immediate anonymous notification, got %v", got)
	}
}

func TestObserveDeliversChangesInOrder(t *testing.T) {
	user := &models.Session{UserID: "u1", Email: "a@example.com"}
	p := &fakeProvider{loginSession: user}
	svc := NewService(p)

	var got []*models.Session
	unsub := svc.Observe(func(s *models.Session) { got = append(got, s) })
	defer unsub()

	if err := svc.Login(context.Background(), "a@example.com", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := svc.Logout(context.Background()); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	want := []*models.Session{nil, user, nil}
	if len(got) != len(want) {
		t.Fatalf("notification count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	user := &models.Session{UserID: "u1"}
	svc := NewService(&fakeProvider{loginSession: user})

	count := 0
	unsub := svc.Observe(func(s *models.Session) { count++ })
	unsub()

	if err := svc.Login(context.Background(), "a@example.com", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if count != 1 {
		t.Errorf("unsubscribed observer was invoked %d times, want only the immediate replay", count)
	}
}

func TestLoginFailureKeepsAnonymous(t *testing.T) {
	svc := NewService(&fakeProvider{loginErr: models.ErrInvalidCredentials})
	err := svc.Login(context.Background(), "a@example.com", "bad")
	if !errors.Is(err, models.ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
	if svc.Current() != nil {
		t.Errorf("failed login must not establish a session")
	}
}

func TestLogoutFailureRetainsSession(t *testing.T) {
	user := &models.Session{UserID: "u1"}
	p := &fakeProvider{loginSession: user}
	svc := NewService(p)
	if err := svc.Login(context.Background(), "a@example.com", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	p.logoutErr = models.ErrNetwork
	if err := svc.Logout(context.Background()); !errors.Is(err, models.ErrNetwork) {
		t.Fatalf("logout error = %v, want ErrNetwork", err)
	}
	if svc.Current() == nil {
		t.Errorf("failed logout must not clear the local session")
	}
}

func TestUnmappedProviderErrorBecomesUnknown(t *testing.T) {
	svc := NewService(&fakeProvider{loginErr: errors.New("weird upstream state")})
	err := svc.Login(context.Background(), "a@example.com", "pw")
	if !errors.Is(err, models.ErrUnknown) {
		t.Errorf("error = %v, want wrapped ErrUnknown", err)
	}
}
