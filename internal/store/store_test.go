package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/healthhack/healthmate/internal/models"
)

func testAccount(id, email string) models.Account {
	return models.Account{
		ID:           id,
		Email:        email,
		PasswordHash: "$2a$10$notarealhash",
		DisplayName:  "Test User",
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func runStoreContract(t *testing.T, s Store) {
	t.Helper()

	if err := s.CreateAccount(testAccount("u1", "a@example.com")); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if err := s.CreateAccount(testAccount("u2", "A@Example.com")); !errors.Is(err, models.ErrEmailInUse) {
		t.Fatalf("duplicate email (case-insensitive) error = %v, want ErrEmailInUse", err)
	}

	got, err := s.GetAccountByEmail("a@example.com")
	if err != nil || got == nil {
		t.Fatalf("GetAccountByEmail = %v, %v", got, err)
	}
	if got.ID != "u1" {
		t.Errorf("GetAccountByEmail id = %q", got.ID)
	}

	byID, err := s.GetAccount("u1")
	if err != nil || byID == nil || byID.Email != "a@example.com" {
		t.Fatalf("GetAccount = %+v, %v", byID, err)
	}
	missing, err := s.GetAccount("nope")
	if err != nil || missing != nil {
		t.Fatalf("missing account = %v, %v; want nil, nil", missing, err)
	}

	// Profile lifecycle: absent, then upsert twice.
	p, err := s.GetProfile("u1")
	if err != nil || p != nil {
		t.Fatalf("unset profile = %v, %v; want nil, nil", p, err)
	}
	doc := models.UserProfile{UserID: "u1", Name: "Ada", Bio: "hello", Email: "a@example.com", CreatedAt: time.Now().UTC().Truncate(time.Second)}
	if err := s.SaveProfile(doc); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	doc.Weight = "62"
	if err := s.SaveProfile(doc); err != nil {
		t.Fatalf("SaveProfile upsert failed: %v", err)
	}
	p, err = s.GetProfile("u1")
	if err != nil || p == nil {
		t.Fatalf("GetProfile = %v, %v", p, err)
	}
	if p.Name != "Ada" || p.Weight != "62" {
		t.Errorf("profile after upsert = %+v", p)
	}
}

func TestInMemoryStoreContract(t *testing.T) {
	runStoreContract(t, NewInMemoryStore())
}

func TestSQLiteStoreContract(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "healthmate.db")
	s, err := NewSQLiteStore(WithSQLiteDSN(dsn))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer s.Close()
	runStoreContract(t, s)
}

func TestDetectDSNType(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost/db":   "postgres",
		"postgresql://u:p@localhost/db": "postgres",
		"host=localhost user=hm":        "postgres",
		"/var/lib/healthmate/hm.db":     "sqlite",
		"healthmate.db":                 "sqlite",
	}
	for dsn, want := range cases {
		if got := DetectDSNType(dsn); got != want {
			t.Errorf("DetectDSNType(%q) = %q, want %q", dsn, got, want)
		}
	}
}
