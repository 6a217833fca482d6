// Package store provides storage backends for HealthMate.
//
// This file implements the in-memory store used in tests and when no
// database DSN is configured.
package store

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/healthhack/healthmate/internal/models"
)

// InMemoryStore keeps accounts and profiles in process memory. Safe for
// concurrent use.
type InMemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]models.Account     // by id
	byEmail  map[string]string             // lowercased email -> id
	profiles map[string]models.UserProfile // by user id
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	slog.Debug("Creating InMemoryStore")
	return &InMemoryStore{
		accounts: make(map[string]models.Account),
		byEmail:  make(map[string]string),
		profiles: make(map[string]models.UserProfile),
	}
}

func (s *InMemoryStore) CreateAccount(a models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(a.Email)
	if _, exists := s.byEmail[key]; exists {
		return models.ErrEmailInUse
	}
	s.accounts[a.ID] = a
	s.byEmail[key] = a.ID
	slog.Debug("InMemoryStore CreateAccount succeeded", "id", a.ID)
	return nil
}

func (s *InMemoryStore) GetAccountByEmail(email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	a := s.accounts[id]
	return &a, nil
}

func (s *InMemoryStore) GetAccount(id string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *InMemoryStore) GetProfile(userID string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *InMemoryStore) SaveProfile(p models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p
	slog.Debug("InMemoryStore SaveProfile succeeded", "user_id", p.UserID)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error {
	return nil
}
