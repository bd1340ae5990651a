package session

import (
	"sync"
	"time"
)

// Persisted entry keys.
const (
	KeyToken  = "token"
	KeyUserID = "userId"
	KeyRoleID = "userRoleId"
)

// Store keeps independently settable and clearable string entries. Entries
// whose expiry has passed are reported as absent.
type Store interface {
	Get(key string) (string, bool, error)
	// Set stores value until expiresAt. A zero expiresAt never expires.
	Set(key, value string, expiresAt time.Time) error
	// Expire removes key immediately.
	Expire(key string) error
}

type entry struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

func (e entry) live(now time.Time) bool {
	return e.ExpiresAt.IsZero() || now.Before(e.ExpiresAt)
}

// MemoryStore is a Store that lives for the process only.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry), now: time.Now}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return "", false, nil
	}
	if !e.live(s.now()) {
		delete(s.entries, key)
		return "", false, nil
	}
	return e.Value, true, nil
}

func (s *MemoryStore) Set(key, value string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{Value: value, ExpiresAt: expiresAt}
	return nil
}

func (s *MemoryStore) Expire(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
