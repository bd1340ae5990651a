// Package session holds the client's current identity: whether someone is
// logged in, who, with which role and token, and which banner is showing.
// It is hydrated from a Store at start and written back on every change.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/shopadmin/backoffice/internal/core/domain"
)

// Banner texts shown to the user.
const (
	BannerServerError   = "Unable to connect, Please try again later!"
	BannerNoAccess      = "You Don't have access to the page!"
	BannerSessionExpiry = "Your Session Expired!"
)

// Snapshot is a point-in-time copy of the state.
type Snapshot struct {
	LoggedIn     bool
	Token        string
	UserID       string
	RoleID       int
	ServerError  bool
	Unauthorized bool
	// CartCount is the header badge count. It is never persisted.
	CartCount int
}

// State is the single owner of the client identity. It is safe for
// concurrent use.
type State struct {
	mu    sync.Mutex
	store Store
	snap  Snapshot
}

func New(store Store) *State {
	return &State{store: store}
}

// Hydrate loads the persisted identity. A session needs both a token and a
// user id to count as logged in.
func (s *State) Hydrate() error {
	token, _, err := s.store.Get(KeyToken)
	if err != nil {
		return err
	}
	userID, _, err := s.store.Get(KeyUserID)
	if err != nil {
		return err
	}
	rawRole, _, err := s.store.Get(KeyRoleID)
	if err != nil {
		return err
	}
	roleID, _ := strconv.Atoi(rawRole)

	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.snap.CartCount
	s.snap = Snapshot{
		LoggedIn: token != "" && userID != "",
		Token:    token,
		UserID:   userID,
		RoleID:   roleID,
	}
	if !s.snap.LoggedIn {
		s.snap = Snapshot{}
	}
	s.snap.CartCount = cart
	return nil
}

// OnLoginSuccess replaces the whole identity. Persisted entries expire with
// the token. If persisting fails nothing in memory changes. A cart filled
// while browsing as a guest survives the login.
func (s *State) OnLoginSuccess(token, userID string, roleID int, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	writes := []struct{ key, value string }{
		{KeyToken, token},
		{KeyUserID, userID},
		{KeyRoleID, strconv.Itoa(roleID)},
	}
	for _, w := range writes {
		if err := s.store.Set(w.key, w.value, expiresAt); err != nil {
			_ = s.clearStore()
			return fmt.Errorf("persist session: %w", err)
		}
	}

	s.snap = Snapshot{LoggedIn: true, Token: token, UserID: userID, RoleID: roleID, CartCount: s.snap.CartCount}
	return nil
}

// OnUnauthorized handles a rejected token. Expired and invalid tokens are
// treated alike: the identity is dropped and the expiry banner raised.
func (s *State) OnUnauthorized(err error) error {
	if errors.Is(err, domain.ErrForbidden) {
		s.OnForbidden()
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = Snapshot{Unauthorized: true}
	return s.clearStore()
}

// OnForbidden handles a role failure. The identity stays.
func (s *State) OnForbidden() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Unauthorized = true
}

// AddToCart bumps the cart badge by n. Non-positive n is ignored.
func (s *State) AddToCart(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > 0 {
		s.snap.CartCount += n
	}
	return s.snap.CartCount
}

// SetCartCount overwrites the cart badge; negative counts become zero.
func (s *State) SetCartCount(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.CartCount = max(n, 0)
}

func (s *State) OnServerError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.ServerError = true
}

// Report routes a failed server call to the matching handler. It reports
// whether err was one it knows how to handle.
func (s *State) Report(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrTokenInvalid):
		_ = s.OnUnauthorized(err)
	case errors.Is(err, domain.ErrForbidden):
		s.OnForbidden()
	case errors.Is(err, domain.ErrUnavailable), errors.Is(err, domain.ErrStore):
		s.OnServerError()
	default:
		return false
	}
	return true
}

// Logout clears the identity and every persisted entry.
func (s *State) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = Snapshot{}
	return s.clearStore()
}

func (s *State) DismissBanners() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.ServerError = false
	s.snap.Unauthorized = false
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Banner returns the message to show, or "" when there is none. A server
// error wins over an authorization failure.
func (s *State) Banner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.snap.ServerError:
		return BannerServerError
	case s.snap.Unauthorized && s.snap.LoggedIn:
		return BannerNoAccess
	case s.snap.Unauthorized:
		return BannerSessionExpiry
	default:
		return ""
	}
}

// clearStore must be called with mu held.
func (s *State) clearStore() error {
	var errs []error
	for _, key := range []string{KeyToken, KeyUserID, KeyRoleID} {
		if err := s.store.Expire(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
