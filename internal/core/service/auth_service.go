package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shopadmin/backoffice/internal/api/metrics"
	"github.com/shopadmin/backoffice/internal/core/domain"
	"github.com/shopadmin/backoffice/internal/core/ports"
)

// AuthService implements sign-up, log-in and account administration.
type AuthService struct {
	repo   ports.CredentialRepository
	hasher PasswordHasher
	tokens *TokenIssuer
	audit  ports.AuditRecorder
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(
	repo ports.CredentialRepository,
	hasher PasswordHasher,
	tokens *TokenIssuer,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *AuthService {
	if audit == nil {
		audit = noopAudit{}
	}
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		audit:  audit,
		log:    log,
		now:    time.Now,
	}
}

// SignUp registers a customer account. The lookup before insert only gives
// a fast answer; the repository's unique index is what actually rejects a
// concurrent duplicate.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidInput
	}
	if len(password) > MaxPasswordBytes {
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return nil, errPasswordTooLong
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		metrics.SignupsTotal.WithLabelValues("duplicate").Inc()
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		return nil, asStoreError("find user", err)
	}

	created, err := s.create(ctx, email, password, domain.RoleCustomerID)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			metrics.SignupsTotal.WithLabelValues("duplicate").Inc()
		} else {
			metrics.SignupsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	metrics.SignupsTotal.WithLabelValues("created").Inc()
	s.record(domain.AuthEvent{Type: domain.EventSignup, Email: created.Email, UserID: created.ID})
	s.log.Info().Str("user_id", created.ID).Msg("user signed up")
	return created, nil
}

// LogIn verifies credentials and issues a session token. An unknown email and
// a wrong password are indistinguishable to the caller.
func (s *AuthService) LogIn(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			s.record(domain.AuthEvent{Type: domain.EventLoginFailed, Email: email, Reason: "unknown email"})
			return nil, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, asStoreError("find user", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		s.record(domain.AuthEvent{Type: domain.EventLoginFailed, Email: email, UserID: user.ID, Reason: "password mismatch"})
		return nil, domain.ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Issue(domain.SessionClaims{
		Email:  user.Email,
		UserID: user.ID,
		RoleID: user.RoleID,
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.record(domain.AuthEvent{Type: domain.EventLogin, Email: user.Email, UserID: user.ID})
	return &ports.LoginResult{Token: token, User: user, Claims: claims}, nil
}

// DeleteAccount removes a credential. Only an admin or the account owner may do it.
func (s *AuthService) DeleteAccount(ctx context.Context, actor domain.Actor, userID string) (int64, error) {
	if !actor.CanManage(userID) {
		return 0, domain.ErrForbidden
	}

	n, err := s.repo.DeleteByID(ctx, userID)
	if err != nil {
		return 0, asStoreError("delete user", err)
	}

	if n > 0 {
		label := "self"
		if actor.UserID != userID {
			label = "admin"
		}
		metrics.AccountsDeletedTotal.WithLabelValues(label).Inc()
		s.record(domain.AuthEvent{Type: domain.EventAccountDeleted, UserID: userID, ActorID: actor.UserID})
	}
	s.log.Info().
		Str("user_id", userID).
		Str("actor_id", actor.UserID).
		Int64("deleted", n).
		Msg("delete account")
	return n, nil
}

func (s *AuthService) ListUsers(ctx context.Context, actor domain.Actor) ([]*domain.User, error) {
	if !domain.IsAdmin(actor.RoleID) {
		return nil, domain.ErrForbidden
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, asStoreError("list users", err)
	}
	return users, nil
}

func (s *AuthService) GetUser(ctx context.Context, actor domain.Actor, userID string) (*domain.User, error) {
	if !actor.CanManage(userID) {
		return nil, domain.ErrForbidden
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, asStoreError("find user", err)
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account unless the email is taken.
// It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return false, domain.ErrInvalidInput
	}
	if len(password) > MaxPasswordBytes {
		return false, errPasswordTooLong
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return false, asStoreError("find user", err)
	}

	if _, err := s.create(ctx, email, password, domain.RoleAdminID); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return false, nil
		}
		return false, err
	}
	s.log.Info().Str("email", email).Msg("bootstrap admin created")
	return true, nil
}

func (s *AuthService) create(ctx context.Context, email, password string, roleID int) (*domain.User, error) {
	hash, err := s.hasher.Hash(password)
	if errors.Is(err, domain.ErrInvalidInput) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		RoleID:       roleID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, asStoreError("create user", err)
	}
	return created, nil
}

func (s *AuthService) record(event domain.AuthEvent) {
	event.ID = uuid.NewString()
	event.OccurredAt = s.now().UTC()
	s.audit.Enqueue(event)
}

// asStoreError leaves already-classified store errors untouched.
func asStoreError(op string, err error) error {
	if errors.Is(err, domain.ErrStore) {
		return err
	}
	return domain.NewStoreError(op, err)
}

type noopAudit struct{}

func (noopAudit) Enqueue(domain.AuthEvent) {}
