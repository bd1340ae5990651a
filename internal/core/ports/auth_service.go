package ports

import (
	"context"

	"github.com/shopadmin/backoffice/internal/core/domain"
)

// LoginResult is what a successful log-in hands back to the transport layer.
type LoginResult struct {
	Token  string
	User   *domain.User
	Claims domain.SessionClaims
}

type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*domain.User, error)
	LogIn(ctx context.Context, email, password string) (*LoginResult, error)
	DeleteAccount(ctx context.Context, actor domain.Actor, userID string) (int64, error)
	ListUsers(ctx context.Context, actor domain.Actor) ([]*domain.User, error)
	GetUser(ctx context.Context, actor domain.Actor, userID string) (*domain.User, error)
}

// TokenVerifier validates bearer tokens on protected routes.
type TokenVerifier interface {
	Verify(token string) (*domain.SessionClaims, error)
}

type RoleService interface {
	List(ctx context.Context) ([]domain.Role, error)
}
