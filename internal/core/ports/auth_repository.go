package ports

import (
	"context"

	"github.com/shopadmin/backoffice/internal/core/domain"
)

// CredentialRepository persists users. Implementations must enforce email
// uniqueness themselves and report a violation as domain.ErrDuplicateEmail.
type CredentialRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByEmail returns domain.ErrUserNotFound when no user matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID returns domain.ErrUserNotFound when no user matches.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// DeleteByID reports how many records were removed.
	DeleteByID(ctx context.Context, id string) (int64, error)
}

// RoleRepository persists the static role table.
type RoleRepository interface {
	List(ctx context.Context) ([]domain.Role, error)
	// Upsert inserts or renames roles keyed by ID.
	Upsert(ctx context.Context, roles []domain.Role) error
}
