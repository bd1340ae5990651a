package ports

import (
	"context"

	"github.com/shopadmin/backoffice/internal/core/domain"
)

// AuditRecorder accepts events without blocking the caller.
type AuditRecorder interface {
	Enqueue(event domain.AuthEvent)
}

// AuditSink durably stores or forwards a single event.
type AuditSink interface {
	Record(ctx context.Context, event domain.AuthEvent) error
}

// RoleCache is a best-effort cache in front of RoleRepository.
type RoleCache interface {
	Get(ctx context.Context) ([]domain.Role, bool, error)
	Set(ctx context.Context, roles []domain.Role) error
	Invalidate(ctx context.Context) error
}
