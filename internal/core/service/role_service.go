package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shopadmin/backoffice/internal/api/metrics"
	"github.com/shopadmin/backoffice/internal/core/domain"
	"github.com/shopadmin/backoffice/internal/core/ports"
)

// RoleService serves the role table through an optional read-through cache.
type RoleService struct {
	repo  ports.RoleRepository
	cache ports.RoleCache
	log   zerolog.Logger
}

// NewRoleService returns a RoleService. cache may be nil.
func NewRoleService(repo ports.RoleRepository, cache ports.RoleCache, log zerolog.Logger) *RoleService {
	return &RoleService{repo: repo, cache: cache, log: log}
}

// List returns all roles. Cache failures fall through to the repository.
func (s *RoleService) List(ctx context.Context) ([]domain.Role, error) {
	if s.cache != nil {
		roles, ok, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			metrics.RoleCacheTotal.WithLabelValues("error").Inc()
			s.log.Warn().Err(err).Msg("role cache read failed")
		case ok:
			metrics.RoleCacheTotal.WithLabelValues("hit").Inc()
			return roles, nil
		default:
			metrics.RoleCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	roles, err := s.repo.List(ctx)
	if err != nil {
		return nil, asStoreError("list roles", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, roles); err != nil {
			s.log.Warn().Err(err).Msg("role cache write failed")
		}
	}
	return roles, nil
}

// EnsureDefaults seeds the admin and customer roles and drops any cached
// table, which may still carry an old role name.
func (s *RoleService) EnsureDefaults(ctx context.Context) error {
	if err := s.repo.Upsert(ctx, domain.DefaultRoles); err != nil {
		return asStoreError("seed roles", err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.Warn().Err(err).Msg("role cache invalidate failed")
		}
	}
	return nil
}
