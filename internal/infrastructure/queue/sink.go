package queue

import (
	"context"
	"errors"

	"github.com/shopadmin/backoffice/internal/core/domain"
	"github.com/shopadmin/backoffice/internal/core/ports"
)

// MultiSink records an event in every sink and joins their errors.
type MultiSink []ports.AuditSink

func (m MultiSink) Record(ctx context.Context, event domain.AuthEvent) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Record(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
