package sqlstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopadmin/backoffice/internal/core/domain"
)

// AuditRepository appends to auth_events. Replays of an event id are ignored.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Record(ctx context.Context, event domain.AuthEvent) error {
	row := auditRow{
		ID:         event.ID,
		Type:       string(event.Type),
		Email:      event.Email,
		UserID:     event.UserID,
		ActorID:    event.ActorID,
		Reason:     event.Reason,
		OccurredAt: event.OccurredAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
