package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopadmin/backoffice/internal/core/domain"
)

// AuditRepository appends authentication events to the auth_events
// collection. Replays of the same event id are ignored.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(eventsCollection)}
}

func (r *AuditRepository) Record(ctx context.Context, event domain.AuthEvent) error {
	event.OccurredAt = event.OccurredAt.UTC()
	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
