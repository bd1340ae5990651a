package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopadmin/backoffice/internal/core/domain"
)

// RoleRepository implements ports.RoleRepository on MongoDB. Role ids are
// stored as the document _id.
type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{coll: db.Collection(rolesCollection)}
}

type mongoRole struct {
	ID   int    `bson:"_id"`
	Name string `bson:"name"`
}

func (r *RoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoRole
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}
	roles := make([]domain.Role, 0, len(docs))
	for _, d := range docs {
		roles = append(roles, domain.Role{ID: d.ID, Name: d.Name})
	}
	return roles, nil
}

func (r *RoleRepository) Upsert(ctx context.Context, roles []domain.Role) error {
	if len(roles) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(roles))
	for _, role := range roles {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": role.ID}).
			SetUpdate(bson.M{"$set": bson.M{"name": role.Name}}).
			SetUpsert(true))
	}
	if _, err := r.coll.BulkWrite(ctx, models); err != nil {
		return fmt.Errorf("upsert roles: %w", err)
	}
	return nil
}
