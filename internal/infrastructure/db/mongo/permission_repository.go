package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/accesskeep/accesskeep/internal/core/domain"
)

const permissionsCollection = "permissions"

type MongoPermissionRepository struct {
	coll *mongo.Collection
}

func NewPermissionRepository(db *mongo.Database) *MongoPermissionRepository {
	return &MongoPermissionRepository{coll: db.Collection(permissionsCollection)}
}

type mongoPermission struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
}

func (r *MongoPermissionRepository) List(ctx context.Context) ([]*domain.Permission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer cur.Close(ctx)

	return decodePermissions(ctx, cur)
}

func (r *MongoPermissionRepository) FindByName(ctx context.Context, name string) (*domain.Permission, error) {
	var mp mongoPermission
	if err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPermissionNotFound
		}
		return nil, fmt.Errorf("find permission: %w", err)
	}
	return fromMongoPermission(mp), nil
}

func (r *MongoPermissionRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			// Unknown ids are ignored; strict callers compare lengths.
			continue
		}
		oids = append(oids, oid)
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find permissions: %w", err)
	}
	defer cur.Close(ctx)

	return decodePermissions(ctx, cur)
}

func decodePermissions(ctx context.Context, cur *mongo.Cursor) ([]*domain.Permission, error) {
	var perms []*domain.Permission
	for cur.Next(ctx) {
		var mp mongoPermission
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode permission: %w", err)
		}
		perms = append(perms, fromMongoPermission(mp))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate permissions: %w", err)
	}
	return perms, nil
}

func fromMongoPermission(mp mongoPermission) *domain.Permission {
	return &domain.Permission{
		ID:          mp.ID.Hex(),
		Name:        mp.Name,
		Description: mp.Description,
	}
}
