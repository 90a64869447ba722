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

const rolesCollection = "roles"

type MongoRoleRepository struct {
	db    *mongo.Database
	roles *mongo.Collection
	users *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *MongoRoleRepository {
	return &MongoRoleRepository{
		db:    db,
		roles: db.Collection(rolesCollection),
		users: db.Collection(usersCollection),
	}
}

type mongoRole struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Name        string               `bson:"name"`
	Description string               `bson:"description,omitempty"`
	Permissions []primitive.ObjectID `bson:"permissions"`
	CreatedAt   int64                `bson:"created_at"`
	UpdatedAt   int64                `bson:"updated_at"`
}

func (r *MongoRoleRepository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	doc, err := toMongoRole(role)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.roles.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrRoleExists
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}

	return fromMongoRole(doc), nil
}

func (r *MongoRoleRepository) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRoleNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoRoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *MongoRoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.roles.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer cur.Close(ctx)

	var roles []*domain.Role
	for cur.Next(ctx) {
		var mr mongoRole
		if err := cur.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode role: %w", err)
		}
		roles = append(roles, fromMongoRole(mr))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	return roles, nil
}

func (r *MongoRoleRepository) Update(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	oid, err := primitive.ObjectIDFromHex(role.ID)
	if err != nil {
		return nil, domain.ErrRoleNotFound
	}

	doc, err := toMongoRole(role)
	if err != nil {
		return nil, err
	}
	doc.ID = oid

	res, err := r.roles.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrRoleExists
		}
		return nil, fmt.Errorf("update role: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrRoleNotFound
	}

	return fromMongoRole(doc), nil
}

// DeleteIfUnused counts member users and deletes the role inside one
// transaction, so a concurrent user-role reassignment is either fully
// visible to the count or blocked until the delete commits.
func (r *MongoRoleRepository) DeleteIfUnused(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrRoleNotFound
	}

	sess, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		n, err := r.users.CountDocuments(sc, bson.M{"role_id": oid})
		if err != nil {
			return nil, fmt.Errorf("count role members: %w", err)
		}
		if n > 0 {
			return nil, domain.ErrRoleInUse
		}

		res, err := r.roles.DeleteOne(sc, bson.M{"_id": oid})
		if err != nil {
			return nil, fmt.Errorf("delete role: %w", err)
		}
		if res.DeletedCount == 0 {
			return nil, domain.ErrRoleNotFound
		}
		return nil, nil
	})
	return err
}

func (r *MongoRoleRepository) findOne(ctx context.Context, filter bson.M) (*domain.Role, error) {
	var mr mongoRole
	if err := r.roles.FindOne(ctx, filter).Decode(&mr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return fromMongoRole(mr), nil
}

func toMongoRole(role *domain.Role) (mongoRole, error) {
	permIDs := make([]primitive.ObjectID, 0, role.Permissions.Len())
	for _, id := range role.Permissions.IDs() {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return mongoRole{}, fmt.Errorf("%w: invalid permission id", domain.ErrValidation)
		}
		permIDs = append(permIDs, oid)
	}
	return mongoRole{
		Name:        role.Name,
		Description: role.Description,
		Permissions: permIDs,
		CreatedAt:   role.CreatedAt.Unix(),
		UpdatedAt:   role.UpdatedAt.Unix(),
	}, nil
}

func fromMongoRole(mr mongoRole) *domain.Role {
	set := domain.NewPermissionSet()
	for _, oid := range mr.Permissions {
		set.Add(oid.Hex())
	}
	return &domain.Role{
		ID:          mr.ID.Hex(),
		Name:        mr.Name,
		Description: mr.Description,
		Permissions: set,
		CreatedAt:   unixToTime(mr.CreatedAt),
		UpdatedAt:   unixToTime(mr.UpdatedAt),
	}
}
