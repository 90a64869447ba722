package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/accesskeep/accesskeep/internal/core/domain"
)

// seedPermissions is the fixed permission registry. Permissions are
// seed data, not user-editable.
var seedPermissions = []struct {
	Name        string
	Description string
}{
	{domain.PermViewUser, "View user details"},
	{domain.PermAddUser, "Add new user"},
	{domain.PermEditUser, "Edit user details"},
	{domain.PermDeleteUser, "Delete user"},
	{domain.PermAddRole, "Add new role"},
	{domain.PermEditRole, "Edit role"},
	{domain.PermAssignPermToRole, "Add permissions to role"},
}

// EnsureIndexes creates the unique indexes backing the global
// uniqueness invariants on usernames, emails, role names and
// permission names.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	_, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "role_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	_, err = db.Collection(rolesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}}, Options: unique,
	})
	if err != nil {
		return fmt.Errorf("create role index: %w", err)
	}

	_, err = db.Collection(permissionsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}}, Options: unique,
	})
	if err != nil {
		return fmt.Errorf("create permission index: %w", err)
	}

	return nil
}

// Seed inserts the permission registry, the three system roles and the
// bootstrap superadmin account. Every insert is conditional on absence,
// so re-running at startup is a no-op on an initialized database.
func Seed(ctx context.Context, db *mongo.Database, bootstrapPassword string, log zerolog.Logger) error {
	perms := db.Collection(permissionsCollection)
	roles := db.Collection(rolesCollection)
	users := db.Collection(usersCollection)

	permIDs := make(map[string]primitive.ObjectID, len(seedPermissions))
	for _, p := range seedPermissions {
		filter := bson.M{"name": p.Name}
		update := bson.M{"$setOnInsert": bson.M{"name": p.Name, "description": p.Description}}
		res, err := perms.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("seed permission %s: %w", p.Name, err)
		}
		if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
			permIDs[p.Name] = oid
			continue
		}
		var mp mongoPermission
		if err := perms.FindOne(ctx, filter).Decode(&mp); err != nil {
			return fmt.Errorf("read permission %s: %w", p.Name, err)
		}
		permIDs[p.Name] = mp.ID
	}

	allPerms := make([]primitive.ObjectID, 0, len(permIDs))
	for _, p := range seedPermissions {
		allPerms = append(allPerms, permIDs[p.Name])
	}

	systemRoles := []struct {
		Name        string
		Description string
		Permissions []primitive.ObjectID
	}{
		{domain.RoleSuperadmin, "Super Administrator with all permissions", allPerms},
		{domain.RoleAdmin, "Administrator with limited permissions", []primitive.ObjectID{
			permIDs[domain.PermViewUser],
			permIDs[domain.PermAddUser],
			permIDs[domain.PermEditUser],
			permIDs[domain.PermDeleteUser],
		}},
		{domain.RoleUser, "Regular user with view-only permissions", []primitive.ObjectID{
			permIDs[domain.PermViewUser],
		}},
	}

	now := time.Now().UTC().Unix()
	var superadminRoleID primitive.ObjectID
	for _, r := range systemRoles {
		filter := bson.M{"name": r.Name}
		update := bson.M{"$setOnInsert": bson.M{
			"name":        r.Name,
			"description": r.Description,
			"permissions": r.Permissions,
			"created_at":  now,
			"updated_at":  now,
		}}
		res, err := roles.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("seed role %s: %w", r.Name, err)
		}

		roleID, ok := res.UpsertedID.(primitive.ObjectID)
		if !ok {
			var mr mongoRole
			if err := roles.FindOne(ctx, filter).Decode(&mr); err != nil {
				return fmt.Errorf("read role %s: %w", r.Name, err)
			}
			roleID = mr.ID
		}
		if r.Name == domain.RoleSuperadmin {
			superadminRoleID = roleID
		}
	}

	err := users.FindOne(ctx, bson.M{"username": domain.RoleSuperadmin}).Err()
	if err == nil {
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return fmt.Errorf("check bootstrap user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(bootstrapPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	_, err = users.InsertOne(ctx, mongoUser{
		ID:           primitive.NewObjectID(),
		Username:     domain.RoleSuperadmin,
		Email:        "superadmin@example.com",
		PasswordHash: string(hash),
		RoleID:       superadminRoleID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("seed bootstrap user: %w", err)
	}

	log.Info().Str("username", domain.RoleSuperadmin).Msg("bootstrap superadmin created")
	return nil
}
