package database

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/model"
)

type userRepo struct {
	coll collection[model.User]
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Orders == nil {
		user.Orders = []primitive.ObjectID{}
	}
	user.CreatedAt, user.UpdatedAt = now, now
	return r.coll.insert(ctx, user)
}

func (r *userRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return r.coll.findByID(ctx, id)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.coll.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *userRepo) UpdateShippingAddress(ctx context.Context, id primitive.ObjectID, address model.ShippingAddress) (*model.User, error) {
	return r.coll.updateByID(ctx, id, bson.M{"$set": bson.M{
		"shippingAddress":    address,
		"hasShippingAddress": true,
		"updatedAt":          time.Now(),
	}})
}

func (r *userRepo) PushOrder(ctx context.Context, id, orderID primitive.ObjectID) error {
	return r.coll.modifyByID(ctx, id, bson.M{
		"$push": bson.M{"orders": orderID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}
