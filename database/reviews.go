package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/model"
)

type reviewRepo struct {
	coll collection[model.Review]
}

func (r *reviewRepo) Create(ctx context.Context, review *model.Review) error {
	now := time.Now()
	review.ID = primitive.NewObjectID()
	review.CreatedAt, review.UpdatedAt = now, now
	return r.coll.insert(ctx, review)
}

func (r *reviewRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Review, error) {
	return r.coll.findByID(ctx, id)
}

func (r *reviewRepo) List(ctx context.Context) ([]model.Review, error) {
	return r.coll.find(ctx, bson.M{})
}

func (r *reviewRepo) ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]model.Review, error) {
	return r.coll.find(ctx, bson.M{"product": productID})
}

func (r *reviewRepo) ExistsForUser(ctx context.Context, productID, userID primitive.ObjectID) (bool, error) {
	n, err := r.coll.c.CountDocuments(ctx, bson.M{"product": productID, "user": userID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *reviewRepo) Update(ctx context.Context, id primitive.ObjectID, req model.UpdateReviewRequest) (*model.Review, error) {
	set := bson.M{"updatedAt": time.Now()}
	if req.Message != nil {
		set["message"] = *req.Message
	}
	if req.Rating != nil {
		set["rating"] = *req.Rating
	}
	return r.coll.updateByID(ctx, id, bson.M{"$set": set})
}

func (r *reviewRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.coll.deleteByID(ctx, id)
}
