package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront-backend/model"
)

type productRepo struct {
	coll collection[model.Product]
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	now := time.Now()
	product.ID = primitive.NewObjectID()
	if product.Reviews == nil {
		product.Reviews = []primitive.ObjectID{}
	}
	product.CreatedAt, product.UpdatedAt = now, now
	return r.coll.insert(ctx, product)
}

func (r *productRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	return r.coll.findByID(ctx, id)
}

func (r *productRepo) GetByName(ctx context.Context, name string) (*model.Product, error) {
	return r.coll.findOne(ctx, bson.M{"name": name})
}

func (r *productRepo) List(ctx context.Context, filter model.ProductFilter, skip, limit int64) ([]model.Product, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.coll.find(ctx, productFilter(filter), opts)
}

func (r *productRepo) Count(ctx context.Context, filter model.ProductFilter) (int64, error) {
	return r.coll.c.CountDocuments(ctx, productFilter(filter))
}

func (r *productRepo) Update(ctx context.Context, id primitive.ObjectID, req model.UpdateProductRequest) (*model.Product, error) {
	return r.coll.updateByID(ctx, id, bson.M{"$set": productUpdate(req, time.Now())})
}

func (r *productRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.coll.deleteByID(ctx, id)
}

func (r *productRepo) IncrementSold(ctx context.Context, id primitive.ObjectID, qty int) error {
	return r.coll.modifyByID(ctx, id, bson.M{"$inc": bson.M{"totalSold": qty}})
}

func (r *productRepo) PushReview(ctx context.Context, id, reviewID primitive.ObjectID) error {
	return r.coll.modifyByID(ctx, id, bson.M{"$push": bson.M{"reviews": reviewID}})
}

func productFilter(f model.ProductFilter) bson.M {
	filter := bson.M{}
	if f.Name != "" {
		filter["name"] = containsFold(f.Name)
	}
	if f.Brand != "" {
		filter["brand"] = containsFold(f.Brand)
	}
	if f.Category != "" {
		filter["category"] = containsFold(f.Category)
	}
	if f.Color != "" {
		filter["colors"] = containsFold(f.Color)
	}
	if f.Size != "" {
		filter["sizes"] = containsFold(f.Size)
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	return filter
}

func productUpdate(req model.UpdateProductRequest, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Brand != nil {
		set["brand"] = *req.Brand
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.Sizes != nil {
		set["sizes"] = req.Sizes
	}
	if req.Colors != nil {
		set["colors"] = req.Colors
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.TotalQty != nil {
		set["totalQty"] = *req.TotalQty
	}
	return set
}
