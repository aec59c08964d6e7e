package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/model"
)

func renameUpdate(name string) bson.M {
	return bson.M{"$set": bson.M{"name": name, "updatedAt": time.Now()}}
}

func pushProductUpdate(productID primitive.ObjectID) bson.M {
	return bson.M{
		"$push": bson.M{"products": productID},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
}

type brandRepo struct {
	coll collection[model.Brand]
}

func (r *brandRepo) Create(ctx context.Context, brand *model.Brand) error {
	now := time.Now()
	brand.ID = primitive.NewObjectID()
	if brand.Products == nil {
		brand.Products = []primitive.ObjectID{}
	}
	brand.CreatedAt, brand.UpdatedAt = now, now
	return r.coll.insert(ctx, brand)
}

func (r *brandRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Brand, error) {
	return r.coll.findByID(ctx, id)
}

func (r *brandRepo) GetByName(ctx context.Context, name string) (*model.Brand, error) {
	return r.coll.findOne(ctx, bson.M{"name": name})
}

func (r *brandRepo) List(ctx context.Context) ([]model.Brand, error) {
	return r.coll.find(ctx, bson.M{})
}

func (r *brandRepo) Rename(ctx context.Context, id primitive.ObjectID, name string) (*model.Brand, error) {
	return r.coll.updateByID(ctx, id, renameUpdate(name))
}

func (r *brandRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.coll.deleteByID(ctx, id)
}

func (r *brandRepo) PushProduct(ctx context.Context, id, productID primitive.ObjectID) error {
	return r.coll.modifyByID(ctx, id, pushProductUpdate(productID))
}

type categoryRepo struct {
	coll collection[model.Category]
}

func (r *categoryRepo) Create(ctx context.Context, category *model.Category) error {
	now := time.Now()
	category.ID = primitive.NewObjectID()
	if category.Products == nil {
		category.Products = []primitive.ObjectID{}
	}
	category.CreatedAt, category.UpdatedAt = now, now
	return r.coll.insert(ctx, category)
}

func (r *categoryRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Category, error) {
	return r.coll.findByID(ctx, id)
}

func (r *categoryRepo) GetByName(ctx context.Context, name string) (*model.Category, error) {
	return r.coll.findOne(ctx, bson.M{"name": name})
}

func (r *categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	return r.coll.find(ctx, bson.M{})
}

func (r *categoryRepo) Rename(ctx context.Context, id primitive.ObjectID, name string) (*model.Category, error) {
	return r.coll.updateByID(ctx, id, renameUpdate(name))
}

func (r *categoryRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.coll.deleteByID(ctx, id)
}

func (r *categoryRepo) PushProduct(ctx context.Context, id, productID primitive.ObjectID) error {
	return r.coll.modifyByID(ctx, id, pushProductUpdate(productID))
}

type colorRepo struct {
	coll collection[model.Color]
}

func (r *colorRepo) Create(ctx context.Context, color *model.Color) error {
	now := time.Now()
	color.ID = primitive.NewObjectID()
	color.CreatedAt, color.UpdatedAt = now, now
	return r.coll.insert(ctx, color)
}

func (r *colorRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Color, error) {
	return r.coll.findByID(ctx, id)
}

func (r *colorRepo) GetByName(ctx context.Context, name string) (*model.Color, error) {
	return r.coll.findOne(ctx, bson.M{"name": name})
}

func (r *colorRepo) List(ctx context.Context) ([]model.Color, error) {
	return r.coll.find(ctx, bson.M{})
}

func (r *colorRepo) Rename(ctx context.Context, id primitive.ObjectID, name string) (*model.Color, error) {
	return r.coll.updateByID(ctx, id, renameUpdate(name))
}

func (r *colorRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.coll.deleteByID(ctx, id)
}
