package database

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/model"
)

type couponRepo struct {
	coll collection[model.Coupon]
}

func (r *couponRepo) Create(ctx context.Context, coupon *model.Coupon) error {
	now := time.Now()
	coupon.ID = primitive.NewObjectID()
	coupon.Code = strings.ToUpper(coupon.Code)
	coupon.CreatedAt, coupon.UpdatedAt = now, now
	return r.coll.insert(ctx, coupon)
}

func (r *couponRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Coupon, error) {
	return r.coll.findByID(ctx, id)
}

func (r *couponRepo) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	return r.coll.findOne(ctx, bson.M{"code": strings.ToUpper(code)})
}

func (r *couponRepo) List(ctx context.Context) ([]model.Coupon, error) {
	return r.coll.find(ctx, bson.M{})
}

func (r *couponRepo) Replace(ctx context.Context, coupon *model.Coupon) (*model.Coupon, error) {
	return r.coll.updateByID(ctx, coupon.ID, bson.M{"$set": bson.M{
		"code":      strings.ToUpper(coupon.Code),
		"startDate": coupon.StartDate,
		"endDate":   coupon.EndDate,
		"discount":  coupon.Discount,
		"updatedAt": time.Now(),
	}})
}

func (r *couponRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.coll.deleteByID(ctx, id)
}
