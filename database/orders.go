package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront-backend/model"
)

type orderRepo struct {
	coll collection[model.Order]
}

func (r *orderRepo) Create(ctx context.Context, order *model.Order) error {
	now := time.Now()
	order.ID = primitive.NewObjectID()
	order.CreatedAt, order.UpdatedAt = now, now
	return r.coll.insert(ctx, order)
}

func (r *orderRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	return r.coll.findByID(ctx, id)
}

func (r *orderRepo) List(ctx context.Context) ([]model.Order, error) {
	return r.coll.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *orderRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error) {
	return r.coll.find(ctx, bson.M{"user": userID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status model.OrderStatus, deliveredAt *time.Time) (*model.Order, error) {
	set := bson.M{"status": status, "updatedAt": time.Now()}
	if deliveredAt != nil {
		set["deliveredAt"] = *deliveredAt
	}
	return r.coll.updateByID(ctx, id, bson.M{"$set": set})
}

func (r *orderRepo) ApplyPayment(ctx context.Context, id primitive.ObjectID, payment model.PaymentUpdate) (*model.Order, error) {
	return r.coll.updateByID(ctx, id, bson.M{"$set": bson.M{
		"totalPrice":    payment.TotalPrice,
		"currency":      payment.Currency,
		"paymentMethod": payment.PaymentMethod,
		"paymentStatus": payment.PaymentStatus,
		"updatedAt":     time.Now(),
	}})
}

func (r *orderRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.coll.deleteByID(ctx, id)
}

func (r *orderRepo) Stats(ctx context.Context, since time.Time) (*model.OrderStats, error) {
	overall := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "minimumSale", Value: bson.D{{Key: "$min", Value: "$totalPrice"}}},
			{Key: "maximumSale", Value: bson.D{{Key: "$max", Value: "$totalPrice"}}},
			{Key: "averageSale", Value: bson.D{{Key: "$avg", Value: "$totalPrice"}}},
			{Key: "totalSales", Value: bson.D{{Key: "$sum", Value: "$totalPrice"}}},
		}}},
	}
	var stats []model.OrderStats
	if err := r.aggregate(ctx, overall, &stats); err != nil {
		return nil, err
	}

	today := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: since}}}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalSales", Value: bson.D{{Key: "$sum", Value: "$totalPrice"}}},
		}}},
	}
	var todays []model.OrderStats
	if err := r.aggregate(ctx, today, &todays); err != nil {
		return nil, err
	}

	result := &model.OrderStats{}
	if len(stats) > 0 {
		*result = stats[0]
	}
	if len(todays) > 0 {
		result.SaleToday = todays[0].TotalSales
	}
	return result, nil
}

func (r *orderRepo) aggregate(ctx context.Context, pipeline mongo.Pipeline, out interface{}) error {
	cur, err := r.coll.c.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}
