package database

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront-backend/model"
)

const (
	UsersCollection      = "users"
	ProductsCollection   = "products"
	BrandsCollection     = "brands"
	CategoriesCollection = "categories"
	ColorsCollection     = "colors"
	ReviewsCollection    = "reviews"
	CouponsCollection    = "coupons"
	OrdersCollection     = "orders"

	connectTimeout = 10 * time.Second
)

type DB struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
}

// Connect dials the cluster at uri and pings it before returning.
func Connect(ctx context.Context, uri, name string, transactions bool) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	logrus.WithField("database", name).Info("connected to mongodb")
	return &DB{client: client, db: client.Database(name), transactions: transactions}, nil
}

func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique indexes backing the natural keys of each collection.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	unique := map[string]bson.D{
		UsersCollection:      {{Key: "email", Value: 1}},
		ProductsCollection:   {{Key: "name", Value: 1}},
		BrandsCollection:     {{Key: "name", Value: 1}},
		CategoriesCollection: {{Key: "name", Value: 1}},
		ColorsCollection:     {{Key: "name", Value: 1}},
		CouponsCollection:    {{Key: "code", Value: 1}},
		ReviewsCollection:    {{Key: "user", Value: 1}, {Key: "product", Value: 1}},
	}
	var result error
	for name, keys := range unique {
		_, err := d.db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    keys,
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("index on %s: %w", name, err))
		}
	}
	_, err := d.db.Collection(OrdersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		result = multierror.Append(result, fmt.Errorf("index on %s: %w", OrdersCollection, err))
	}
	return result
}

func (d *DB) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !d.transactions {
		return fn(ctx)
	}
	session, err := d.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start a session: %w", err)
	}
	defer session.EndSession(context.Background())

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// Store exposes the repositories backed by this database.
func (d *DB) Store() *Store {
	return &Store{
		Users:      &userRepo{coll: newCollection[model.User](d.db, UsersCollection)},
		Products:   &productRepo{coll: newCollection[model.Product](d.db, ProductsCollection)},
		Brands:     &brandRepo{coll: newCollection[model.Brand](d.db, BrandsCollection)},
		Categories: &categoryRepo{coll: newCollection[model.Category](d.db, CategoriesCollection)},
		Colors:     &colorRepo{coll: newCollection[model.Color](d.db, ColorsCollection)},
		Reviews:    &reviewRepo{coll: newCollection[model.Review](d.db, ReviewsCollection)},
		Coupons:    &couponRepo{coll: newCollection[model.Coupon](d.db, CouponsCollection)},
		Orders:     &orderRepo{coll: newCollection[model.Order](d.db, OrdersCollection)},
		Tx:         d,
	}
}
