package database

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collection is a typed view over a mongo collection holding documents of type T.
type collection[T any] struct {
	c *mongo.Collection
}

func newCollection[T any](db *mongo.Database, name string) collection[T] {
	return collection[T]{c: db.Collection(name)}
}

func (c collection[T]) insert(ctx context.Context, doc *T) error {
	_, err := c.c.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (c collection[T]) findOne(ctx context.Context, filter interface{}) (*T, error) {
	var doc T
	err := c.c.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c collection[T]) findByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return c.findOne(ctx, bson.M{"_id": id})
}

func (c collection[T]) find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cur, err := c.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	docs := make([]T, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// updateByID applies update and returns the document as it is after the write.
func (c collection[T]) updateByID(ctx context.Context, id primitive.ObjectID, update interface{}) (*T, error) {
	var doc T
	err := c.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// modifyByID applies update and reports ErrNotFound when nothing matched.
func (c collection[T]) modifyByID(ctx context.Context, id primitive.ObjectID, update interface{}) error {
	res, err := c.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c collection[T]) deleteByID(ctx context.Context, id primitive.ObjectID) error {
	_, err := c.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// containsFold matches values containing s, ignoring case.
func containsFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}
