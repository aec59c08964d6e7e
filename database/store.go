package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateShippingAddress(ctx context.Context, id primitive.ObjectID, address model.ShippingAddress) (*model.User, error)
	PushOrder(ctx context.Context, id, orderID primitive.ObjectID) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
	GetByName(ctx context.Context, name string) (*model.Product, error)
	List(ctx context.Context, filter model.ProductFilter, skip, limit int64) ([]model.Product, error)
	Count(ctx context.Context, filter model.ProductFilter) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, req model.UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// IncrementSold returns ErrNotFound when no product has the id.
	IncrementSold(ctx context.Context, id primitive.ObjectID, qty int) error
	PushReview(ctx context.Context, id, reviewID primitive.ObjectID) error
}

type BrandRepository interface {
	Create(ctx context.Context, brand *model.Brand) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Brand, error)
	GetByName(ctx context.Context, name string) (*model.Brand, error)
	List(ctx context.Context) ([]model.Brand, error)
	Rename(ctx context.Context, id primitive.ObjectID, name string) (*model.Brand, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	PushProduct(ctx context.Context, id, productID primitive.ObjectID) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Category, error)
	GetByName(ctx context.Context, name string) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Rename(ctx context.Context, id primitive.ObjectID, name string) (*model.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	PushProduct(ctx context.Context, id, productID primitive.ObjectID) error
}

type ColorRepository interface {
	Create(ctx context.Context, color *model.Color) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Color, error)
	GetByName(ctx context.Context, name string) (*model.Color, error)
	List(ctx context.Context) ([]model.Color, error)
	Rename(ctx context.Context, id primitive.ObjectID, name string) (*model.Color, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Review, error)
	List(ctx context.Context) ([]model.Review, error)
	ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]model.Review, error)
	ExistsForUser(ctx context.Context, productID, userID primitive.ObjectID) (bool, error)
	Update(ctx context.Context, id primitive.ObjectID, req model.UpdateReviewRequest) (*model.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type CouponRepository interface {
	Create(ctx context.Context, coupon *model.Coupon) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Coupon, error)
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	List(ctx context.Context) ([]model.Coupon, error)
	// Replace overwrites code, dates and discount of the stored coupon.
	Replace(ctx context.Context, coupon *model.Coupon) (*model.Coupon, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error)
	List(ctx context.Context) ([]model.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status model.OrderStatus, deliveredAt *time.Time) (*model.Order, error)
	ApplyPayment(ctx context.Context, id primitive.ObjectID, payment model.PaymentUpdate) (*model.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// Stats aggregates totals over every order; SaleToday sums orders created at or after since.
	Stats(ctx context.Context, since time.Time) (*model.OrderStats, error)
}

// Transactor runs fn so that the writes it performs through ctx commit together when the
// backing store supports it. Without support, writes already made stay in place if fn fails.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Store struct {
	Users      UserRepository
	Products   ProductRepository
	Brands     BrandRepository
	Categories CategoryRepository
	Colors     ColorRepository
	Reviews    ReviewRepository
	Coupons    CouponRepository
	Orders     OrderRepository
	Tx         Transactor
}
