// Package memory keeps every collection in process memory. It backs STORE=memory for local
// runs and the handler tests; data is lost on restart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/database"
	"storefront-backend/model"
)

type db struct {
	mu         sync.RWMutex
	users      []*model.User
	products   []*model.Product
	brands     []*model.Brand
	categories []*model.Category
	colors     []*model.Color
	reviews    []*model.Review
	coupons    []*model.Coupon
	orders     []*model.Order
}

// New returns an empty store.
func New() *database.Store {
	d := &db{}
	return &database.Store{
		Users:      &users{d},
		Products:   &products{d},
		Brands:     &brands{d},
		Categories: &categories{d},
		Colors:     &colors{d},
		Reviews:    &reviews{d},
		Coupons:    &coupons{d},
		Orders:     &orders{d},
		Tx:         d,
	}
}

// WithTransaction runs fn directly; individual writes are atomic but fn as a whole is not.
func (d *db) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func find[T any](items []*T, match func(*T) bool) (*T, error) {
	for _, it := range items {
		if match(it) {
			cp := *it
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func filter[T any](items []*T, match func(*T) bool) []T {
	out := make([]T, 0)
	for _, it := range items {
		if match == nil || match(it) {
			out = append(out, *it)
		}
	}
	return out
}

func remove[T any](items []*T, match func(*T) bool) []*T {
	out := items[:0]
	for _, it := range items {
		if !match(it) {
			out = append(out, it)
		}
	}
	return out
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func anyContainsFold(values []string, sub string) bool {
	for _, v := range values {
		if containsFold(v, sub) {
			return true
		}
	}
	return false
}

type users struct{ *db }

func (r *users) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range r.db.users {
		if u.Email == email {
			return database.ErrDuplicate
		}
	}
	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.Email = email
	if user.Orders == nil {
		user.Orders = []primitive.ObjectID{}
	}
	user.CreatedAt, user.UpdatedAt = now, now
	cp := *user
	r.db.users = append(r.db.users, &cp)
	return nil
}

func (r *users) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return find(r.db.users, func(u *model.User) bool { return u.ID == id })
}

func (r *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	return find(r.db.users, func(u *model.User) bool { return u.Email == email })
}

func (r *users) UpdateShippingAddress(ctx context.Context, id primitive.ObjectID, address model.ShippingAddress) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.db.users {
		if u.ID == id {
			addr := address
			u.ShippingAddress = &addr
			u.HasShippingAddress = true
			u.UpdatedAt = time.Now()
			cp := *u
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (r *users) PushOrder(ctx context.Context, id, orderID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.db.users {
		if u.ID == id {
			u.Orders = append(append([]primitive.ObjectID{}, u.Orders...), orderID)
			u.UpdatedAt = time.Now()
			return nil
		}
	}
	return database.ErrNotFound
}

type products struct{ *db }

func (r *products) Create(ctx context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.db.products {
		if p.Name == product.Name {
			return database.ErrDuplicate
		}
	}
	now := time.Now()
	product.ID = primitive.NewObjectID()
	if product.Reviews == nil {
		product.Reviews = []primitive.ObjectID{}
	}
	product.CreatedAt, product.UpdatedAt = now, now
	cp := *product
	r.db.products = append(r.db.products, &cp)
	return nil
}

func (r *products) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return find(r.db.products, func(p *model.Product) bool { return p.ID == id })
}

func (r *products) GetByName(ctx context.Context, name string) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return find(r.db.products, func(p *model.Product) bool { return p.Name == name })
}

func matchProduct(f model.ProductFilter) func(*model.Product) bool {
	return func(p *model.Product) bool {
		switch {
		case f.Name != "" && !containsFold(p.Name, f.Name),
			f.Brand != "" && !containsFold(p.Brand, f.Brand),
			f.Category != "" && !containsFold(p.Category, f.Category),
			f.Color != "" && !anyContainsFold(p.Colors, f.Color),
			f.Size != "" && !anyContainsFold(p.Sizes, f.Size),
			f.MinPrice != nil && p.Price < *f.MinPrice,
			f.MaxPrice != nil && p.Price > *f.MaxPrice:
			return false
		}
		return true
	}
}

func (r *products) List(ctx context.Context, f model.ProductFilter, skip, limit int64) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := filter(r.db.products, matchProduct(f))
	if skip < 0 {
		skip = 0
	}
	if skip >= int64(len(all)) {
		return []model.Product{}, nil
	}
	end := int64(len(all))
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return all[skip:end], nil
}

func (r *products) Count(ctx context.Context, f model.ProductFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(filter(r.db.products, matchProduct(f)))), nil
}

func (r *products) Update(ctx context.Context, id primitive.ObjectID, req model.UpdateProductRequest) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.db.products {
		if p.ID != id {
			continue
		}
		if req.Name != nil {
			for _, other := range r.db.products {
				if other.ID != id && other.Name == *req.Name {
					return nil, database.ErrDuplicate
				}
			}
			p.Name = *req.Name
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Brand != nil {
			p.Brand = *req.Brand
		}
		if req.Category != nil {
			p.Category = *req.Category
		}
		if req.Sizes != nil {
			p.Sizes = req.Sizes
		}
		if req.Colors != nil {
			p.Colors = req.Colors
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
		if req.TotalQty != nil {
			p.TotalQty = *req.TotalQty
		}
		p.UpdatedAt = time.Now()
		cp := *p
		return &cp, nil
	}
	return nil, database.ErrNotFound
}

func (r *products) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.db.products = remove(r.db.products, func(p *model.Product) bool { return p.ID == id })
	return nil
}

func (r *products) IncrementSold(ctx context.Context, id primitive.ObjectID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.db.products {
		if p.ID == id {
			p.TotalSold += qty
			return nil
		}
	}
	return database.ErrNotFound
}

func (r *products) PushReview(ctx context.Context, id, reviewID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.db.products {
		if p.ID == id {
			p.Reviews = append(append([]primitive.ObjectID{}, p.Reviews...), reviewID)
			return nil
		}
	}
	return database.ErrNotFound
}

type brands struct{ *db }

func (r *brands) Create(ctx context.Context, brand *model.Brand) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.db.brands {
		if b.Name == brand.Name {
			return database.ErrDuplicate
		}
	}
	now := time.Now()
	brand.ID = primitive.NewObjectID()
	if brand.Products == nil {
		brand.Products = []primitive.ObjectID{}
	}
	brand.CreatedAt, brand.UpdatedAt = now, now
	cp := *brand
	r.db.brands = append(r.db.brands, &cp)
	return nil
}

func (r *brands) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Brand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return find(r.db.brands, func(b *model.Brand) bool { return b.ID == id })
}

func (r *brands) GetByName(ctx context.Context, name string) (*model.Brand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return find(r.db.brands, func(b *model.Brand) bool { return b.Name == name })
}

func (r *brands) List(ctx context.Context) ([]model.Brand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filter(r.db.brands, nil), nil
}

func (r *brands) Rename(ctx context.Context, id primitive.ObjectID, name string) (*model.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.db.brands {
		if b.ID != id && b.Name == name {
			return nil, database.ErrDuplicate
		}
	}
	for _, b := range r.db.brands {
		if b.ID == id {
			b.Name = name
			b.UpdatedAt = time.Now()
			cp := *b
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (r *brands) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.db.brands = remove(r.db.brands, func(b *model.Brand) bool { return b.ID == id })
	return nil
}

func (r *brands) PushProduct(ctx context.Context, id, productID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.db.brands {
		if b.ID == id {
			b.Products = append(append([]primitive.ObjectID{}, b.Products...), productID)
			return nil
		}
	}
	return database.ErrNotFound
}

type categories struct{ *db }

func (r *categories) Create(ctx context.Context, category *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.db.categories {
		if c.Name == category.Name {
			return database.ErrDuplicate
		}
	}
	now := time.Now()
	category.ID = primitive.NewObjectID()
	if category.Products == nil {
		category.Products = []primitive.ObjectID{}
	}
	category.CreatedAt, category.UpdatedAt = now, now
	cp := *category
	r.db.categories = append(r.db.categories, &cp)
	return nil
}

func (r *categories) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return find(r.db.categories, func(c *model.Category) bool { return c.ID == id })
}

func (r *categories) GetByName(ctx context.Context, name string) (*model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return find(r.db.categories, func(c *model.Category) bool { return c.Name == name })
}

func (r *categories) List(ctx context.Context) ([]model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filter(r.db.categories, nil), nil
}

func (r *categories) Rename(ctx context.Context, id primitive.ObjectID, name string) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.db.categories {
		if c.ID != id && c.Name == name {
			return nil, database.ErrDuplicate
		}
	}
	for _, c := range r.db.categories {
		if c.ID == id {
			c.Name = name
			c.UpdatedAt = time.Now()
			cp := *c
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (r *categories) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.db.categories = remove(r.db.categories, func(c *model.Category) bool { return c.ID == id })
	return nil
}

func (r *categories) PushProduct(ctx context.Context, id, productID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.db.categories {
		if c.ID == id {
			c.Products = append(append([]primitive.ObjectID{}, c.Products...), productID)
			return nil
		}
	}
	return database.ErrNotFound
}

type colors struct{ *db }

func (r *colors) Create(ctx context.Context, color *model.Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.db.colors {
		if c.Name == color.Name {
			return database.ErrDuplicate
		}
	}
	now := time.Now()
	color.ID = primitive.NewObjectID()
	color.CreatedAt, color.UpdatedAt = now, now
	cp := *color
	r.db.colors = append(r.db.colors, &cp)
	return nil
}

func (r *colors) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Color, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return find(r.db.colors, func(c *model.Color) bool { return c.ID == id })
}

func (r *colors) GetByName(ctx context.Context, name string) (*model.Color, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return find(r.db.colors, func(c *model.Color) bool { return c.Name == name })
}

func (r *colors) List(ctx context.Context) ([]model.Color, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filter(r.db.colors, nil), nil
}

func (r *colors) Rename(ctx context.Context, id primitive.ObjectID, name string) (*model.Color, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.db.colors {
		if c.ID != id && c.Name == name {
			return nil, database.ErrDuplicate
		}
	}
	for _, c := range r.db.colors {
		if c.ID == id {
			c.Name = name
			c.UpdatedAt = time.Now()
			cp := *c
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (r *colors) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.db.colors = remove(r.db.colors, func(c *model.Color) bool { return c.ID == id })
	return nil
}

type reviews struct{ *db }

func (r *reviews) Create(ctx context.Context, review *model.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rv := range r.db.reviews {
		if rv.Product == review.Product && rv.User == review.User {
			return database.ErrDuplicate
		}
	}
	now := time.Now()
	review.ID = primitive.NewObjectID()
	review.CreatedAt, review.UpdatedAt = now, now
	cp := *review
	r.db.reviews = append(r.db.reviews, &cp)
	return nil
}

func (r *reviews) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return find(r.db.reviews, func(rv *model.Review) bool { return rv.ID == id })
}

func (r *reviews) List(ctx context.Context) ([]model.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filter(r.db.reviews, nil), nil
}

func (r *reviews) ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]model.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filter(r.db.reviews, func(rv *model.Review) bool { return rv.Product == productID }), nil
}

func (r *reviews) ExistsForUser(ctx context.Context, productID, userID primitive.ObjectID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, err := find(r.db.reviews, func(rv *model.Review) bool { return rv.Product == productID && rv.User == userID })
	return err == nil, nil
}

func (r *reviews) Update(ctx context.Context, id primitive.ObjectID, req model.UpdateReviewRequest) (*model.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rv := range r.db.reviews {
		if rv.ID == id {
			if req.Message != nil {
				rv.Message = *req.Message
			}
			if req.Rating != nil {
				rv.Rating = *req.Rating
			}
			rv.UpdatedAt = time.Now()
			cp := *rv
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (r *reviews) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.db.reviews = remove(r.db.reviews, func(rv *model.Review) bool { return rv.ID == id })
	return nil
}

type coupons struct{ *db }

func (r *coupons) Create(ctx context.Context, coupon *model.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	code := strings.ToUpper(coupon.Code)
	for _, c := range r.db.coupons {
		if c.Code == code {
			return database.ErrDuplicate
		}
	}
	now := time.Now()
	coupon.ID = primitive.NewObjectID()
	coupon.Code = code
	coupon.CreatedAt, coupon.UpdatedAt = now, now
	cp := *coupon
	r.db.coupons = append(r.db.coupons, &cp)
	return nil
}

func (r *coupons) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return find(r.db.coupons, func(c *model.Coupon) bool { return c.ID == id })
}

func (r *coupons) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	code = strings.ToUpper(code)
	return find(r.db.coupons, func(c *model.Coupon) bool { return c.Code == code })
}

func (r *coupons) List(ctx context.Context) ([]model.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filter(r.db.coupons, nil), nil
}

func (r *coupons) Replace(ctx context.Context, coupon *model.Coupon) (*model.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code := strings.ToUpper(coupon.Code)
	for _, c := range r.db.coupons {
		if c.ID != coupon.ID && c.Code == code {
			return nil, database.ErrDuplicate
		}
	}
	for _, c := range r.db.coupons {
		if c.ID == coupon.ID {
			c.Code = code
			c.StartDate = coupon.StartDate
			c.EndDate = coupon.EndDate
			c.Discount = coupon.Discount
			c.UpdatedAt = time.Now()
			cp := *c
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (r *coupons) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.db.coupons = remove(r.db.coupons, func(c *model.Coupon) bool { return c.ID == id })
	return nil
}

type orders struct{ *db }

func (r *orders) Create(ctx context.Context, order *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	order.ID = primitive.NewObjectID()
	order.CreatedAt, order.UpdatedAt = now, now
	cp := *order
	r.db.orders = append(r.db.orders, &cp)
	return nil
}

func (r *orders) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return find(r.db.orders, func(o *model.Order) bool { return o.ID == id })
}

func newestFirst(list []model.Order) []model.Order {
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

func (r *orders) List(ctx context.Context) ([]model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return newestFirst(filter(r.db.orders, nil)), nil
}

func (r *orders) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return newestFirst(filter(r.db.orders, func(o *model.Order) bool { return o.User == userID })), nil
}

func (r *orders) UpdateStatus(ctx context.Context, id primitive.ObjectID, status model.OrderStatus, deliveredAt *time.Time) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.db.orders {
		if o.ID == id {
			o.Status = status
			if deliveredAt != nil {
				at := *deliveredAt
				o.DeliveredAt = &at
			}
			o.UpdatedAt = time.Now()
			cp := *o
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (r *orders) ApplyPayment(ctx context.Context, id primitive.ObjectID, payment model.PaymentUpdate) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.db.orders {
		if o.ID == id {
			o.TotalPrice = payment.TotalPrice
			o.Currency = payment.Currency
			o.PaymentMethod = payment.PaymentMethod
			o.PaymentStatus = payment.PaymentStatus
			o.UpdatedAt = time.Now()
			cp := *o
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (r *orders) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.db.orders = remove(r.db.orders, func(o *model.Order) bool { return o.ID == id })
	return nil
}

func (r *orders) Stats(ctx context.Context, since time.Time) (*model.OrderStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := &model.OrderStats{}
	for i, o := range r.db.orders {
		if i == 0 || o.TotalPrice < stats.MinimumSale {
			stats.MinimumSale = o.TotalPrice
		}
		if i == 0 || o.TotalPrice > stats.MaximumSale {
			stats.MaximumSale = o.TotalPrice
		}
		stats.TotalSales += o.TotalPrice
		if !o.CreatedAt.Before(since) {
			stats.SaleToday += o.TotalPrice
		}
	}
	if n := len(r.db.orders); n > 0 {
		stats.AverageSale = stats.TotalSales / float64(n)
	}
	return stats, nil
}
