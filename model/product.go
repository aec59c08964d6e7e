package model

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ProductSizes = []string{"S", "M", "L", "XL", "XXL"}

type Product struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description" json:"description"`
	Brand       string               `bson:"brand" json:"brand"`
	Category    string               `bson:"category" json:"category"`
	Sizes       []string             `bson:"sizes" json:"sizes"`
	Colors      []string             `bson:"colors" json:"colors"`
	User        primitive.ObjectID   `bson:"user" json:"user"`
	Images      []string             `bson:"images" json:"images"`
	Reviews     []primitive.ObjectID `bson:"reviews" json:"reviews"`
	Price       float64              `bson:"price" json:"price"`
	TotalQty    int                  `bson:"totalQty" json:"totalQty"`
	TotalSold   int                  `bson:"totalSold" json:"totalSold"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func (p Product) QtyLeft() int {
	return p.TotalQty - p.TotalSold
}

// ProductSummary is the list representation of a product.
type ProductSummary struct {
	Product
	QtyLeft      int `json:"qtyLeft"`
	TotalReviews int `json:"totalReviews"`
}

func NewProductSummary(p Product) ProductSummary {
	return ProductSummary{Product: p, QtyLeft: p.QtyLeft(), TotalReviews: len(p.Reviews)}
}

// ProductDetail is a product with its reviews resolved.
type ProductDetail struct {
	ProductSummary
	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"averageRating"`
}

func NewProductDetail(p Product, reviews []Review) ProductDetail {
	if reviews == nil {
		reviews = []Review{}
	}
	return ProductDetail{
		ProductSummary: NewProductSummary(p),
		Reviews:        reviews,
		AverageRating:  AverageRating(reviews),
	}
}

// AverageRating rounds to one decimal place; zero when there are no reviews.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10
}

type CreateProductRequest struct {
	Name        string   `form:"name" json:"name" binding:"required"`
	Description string   `form:"description" json:"description" binding:"required"`
	Brand       string   `form:"brand" json:"brand" binding:"required"`
	Category    string   `form:"category" json:"category" binding:"required"`
	Sizes       []string `form:"sizes" json:"sizes" binding:"required,min=1,dive,oneof=S M L XL XXL"`
	Colors      []string `form:"colors" json:"colors" binding:"required,min=1"`
	Price       float64  `form:"price" json:"price" binding:"required,gt=0"`
	TotalQty    *int     `form:"totalQty" json:"totalQty" binding:"required,gte=0"`
}

// UpdateProductRequest merges only the fields that are present.
type UpdateProductRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1"`
	Description *string  `json:"description"`
	Brand       *string  `json:"brand"`
	Category    *string  `json:"category"`
	Sizes       []string `json:"sizes" binding:"omitempty,dive,oneof=S M L XL XXL"`
	Colors      []string `json:"colors"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
	TotalQty    *int     `json:"totalQty" binding:"omitempty,gte=0"`
}

// ProductFilter narrows a product listing. Empty strings and nil bounds match everything.
type ProductFilter struct {
	Name     string
	Brand    string
	Category string
	Color    string
	Size     string
	MinPrice *float64
	MaxPrice *float64
}
