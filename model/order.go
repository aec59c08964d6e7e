package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
)

const (
	PaymentStatusNotPaid = "Not paid"
	NotSpecified         = "Not specified"
)

type OrderItem struct {
	ProductID   primitive.ObjectID `bson:"productId" json:"_id" binding:"required"`
	Name        string             `bson:"name" json:"name" binding:"required"`
	Description string             `bson:"description" json:"description"`
	Qty         int                `bson:"qty" json:"qty" binding:"required,gt=0"`
	Price       float64            `bson:"price" json:"price" binding:"gte=0"`
}

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User            primitive.ObjectID `bson:"user" json:"user"`
	OrderItems      []OrderItem        `bson:"orderItems" json:"orderItems"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	OrderNumber     string             `bson:"orderNumber" json:"orderNumber"`
	PaymentStatus   string             `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	TotalPrice      float64            `bson:"totalPrice" json:"totalPrice"`
	Currency        string             `bson:"currency" json:"currency"`
	Status          OrderStatus        `bson:"status" json:"status"`
	DeliveredAt     *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PaymentUpdate is what a confirmed checkout writes onto an order.
type PaymentUpdate struct {
	TotalPrice    float64
	Currency      string
	PaymentMethod string
	PaymentStatus string
}

type OrderStats struct {
	MinimumSale float64 `bson:"minimumSale" json:"minimumSale"`
	MaximumSale float64 `bson:"maximumSale" json:"maximumSale"`
	AverageSale float64 `bson:"averageSale" json:"averageSale"`
	TotalSales  float64 `bson:"totalSales" json:"totalSales"`
	SaleToday   float64 `bson:"-" json:"saleToday"`
}

type CreateOrderRequest struct {
	OrderItems      []OrderItem      `json:"orderItems" binding:"dive"`
	ShippingAddress *ShippingAddress `json:"shippingAddress" binding:"omitempty"`
	TotalPrice      float64          `json:"totalPrice" binding:"gte=0"`
}

type UpdateOrderRequest struct {
	Status OrderStatus `json:"status" binding:"required,oneof=pending processing shipped delivered"`
}
