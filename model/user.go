package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ShippingAddress struct {
	FirstName  string `bson:"firstName" json:"firstName" binding:"required"`
	LastName   string `bson:"lastName" json:"lastName" binding:"required"`
	Address    string `bson:"address" json:"address" binding:"required"`
	City       string `bson:"city" json:"city" binding:"required"`
	PostalCode string `bson:"postalCode" json:"postalCode" binding:"required"`
	Province   string `bson:"province" json:"province" binding:"required"`
	Country    string `bson:"country" json:"country" binding:"required"`
	Phone      string `bson:"phone" json:"phone" binding:"required"`
}

type User struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Fullname           string               `bson:"fullname" json:"fullname"`
	Email              string               `bson:"email" json:"email"`
	Password           string               `bson:"password" json:"-"`
	IsAdmin            bool                 `bson:"isAdmin" json:"isAdmin"`
	HasShippingAddress bool                 `bson:"hasShippingAddress" json:"hasShippingAddress"`
	ShippingAddress    *ShippingAddress     `bson:"shippingAddress,omitempty" json:"shippingAddress,omitempty"`
	Orders             []primitive.ObjectID `bson:"orders" json:"orders"`
	CreatedAt          time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// UserProfile is a user with its orders resolved.
type UserProfile struct {
	User
	Orders []Order `json:"orders"`
}

type RegisterRequest struct {
	Fullname string `json:"fullname" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
