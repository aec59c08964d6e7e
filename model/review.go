package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Message   string             `bson:"message" json:"message"`
	Rating    int                `bson:"rating" json:"rating"`
	Product   primitive.ObjectID `bson:"product" json:"product"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type ReviewRequest struct {
	Message string `json:"message" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
}

type UpdateReviewRequest struct {
	Message *string `json:"message" binding:"omitempty,min=1"`
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
}
