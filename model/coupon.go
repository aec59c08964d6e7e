package model

import (
	"errors"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Coupon struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code      string             `bson:"code" json:"code"`
	StartDate time.Time          `bson:"startDate" json:"startDate"`
	EndDate   time.Time          `bson:"endDate" json:"endDate"`
	Discount  float64            `bson:"discount" json:"discount"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsExpired reports whether the coupon's end date has passed.
func (c Coupon) IsExpired(now time.Time) bool {
	return c.EndDate.Before(now)
}

func (c Coupon) DaysLeft(now time.Time) int {
	if c.IsExpired(now) {
		return 0
	}
	return int(math.Ceil(c.EndDate.Sub(now).Hours() / 24))
}

// ValidateWindow checks the code, the discount range and that the end date does not precede the start.
func (c Coupon) ValidateWindow() error {
	switch {
	case strings.TrimSpace(c.Code) == "":
		return errors.New("coupon code cannot be empty")
	case c.Discount <= 0 || c.Discount > 100:
		return errors.New("discount must be greater than 0 and at most 100")
	case c.EndDate.Before(c.StartDate):
		return errors.New("end date cannot be less than the start date")
	}
	return nil
}

// Validate checks a new coupon: its window, and that neither date lies in the past.
func (c Coupon) Validate(now time.Time) error {
	if err := c.ValidateWindow(); err != nil {
		return err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch {
	case c.StartDate.Before(today):
		return errors.New("start date cannot be less than today")
	case c.EndDate.Before(now):
		return errors.New("end date cannot be less than today")
	}
	return nil
}

type CouponView struct {
	Coupon
	IsExpired bool `json:"isExpired"`
	DaysLeft  int  `json:"daysLeft"`
}

func NewCouponView(c Coupon, now time.Time) CouponView {
	return CouponView{Coupon: c, IsExpired: c.IsExpired(now), DaysLeft: c.DaysLeft(now)}
}

type CouponRequest struct {
	Code      string    `json:"code" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
	Discount  float64   `json:"discount" binding:"required"`
}

type UpdateCouponRequest struct {
	Code      *string    `json:"code" binding:"omitempty,min=1"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Discount  *float64   `json:"discount"`
}
