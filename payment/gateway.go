package payment

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/model"
)

// EventCheckoutCompleted is the only event type that changes an order.
const EventCheckoutCompleted = "checkout.session.completed"

var ErrInvalidSignature = errors.New("webhook signature verification failed")

// Gateway is the payment provider the order workflow hands customers to.
type Gateway interface {
	// CreateCheckoutSession returns the URL the customer pays the order at.
	CreateCheckoutSession(ctx context.Context, order *model.Order) (string, error)
	// ParseEvent verifies payload against signature and decodes it.
	ParseEvent(payload []byte, signature string) (*Event, error)
}

// Event is a verified gateway callback. Payment is set only for completed checkouts.
type Event struct {
	ID      string
	Type    string
	OrderID string
	Payment *model.PaymentUpdate
}

// ParseOrderID accepts a plain hex id or one wrapped in JSON quotes.
func ParseOrderID(raw string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(strings.Trim(strings.TrimSpace(raw), `"`))
}

// ToMinorUnits converts an amount to cents, rounding half away from zero.
func ToMinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FromMinorUnits converts cents back to a currency amount.
func FromMinorUnits(amount int64) float64 {
	f, _ := decimal.New(amount, -2).Float64()
	return f
}
