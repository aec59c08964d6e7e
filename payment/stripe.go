package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"storefront-backend/model"
)

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
	Currency      string
}

type StripeGateway struct {
	api *client.API
	cfg StripeConfig
}

func NewStripeGateway(cfg StripeConfig) *StripeGateway {
	if cfg.Currency == "" {
		cfg.Currency = string(stripe.CurrencyUSD)
	}
	return &StripeGateway{api: client.New(cfg.SecretKey, nil), cfg: cfg}
}

// CheckoutParams builds the session request mirroring the order's line items.
func (g *StripeGateway) CheckoutParams(order *model.Order) *stripe.CheckoutSessionParams {
	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.Description != "" {
			product.Description = stripe.String(item.Description)
		}
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(g.cfg.Currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(ToMinorUnits(item.Price)),
			},
			Quantity: stripe.Int64(int64(item.Qty)),
		})
	}
	params := &stripe.CheckoutSessionParams{
		LineItems:  items,
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(g.cfg.SuccessURL),
		CancelURL:  stripe.String(g.cfg.CancelURL),
	}
	params.AddMetadata("orderId", order.ID.Hex())
	return params
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, order *model.Order) (string, error) {
	params := g.CheckoutParams(order)
	params.Context = ctx
	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	logrus.WithFields(logrus.Fields{"order": order.ID.Hex(), "session": session.ID}).Info("checkout session created")
	return session.URL, nil
}

func (g *StripeGateway) ParseEvent(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.cfg.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	result := &Event{ID: event.ID, Type: string(event.Type)}
	if result.Type != EventCheckoutCompleted {
		return result, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}
	result.OrderID = session.Metadata["orderId"]

	method := model.NotSpecified
	if len(session.PaymentMethodTypes) > 0 {
		method = session.PaymentMethodTypes[0]
	}
	result.Payment = &model.PaymentUpdate{
		TotalPrice:    FromMinorUnits(session.AmountTotal),
		Currency:      string(session.Currency),
		PaymentMethod: method,
		PaymentStatus: string(session.PaymentStatus),
	}
	return result, nil
}
