package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"storefront-backend/apperror"
	"storefront-backend/database"
	"storefront-backend/model"
	"storefront-backend/utils"
)

// applyDiscount takes percent off total, rounded to cents.
func applyDiscount(total, percent float64) float64 {
	hundred := decimal.NewFromInt(100)
	off := decimal.NewFromFloat(total).Mul(decimal.NewFromFloat(percent)).Div(hundred)
	f, _ := decimal.NewFromFloat(total).Sub(off).Round(2).Float64()
	return f
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CreateOrder persists the order with the coupon applied and answers with the checkout URL.
// The coupon code comes from the "coupon" query parameter.
func (h *Handler) CreateOrder(c *gin.Context) {
	var body model.CreateOrderRequest
	if !bindJSON(c, &body) {
		return
	}
	ctx := c.Request.Context()
	now := h.now()

	code := strings.TrimSpace(c.Query("coupon"))
	if code == "" {
		fail(c, apperror.Validation("Coupon does not exists"))
		return
	}
	coupon, err := h.Store.Coupons.GetByCode(ctx, code)
	if errors.Is(err, database.ErrNotFound) {
		fail(c, apperror.Validation("Coupon does not exists"))
		return
	}
	if err != nil {
		fail(c, storeError(err, "coupon"))
		return
	}
	if coupon.IsExpired(now) {
		fail(c, apperror.Validation("Coupon has expired"))
		return
	}

	user, err := h.Store.Users.GetByID(ctx, principal(c).UserID)
	if err != nil {
		fail(c, storeError(err, "user"))
		return
	}
	if !user.HasShippingAddress || user.ShippingAddress == nil {
		fail(c, apperror.Validation("Please provide shipping address"))
		return
	}
	if len(body.OrderItems) == 0 {
		fail(c, apperror.Validation("No order items"))
		return
	}

	shipping := *user.ShippingAddress
	if body.ShippingAddress != nil {
		shipping = *body.ShippingAddress
	}
	order := &model.Order{
		User:            user.ID,
		OrderItems:      body.OrderItems,
		ShippingAddress: shipping,
		OrderNumber:     utils.NewOrderNumber(),
		PaymentStatus:   model.PaymentStatusNotPaid,
		PaymentMethod:   model.NotSpecified,
		TotalPrice:      applyDiscount(body.TotalPrice, coupon.Discount),
		Currency:        model.NotSpecified,
		Status:          model.OrderStatusPending,
	}

	err = h.Store.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		return h.recordOrder(ctx, order)
	})
	if err != nil {
		fail(c, storeError(err, "order"))
		return
	}
	logrus.WithFields(logrus.Fields{"order": order.ID.Hex(), "user": user.ID.Hex()}).Info("order created")

	url, err := h.Gateway.CreateCheckoutSession(ctx, order)
	if err != nil {
		fail(c, apperror.Upstream(err, "failed to create checkout session"))
		return
	}
	c.JSON(200, gin.H{"url": url})
}

// recordOrder writes the order, bumps the sold counters and links the order to its user.
// When a step fails the writes made so far are reverted before the error is returned.
func (h *Handler) recordOrder(ctx context.Context, order *model.Order) error {
	if err := h.Store.Orders.Create(ctx, order); err != nil {
		return err
	}

	var sold []model.OrderItem
	revert := func(cause error) error {
		var undo *multierror.Error
		for _, item := range sold {
			if err := h.Store.Products.IncrementSold(ctx, item.ProductID, -item.Qty); err != nil {
				undo = multierror.Append(undo, fmt.Errorf("revert sold count of %s: %w", item.ProductID.Hex(), err))
			}
		}
		if err := h.Store.Orders.Delete(ctx, order.ID); err != nil {
			undo = multierror.Append(undo, fmt.Errorf("remove order %s: %w", order.ID.Hex(), err))
		}
		if undo == nil {
			return cause
		}
		logrus.WithField("order", order.ID.Hex()).Errorf("recordOrder: revert incomplete err = %v", undo)
		return multierror.Append(cause, undo.Errors...)
	}

	for _, item := range order.OrderItems {
		err := h.Store.Products.IncrementSold(ctx, item.ProductID, item.Qty)
		if errors.Is(err, database.ErrNotFound) {
			logrus.WithField("product", item.ProductID.Hex()).Warn("order item names an unknown product, sold count not updated")
			continue
		}
		if err != nil {
			return revert(err)
		}
		sold = append(sold, item)
	}
	if err := h.Store.Users.PushOrder(ctx, order.User, order.ID); err != nil {
		return revert(err)
	}
	return nil
}

func (h *Handler) ListOrders(c *gin.Context) {
	ctx := c.Request.Context()
	p := principal(c)

	var (
		orders []model.Order
		err    error
	)
	if p.IsAdmin {
		orders, err = h.Store.Orders.List(ctx)
	} else {
		orders, err = h.Store.Orders.ListByUser(ctx, p.UserID)
	}
	if err != nil {
		fail(c, storeError(err, "orders"))
		return
	}
	ok(c, "All orders", "orders", orders)
}

// GetOrder hides other users' orders from non-admins behind NotFound.
func (h *Handler) GetOrder(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	order, err := h.Store.Orders.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, storeError(err, "order"))
		return
	}
	if p := principal(c); !p.IsAdmin && order.User != p.UserID {
		fail(c, apperror.NotFound("order not found"))
		return
	}
	ok(c, "Single order", "order", order)
}

func (h *Handler) UpdateOrder(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var body model.UpdateOrderRequest
	if !bindJSON(c, &body) {
		return
	}
	var deliveredAt *time.Time
	if body.Status == model.OrderStatusDelivered {
		now := h.now()
		deliveredAt = &now
	}
	order, err := h.Store.Orders.UpdateStatus(c.Request.Context(), id, body.Status, deliveredAt)
	if err != nil {
		fail(c, storeError(err, "order"))
		return
	}
	ok(c, "Order updated", "updatedOrder", order)
}

func (h *Handler) OrderStats(c *gin.Context) {
	stats, err := h.Store.Orders.Stats(c.Request.Context(), startOfDay(h.now()))
	if err != nil {
		fail(c, storeError(err, "orders"))
		return
	}
	ok(c, "Sum of orders", "orders", stats)
}
