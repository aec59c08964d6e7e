package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront-backend/database"
	"storefront-backend/payment"
)

// PaymentWebhook applies completed checkouts to their orders. Events that verify but cannot be
// applied are logged and acknowledged so the provider stops redelivering them.
func (h *Handler) PaymentWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.String(http.StatusBadRequest, "Webhook Error: %s", err.Error())
		return
	}

	event, err := h.Gateway.ParseEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		logrus.Warnf("PaymentWebhook: rejected event err = %v", err)
		c.String(http.StatusBadRequest, "Webhook Error: %s", err.Error())
		return
	}
	log := logrus.WithFields(logrus.Fields{"event": event.ID, "type": event.Type})
	if event.Payment == nil {
		log.Debug("ignoring webhook event")
		c.Status(http.StatusOK)
		return
	}

	orderID, err := payment.ParseOrderID(event.OrderID)
	if err != nil {
		log.WithField("orderId", event.OrderID).Warn("webhook event carries a malformed order id")
		c.Status(http.StatusOK)
		return
	}
	order, err := h.Store.Orders.ApplyPayment(c.Request.Context(), orderID, *event.Payment)
	if errors.Is(err, database.ErrNotFound) {
		log.WithField("orderId", orderID.Hex()).Warn("webhook event names an unknown order")
		c.Status(http.StatusOK)
		return
	}
	if err != nil {
		fail(c, storeError(err, "order"))
		return
	}
	log.WithFields(logrus.Fields{"order": order.ID.Hex(), "paymentStatus": order.PaymentStatus}).Info("order payment updated")
	c.Status(http.StatusOK)
}
