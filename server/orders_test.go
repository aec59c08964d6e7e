package server

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/database"
	"storefront-backend/model"
)

type orderFixture struct {
	e         *testEnv
	shopper   *model.User
	token     string
	admin     string
	productID primitive.ObjectID
}

func newOrderFixture(t *testing.T) *orderFixture {
	e := newTestEnv(t)
	ctx := context.Background()
	_, admin := e.user(true)
	shopper, token := e.user(false)
	_, err := e.store.Users.UpdateShippingAddress(ctx, shopper.ID, testAddress())
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, e.store.Coupons.Create(ctx, &model.Coupon{
		Code: "SALE10", StartDate: now.Add(-time.Hour), EndDate: now.Add(24 * time.Hour), Discount: 10,
	}))
	require.NoError(t, e.store.Coupons.Create(ctx, &model.Coupon{
		Code: "OLD", StartDate: now.Add(-72 * time.Hour), EndDate: now.Add(-24 * time.Hour), Discount: 50,
	}))

	e.seedCatalog()
	productID, err := primitive.ObjectIDFromHex(e.createProduct(admin, "Air Max", "50"))
	require.NoError(t, err)
	return &orderFixture{e: e, shopper: shopper, token: token, admin: admin, productID: productID}
}

func (f *orderFixture) orderBody(items ...model.OrderItem) map[string]interface{} {
	if items == nil {
		items = []model.OrderItem{{ProductID: f.productID, Name: "Air Max", Qty: 2, Price: 50}}
	}
	return map[string]interface{}{"orderItems": items, "totalPrice": 100}
}

// placeOrder creates an order with the SALE10 coupon and returns the stored order.
func (f *orderFixture) placeOrder(t *testing.T, token string) *model.Order {
	t.Helper()
	w := f.e.do(http.MethodPost, "/api/v1/orders?coupon=sale10", token, f.orderBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	url, _ := decode(t, w)["url"].(string)
	id, err := primitive.ObjectIDFromHex(strings.TrimPrefix(url, "https://checkout.test/pay/"))
	require.NoError(t, err)
	order, err := f.e.store.Orders.GetByID(context.Background(), id)
	require.NoError(t, err)
	return order
}

func TestCreateOrderAppliesCoupon(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.placeOrder(t, f.token)
	assert.Equal(t, 90.0, order.TotalPrice)
	assert.Equal(t, f.shopper.ID, order.User)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, model.PaymentStatusNotPaid, order.PaymentStatus)
	assert.Equal(t, model.NotSpecified, order.PaymentMethod)
	assert.Equal(t, model.NotSpecified, order.Currency)
	assert.Equal(t, "London", order.ShippingAddress.City)
	assert.Regexp(t, `^[A-Z0-9]{5}-\d{5}$`, order.OrderNumber)

	product, err := f.e.store.Products.GetByID(ctx, f.productID)
	require.NoError(t, err)
	assert.Equal(t, 2, product.TotalSold)

	user, err := f.e.store.Users.GetByID(ctx, f.shopper.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{order.ID}, user.Orders)

	require.Len(t, f.e.gateway.sessions, 1)
	assert.Equal(t, order.ID, f.e.gateway.sessions[0].ID)
}

func TestCreateOrderRejections(t *testing.T) {
	f := newOrderFixture(t)
	_, noAddress := f.e.user(false)

	cases := []struct {
		name    string
		path    string
		token   string
		body    map[string]interface{}
		message string
	}{
		{"missing coupon", "/api/v1/orders", f.token, f.orderBody(), "Coupon does not exists"},
		{"unknown coupon", "/api/v1/orders?coupon=NOPE", f.token, f.orderBody(), "Coupon does not exists"},
		{"expired coupon", "/api/v1/orders?coupon=old", f.token, f.orderBody(), "Coupon has expired"},
		{"no shipping address", "/api/v1/orders?coupon=SALE10", noAddress, f.orderBody(), "Please provide shipping address"},
		{"empty items", "/api/v1/orders?coupon=SALE10", f.token, f.orderBody([]model.OrderItem{}...), "No order items"},
		{"empty items and bad coupon", "/api/v1/orders?coupon=NOPE", f.token, f.orderBody([]model.OrderItem{}...), ""},
		{"zero quantity", "/api/v1/orders?coupon=SALE10", f.token,
			f.orderBody(model.OrderItem{ProductID: f.productID, Name: "Air Max", Qty: 0, Price: 50}), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := f.e.do(http.MethodPost, tc.path, tc.token, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			if tc.message != "" {
				assert.Equal(t, tc.message, decode(t, w)["message"])
			}
		})
	}

	orders, err := f.e.store.Orders.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, f.e.gateway.sessions)
}

func TestCreateOrderSkipsUnknownProducts(t *testing.T) {
	f := newOrderFixture(t)
	ghost := model.OrderItem{ProductID: primitive.NewObjectID(), Name: "Ghost", Qty: 1, Price: 10}
	known := model.OrderItem{ProductID: f.productID, Name: "Air Max", Qty: 3, Price: 50}

	w := f.e.do(http.MethodPost, "/api/v1/orders?coupon=SALE10", f.token, f.orderBody(ghost, known))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	product, err := f.e.store.Products.GetByID(context.Background(), f.productID)
	require.NoError(t, err)
	assert.Equal(t, 3, product.TotalSold)
}

func TestCreateOrderUsesRequestAddress(t *testing.T) {
	f := newOrderFixture(t)
	body := f.orderBody()
	address := testAddress()
	address.City = "Manchester"
	body["shippingAddress"] = address

	w := f.e.do(http.MethodPost, "/api/v1/orders?coupon=SALE10", f.token, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, f.e.gateway.sessions, 1)
	assert.Equal(t, "Manchester", f.e.gateway.sessions[0].ShippingAddress.City)
}

func TestCreateOrderCheckoutFailure(t *testing.T) {
	f := newOrderFixture(t)
	f.e.gateway.err = errors.New("stripe unavailable")

	w := f.e.do(http.MethodPost, "/api/v1/orders?coupon=SALE10", f.token, f.orderBody())
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "error", decode(t, w)["status"])

	orders, err := f.e.store.Orders.ListByUser(context.Background(), f.shopper.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func signPayload(payload []byte, secret string) string {
	at := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", at, payload)
	return fmt.Sprintf("t=%d,v1=%s", at, hex.EncodeToString(mac.Sum(nil)))
}

func checkoutCompleted(orderID string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_test",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_test",
			"object": "checkout.session",
			"metadata": {"orderId": %q},
			"payment_status": "paid",
			"payment_method_types": ["card"],
			"amount_total": 9000,
			"currency": "usd"
		}}
	}`, orderID))
}

func (e *testEnv) webhook(payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	return e.serve(req, "")
}

func TestWebhookAppliesPayment(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t, f.token)

	payload := checkoutCompleted(order.ID.Hex())
	w := f.e.webhook(payload, signPayload(payload, testWebhookSecret))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, w.Body.String())

	paid, err := f.e.store.Orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.PaymentStatus)
	assert.Equal(t, "card", paid.PaymentMethod)
	assert.Equal(t, "usd", paid.Currency)
	assert.Equal(t, 90.0, paid.TotalPrice)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t, f.token)
	payload := checkoutCompleted(order.ID.Hex())

	for _, signature := range []string{"", "t=1,v1=deadbeef", signPayload(payload, "whsec_other")} {
		w := f.e.webhook(payload, signature)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.True(t, strings.HasPrefix(w.Body.String(), "Webhook Error: "), w.Body.String())
	}

	unchanged, err := f.e.store.Orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusNotPaid, unchanged.PaymentStatus)
	assert.Equal(t, model.NotSpecified, unchanged.Currency)
	assert.Equal(t, 90.0, unchanged.TotalPrice)
}

func TestWebhookAcknowledgesUnusableEvents(t *testing.T) {
	e := newTestEnv(t)

	for _, payload := range [][]byte{
		checkoutCompleted(primitive.NewObjectID().Hex()),
		checkoutCompleted("not-an-order"),
		[]byte(`{"id":"evt_other","object":"event","type":"payment_intent.created","data":{"object":{}}}`),
	} {
		w := e.webhook(payload, signPayload(payload, testWebhookSecret))
		assert.Equal(t, http.StatusOK, w.Code, string(payload))
		assert.Empty(t, w.Body.String())
	}
}

func TestOrderVisibility(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t, f.token)
	other, otherToken := f.e.user(false)
	_, err := f.e.store.Users.UpdateShippingAddress(context.Background(), other.ID, testAddress())
	require.NoError(t, err)
	f.placeOrder(t, otherToken)

	w := f.e.do(http.MethodGet, "/api/v1/orders/"+order.ID.Hex(), f.token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.e.do(http.MethodGet, "/api/v1/orders/"+order.ID.Hex(), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.e.do(http.MethodGet, "/api/v1/orders/"+order.ID.Hex(), f.admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.e.do(http.MethodGet, "/api/v1/orders", f.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["orders"], 1)

	w = f.e.do(http.MethodGet, "/api/v1/orders", f.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["orders"], 2)

	w = f.e.do(http.MethodGet, "/api/v1/users/profile", f.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := object(t, decode(t, w), "user")["orders"].([]interface{})
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID.Hex(), orders[0].(map[string]interface{})["id"])
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t, f.token)
	path := "/api/v1/orders/update/" + order.ID.Hex()

	w := f.e.do(http.MethodPut, path, f.token, model.UpdateOrderRequest{Status: model.OrderStatusShipped})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.e.do(http.MethodPut, path, f.admin, map[string]string{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.e.do(http.MethodPut, path, f.admin, model.UpdateOrderRequest{Status: model.OrderStatusShipped})
	require.Equal(t, http.StatusOK, w.Code)
	updated := object(t, decode(t, w), "updatedOrder")
	assert.Equal(t, "shipped", updated["status"])
	assert.NotContains(t, updated, "deliveredAt")

	w = f.e.do(http.MethodPut, path, f.admin, model.UpdateOrderRequest{Status: model.OrderStatusDelivered})
	require.Equal(t, http.StatusOK, w.Code)
	updated = object(t, decode(t, w), "updatedOrder")
	assert.Equal(t, "delivered", updated["status"])
	assert.Contains(t, updated, "deliveredAt")

	w = f.e.do(http.MethodPut, "/api/v1/orders/update/"+primitive.NewObjectID().Hex(), f.admin,
		model.UpdateOrderRequest{Status: model.OrderStatusShipped})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderStats(t *testing.T) {
	f := newOrderFixture(t)
	f.placeOrder(t, f.token)
	w := f.e.do(http.MethodPost, "/api/v1/orders?coupon=SALE10", f.token,
		map[string]interface{}{"orderItems": f.orderBody()["orderItems"], "totalPrice": 200})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.e.do(http.MethodGet, "/api/v1/orders/sales/stats", f.token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.e.do(http.MethodGet, "/api/v1/orders/sales/stats", f.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := object(t, decode(t, w), "orders")
	assert.Equal(t, 90.0, stats["minimumSale"])
	assert.Equal(t, 180.0, stats["maximumSale"])
	assert.Equal(t, 135.0, stats["averageSale"])
	assert.Equal(t, 270.0, stats["totalSales"])
	assert.Equal(t, 270.0, stats["saleToday"])
}

type brokenOrderLinks struct {
	database.UserRepository
}

func (brokenOrderLinks) PushOrder(ctx context.Context, id, orderID primitive.ObjectID) error {
	return errors.New("connection reset")
}

func TestCreateOrderRevertsPartialWrites(t *testing.T) {
	f := newOrderFixture(t)
	f.e.store.Users = brokenOrderLinks{UserRepository: f.e.store.Users}

	w := f.e.do(http.MethodPost, "/api/v1/orders?coupon=SALE10", f.token, f.orderBody())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "error", decode(t, w)["status"])

	orders, err := f.e.store.Orders.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)

	product, err := f.e.store.Products.GetByID(context.Background(), f.productID)
	require.NoError(t, err)
	assert.Equal(t, 0, product.TotalSold)
	assert.Empty(t, f.e.gateway.sessions)
}
