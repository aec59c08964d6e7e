package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront-backend/apperror"
	"storefront-backend/database"
	"storefront-backend/model"
)

func (h *Handler) CreateCoupon(c *gin.Context) {
	var body model.CouponRequest
	if !bindJSON(c, &body) {
		return
	}
	ctx := c.Request.Context()
	now := h.now()

	coupon := &model.Coupon{
		Code:      strings.ToUpper(strings.TrimSpace(body.Code)),
		StartDate: body.StartDate,
		EndDate:   body.EndDate,
		Discount:  body.Discount,
		User:      principal(c).UserID,
	}
	if err := coupon.Validate(now); err != nil {
		fail(c, apperror.Validation("%s", err.Error()))
		return
	}

	_, err := h.Store.Coupons.GetByCode(ctx, coupon.Code)
	if err == nil {
		fail(c, apperror.Validation("Coupon already exists"))
		return
	}
	if !errors.Is(err, database.ErrNotFound) {
		fail(c, storeError(err, "coupon"))
		return
	}
	if err := h.Store.Coupons.Create(ctx, coupon); err != nil {
		fail(c, storeError(err, "coupon"))
		return
	}
	created(c, "Coupon created successfully", "coupon", model.NewCouponView(*coupon, now))
}

func (h *Handler) ListCoupons(c *gin.Context) {
	coupons, err := h.Store.Coupons.List(c.Request.Context())
	if err != nil {
		fail(c, storeError(err, "coupons"))
		return
	}
	now := h.now()
	views := make([]model.CouponView, 0, len(coupons))
	for _, cp := range coupons {
		views = append(views, model.NewCouponView(cp, now))
	}
	ok(c, "All coupons", "coupons", views)
}

func (h *Handler) GetCoupon(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	coupon, err := h.Store.Coupons.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, storeError(err, "coupon"))
		return
	}
	ok(c, "Coupon fetched", "coupon", model.NewCouponView(*coupon, h.now()))
}

func (h *Handler) UpdateCoupon(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var body model.UpdateCouponRequest
	if !bindJSON(c, &body) {
		return
	}
	ctx := c.Request.Context()

	coupon, err := h.Store.Coupons.GetByID(ctx, id)
	if err != nil {
		fail(c, storeError(err, "coupon"))
		return
	}
	if body.Code != nil {
		coupon.Code = strings.ToUpper(strings.TrimSpace(*body.Code))
	}
	if body.StartDate != nil {
		coupon.StartDate = *body.StartDate
	}
	if body.EndDate != nil {
		coupon.EndDate = *body.EndDate
	}
	if body.Discount != nil {
		coupon.Discount = *body.Discount
	}
	if err := coupon.ValidateWindow(); err != nil {
		fail(c, apperror.Validation("%s", err.Error()))
		return
	}

	coupon, err = h.Store.Coupons.Replace(ctx, coupon)
	if err != nil {
		fail(c, storeError(err, "coupon"))
		return
	}
	ok(c, "Coupon updated successfully", "coupon", model.NewCouponView(*coupon, h.now()))
}

func (h *Handler) DeleteCoupon(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	if err := h.Store.Coupons.Delete(c.Request.Context(), id); err != nil {
		fail(c, storeError(err, "coupon"))
		return
	}
	ok(c, "Coupon deleted successfully", "", nil)
}
