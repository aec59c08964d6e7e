package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"storefront-backend/apperror"
	"storefront-backend/model"
)

func (h *Handler) CreateReview(c *gin.Context) {
	productID, valid := paramID(c, "productID")
	if !valid {
		return
	}
	var body model.ReviewRequest
	if !bindJSON(c, &body) {
		return
	}
	ctx := c.Request.Context()
	user := principal(c).UserID

	if _, err := h.Store.Products.GetByID(ctx, productID); err != nil {
		fail(c, storeError(err, "product"))
		return
	}
	exists, err := h.Store.Reviews.ExistsForUser(ctx, productID, user)
	if err != nil {
		fail(c, storeError(err, "review"))
		return
	}
	if exists {
		fail(c, apperror.Validation("You have already reviewed this product"))
		return
	}

	review := &model.Review{Message: body.Message, Rating: body.Rating, Product: productID, User: user}
	err = h.Store.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := h.Store.Reviews.Create(ctx, review); err != nil {
			return err
		}
		return h.Store.Products.PushReview(ctx, productID, review.ID)
	})
	if err != nil {
		fail(c, storeError(err, "review"))
		return
	}
	created(c, "Review created successfully", "review", review)
}

func (h *Handler) ListReviews(c *gin.Context) {
	reviews, err := h.Store.Reviews.List(c.Request.Context())
	if err != nil {
		fail(c, storeError(err, "reviews"))
		return
	}
	ok(c, "Reviews fetched successfully", "reviews", reviews)
}

func (h *Handler) GetReview(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	review, err := h.Store.Reviews.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, storeError(err, "review"))
		return
	}
	ok(c, "Review fetched successfully", "review", review)
}

func (h *Handler) UpdateReview(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var body model.UpdateReviewRequest
	if !bindJSON(c, &body) {
		return
	}
	review, err := h.Store.Reviews.Update(c.Request.Context(), id, body)
	if err != nil {
		fail(c, storeError(err, "review"))
		return
	}
	ok(c, "Review updated successfully", "review", review)
}

func (h *Handler) DeleteReview(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	if err := h.Store.Reviews.Delete(c.Request.Context(), id); err != nil {
		fail(c, storeError(err, "review"))
		return
	}
	ok(c, "Review deleted successfully", "", nil)
}
