package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront-backend/apperror"
	"storefront-backend/database"
	"storefront-backend/middleware"
	"storefront-backend/model"
	"storefront-backend/utils"
)

func (h *Handler) RegisterUser(c *gin.Context) {
	var body model.RegisterRequest
	if !bindJSON(c, &body) {
		return
	}
	ctx := c.Request.Context()

	_, err := h.Store.Users.GetByEmail(ctx, body.Email)
	if err == nil {
		fail(c, apperror.Validation("User already exists"))
		return
	}
	if !errors.Is(err, database.ErrNotFound) {
		fail(c, storeError(err, "user"))
		return
	}

	hashed, err := utils.HashPassword(body.Password)
	if err != nil {
		fail(c, apperror.Internal(err, "failed to secure password"))
		return
	}
	user := &model.User{Fullname: body.Fullname, Email: body.Email, Password: hashed}
	if err := h.Store.Users.Create(ctx, user); err != nil {
		fail(c, storeError(err, "user"))
		return
	}
	logrus.WithField("user", user.ID.Hex()).Info("user registered")
	created(c, "User Registered Successfully", "data", user)
}

func (h *Handler) LoginUser(c *gin.Context) {
	var body model.LoginRequest
	if !bindJSON(c, &body) {
		return
	}

	user, err := h.Store.Users.GetByEmail(c.Request.Context(), body.Email)
	if errors.Is(err, database.ErrNotFound) {
		fail(c, apperror.Unauthorized("Invalid login credentials"))
		return
	}
	if err != nil {
		fail(c, storeError(err, "user"))
		return
	}
	if err := utils.CheckPassword(body.Password, user.Password); err != nil {
		fail(c, apperror.Unauthorized("Invalid login credentials"))
		return
	}

	token, err := middleware.GenerateJWT(h.JWTSecret, user.ID, h.JWTTTL)
	if err != nil {
		fail(c, apperror.Internal(err, "error in generating jwt token"))
		return
	}
	c.JSON(200, gin.H{
		"status":    "success",
		"message":   "User logged in successfully",
		"userFound": user,
		"token":     token,
	})
}

func (h *Handler) GetUserProfile(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := h.Store.Users.GetByID(ctx, principal(c).UserID)
	if err != nil {
		fail(c, storeError(err, "user"))
		return
	}
	orders, err := h.Store.Orders.ListByUser(ctx, user.ID)
	if err != nil {
		fail(c, storeError(err, "orders"))
		return
	}
	ok(c, "User profile fetched successfully", "user", model.UserProfile{User: *user, Orders: orders})
}

func (h *Handler) UpdateShippingAddress(c *gin.Context) {
	var body model.ShippingAddress
	if !bindJSON(c, &body) {
		return
	}
	user, err := h.Store.Users.UpdateShippingAddress(c.Request.Context(), principal(c).UserID, body)
	if err != nil {
		fail(c, storeError(err, "user"))
		return
	}
	ok(c, "User shipping address updated successfully", "user", user)
}
