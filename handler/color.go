package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"storefront-backend/apperror"
	"storefront-backend/database"
	"storefront-backend/model"
)

func (h *Handler) CreateColor(c *gin.Context) {
	var body model.NameRequest
	if !bindJSON(c, &body) {
		return
	}
	name, valid := requireName(c, body.Name, "Color")
	if !valid {
		return
	}
	ctx := c.Request.Context()

	_, err := h.Store.Colors.GetByName(ctx, name)
	if err == nil {
		fail(c, apperror.Validation("Color already exists"))
		return
	}
	if !errors.Is(err, database.ErrNotFound) {
		fail(c, storeError(err, "color"))
		return
	}

	color := &model.Color{Name: name, User: principal(c).UserID}
	if err := h.Store.Colors.Create(ctx, color); err != nil {
		fail(c, storeError(err, "color"))
		return
	}
	created(c, "Color created successfully", "color", color)
}

func (h *Handler) ListColors(c *gin.Context) {
	colors, err := h.Store.Colors.List(c.Request.Context())
	if err != nil {
		fail(c, storeError(err, "colors"))
		return
	}
	ok(c, "Colors fetched successfully", "colors", colors)
}

func (h *Handler) GetColor(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	color, err := h.Store.Colors.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, storeError(err, "color"))
		return
	}
	ok(c, "Color fetched successfully", "color", color)
}

func (h *Handler) UpdateColor(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var body model.NameRequest
	if !bindJSON(c, &body) {
		return
	}
	name, valid := requireName(c, body.Name, "Color")
	if !valid {
		return
	}
	color, err := h.Store.Colors.Rename(c.Request.Context(), id, name)
	if err != nil {
		fail(c, storeError(err, "color"))
		return
	}
	ok(c, "Color updated successfully", "color", color)
}

func (h *Handler) DeleteColor(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	if err := h.Store.Colors.Delete(c.Request.Context(), id); err != nil {
		fail(c, storeError(err, "color"))
		return
	}
	ok(c, "Color deleted successfully", "", nil)
}
