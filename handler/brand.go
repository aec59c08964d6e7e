package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront-backend/apperror"
	"storefront-backend/database"
	"storefront-backend/model"
)

// catalogName normalises brand, category and color names; lookups by name use the same form.
func catalogName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// requireName normalises raw and fails the request when nothing is left of it.
func requireName(c *gin.Context, raw, what string) (string, bool) {
	name := catalogName(raw)
	if name == "" {
		fail(c, apperror.Validation("%s name cannot be empty", what))
		return "", false
	}
	return name, true
}

func (h *Handler) CreateBrand(c *gin.Context) {
	var body model.NameRequest
	if !bindJSON(c, &body) {
		return
	}
	name, valid := requireName(c, body.Name, "Brand")
	if !valid {
		return
	}
	ctx := c.Request.Context()

	_, err := h.Store.Brands.GetByName(ctx, name)
	if err == nil {
		fail(c, apperror.Validation("Brand already exists"))
		return
	}
	if !errors.Is(err, database.ErrNotFound) {
		fail(c, storeError(err, "brand"))
		return
	}

	brand := &model.Brand{Name: name, User: principal(c).UserID}
	if err := h.Store.Brands.Create(ctx, brand); err != nil {
		fail(c, storeError(err, "brand"))
		return
	}
	created(c, "Brand created successfully", "brand", brand)
}

func (h *Handler) ListBrands(c *gin.Context) {
	brands, err := h.Store.Brands.List(c.Request.Context())
	if err != nil {
		fail(c, storeError(err, "brands"))
		return
	}
	ok(c, "Brands fetched successfully", "brands", brands)
}

func (h *Handler) GetBrand(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	brand, err := h.Store.Brands.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, storeError(err, "brand"))
		return
	}
	ok(c, "Brand fetched successfully", "brand", brand)
}

func (h *Handler) UpdateBrand(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var body model.NameRequest
	if !bindJSON(c, &body) {
		return
	}
	name, valid := requireName(c, body.Name, "Brand")
	if !valid {
		return
	}
	brand, err := h.Store.Brands.Rename(c.Request.Context(), id, name)
	if err != nil {
		fail(c, storeError(err, "brand"))
		return
	}
	ok(c, "Brand updated successfully", "brand", brand)
}

func (h *Handler) DeleteBrand(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	if err := h.Store.Brands.Delete(c.Request.Context(), id); err != nil {
		fail(c, storeError(err, "brand"))
		return
	}
	ok(c, "Brand deleted successfully", "", nil)
}
