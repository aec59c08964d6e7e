package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"

	"storefront-backend/apperror"
	"storefront-backend/database"
	"storefront-backend/model"
)

const (
	maxPageLimit = 100
	// maxPage keeps (page-1)*limit well inside int64 for every allowed limit.
	maxPage = 1 << 30
)

type pageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type pagination struct {
	Next *pageRef `json:"next,omitempty"`
	Prev *pageRef `json:"prev,omitempty"`
}

// paginate works out the neighbouring pages for a listing of total matching records.
func paginate(page, limit int, total int64) pagination {
	var p pagination
	start := int64(page-1) * int64(limit)
	end := int64(page) * int64(limit)
	if end < total {
		p.Next = &pageRef{Page: page + 1, Limit: limit}
	}
	if start > 0 {
		p.Prev = &pageRef{Page: page - 1, Limit: limit}
	}
	return p
}

// positiveQuery reads a positive integer query parameter, falling back to def.
func positiveQuery(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// parsePriceRange reads "min-max"; either bound may be left empty.
func parsePriceRange(raw string) (lo, hi *float64, err error) {
	parts := strings.Split(raw, "-")
	if len(parts) != 2 {
		return nil, nil, apperror.Validation("price must be in the form min-max")
	}
	bound := func(s string) (*float64, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			return nil, apperror.Validation("invalid price bound %q", s)
		}
		return &v, nil
	}
	if lo, err = bound(parts[0]); err != nil {
		return nil, nil, err
	}
	if hi, err = bound(parts[1]); err != nil {
		return nil, nil, err
	}
	return lo, hi, nil
}

func productFilter(c *gin.Context) (model.ProductFilter, error) {
	f := model.ProductFilter{
		Name:     c.Query("name"),
		Brand:    c.Query("brand"),
		Category: c.Query("category"),
		Color:    c.Query("color"),
		Size:     c.Query("size"),
	}
	if raw := c.Query("price"); raw != "" {
		lo, hi, err := parsePriceRange(raw)
		if err != nil {
			return f, err
		}
		f.MinPrice, f.MaxPrice = lo, hi
	}
	return f, nil
}

// requireBrand looks up the brand a product names; a blank or unknown name is a Validation error.
func (h *Handler) requireBrand(ctx context.Context, name string) (*model.Brand, error) {
	if name == "" {
		return nil, apperror.Validation("Brand name cannot be empty")
	}
	b, err := h.Store.Brands.GetByName(ctx, name)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperror.Validation("Brand not found, please create brand first or check brand name")
	}
	if err != nil {
		return nil, storeError(err, "brand")
	}
	return b, nil
}

func (h *Handler) requireCategory(ctx context.Context, name string) (*model.Category, error) {
	if name == "" {
		return nil, apperror.Validation("Category name cannot be empty")
	}
	cat, err := h.Store.Categories.GetByName(ctx, name)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperror.Validation("Category not found, please create category first or check category name")
	}
	if err != nil {
		return nil, storeError(err, "category")
	}
	return cat, nil
}

// CreateProduct takes a multipart form; images arrive in the repeated "images" field.
func (h *Handler) CreateProduct(c *gin.Context) {
	var body model.CreateProductRequest
	if !bind(c, &body) {
		return
	}
	ctx := c.Request.Context()

	_, err := h.Store.Products.GetByName(ctx, body.Name)
	if err == nil {
		fail(c, apperror.Validation("Product Already Exists"))
		return
	}
	if !errors.Is(err, database.ErrNotFound) {
		fail(c, storeError(err, "product"))
		return
	}

	brand, err := h.requireBrand(ctx, catalogName(body.Brand))
	if err != nil {
		fail(c, err)
		return
	}
	category, err := h.requireCategory(ctx, catalogName(body.Category))
	if err != nil {
		fail(c, err)
		return
	}

	images := []string{}
	if form, err := c.MultipartForm(); err == nil && len(form.File["images"]) > 0 {
		if images, err = h.Uploader.SaveAll(form.File["images"]); err != nil {
			fail(c, uploadError(err))
			return
		}
	}

	product := &model.Product{
		Name:        body.Name,
		Description: body.Description,
		Brand:       brand.Name,
		Category:    category.Name,
		Sizes:       body.Sizes,
		Colors:      body.Colors,
		User:        principal(c).UserID,
		Images:      images,
		Price:       body.Price,
		TotalQty:    *body.TotalQty,
	}
	err = h.Store.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := h.Store.Products.Create(ctx, product); err != nil {
			return err
		}
		err := h.Store.Brands.PushProduct(ctx, brand.ID, product.ID)
		if err == nil {
			err = h.Store.Categories.PushProduct(ctx, category.ID, product.ID)
		}
		if err != nil {
			if derr := h.Store.Products.Delete(ctx, product.ID); derr != nil {
				return multierror.Append(err, fmt.Errorf("remove product %s: %w", product.ID.Hex(), derr))
			}
			return err
		}
		return nil
	})
	if err != nil {
		h.Uploader.Remove(images...)
		fail(c, storeError(err, "product"))
		return
	}
	created(c, "Product created successfully", "product", product)
}

func (h *Handler) ListProducts(c *gin.Context) {
	filter, err := productFilter(c)
	if err != nil {
		fail(c, err)
		return
	}
	page := positiveQuery(c, "page", 1)
	limit := positiveQuery(c, "limit", 1)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if page > maxPage {
		fail(c, apperror.Validation("page must be at most %d", maxPage))
		return
	}
	ctx := c.Request.Context()

	total, err := h.Store.Products.Count(ctx, filter)
	if err != nil {
		fail(c, storeError(err, "products"))
		return
	}
	products, err := h.Store.Products.List(ctx, filter, int64(page-1)*int64(limit), int64(limit))
	if err != nil {
		fail(c, storeError(err, "products"))
		return
	}
	summaries := make([]model.ProductSummary, 0, len(products))
	for _, p := range products {
		summaries = append(summaries, model.NewProductSummary(p))
	}

	c.JSON(200, gin.H{
		"status":     "success",
		"total":      total,
		"results":    len(summaries),
		"pagination": paginate(page, limit, total),
		"message":    "Products fetched successfully",
		"products":   summaries,
	})
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	ctx := c.Request.Context()
	product, err := h.Store.Products.GetByID(ctx, id)
	if err != nil {
		fail(c, storeError(err, "product"))
		return
	}
	reviews, err := h.Store.Reviews.ListByProduct(ctx, id)
	if err != nil {
		fail(c, storeError(err, "reviews"))
		return
	}
	ok(c, "Product fetched successfully", "product", model.NewProductDetail(*product, reviews))
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var body model.UpdateProductRequest
	if !bindJSON(c, &body) {
		return
	}
	ctx := c.Request.Context()

	if body.Brand != nil {
		brand, err := h.requireBrand(ctx, catalogName(*body.Brand))
		if err != nil {
			fail(c, err)
			return
		}
		body.Brand = &brand.Name
	}
	if body.Category != nil {
		category, err := h.requireCategory(ctx, catalogName(*body.Category))
		if err != nil {
			fail(c, err)
			return
		}
		body.Category = &category.Name
	}

	product, err := h.Store.Products.Update(ctx, id, body)
	if err != nil {
		fail(c, storeError(err, "product"))
		return
	}
	ok(c, "Product updated successfully", "product", model.NewProductSummary(*product))
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	if err := h.Store.Products.Delete(c.Request.Context(), id); err != nil {
		fail(c, storeError(err, "product"))
		return
	}
	ok(c, "Product deleted successfully", "", nil)
}
