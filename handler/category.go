package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"storefront-backend/apperror"
	"storefront-backend/database"
	"storefront-backend/model"
	"storefront-backend/storage"
)

func uploadError(err error) error {
	var unsupported *storage.ErrUnsupportedFile
	if errors.As(err, &unsupported) {
		return apperror.Validation("%s", unsupported.Error())
	}
	return apperror.Internal(err, "failed to store upload")
}

// CreateCategory takes a multipart form with the name and an image in the "file" field.
func (h *Handler) CreateCategory(c *gin.Context) {
	var body model.NameRequest
	if !bind(c, &body) {
		return
	}
	name, valid := requireName(c, body.Name, "Category")
	if !valid {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		fail(c, apperror.Validation("Category image is required"))
		return
	}
	ctx := c.Request.Context()

	_, err = h.Store.Categories.GetByName(ctx, name)
	if err == nil {
		fail(c, apperror.Validation("Category already exists"))
		return
	}
	if !errors.Is(err, database.ErrNotFound) {
		fail(c, storeError(err, "category"))
		return
	}

	image, err := h.Uploader.Save(file)
	if err != nil {
		fail(c, uploadError(err))
		return
	}
	category := &model.Category{Name: name, User: principal(c).UserID, Image: image}
	if err := h.Store.Categories.Create(ctx, category); err != nil {
		h.Uploader.Remove(image)
		fail(c, storeError(err, "category"))
		return
	}
	created(c, "Category created successfully", "category", category)
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.Store.Categories.List(c.Request.Context())
	if err != nil {
		fail(c, storeError(err, "categories"))
		return
	}
	ok(c, "Categories fetched successfully", "categories", categories)
}

func (h *Handler) GetCategory(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	category, err := h.Store.Categories.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, storeError(err, "category"))
		return
	}
	ok(c, "Category fetched successfully", "category", category)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var body model.NameRequest
	if !bind(c, &body) {
		return
	}
	name, valid := requireName(c, body.Name, "Category")
	if !valid {
		return
	}
	category, err := h.Store.Categories.Rename(c.Request.Context(), id, name)
	if err != nil {
		fail(c, storeError(err, "category"))
		return
	}
	ok(c, "Category updated successfully", "category", category)
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	if err := h.Store.Categories.Delete(c.Request.Context(), id); err != nil {
		fail(c, storeError(err, "category"))
		return
	}
	ok(c, "Category deleted successfully", "", nil)
}
