package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/apperror"
	"storefront-backend/database"
	"storefront-backend/middleware"
	"storefront-backend/payment"
	"storefront-backend/storage"
)

type Handler struct {
	Store     *database.Store
	Gateway   payment.Gateway
	Uploader  *storage.Uploader
	JWTSecret []byte
	JWTTTL    time.Duration
	Now       func() time.Time
}

func New(store *database.Store, gateway payment.Gateway, uploader *storage.Uploader, jwtSecret []byte, jwtTTL time.Duration) *Handler {
	return &Handler{
		Store:     store,
		Gateway:   gateway,
		Uploader:  uploader,
		JWTSecret: jwtSecret,
		JWTTTL:    jwtTTL,
		Now:       time.Now,
	}
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

// fail records err for the error boundary and stops the handler chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, apperror.FromBinding(err))
		return false
	}
	return true
}

// bind picks the decoder from the request content type, for routes that take forms or JSON.
func bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBind(dst); err != nil {
		fail(c, apperror.FromBinding(err))
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		fail(c, apperror.Validation("invalid %s: %q", name, c.Param(name)))
		return primitive.NilObjectID, false
	}
	return id, true
}

// storeError maps repository errors onto the error taxonomy; what names the record involved.
func storeError(err error, what string) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return apperror.NotFound("%s not found", what)
	case errors.Is(err, database.ErrDuplicate):
		return apperror.Validation("%s already exists", what)
	default:
		return apperror.Internal(err, "failed to access "+what)
	}
}

// principal reads the caller from the request context; routes without the auth gate get an empty one.
func principal(c *gin.Context) *middleware.Principal {
	p, ok := middleware.PrincipalFromContext(c.Request.Context())
	if !ok {
		return &middleware.Principal{}
	}
	return p
}

func respond(c *gin.Context, status int, message, key string, value interface{}) {
	body := gin.H{"status": "success", "message": message}
	if key != "" {
		body[key] = value
	}
	c.JSON(status, body)
}

func ok(c *gin.Context, message, key string, value interface{}) {
	respond(c, http.StatusOK, message, key, value)
}

func created(c *gin.Context, message, key string, value interface{}) {
	respond(c, http.StatusCreated, message, key, value)
}
