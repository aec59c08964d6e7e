package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/database"
	"storefront-backend/database/memory"
	"storefront-backend/model"
)

var testSecret = []byte("test-secret")

func newRouter(store *database.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), ErrorHandler(), Recovery())
	r.NoRoute(NotFound)
	auth := AuthMiddleware(testSecret, store.Users)
	r.GET("/me", auth, func(c *gin.Context) {
		p, _ := CurrentPrincipal(c)
		fromCtx, _ := PrincipalFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"id": p.UserID.Hex(), "same": fromCtx == p})
	})
	r.GET("/admin", auth, AdminMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return r
}

func seedUser(t *testing.T, store *database.Store, admin bool) *model.User {
	t.Helper()
	user := &model.User{Fullname: "Jane", Email: "jane" + primitive.NewObjectID().Hex() + "@example.com", IsAdmin: admin}
	require.NoError(t, store.Users.Create(context.Background(), user))
	return user
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGenerateAndParseJWT(t *testing.T) {
	id := primitive.NewObjectID()
	token, err := GenerateJWT(testSecret, id, time.Hour)
	require.NoError(t, err)

	got, err := ParseJWT(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseJWT([]byte("other"), token)
	assert.Error(t, err)

	expired, err := GenerateJWT(testSecret, id, -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(testSecret, expired)
	assert.Error(t, err)
}

func TestParseJWTRejectsNoneAlgorithm(t *testing.T) {
	claims := JWTClaims{UserID: primitive.NewObjectID().Hex()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseJWT(testSecret, token)
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	store := memory.New()
	user := seedUser(t, store, false)
	r := newRouter(store)

	token, err := GenerateJWT(testSecret, user.ID, time.Hour)
	require.NoError(t, err)

	w := do(r, "/me", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"`+user.ID.Hex()+`","same":true}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = do(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "No token found in header", errorBody(t, w)["message"])

	w = do(r, "/me", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "fail", errorBody(t, w)["status"])

	ghost, err := GenerateJWT(testSecret, primitive.NewObjectID(), time.Hour)
	require.NoError(t, err)
	w = do(r, "/me", ghost)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminMiddleware(t *testing.T) {
	store := memory.New()
	r := newRouter(store)

	userToken, err := GenerateJWT(testSecret, seedUser(t, store, false).ID, time.Hour)
	require.NoError(t, err)
	w := do(r, "/admin", userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied, admin only", errorBody(t, w)["message"])

	adminToken, err := GenerateJWT(testSecret, seedUser(t, store, true).ID, time.Hour)
	require.NoError(t, err)
	w = do(r, "/admin", adminToken)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestNotFoundAndRecovery(t *testing.T) {
	r := newRouter(memory.New())

	w := do(r, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route /nowhere not found", errorBody(t, w)["message"])

	w = do(r, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "error", errorBody(t, w)["status"])
}
