package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/apperror"
	"storefront-backend/database"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID  primitive.ObjectID
	Email   string
	IsAdmin bool
}

type JWTClaims struct {
	UserID string `json:"userId"`
	jwt.StandardClaims
}

// GenerateJWT issues an HS256 token for userID that expires after ttl.
func GenerateJWT(secret []byte, userID primitive.ObjectID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID: userID.Hex(),
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		logrus.Errorf("GenerateJWT: failed to sign token err = %v", err)
		return "", err
	}
	return token, nil
}

// ParseJWT verifies tokenStr and returns the user id it was issued for.
func ParseJWT(secret []byte, tokenStr string) (primitive.ObjectID, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return primitive.NilObjectID, errors.New("invalid token")
	}
	return primitive.ObjectIDFromHex(claims.UserID)
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

// AuthMiddleware resolves the bearer token to a stored user and attaches it as the request principal.
func AuthMiddleware(secret []byte, users database.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abort(c, apperror.Unauthorized("No token found in header"))
			return
		}
		userID, err := ParseJWT(secret, tokenStr)
		if err != nil {
			logrus.WithError(err).Debug("rejected bearer token")
			abort(c, apperror.Unauthorized("Invalid/Expired token, please login again"))
			return
		}
		user, err := users.GetByID(c.Request.Context(), userID)
		if errors.Is(err, database.ErrNotFound) {
			abort(c, apperror.Unauthorized("Invalid/Expired token, please login again"))
			return
		}
		if err != nil {
			abort(c, apperror.Internal(err, "failed to resolve user"))
			return
		}
		setPrincipal(c, &Principal{UserID: user.ID, Email: user.Email, IsAdmin: user.IsAdmin})
		c.Next()
	}
}

func setPrincipal(c *gin.Context, p *Principal) {
	c.Set(string(principalKey), p)
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), principalKey, p))
}

// CurrentPrincipal returns the principal attached by AuthMiddleware.
func CurrentPrincipal(c *gin.Context) (*Principal, bool) {
	v, ok := c.Get(string(principalKey))
	if !ok {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok
}

// PrincipalFromContext is CurrentPrincipal for code that only holds the request context.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok
}
