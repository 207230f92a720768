package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/vacantes/internal/app/models"
	"github.com/yigit/vacantes/internal/app/models/dto"
	"github.com/yigit/vacantes/internal/pkg/apperrors"
	"github.com/yigit/vacantes/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	UserIDKey   = "userID"
	RoleTypeKey = "roleType"
	CallerKey   = "caller"
)

// AuthMiddleware derives the caller identity from a bearer token
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, details string) {
	errorDetail := dto.NewErrorDetail(code, "Authentication required").WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}

// JWTAuth validates the bearer token and stores the caller in the context
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authorization header missing")
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Invalid token format")
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			if errors.Is(err, apperrors.ErrTokenExpired) {
				abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Token has expired")
				return
			}
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token")
			return
		}

		role, err := models.ParseRoleType(claims.RoleType)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Unknown role in token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleTypeKey, string(role))
		c.Set(CallerKey, models.AccountRef{ID: claims.UserID, Kind: role})

		c.Next()
	}
}

// RoleRequired lets the request through only for the listed account kinds
func (m *AuthMiddleware) RoleRequired(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "User role not found")
			return
		}

		for _, role := range roles {
			if caller.Kind == role {
				c.Next()
				return
			}
		}

		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
			WithDetails("You don't have sufficient permissions for this operation")
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
	}
}

// CallerFrom returns the caller stored by JWTAuth
func CallerFrom(c *gin.Context) (models.AccountRef, bool) {
	v, exists := c.Get(CallerKey)
	if !exists {
		return models.AccountRef{}, false
	}
	caller, ok := v.(models.AccountRef)
	return caller, ok
}
