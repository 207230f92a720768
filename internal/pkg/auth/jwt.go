package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yigit/vacantes/internal/pkg/apperrors"
)

// JWT errors share the apperrors sentinels so the error middleware can map them.
var (
	ErrInvalidToken  = apperrors.ErrTokenInvalid
	ErrExpiredToken  = apperrors.ErrTokenExpired
	ErrInvalidFormat = apperrors.ErrInvalidFormat
)

// JWTConfig defines JWT configuration settings
type JWTConfig struct {
	SecretKey   string
	TokenIssuer string
	// TokenExp is only used by IssueToken (development fixtures and tests).
	TokenExp time.Duration
}

// Claims carries the caller identity issued by the external credential service.
type Claims struct {
	UserID   int64  `json:"userId"`
	Email    string `json:"email,omitempty"`
	RoleType string `json:"roleType"`
	jwt.RegisteredClaims
}

// JWTService verifies bearer tokens
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{config: config}
}

// IssueToken signs a token for the given identity. Credential issuance lives
// outside this service; this exists for seeded development accounts and tests.
func (s *JWTService) IssueToken(userID int64, roleType, email string) (string, error) {
	now := time.Now()
	exp := s.config.TokenExp
	if exp <= 0 {
		exp = time.Hour
	}

	claims := &Claims{
		UserID:   userID,
		Email:    email,
		RoleType: roleType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(exp)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.TokenIssuer,
			Subject:   fmt.Sprintf("%s:%d", roleType, userID),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken validates a token
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.config.TokenIssuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.TokenIssuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidFormat
	}

	if strings.HasPrefix(authHeader, "Bearer ") {
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			return "", ErrInvalidFormat
		}
		return token, nil
	}

	return authHeader, nil
}

// ValidateAndExtractClaims validates the token and requires a usable identity.
func (s *JWTService) ValidateAndExtractClaims(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.UserID <= 0 || claims.RoleType == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
