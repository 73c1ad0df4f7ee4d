package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"edlink/config"
	"edlink/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateAccessToken issues an HS256 token. Login lives outside this
// service; the issuer is used by the dev seed and tests.
func GenerateAccessToken(cfg *config.JWTConfig, userID uint, email string, role domain.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    cfg.Issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.AccessSecret))
}

var ErrInvalidToken = errors.New("invalid token")

func ParseAccessToken(cfg *config.JWTConfig, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.AccessSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Resolver turns bearer credentials into caller identities.
type Resolver struct {
	cfg *config.JWTConfig
}

func NewResolver(cfg *config.JWTConfig) *Resolver {
	return &Resolver{cfg: cfg}
}

// Resolve validates token. Every failure is domain.ErrUnauthenticated.
func (r *Resolver) Resolve(token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, fmt.Errorf("missing credential: %w", domain.ErrUnauthenticated)
	}
	claims, err := ParseAccessToken(r.cfg, token)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%v: %w", err, domain.ErrUnauthenticated)
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("token role: %w", domain.ErrUnauthenticated)
	}
	return domain.Identity{UserID: claims.UserID, Email: claims.Email, Role: role}, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <jwt>" value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
