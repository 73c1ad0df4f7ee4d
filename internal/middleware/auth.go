package middleware

import (
	"edlink/internal/auth"
	"edlink/internal/domain"
	"edlink/internal/response"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// AuthRequired resolves the bearer credential and stores the caller identity
// plus user_id, email and role in the gin context.
func AuthRequired(resolver *auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			return
		}
		token, ok := auth.BearerToken(header)
		if !ok {
			response.Unauthorized(c, "invalid authorization format")
			return
		}
		id, err := resolver.Resolve(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			return
		}
		setIdentity(c, id)
		c.Next()
	}
}

func setIdentity(c *gin.Context, id domain.Identity) {
	c.Set(identityKey, id)
	c.Set("user_id", id.UserID)
	c.Set("email", id.Email)
	c.Set("role", id.Role.String())
}

// GetIdentity returns the caller resolved by AuthRequired.
func GetIdentity(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}
