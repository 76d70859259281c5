package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// tenantClaimAll grants access to every tenant; used by operations tooling.
const tenantClaimAll = "*"

// apiClaims are the claims the engine expects from its callers. Tenant
// provisioning and user identity live outside this service; the token just
// names the acting principal and the tenants it may touch.
type apiClaims struct {
	Tenants []string `json:"tenants"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and stores the acting principal
// in the request context. Handlers still receive the tenant explicitly from
// the path; the middleware only checks the token covers it.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenStr, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims := &apiClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if tenantID := c.Param("tenantID"); tenantID != "" && !claimsCoverTenant(claims, tenantID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token does not cover tenant"})
			return
		}

		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), actorKey, claims.Subject))
		c.Next()
	}
}

func claimsCoverTenant(claims *apiClaims, tenantID string) bool {
	for _, t := range claims.Tenants {
		if t == tenantID || t == tenantClaimAll {
			return true
		}
	}
	return false
}

// GetActorFromContext returns the acting principal stored by AuthMiddleware.
func GetActorFromContext(ctx context.Context) (string, bool) {
	actor, ok := ctx.Value(actorKey).(string)
	return actor, ok && actor != ""
}
