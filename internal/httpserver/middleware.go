package httpserver

import (
	"net/http"
	"strings"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	sessionHeader = "X-Session-ID"

	sessionCtxKey = "sessionID"
	adminCtxKey   = "adminUser"
	tokenCtxKey   = "adminToken"
)

// sessionMiddleware resolves the anonymous shopper session every cart,
// wishlist and checkout call is keyed by.
func sessionMiddleware(sessions SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := sessions.Parse(c.GetHeader(sessionHeader))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing or invalid " + sessionHeader + " header"})
			return
		}
		c.Set(sessionCtxKey, id)
		c.Next()
	}
}

func adminMiddleware(admins AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		user, err := admins.LookupByToken(c.Request.Context(), token)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Set(adminCtxKey, user)
		c.Set(tokenCtxKey, token)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionCtxKey)
}

func adminUser(c *gin.Context) *domain.AdminUser {
	v, ok := c.Get(adminCtxKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.AdminUser)
	return user
}
