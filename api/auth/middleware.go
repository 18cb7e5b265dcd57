package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// callerIDKey is the gin context key holding the verified Clerk user id.
const callerIDKey = "clerk_user_id"

// Middleware verifies the request's bearer token and stores the caller
// identity in the request context. Requests without a verifiable identity are
// rejected with 401 before reaching the handler.
func Middleware(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, err := v.VerifyRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(callerIDKey, callerID)
		c.Next()
	}
}

// CallerID returns the verified Clerk user id stored by Middleware, or the
// empty string when the request was not authenticated.
func CallerID(c *gin.Context) string {
	id, _ := c.Get(callerIDKey)
	s, _ := id.(string)
	return s
}
