// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the caller identity for every request. The store serves
// an anonymous tutoring front-end, so requests without credentials proceed
// with the anonymous role; a valid bearer token upgrades the caller to the
// authenticated role, which unlocks the destructive endpoints. A present but
// invalid token is rejected with 401 rather than silently downgraded, so
// operators notice expired or misconfigured credentials immediately.
//
// The middleware also stashes the optional X-Session-ID header in the request
// context. The session id is advisory (rate-limit identity, log correlation);
// the authoritative session id for writes always travels in the request body.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusai/go-tutor-backend/internal/auth"
)

// HeaderSessionID is the optional request header a client uses to announce
// the tutoring session it acts for.
const HeaderSessionID = "X-Session-ID"

// Context keys used internally to stash identity state.
const (
	ctxKeyRole    = "role"
	ctxKeySession = "sessionID"
)

// Identity returns a Gin middleware that resolves the caller role from the
// Authorization header and stashes it, together with any announced session
// id, in the request context.
//
// Behavior:
//   - No Authorization header: the request proceeds as anonymous.
//   - "Bearer <token>" with a valid token: the request proceeds with the
//     role the token grants.
//   - Anything else: 401 with a compact JSON body. Invalid credentials are
//     an error, not an anonymous fallback.
func Identity(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sid := strings.TrimSpace(c.GetHeader(HeaderSessionID)); sid != "" {
			c.Set(ctxKeySession, sid)
		}

		role := auth.RoleAnonymous
		if h := strings.TrimSpace(c.GetHeader("Authorization")); h != "" {
			token := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			if !strings.HasPrefix(h, "Bearer ") || token == "" {
				unauthorized(c, "authorization header must be of the form 'Bearer <token>'")
				return
			}
			verified, err := auth.Verify(jwtSecret, token)
			if err != nil {
				unauthorized(c, "invalid bearer token")
				return
			}
			role = verified
		}

		c.Set(ctxKeyRole, role)
		c.Next()
	}
}

// unauthorized aborts with a 401 and the compact JSON body used by edge
// middleware (the handlers package owns the richer envelope).
func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get("X-Request-ID"),
		"code":       "unauthorized",
		"message":    msg,
	})
}

// RoleFrom returns the caller role resolved by Identity. Requests that never
// passed through the middleware count as anonymous.
func RoleFrom(c *gin.Context) auth.Role {
	if v, ok := c.Get(ctxKeyRole); ok {
		if r, ok := v.(auth.Role); ok && r != "" {
			return r
		}
	}
	return auth.RoleAnonymous
}

// SessionFrom returns the session id announced via X-Session-ID, or "" when
// the client did not send one.
func SessionFrom(c *gin.Context) string {
	if v, ok := c.Get(ctxKeySession); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
