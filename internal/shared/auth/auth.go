// Package auth carries the operator's bearer credential from the admin API to the order backend.
package auth

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/storefront-admin/internal/shared/errors"
)

type tokenKey struct{}

// WithToken stores a bearer token on the context.
func WithToken(ctx context.Context, token string) context.Context {
	token = strings.TrimSpace(token)
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the bearer token stored on the context, if any.
func TokenFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// BearerForwarding copies the caller's bearer token onto the request context so outbound
// calls act on the operator's behalf. Requests without a header pass through unchanged;
// a malformed header is refused.
func BearerForwarding() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		token, ok := ParseBearer(header)
		if !ok {
			apierrors.Respond(c, apierrors.ErrUnauthorized.WithDetail("Authorization header must be a bearer token"))
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(WithToken(c.Request.Context(), token))
		c.Next()
	}
}

// RequireBearer refuses requests under any of prefixes that reached it without a bearer token.
// It must run after BearerForwarding.
func RequireBearer(prefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if TokenFrom(c.Request.Context()) == "" && guarded(c.Request.URL.Path, prefixes) {
			apierrors.Respond(c, apierrors.ErrUnauthorized.WithDetail("a bearer token is required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func guarded(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
