package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/minglemakers/minglemakers-api/internal/shared/errors"
)

type principalKey struct{}

// Middleware authenticates the bearer token and, when authz is set, checks the
// caller's role against the matched route.
func Middleware(verifier *TokenVerifier, authz *Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := authenticate(c, verifier)
		if err != nil {
			apierrors.Respond(c, apierrors.ErrUnauthorized.WithDetail(err.Error()))
			return
		}
		if authz != nil {
			route := c.FullPath()
			if route == "" {
				route = c.Request.URL.Path
			}
			allowed, err := authz.Allowed(principal.Role, route, c.Request.Method)
			if err != nil {
				apierrors.Respond(c, apierrors.ErrInternal.WithDetail(err.Error()))
				return
			}
			if !allowed {
				apierrors.Respond(c, apierrors.ErrForbidden.WithDetail(ErrForbidden.Error()))
				return
			}
		}
		c.Request = c.Request.WithContext(ContextWithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

// ContextWithPrincipal attaches the authenticated caller to ctx.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the caller stored by Middleware, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

func authenticate(c *gin.Context, verifier *TokenVerifier) (Principal, error) {
	if verifier == nil {
		return Principal{}, errors.New("auth: verifier not configured")
	}
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return Principal{}, ErrMissingToken
	}
	return verifier.Verify(strings.TrimSpace(token))
}
