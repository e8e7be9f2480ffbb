package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/VirajMandavkar/luminaire-storefront/internal/entity"
	"github.com/VirajMandavkar/luminaire-storefront/internal/logging"
	"github.com/VirajMandavkar/luminaire-storefront/internal/security"
	"github.com/VirajMandavkar/luminaire-storefront/internal/usecase"
)

const sessionKey = "session"

// IdentityCache memoizes resolved users keyed by token digest.
type IdentityCache interface {
	Get(ctx context.Context, digest string) (*domain.User, bool, error)
	Set(ctx context.Context, digest string, u *domain.User) error
}

// IdentityResolver is the backend's /auth/me.
type IdentityResolver interface {
	Me(ctx context.Context, token string) (*domain.User, error)
}

// SessionResolver turns request credentials into a usecase.Session: bearer
// token (verified locally, identity resolved upstream and cached) plus the
// optional X-Guest-Id header for guest traffic.
type SessionResolver struct {
	tokens   *security.Tokens
	cache    IdentityCache
	resolver IdentityResolver
}

func NewSessionResolver(tokens *security.Tokens, cache IdentityCache, resolver IdentityResolver) *SessionResolver {
	return &SessionResolver{tokens: tokens, cache: cache, resolver: resolver}
}

// Resolve never rejects guests; it only aborts when a bearer token is
// present but bad.
func (s *SessionResolver) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := usecase.Session{GuestID: c.GetHeader("X-Guest-Id")}

		auth := c.GetHeader("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			raw := strings.TrimPrefix(auth, "Bearer ")
			if _, err := s.tokens.Subject(raw); err != nil {
				unauth(c, "invalid_token", "invalid jwt")
				return
			}

			u, err := s.identity(c, raw)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					unauth(c, "invalid_token", "token rejected by backend")
					return
				}
				c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "backend_unavailable"})
				return
			}
			sess.Token = raw
			sess.User = u
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

func (s *SessionResolver) identity(c *gin.Context, raw string) (*domain.User, error) {
	ctx := c.Request.Context()
	digest := security.Digest(raw)

	if u, ok, err := s.cache.Get(ctx, digest); err != nil {
		logging.From(c).Warn("identity cache get", "err", err)
	} else if ok {
		return u, nil
	}

	u, err := s.resolver.Me(ctx, raw)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, digest, u); err != nil {
		logging.From(c).Warn("identity cache set", "err", err)
	}
	return u, nil
}

// SessionFrom returns the session placed by Resolve, or a zero session.
func SessionFrom(c *gin.Context) usecase.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(usecase.Session); ok {
			return s
		}
	}
	return usecase.Session{}
}

// RequireSession ensures the request carries either a user or a guest ID.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		if !sess.Authenticated() && sess.GuestID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":             "missing_session",
				"error_description": "supply a bearer token or an X-Guest-Id header",
			})
			return
		}
		c.Next()
	}
}

// RequireUser gates endpoints that need an authenticated backend session.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !SessionFrom(c).Authenticated() {
			unauth(c, "invalid_request", "missing bearer token")
			return
		}
		c.Next()
	}
}

// RequireAdmin gates the back-office endpoints.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		if !sess.Authenticated() {
			unauth(c, "invalid_request", "missing bearer token")
			return
		}
		if !sess.User.IsAdmin() {
			forbidden(c, "insufficient_scope", "admin role required")
			return
		}
		c.Next()
	}
}

func unauth(c *gin.Context, code, desc string) {
	c.Header("WWW-Authenticate", `Bearer error="`+code+`", error_description="`+desc+`"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": code, "error_description": desc})
}

func forbidden(c *gin.Context, code, desc string) {
	c.Header("WWW-Authenticate", `Bearer error="`+code+`", error_description="`+desc+`"`)
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": code, "error_description": desc})
}
