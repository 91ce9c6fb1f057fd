package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"dokon/internal/commons"
	"dokon/internal/domain"
	apperrors "dokon/internal/errors"
	"dokon/internal/policy"
)

type contextKey struct{}

// Claims are the custom claims carried by every access token.
type Claims struct {
	UserID      int64       `json:"user_id"`
	Role        domain.Role `json:"role"`
	IsSuperuser bool        `json:"superuser"`
	jwt.RegisteredClaims
}

func (c *Claims) SubjectRole() domain.Role { return c.Role }
func (c *Claims) Superuser() bool          { return c.IsSuperuser }

// Issuer signs and verifies HS256 access tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

func (i *Issuer) Issue(u domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:      u.ID,
		Role:        u.Role,
		IsSuperuser: u.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func (i *Issuer) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.NewUnauthorizedError("invalid or expired token")
	}
	if claims.UserID <= 0 {
		return nil, apperrors.NewUnauthorizedError("token carries no user")
	}
	return claims, nil
}

// Authenticate validates the bearer token and stores its claims on the request context.
func Authenticate(issuer *Issuer, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				commons.WriteError(w, commons.NewTraceID(), apperrors.NewUnauthorizedError("authentication required"), logger)
				return
			}

			claims, err := issuer.Parse(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				commons.WriteError(w, commons.NewTraceID(), err, logger)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequirePermission rejects requests whose subject the policy does not allow.
func RequirePermission(p *policy.Policy, resource policy.Resource, action policy.Action, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFrom(r.Context())
			if !ok {
				commons.WriteError(w, commons.NewTraceID(), apperrors.NewUnauthorizedError("authentication required"), logger)
				return
			}
			if !p.Allowed(claims, resource, action) {
				logger.Warn("permission denied",
					zap.Int64("userId", claims.UserID),
					zap.String("role", string(claims.Role)),
					zap.String("resource", string(resource)),
					zap.String("action", string(action)),
				)
				commons.WriteError(w, commons.NewTraceID(), apperrors.NewForbiddenError("insufficient permissions"), logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(contextKey{}).(*Claims)
	return c, ok && c != nil
}

// UserID returns the authenticated user's id, or an UnauthorizedError.
func UserID(ctx context.Context) (int64, error) {
	c, ok := ClaimsFrom(ctx)
	if !ok {
		return 0, apperrors.NewUnauthorizedError("authentication required")
	}
	return c.UserID, nil
}
