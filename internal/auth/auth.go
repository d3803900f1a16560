// Package auth enforces the shared-secret bearer token in front of the
// protected endpoints.
package auth

import (
	"context"
	"crypto/subtle"
	"net/http"

	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

// Authorize reports whether header grants access. An empty secret allows
// everything; otherwise header must be exactly "Bearer " followed by secret.
func Authorize(header, secret string) bool {
	if secret == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(header), []byte(bearerPrefix+secret)) == 1
}

// AuthContext is the per-request authorization outcome. Token is the raw
// presented credential and must not be logged or echoed.
type AuthContext struct {
	Authorized bool
	Token      string
}

type authContextKey struct{}

// WithAuth returns a context carrying ac.
func WithAuth(ctx context.Context, ac *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, ac)
}

// FromContext returns the AuthContext stored by the middleware, or nil.
func FromContext(ctx context.Context) *AuthContext {
	ac, _ := ctx.Value(authContextKey{}).(*AuthContext)
	return ac
}

// Authenticator checks requests against one configured secret.
type Authenticator struct {
	secret string
	logger *zap.Logger
}

// NewAuthenticator returns an Authenticator for secret. An empty secret puts
// it in development mode.
func NewAuthenticator(secret string, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{secret: secret, logger: logger.Named("auth")}
}

// DevMode reports whether no secret is configured.
func (a *Authenticator) DevMode() bool { return a.secret == "" }

// Check evaluates an Authorization header value.
func (a *Authenticator) Check(header string) AuthContext {
	token := header
	if len(header) >= len(bearerPrefix) && header[:len(bearerPrefix)] == bearerPrefix {
		token = header[len(bearerPrefix):]
	}
	return AuthContext{Authorized: Authorize(header, a.secret), Token: token}
}

var unauthorizedBody = []byte(`{"error":"Unauthorized"}`)

// Middleware rejects unauthorized requests with a uniform 401. The response
// is the same whether the header was missing or wrong.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		ac := a.Check(header)
		if !ac.Authorized {
			a.logger.Info("request rejected",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Bool("credentials_present", header != ""),
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write(unauthorizedBody)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAuth(r.Context(), &ac)))
	})
}
