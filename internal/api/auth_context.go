package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/receitaapp/receita-server/internal/domain"
	domainerrors "github.com/receitaapp/receita-server/internal/errors"
	"github.com/receitaapp/receita-server/internal/logger"
	"github.com/receitaapp/receita-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

const (
	callerKey  ctxKey = "caller"
	authErrKey ctxKey = "auth_error"
)

var errNoCredentials = domainerrors.Unauthorized("Authentication credentials were not provided.")

// authMiddleware resolves the Authorization header, when there is one, into
// the calling account. A bad token is not rejected here: endpoints that need
// a caller report it through currentUser, the others ignore it.
func authMiddleware(identity *service.IdentityService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			user, err := identity.Authenticate(ctx, token)
			if err != nil {
				ctx = context.WithValue(ctx, authErrKey, err)
			} else {
				ctx = context.WithValue(ctx, callerKey, user)
				if l := logger.FromContext(ctx, nil); l != nil {
					ctx = logger.WithContext(ctx, l.With("user_id", user.ID))
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from "Bearer <t>" or "Token <t>".
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return "", false
	}
	switch strings.ToLower(scheme) {
	case "bearer", "token":
		return strings.TrimSpace(token), true
	default:
		return "", false
	}
}

// currentUser returns the authenticated caller, or a 401 error.
func currentUser(ctx context.Context) (*domain.User, error) {
	if user, ok := ctx.Value(callerKey).(*domain.User); ok && user != nil {
		return user, nil
	}
	if err, ok := ctx.Value(authErrKey).(error); ok {
		return nil, err
	}
	return nil, errNoCredentials
}
