package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"ecomapa/internal/mockserver/store"
)

// Auth guards protected operations with a bearer access token.
type Auth struct {
	store *store.Store
	log   *slog.Logger
}

func New(st *store.Store, log *slog.Logger) *Auth {
	return &Auth{
		store: st,
		log:   log.With("component", "auth_middleware"),
	}
}

type contextKey string

const UserIDKey contextKey = "userID"

// Middleware validates the Authorization header and puts the user ID on the
// request context. Failures answer with the detail strings the real auth
// layer uses.
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		header := ctx.Header("Authorization")
		if len(header) < 7 || header[:7] != "Bearer " {
			a.deny(ctx, "Authentication credentials were not provided.")
			return
		}

		userID, err := a.store.ValidateAccess(header[7:])
		if err != nil {
			detail := store.DetailNotValid
			var tokenErr *store.TokenError
			if errors.As(err, &tokenErr) {
				detail = tokenErr.Detail
			}
			a.log.Debug("rejected bearer token", "detail", detail)
			a.deny(ctx, detail)
			return
		}

		newCtx := context.WithValue(ctx.Context(), UserIDKey, userID)
		next(huma.WithContext(ctx, newCtx))
	}
}

func (a *Auth) deny(ctx huma.Context, detail string) {
	ctx.SetStatus(http.StatusUnauthorized)
	ctx.SetHeader("Content-Type", "application/json")
	if err := json.NewEncoder(ctx.BodyWriter()).Encode(map[string]string{"detail": detail}); err != nil {
		a.log.Error("encode auth error", "error", err)
	}
}

// GetUserID pulls the authenticated user out of a request context.
func GetUserID(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(UserIDKey).(int)
	return userID, ok
}
