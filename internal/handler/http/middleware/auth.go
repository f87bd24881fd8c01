package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/user"
	"github.com/qhamayedwa/altron-wfm-backend/internal/handler/http/response"
	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/jwt"
)

type actorKey struct{}

// AuthRequired accepts verified access tokens only and stores the caller as a
// user.Actor on the request context. Must run after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}
		if token == nil {
			response.Unauthorized(w, "Missing token")
			return
		}

		tokenType, ok := claims["type"].(string)
		if !ok || tokenType != jwt.TokenTypeAccess {
			response.Unauthorized(w, "Invalid token type")
			return
		}

		actor, err := actorFromClaims(claims)
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

func actorFromClaims(claims map[string]interface{}) (user.Actor, error) {
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Actor{}, user.ErrMissingIdentity
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return user.Actor{}, user.ErrUnknownRole
	}
	role, err := user.ParseRole(roleStr)
	if err != nil {
		return user.Actor{}, err
	}
	return user.Actor{ID: userID, Role: role}, nil
}

func WithActor(ctx context.Context, actor user.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the caller set by AuthRequired
func ActorFromContext(ctx context.Context) (user.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(user.Actor)
	return actor, ok
}
