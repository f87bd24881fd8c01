package middleware

import (
	"fmt"
	"net/http"

	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/user"
	"github.com/qhamayedwa/altron-wfm-backend/internal/handler/http/response"
)

// RequirePermission rejects callers whose role lacks the permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Unauthorized")
				return
			}

			if !actor.Can(permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, actor.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
