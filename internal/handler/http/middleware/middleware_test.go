package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/user"
	"github.com/qhamayedwa/altron-wfm-backend/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected(t *testing.T, svc jwt.Service, perm user.Permission) http.Handler {
	t.Helper()
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("X-Actor", actor.ID+"/"+string(actor.Role))
		w.WriteHeader(http.StatusNoContent)
	})
	return jwtauth.Verifier(svc.JWTAuth())(AuthRequired(RequirePermission(perm)(final)))
}

func newJWT(t *testing.T) jwt.Service {
	t.Helper()
	svc, err := jwt.NewJWTService("middleware-test-secret", "1h")
	require.NoError(t, err)
	return svc
}

func doRequest(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAuthRequired_MissingToken(t *testing.T) {
	svc := newJWT(t)
	w := doRequest(protected(t, svc, user.PermissionTimeClock), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_RejectsSSEToken(t *testing.T) {
	svc := newJWT(t)
	token, _, err := svc.GenerateSSEToken("u1")
	require.NoError(t, err)

	w := doRequest(protected(t, svc, user.PermissionTimeClock), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_RejectsUnknownRole(t *testing.T) {
	svc := newJWT(t)
	token, _, err := svc.GenerateAccessToken("u1", "u1@example.com", user.Role("Super User"))
	require.NoError(t, err)

	w := doRequest(protected(t, svc, user.PermissionTimeClock), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequirePermission_Allows(t *testing.T) {
	svc := newJWT(t)
	token, _, err := svc.GenerateAccessToken("u1", "u1@example.com", user.RolePayroll)
	require.NoError(t, err)

	w := doRequest(protected(t, svc, user.PermissionPayrollCalculate), token)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "u1/payroll", w.Header().Get("X-Actor"))
}

func TestRequirePermission_Forbids(t *testing.T) {
	svc := newJWT(t)
	token, _, err := svc.GenerateAccessToken("u2", "u2@example.com", user.RoleManager)
	require.NoError(t, err)

	w := doRequest(protected(t, svc, user.PermissionPayrollCalculate), token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "payroll.calculate")
}
