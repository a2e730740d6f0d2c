package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parksops/ar-api/internal/identity"
	"github.com/parksops/ar-api/internal/permissions"
)

const testResource = "parks-ar"

var testSecret = []byte("middleware-test-secret")

func issueToken(t *testing.T, roles ...string) string {
	t.Helper()
	claims := identity.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		ResourceAccess: map[string]identity.ResourceRoles{
			testResource: {Roles: roles},
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func identityHandler(t *testing.T, captured *permissions.Permission) http.Handler {
	t.Helper()
	mw := RequireIdentity(slog.New(slog.NewTextHandler(io.Discard, nil)), identity.NewDecoder(testSecret), testResource)
	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = permissions.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRequireIdentityRejectsAnonymous(t *testing.T) {
	var captured permissions.Permission
	handler := identityHandler(t, &captured)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/variance", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, captured.IsAuthenticated, "handler must not run for anonymous callers")
}

func TestRequireIdentityRejectsBadToken(t *testing.T) {
	var captured permissions.Permission
	handler := identityHandler(t, &captured)

	req := httptest.NewRequest(http.MethodGet, "/variance", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireIdentityResolvesPermission(t *testing.T) {
	var captured permissions.Permission
	handler := identityHandler(t, &captured)

	req := httptest.NewRequest(http.MethodGet, "/variance", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "0330:SA1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, captured.IsAuthenticated)
	assert.False(t, captured.IsAdmin)
	assert.True(t, captured.HasRole("0330:SA1"))
}

func TestRequireIdentitySysAdmin(t *testing.T) {
	var captured permissions.Permission
	handler := identityHandler(t, &captured)

	req := httptest.NewRequest(http.MethodGet, "/variance", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "sysadmin"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, captured.IsAdmin)
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, bearerToken(req))

	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	assert.Empty(t, bearerToken(req))

	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	assert.Equal(t, "abc.def.ghi", bearerToken(req))
}
