package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anthon002/NYSCAttendance/internal/domain"
	"github.com/Anthon002/NYSCAttendance/internal/pkg/jwthelper"
)

func newProtectedRouter(signingKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", NewAuthenticator(signingKey).VerifyJWT(), func(ctx *gin.Context) {
		perms := PermissionsFromContext(ctx)
		ctx.JSON(http.StatusOK, gin.H{"permissions": perms})
	})

	return router
}

func TestAuthenticator_VerifyJWT(t *testing.T) {
	const key = "test-signing-key"
	router := newProtectedRouter(key)

	token, _, err := jwthelper.GenerateToken([]byte(key), "issuer", time.Hour, 7, "admin@example.com", []string{domain.PermissionTeamManagement}, domain.AdminPolicyCode)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), domain.PermissionTeamManagement)
}

func TestAuthenticator_VerifyJWT_MissingToken(t *testing.T) {
	router := newProtectedRouter("test-signing-key")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticator_VerifyJWT_WrongKey(t *testing.T) {
	router := newProtectedRouter("test-signing-key")

	token, _, err := jwthelper.GenerateToken([]byte("other-key"), "issuer", time.Hour, 7, "admin@example.com", nil, domain.AdminPolicyCode)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticator_VerifyJWT_ExpiredToken(t *testing.T) {
	const key = "test-signing-key"
	router := newProtectedRouter(key)

	token, _, err := jwthelper.GenerateToken([]byte(key), "issuer", -time.Minute, 7, "admin@example.com", nil, domain.AdminPolicyCode)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
