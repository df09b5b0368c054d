package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erp/accounting/internal/domain/identity"
	"github.com/erp/accounting/internal/infrastructure/auth"
	"github.com/erp/accounting/internal/infrastructure/config"
	"github.com/erp/accounting/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
}

func accountantToken(t *testing.T, svc *auth.JWTService, branchID uuid.UUID) (string, auth.GenerateTokenInput) {
	t.Helper()
	input := auth.GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "clerk",
		Role:     string(identity.RoleAccountant),
		BranchID: &branchID,
	}
	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)
	return pair.AccessToken, input
}

func adminToken(t *testing.T, svc *auth.JWTService) string {
	t.Helper()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "root",
		Role:     string(identity.RoleAdmin),
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func doRequest(router http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService()
	branchID := uuid.New()
	token, input := accountantToken(t, svc, branchID)

	router := gin.New()
	router.Use(JWTAuthMiddleware(svc))
	router.GET("/test", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, input.UserID.String(), GetJWTUserID(c))
		assert.Equal(t, string(identity.RoleAccountant), GetJWTRole(c))
		assert.Equal(t, branchID.String(), claims.BranchID)
		c.Status(http.StatusOK)
	})

	rec := doRequest(router, http.MethodGet, "/test", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddleware_Rejects(t *testing.T) {
	svc := newTestJWTService()
	expired := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: -time.Minute,
		Issuer:                "test-issuer",
	})
	expiredToken, _ := accountantToken(t, expired, uuid.New())
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{UserID: uuid.New(), Role: "ADMIN"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"wrong scheme", "Basic abc", dto.ErrCodeUnauthorized},
		{"empty bearer", "Bearer ", dto.ErrCodeUnauthorized},
		{"garbage", "Bearer not-a-jwt", dto.ErrCodeTokenInvalid},
		{"expired", "Bearer " + expiredToken, dto.ErrCodeTokenExpired},
		{"refresh as access", "Bearer " + pair.RefreshToken, dto.ErrCodeTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(JWTAuthMiddleware(svc))
			router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	router := gin.New()
	router.Use(JWTAuthMiddleware(newTestJWTService()))
	for _, p := range []string{"/health", "/health/ready", "/api/v1/auth/login", "/swagger/index.html"} {
		router.GET(p, func(c *gin.Context) { c.Status(http.StatusOK) })
	}

	for _, p := range []string{"/health", "/health/ready", "/api/v1/auth/login", "/swagger/index.html"} {
		rec := doRequest(router, http.MethodGet, p, "")
		assert.Equal(t, http.StatusOK, rec.Code, p)
	}
}

func TestJWTAuthMiddleware_Blacklist(t *testing.T) {
	svc := newTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	token, input := accountantToken(t, svc, uuid.New())

	cfg := DefaultJWTConfig(svc)
	cfg.TokenBlacklist = blacklist
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/test", token).Code)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	require.NoError(t, blacklist.Revoke(context.Background(), claims.ID, time.Hour))

	rec := doRequest(router, http.MethodGet, "/test", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, rec))

	other, _ := accountantToken(t, svc, uuid.New())
	otherClaims, err := svc.ValidateAccessToken(other)
	require.NoError(t, err)
	userID, err := otherClaims.GetUserUUID()
	require.NoError(t, err)
	require.NoError(t, blacklist.RevokeUser(context.Background(), userID, time.Hour))
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, http.MethodGet, "/test", other).Code)
	assert.NotEqual(t, input.UserID, userID)
}

func TestRequireRole(t *testing.T) {
	svc := newTestJWTService()
	token, _ := accountantToken(t, svc, uuid.New())

	router := gin.New()
	router.Use(JWTAuthMiddleware(svc))
	router.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/any", RequireRole(identity.RoleAdmin, identity.RoleAccountant), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := doRequest(router, http.MethodGet, "/admin", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, dto.ErrCodeForbidden, errorCode(t, rec))

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/admin", adminToken(t, svc)).Code)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/any", token).Code)
}

func TestBranchScope(t *testing.T) {
	svc := newTestJWTService()
	own := uuid.New()
	other := uuid.New()
	accountant, _ := accountantToken(t, svc, own)
	admin := adminToken(t, svc)

	router := gin.New()
	router.Use(JWTAuthMiddleware(svc), BranchScope())
	router.GET("/scope", func(c *gin.Context) {
		actor, ok := GetActor(c)
		require.True(t, ok)
		scope := GetScope(c)
		branch := ""
		if scope.BranchID != nil {
			branch = scope.BranchID.String()
		}
		c.JSON(http.StatusOK, gin.H{"admin": actor.IsAdmin, "branch": branch})
	})

	tests := []struct {
		name   string
		token  string
		query  string
		status int
		branch string
	}{
		{"accountant defaults to own branch", accountant, "", http.StatusOK, own.String()},
		{"accountant may name own branch", accountant, "?branch_id=" + own.String(), http.StatusOK, own.String()},
		{"accountant may not read another branch", accountant, "?branch_id=" + other.String(), http.StatusForbidden, ""},
		{"admin sees all branches", admin, "", http.StatusOK, ""},
		{"admin narrows to a branch", admin, "?branch_id=" + other.String(), http.StatusOK, other.String()},
		{"malformed branch id", admin, "?branch_id=nope", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodGet, "/scope"+tt.query, tt.token)
			require.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				return
			}
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.branch, body["branch"])
		})
	}
}
