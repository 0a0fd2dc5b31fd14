package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVerifier(t *testing.T) *TokenVerifier {
	t.Helper()
	v, err := NewTokenVerifier("test-secret", "minglemakers")
	require.NoError(t, err)
	return v
}

func TestTokenVerifier_RoundTrip(t *testing.T) {
	v := newVerifier(t)
	token, err := v.Sign("user-42", RoleSupplier, time.Hour)
	require.NoError(t, err)

	principal, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, Principal{Subject: "user-42", Role: RoleSupplier}, principal)
}

func TestTokenVerifier_Rejects(t *testing.T) {
	v := newVerifier(t)

	expired, err := v.Sign("user-1", RoleArtisan, -time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := NewTokenVerifier("another-secret", "minglemakers")
	require.NoError(t, err)
	forged, err := other.Sign("user-1", RoleAdmin, time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "pirate",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", Issuer: "minglemakers"},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = v.Verify(badRole)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		Role:             RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", Issuer: "minglemakers"},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = v.Verify(wrongAlg)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenVerifier(" ", "")
	assert.Error(t, err)
}

func TestAuthorizer_Policies(t *testing.T) {
	authz, err := NewAuthorizer()
	require.NoError(t, err)

	cases := []struct {
		role   Role
		route  string
		method string
		want   bool
	}{
		{RoleSupplier, "/v1/orders/:orderId/advance", http.MethodPost, true},
		{RoleArtisan, "/v1/orders/:orderId/advance", http.MethodPost, false},
		{RoleArtisan, "/v1/orders", http.MethodPost, true},
		{RoleSupplier, "/v1/orders", http.MethodPost, false},
		{RoleArtisan, "/v1/orders/summary", http.MethodGet, false},
		{RoleAdmin, "/v1/orders/summary", http.MethodGet, true},
		{RoleAdmin, "/v1/orders", http.MethodPost, true},
		{RoleArtisan, "/v1/clusters/:clusterId/members", http.MethodGet, true},
	}
	for _, tc := range cases {
		got, err := authz.Allowed(tc.role, tc.route, tc.method)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s %s %s", tc.role, tc.method, tc.route)
	}
}

func newAuthRouter(t *testing.T, v *TokenVerifier) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	authz, err := NewAuthorizer()
	require.NoError(t, err)

	r := gin.New()
	group := r.Group("/v1", Middleware(v, authz))
	group.POST("/orders/:orderId/advance", func(c *gin.Context) {
		p, ok := PrincipalFromContext(c.Request.Context())
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"subject": p.Subject})
	})
	return r
}

func TestMiddleware(t *testing.T) {
	v := newVerifier(t)
	r := newAuthRouter(t, v)

	supplier, err := v.Sign("supplier-1", RoleSupplier, time.Hour)
	require.NoError(t, err)
	artisan, err := v.Sign("artisan-1", RoleArtisan, time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Token abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
		{"forbidden role", "Bearer " + artisan, http.StatusForbidden},
		{"allowed", "Bearer " + supplier, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/orders/ORD-1/advance", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
			if tc.status != http.StatusOK {
				assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
				return
			}
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "supplier-1", body["subject"])
		})
	}
}
