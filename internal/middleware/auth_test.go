package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func issueToken(t *testing.T, role string, isSuperuser bool, expiry time.Duration) string {
	t.Helper()
	token, err := GenerateToken(1, "alice", role, isSuperuser, testSecret, expiry)
	require.NoError(t, err)
	return token
}

func doRequest(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTokenRoundTrip(t *testing.T) {
	token := issueToken(t, "moderator", false, time.Hour)

	r := gin.New()
	r.GET("/ping", RequireAuth(testSecret), func(c *gin.Context) {
		claims := GetClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, 1, claims.UserID)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, "moderator", claims.Role)
		assert.True(t, claims.IsModerator())
		assert.False(t, claims.IsAdmin())
		c.Status(http.StatusOK)
	})

	w := doRequest(r, http.MethodGet, "/ping", token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthRejects(t *testing.T) {
	r := gin.New()
	r.GET("/ping", RequireAuth(testSecret), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// 无凭证
	w := doRequest(r, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 伪造的令牌
	w = doRequest(r, http.MethodGet, "/ping", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 密钥不对
	wrong, err := GenerateToken(1, "alice", "user", false, "other-secret", time.Hour)
	require.NoError(t, err)
	w = doRequest(r, http.MethodGet, "/ping", wrong)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 已过期
	expired := issueToken(t, "user", false, -time.Minute)
	w = doRequest(r, http.MethodGet, "/ping", expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	r := gin.New()
	r.GET("/ping", OptionalAuth(testSecret), func(c *gin.Context) {
		if GetClaims(c) != nil {
			c.Status(http.StatusOK)
			return
		}
		c.Status(http.StatusNoContent)
	})

	// 匿名照样放行
	w := doRequest(r, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	// 坏令牌当匿名处理
	w = doRequest(r, http.MethodGet, "/ping", "garbage")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(r, http.MethodGet, "/ping", issueToken(t, "user", false, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	r := gin.New()
	r.GET("/ping", RequireAuth(testSecret), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cases := []struct {
		role        string
		isSuperuser bool
		want        int
	}{
		{"user", false, http.StatusForbidden},
		{"moderator", false, http.StatusForbidden},
		{"admin", false, http.StatusOK},
		{"user", true, http.StatusOK}, // 超级用户视同管理员
	}
	for _, tc := range cases {
		w := doRequest(r, http.MethodGet, "/ping", issueToken(t, tc.role, tc.isSuperuser, time.Hour))
		assert.Equal(t, tc.want, w.Code, "role=%s superuser=%v", tc.role, tc.isSuperuser)
	}
}

func TestAdminOrReadOnly(t *testing.T) {
	r := gin.New()
	group := r.Group("/items", OptionalAuth(testSecret), AdminOrReadOnly())
	group.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
	group.POST("", func(c *gin.Context) { c.Status(http.StatusCreated) })

	// 读操作对所有人开放
	w := doRequest(r, http.MethodGet, "/items", "")
	assert.Equal(t, http.StatusOK, w.Code)

	// 匿名写是 401
	w = doRequest(r, http.MethodPost, "/items", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 普通用户写是 403
	w = doRequest(r, http.MethodPost, "/items", issueToken(t, "user", false, time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 管理员可以写
	w = doRequest(r, http.MethodPost, "/items", issueToken(t, "admin", false, time.Hour))
	assert.Equal(t, http.StatusCreated, w.Code)
}
