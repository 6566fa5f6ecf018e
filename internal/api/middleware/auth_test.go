package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupAuthRouter(apiKey string) *gin.Engine {
	r := gin.New()
	r.GET("/protected", APIKeyAuth(apiKey), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doAuthRequest(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if key != "" {
		req.Header.Set(APIKeyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAPIKeyAuth_ValidKey(t *testing.T) {
	r := setupAuthRouter("secreto-123")

	if w := doAuthRequest(r, "secreto-123"); w.Code != http.StatusOK {
		t.Errorf("正确密钥期望 200，实际=%d", w.Code)
	}
}

func TestAPIKeyAuth_MissingKey(t *testing.T) {
	r := setupAuthRouter("secreto-123")

	if w := doAuthRequest(r, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("缺少密钥期望 401，实际=%d", w.Code)
	}
}

func TestAPIKeyAuth_WrongKey(t *testing.T) {
	r := setupAuthRouter("secreto-123")

	if w := doAuthRequest(r, "secreto-124"); w.Code != http.StatusUnauthorized {
		t.Errorf("错误密钥期望 401，实际=%d", w.Code)
	}
}

func TestAPIKeyAuth_ServerKeyUnset(t *testing.T) {
	r := setupAuthRouter("")

	// 服务端未配置密钥时拒绝所有请求，而不是放行
	if w := doAuthRequest(r, "cualquiera"); w.Code != http.StatusInternalServerError {
		t.Errorf("未配置密钥期望 500，实际=%d", w.Code)
	}
}
