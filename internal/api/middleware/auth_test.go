package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAPIKeyAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(APIKeyAuth(AuthConfig{Enabled: true, APIKeys: []string{"sk_test_123456"}}, nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		name   string
		header string
		value  string
		code   int
	}{
		{"缺少 key", "", "", http.StatusUnauthorized},
		{"无效 key", "X-API-Key", "nope", http.StatusForbidden},
		{"X-API-Key", "X-API-Key", "sk_test_123456", http.StatusNoContent},
		{"Bearer", "Authorization", "Bearer sk_test_123456", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			assert.Equal(t, tt.code, rr.Code)
		})
	}
	assert.Equal(t, "sk_t****3456", maskAPIKey("sk_test_123456"))
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(0.001, 2))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 3)
	for i := range codes {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
		codes[i] = rr.Code
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}
