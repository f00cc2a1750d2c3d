package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alumni-reunion/backend/config"
)

func limitedRouter(cfg config.RateLimitConfig, rdb *redis.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/submit", RateLimit(cfg, rdb, zap.NewNop()), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	r := limitedRouter(config.RateLimitConfig{Enabled: false}, nil)
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_NilClientPassesThrough(t *testing.T) {
	r := limitedRouter(config.RateLimitConfig{Enabled: true, Max: 1, Window: time.Minute}, nil)
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_FailsOpenWhenRedisUnreachable(t *testing.T) {
	// Nothing listens here; Incr errors and the limiter must let the
	// request through.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { rdb.Close() })

	r := limitedRouter(config.RateLimitConfig{Enabled: true, Max: 1, Window: time.Minute}, rdb)
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}
