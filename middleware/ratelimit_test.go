package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/torarnehave1/slowyou.io/config"
)

func newRateLimitRouter(t *testing.T, cfg RateLimitConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/limited", RateLimiter(cfg), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func hitLimited(r *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_UnderLimit(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	config.SetRedisClientForTesting(rdb)
	t.Cleanup(func() { config.SetRedisClientForTesting(nil) })

	window := time.Minute
	key := "ratelimit:/limited:192.0.2.1"
	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, window).SetVal(true)

	r := newRateLimitRouter(t, RateLimitConfig{Limit: 2, Window: window})
	w := hitLimited(r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_OverLimit(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	config.SetRedisClientForTesting(rdb)
	t.Cleanup(func() { config.SetRedisClientForTesting(nil) })

	window := time.Minute
	key := "ratelimit:/limited:192.0.2.1"
	mock.ExpectIncr(key).SetVal(3)
	mock.ExpectExpire(key, window).SetVal(true)

	r := newRateLimitRouter(t, RateLimitConfig{Limit: 2, Window: window})
	w := hitLimited(r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_FailsOpenOnRedisError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	config.SetRedisClientForTesting(rdb)
	t.Cleanup(func() { config.SetRedisClientForTesting(nil) })

	key := "ratelimit:/limited:192.0.2.1"
	mock.ExpectIncr(key).SetErr(errors.New("connection refused"))

	r := newRateLimitRouter(t, RateLimitConfig{Limit: 2, Window: time.Minute})
	w := hitLimited(r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_FailsOpenWithoutRedis(t *testing.T) {
	config.SetRedisClientForTesting(nil)

	r := newRateLimitRouter(t, RateLimitConfig{})
	w := hitLimited(r)

	assert.Equal(t, http.StatusOK, w.Code)
}
