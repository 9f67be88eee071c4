package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestWriteLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// 短窗口 200ms，最多 2 次
	limiter := NewWriteLimiter(2, 200*time.Millisecond)
	defer limiter.Stop()
	router := gin.New()
	router.Use(limiter.Middleware())
	router.POST("/transactions", func(c *gin.Context) {
		c.String(200, "ok")
	})
	router.GET("/transactions", func(c *gin.Context) {
		c.String(200, "ok")
	})

	doReq := func(method, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/transactions", nil)
		req.Header.Set("X-Real-IP", ip)
		req.RemoteAddr = ip + ":12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// 同一 IP 连续 3 次，第 3 次应返回 429
	w1 := doReq("POST", "192.168.1.1")
	w2 := doReq("POST", "192.168.1.1")
	w3 := doReq("POST", "192.168.1.1")

	assert.Equal(t, 200, w1.Code)
	assert.Equal(t, 200, w2.Code)
	assert.Equal(t, http.StatusTooManyRequests, w3.Code)
	assert.Contains(t, w3.Body.String(), "频繁")

	// 读请求不计数
	assert.Equal(t, 200, doReq("GET", "192.168.1.1").Code)

	// 不同 IP 互不影响
	assert.Equal(t, 200, doReq("POST", "192.168.1.2").Code)

	// 窗口过后恢复
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, 200, doReq("POST", "192.168.1.1").Code)
}

func TestWriteLimiter_PerUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if uid := c.GetHeader("X-User"); uid == "1" {
			c.Set("userID", uint(1))
		} else {
			c.Set("userID", uint(2))
		}
		c.Next()
	})
	limiter := NewWriteLimiter(1, time.Minute)
	defer limiter.Stop()
	router.Use(limiter.Middleware())
	router.DELETE("/goals/1", func(c *gin.Context) { c.Status(204) })

	doReq := func(user string) int {
		req := httptest.NewRequest("DELETE", "/goals/1", nil)
		req.Header.Set("X-User", user)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	// 同一 IP 的两个用户分别计数
	assert.Equal(t, 204, doReq("1"))
	assert.Equal(t, 204, doReq("2"))
	assert.Equal(t, http.StatusTooManyRequests, doReq("1"))
}

func TestWriteLimiter_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(NewWriteLimiter(0, time.Minute).Middleware())
	router.POST("/x", func(c *gin.Context) { c.String(200, "ok") })

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/x", nil))
		assert.Equal(t, 200, w.Code)
	}
}

func TestWriteLimiter_Stop(t *testing.T) {
	limiter := NewWriteLimiter(5, time.Minute)

	limiter.Stop()
	limiter.Stop()

	select {
	case <-limiter.cleanupDone:
	case <-time.After(time.Second):
		t.Fatal("清理协程未退出")
	}
}

func TestWriteLimiter_Sweep(t *testing.T) {
	limiter := NewWriteLimiter(1, 50*time.Millisecond)
	defer limiter.Stop()

	now := time.Now()
	assert.True(t, limiter.w.allow("ip:10.0.0.1", now))
	assert.False(t, limiter.w.allow("ip:10.0.0.1", now))

	limiter.w.sweep(now.Add(time.Second))
	limiter.w.mu.Lock()
	assert.Empty(t, limiter.w.hits)
	limiter.w.mu.Unlock()
}
