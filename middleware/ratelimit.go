package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// slidingWindow 按 key 记录窗口内的请求时间
type slidingWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string][]time.Time
}

func newSlidingWindow(limit int, window time.Duration) *slidingWindow {
	return &slidingWindow{limit: limit, window: window, hits: make(map[string][]time.Time)}
}

// allow 未超限时记录本次请求
func (w *slidingWindow) allow(key string, now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	ts := prune(w.hits[key], now.Add(-w.window))
	if len(ts) >= w.limit {
		w.hits[key] = ts
		return false
	}
	w.hits[key] = append(ts, now)
	return true
}

// sweep 清理过期 key
func (w *slidingWindow) sweep(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	cutoff := now.Add(-w.window)
	for key, ts := range w.hits {
		ts = prune(ts, cutoff)
		if len(ts) == 0 {
			delete(w.hits, key)
		} else {
			w.hits[key] = ts
		}
	}
}

func prune(ts []time.Time, cutoff time.Time) []time.Time {
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// WriteLimiter 写接口限流器，Stop 后清理协程退出
type WriteLimiter struct {
	w           *slidingWindow
	stopCleanup chan struct{}
	cleanupDone chan struct{}
	stopOnce    sync.Once
}

// NewWriteLimiter limit 为 0 时不限流，也不启动清理协程
func NewWriteLimiter(limit int, window time.Duration) *WriteLimiter {
	l := &WriteLimiter{
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
	if limit <= 0 {
		close(l.cleanupDone)
		return l
	}
	l.w = newSlidingWindow(limit, window)
	go l.startCleanup(time.Minute)
	return l
}

// startCleanup 定期清理过期数据
func (l *WriteLimiter) startCleanup(interval time.Duration) {
	defer close(l.cleanupDone)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			l.w.sweep(now)
		case <-l.stopCleanup:
			return
		}
	}
}

// Stop 停止清理协程，可重复调用
func (l *WriteLimiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopCleanup)
	})
}

// Middleware 写接口限流中间件
// 已登录用户按用户 ID 计数，否则按 IP；GET/HEAD/OPTIONS 不计数
func (l *WriteLimiter) Middleware() gin.HandlerFunc {
	if l.w == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		key := "ip:" + c.ClientIP()
		if id := GetCurrentUserID(c); id > 0 {
			key = fmt.Sprintf("user:%d", id)
		}
		if !l.w.allow(key, time.Now()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    429,
				"message": "操作过于频繁，请稍后再试",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
