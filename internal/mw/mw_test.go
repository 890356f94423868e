package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func get(router *gin.Engine, path, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if userID != "" {
		req.Header.Set(UserIDHeader, userID)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Identity())
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})

	w := get(r, "/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "/whoami", "alice")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimiter(rate.Limit(1), 1))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, get(r, "/ping", "alice").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/ping", "alice").Code)

	// Limits are tracked per caller.
	assert.Equal(t, http.StatusOK, get(r, "/ping", "bob").Code)
}

func TestCache(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hits := 0
	store := cache.New(time.Minute, time.Minute)
	r := gin.New()
	r.GET("/data", Cache(store, time.Minute), func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"hits": hits})
	})

	first := get(r, "/data", "alice")
	assert.Equal(t, http.StatusOK, first.Code)

	// The second request is served from the cache.
	second := get(r, "/data", "alice")
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, hits)

	// Another caller gets a fresh response.
	get(r, "/data", "bob")
	assert.Equal(t, 2, hits)
}
