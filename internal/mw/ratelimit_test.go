package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limitedRouter(perSec float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(perSec, burst))
	r.GET("/api/chairs", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"chairs": gin.H{}})
	})
	return r
}

func get(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/chairs", nil)
	req.RemoteAddr = remoteAddr
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimit_ExhaustedBucketGets429(t *testing.T) {
	// A refill rate near zero keeps the bucket empty once the burst is spent.
	router := limitedRouter(0.0001, 2)

	assert.Equal(t, http.StatusOK, get(router, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, get(router, "10.0.0.1:1234").Code)

	w := get(router, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())
}

func TestRateLimit_BucketsArePerClient(t *testing.T) {
	router := limitedRouter(0.0001, 1)

	assert.Equal(t, http.StatusOK, get(router, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(router, "10.0.0.1:1234").Code)

	// A different sensor is unaffected by the noisy one.
	assert.Equal(t, http.StatusOK, get(router, "10.0.0.2:1234").Code)
}
