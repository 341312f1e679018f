package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// cacheEntry is one memoized response, keyed by request URI.
type cacheEntry struct {
	status int
	header http.Header
	body   []byte
}

// recordingWriter tees the response body so a successful snapshot can be
// replayed to later readers within the TTL.
type recordingWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache memoizes successful GET responses for ttl. The snapshot
// endpoint only opts in when a deployment explicitly configures a TTL, since
// a cached snapshot trades freshness for read fan-out; every other method
// passes straight through.
func ResponseCache(ttl time.Duration) gin.HandlerFunc {
	entries := cache.New(ttl, 2*ttl)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.RequestURI
		if hit, ok := entries.Get(key); ok {
			entry := hit.(cacheEntry)
			for k, vals := range entry.header {
				c.Writer.Header()[k] = vals
			}
			c.Writer.WriteHeader(entry.status)
			c.Writer.Write(entry.body)
			c.Abort()
			return
		}

		rw := &recordingWriter{ResponseWriter: c.Writer, body: bytes.NewBuffer(nil)}
		c.Writer = rw

		c.Next()

		// Errors are never memoized; a failed read should not shadow the
		// next successful one for a whole TTL.
		if rw.Status() >= 200 && rw.Status() < 300 {
			entries.Set(key, cacheEntry{
				status: rw.Status(),
				header: rw.Header().Clone(),
				body:   rw.body.Bytes(),
			}, ttl)
		}
	}
}
