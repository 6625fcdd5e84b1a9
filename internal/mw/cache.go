package mw

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// ResponseCache keeps successful GET responses in memory, separately for every client.
type ResponseCache struct {
	entries *cache.Cache
	ttl     time.Duration
}

func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{entries: cache.New(ttl, 2*ttl), ttl: ttl}
}

type snapshot struct {
	status int
	header http.Header
	body   []byte
}

type recorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *recorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func (rc *ResponseCache) key(c *gin.Context) string {
	return ClientKey(c) + " " + c.Request.RequestURI
}

// Serve answers repeated GET requests from the cache and marks them with X-Cache: HIT.
// It must run after Auth so entries are kept per user.
func (rc *ResponseCache) Serve() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := rc.key(c)
		if v, ok := rc.entries.Get(key); ok {
			snap := v.(*snapshot)
			header := c.Writer.Header()
			for k, vals := range snap.header {
				header[k] = vals
			}
			header.Set("X-Cache", "HIT")
			c.Writer.WriteHeader(snap.status)
			_, _ = c.Writer.Write(snap.body)
			c.Abort()
			return
		}

		rec := &recorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if status := rec.Status(); status >= 200 && status < 300 {
			rc.entries.Set(key, &snapshot{
				status: status,
				header: rec.Header().Clone(),
				body:   bytes.Clone(rec.buf.Bytes()),
			}, rc.ttl)
		}
	}
}

// Invalidate drops every cached response of the client once one of its
// non-GET requests succeeds.
func (rc *ResponseCache) Invalidate() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Request.Method == http.MethodGet || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		prefix := ClientKey(c) + " "
		for key := range rc.entries.Items() {
			if strings.HasPrefix(key, prefix) {
				rc.entries.Delete(key)
			}
		}
	}
}
