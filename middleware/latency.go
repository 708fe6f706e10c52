package middleware

import (
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/commerce-api/response"
)

// SimulatedLatency holds every request for a random duration in [min, max]
// before handling it. A zero max turns it off. A request whose context ends
// while waiting is answered with 503.
func SimulatedLatency(minDelay, maxDelay time.Duration) gin.HandlerFunc {
	if maxDelay <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	minDelay = min(max(minDelay, 0), maxDelay)
	return func(c *gin.Context) {
		d := minDelay
		if span := maxDelay - minDelay; span > 0 {
			d += rand.N(span + 1)
		}

		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			c.Next()
		case <-c.Request.Context().Done():
			response.Fail(c, http.StatusServiceUnavailable, "request cancelled")
			c.Abort()
		}
	}
}
