package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sleepycare", Name: "http_requests_total", Help: "Number of HTTP requests by method and status."},
		[]string{"method", "status"},
	)
	AuthFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sleepycare", Name: "auth_failures_total", Help: "Number of rejected requests by failure kind."},
		[]string{"kind"},
	)
	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sleepycare", Name: "cache_hits_total", Help: "Catalog cache hits and misses."},
		[]string{"result"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RequestsTotal)
	reg.MustRegister(AuthFailures)
	reg.MustRegister(CacheHits)
}

// RequestCounter is a Gin middleware recording every response.
func RequestCounter() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		RequestsTotal.WithLabelValues(c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
