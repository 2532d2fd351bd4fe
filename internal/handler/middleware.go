package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// MetricsRecorder is what the HTTP layer needs from pkg/metrics.
type MetricsRecorder interface {
	RecordHTTPRequest(route, method string, status int, took time.Duration)
	Handler() http.Handler
}

// requestLogger writes one line per request. Errors attached by response.WriteError are included.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	l := logger.With().Str("module", "handler").Str("component", "http").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			ev = l.Error()
		case status >= http.StatusBadRequest:
			ev = l.Warn()
		default:
			ev = l.Debug()
		}
		if len(c.Errors) > 0 {
			ev = ev.Err(c.Errors.Last().Err)
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", c.FullPath()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

func metricsMiddleware(m MetricsRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			// unmatched paths share one series
			route = "unmatched"
		}
		m.RecordHTTPRequest(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
