package middlewares

import (
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/digital-menu/utils"
)

// redactedParams never reach the logs; websocket clients send their session
// token as a query parameter.
var redactedParams = []string{"token"}

func redactQuery(q url.Values) string {
	for _, k := range redactedParams {
		if q.Has(k) {
			q.Set(k, "REDACTED")
		}
	}
	return q.Encode()
}

func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + redactQuery(c.Request.URL.Query())
		}

		entry := utils.InfoLogger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		})
		if email := SessionEmail(c); email != "" {
			entry = entry.WithField("email", email)
		}
		entry.Info(path)
	}
}

// AuditLogger records dashboard writes per owner. Reads pass through
// silently.
func AuditLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == "GET" {
			return
		}
		fields := logrus.Fields{
			"owner":  SessionEmail(c),
			"method": c.Request.Method,
			"route":  c.FullPath(),
			"status": c.Writer.Status(),
		}
		if c.Writer.Status() < 400 {
			utils.InfoLogger.WithFields(fields).Info("Menu change applied")
		} else {
			utils.ErrorLogger.WithFields(fields).Warn("Menu change rejected")
		}
	}
}
