package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/digital-menu/utils"
	"golang.org/x/time/rate"
)

// PaymentSecurityHeaders adds the stricter headers of the checkout endpoints.
func PaymentSecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		setHeaders(c, baseSecurityHeaders)
		c.Header("Cache-Control", "no-store")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Next()
	}
}

// PaymentRateLimiter caps the payment endpoints as a whole.
func PaymentRateLimiter() gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Every(time.Second), 10)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(429, gin.H{
				"error":   "Too many requests",
				"details": "Please wait before making another payment request",
			})
			return
		}
		c.Next()
	}
}

// LogPaymentRequest logs every payment call. Request bodies carry the
// pending signup and are never logged.
func LogPaymentRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		utils.InfoLogger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Info("Payment request")
	}
}
