package middlewares

import (
	"github.com/gin-gonic/gin"
)

var baseSecurityHeaders = map[string]string{
	"X-Frame-Options":         "DENY",
	"X-Content-Type-Options":  "nosniff",
	"Referrer-Policy":         "strict-origin-when-cross-origin",
	"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
}

func setHeaders(c *gin.Context, headers map[string]string) {
	for k, v := range headers {
		c.Header(k, v)
	}
}

// SecurityHeaders is applied to every API response. HSTS is only sent
// when the server sits behind TLS.
func SecurityHeaders(hsts bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		setHeaders(c, baseSecurityHeaders)
		if hsts {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
