package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

// SecureConfig selects the security headers sent with every response
type SecureConfig struct {
	// SSLRedirect redirects plain HTTP to HTTPS. Production only.
	SSLRedirect bool
	// STSSeconds enables HSTS when positive
	STSSeconds int64
	// IsDevelopment disables host and SSL checks
	IsDevelopment bool
}

// SecureHeaders applies unrolled/secure. Exported PDFs are opened in a new
// tab, so framing is denied and sniffing disabled.
func SecureHeaders(cfg SecureConfig, log *zap.Logger) gin.HandlerFunc {
	sec := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		PermissionsPolicy:     "camera=(), geolocation=(), microphone=(), payment=(), usb=()",
		ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; frame-ancestors 'none'",
		SSLRedirect:           cfg.SSLRedirect,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		STSSeconds:            cfg.STSSeconds,
		STSIncludeSubdomains:  cfg.STSSeconds > 0,
		IsDevelopment:         cfg.IsDevelopment,
	})

	return func(c *gin.Context) {
		if err := sec.Process(c.Writer, c.Request); err != nil {
			log.Warn("secure headers blocked request",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			c.Abort()
			return
		}
		// Process may have answered with a redirect
		if status := c.Writer.Status(); status > 300 && status < 399 {
			c.Abort()
			return
		}
		c.Next()
	}
}
