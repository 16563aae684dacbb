package middleware

import (
	"net/http"

	"github.com/unrolled/secure"

	"github.com/gemvault/gemvault-backend/pkg/config"
)

// SecureHeaders sets the standard browser hardening headers. HTTPS redirects
// and HSTS only apply in production.
func SecureHeaders(app config.AppConfig) func(http.Handler) http.Handler {
	prod := app.IsProd()
	return secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		SSLRedirect:           prod,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		STSSeconds:            stsSeconds(prod),
		STSIncludeSubdomains:  prod,
		IsDevelopment:         !prod,
	}).Handler
}

func stsSeconds(prod bool) int64 {
	if !prod {
		return 0
	}
	return 31536000
}
