package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/itzjapcee-code/mosquito-tracker/logging"
)

// AdminAuth guards the administrative endpoints with a single static secret
// carried in the X-Admin-Secret header. With no secret configured, admin
// access is disabled entirely.
func AdminAuth(secret string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if secret == "" {
			logging.Logger.Warnf("Event ID: ADMIN_AUTH_DISABLED, Description: Admin request to %s %s rejected, no admin secret configured.", r.Method, r.URL.Path)
			http.Error(w, "Admin access disabled", http.StatusServiceUnavailable)
			return
		}

		provided := r.Header.Get("X-Admin-Secret")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			logging.Logger.Warnf("Event ID: ADMIN_AUTH_FAILED, Description: Invalid admin secret for request to %s %s.", r.Method, r.URL.Path)
			http.Error(w, "Invalid admin secret", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
