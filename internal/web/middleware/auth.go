package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/weifxx/timetable/internal/admins"
)

// AdminOnly returns middleware that restricts a route to registered
// administrators. The caller identifies itself with the X-Admin-ID header;
// the numeric ID must be present in the registry.
func AdminOnly(reg *admins.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("X-Admin-ID")
			if raw == "" {
				slog.Warn("auth: missing admin ID",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, `{"error":"missing admin ID","code":"AUTH_MISSING_ID"}`, http.StatusUnauthorized)
				return
			}

			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || !reg.IsAdmin(id) {
				slog.Warn("auth: not an administrator",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, `{"error":"administrator access required","code":"AUTH_FORBIDDEN"}`, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
