package middleware

import (
	"net/http"
	"strings"
)

// The router exposes GET, POST, PUT and DELETE; PATCH is not used.
// X-Requested-With is allowed for the swagger UI's fetch calls.
const (
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders = "Authorization, Content-Type, Accept, X-Requested-With"
	corsMaxAge       = "3600"
)

// CORS answers preflight OPTIONS requests with 204 and decorates responses
// for origins on the allow list. Requests from other origins pass through
// without CORS headers, so browsers reject them while curl still works.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	allowList := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origin = strings.TrimSuffix(strings.TrimSpace(origin), "/")
		if origin != "" {
			allowList[origin] = struct{}{}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		_, allowed := allowList[origin]

		if r.Method == http.MethodOptions {
			if allowed {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				h.Set("Access-Control-Max-Age", corsMaxAge)
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if !allowed {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(&corsResponseWriter{ResponseWriter: w, origin: origin}, r)
	})
}

// corsResponseWriter sets the origin headers right before the status line is
// written, after the handler has finished setting its own headers.
type corsResponseWriter struct {
	http.ResponseWriter
	origin string
}

func (w *corsResponseWriter) WriteHeader(code int) {
	w.ResponseWriter.Header().Set("Access-Control-Allow-Origin", w.origin)
	w.ResponseWriter.Header().Set("Access-Control-Allow-Credentials", "true")
	w.ResponseWriter.WriteHeader(code)
}
