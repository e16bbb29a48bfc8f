package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/errors"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/logger"
)

// APIKeyHeader is the request header carrying the v2 shared secret.
const APIKeyHeader = "GLEN_LAB4_api_key"

// APIKeyAuth gates a handler behind a static shared-secret header check.
//
// The gate is a pure per-request predicate: it compares the header value
// against the configured key and rejects with 401 before the wrapped handler
// runs. An empty configured key fails closed, so a deployment without the
// secret set rejects every v2 request no matter what the caller sends.
func APIKeyAuth(apiKey string, lg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(APIKeyHeader)

			if apiKey == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				lg.Error("unauthorized access attempt detected", map[string]any{
					"http_method": r.Method,
					"http_path":   r.URL.Path,
					"remote_addr": r.RemoteAddr,
					"key_present": provided != "",
				})
				writeUnauthorized(w)
				return
			}

			lg.Debug("API key validation successful", map[string]any{
				"http_path": r.URL.Path,
			})

			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	taskErr := errors.NewUnauthenticatedError("unauthorized")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(taskErr.Code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": taskErr.Message,
		"type":  string(taskErr.Type),
	})
}
