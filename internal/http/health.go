package http

import (
	"encoding/json"
	nethttp "net/http"
)

// HealthHandler reports liveness along with the service name, so probes
// against the wrong port fail loudly.
func HealthHandler() nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"service": "frameview",
		})
	})
}
