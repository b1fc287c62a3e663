package handlers

import "net/http"

// Health reports liveness and which optional services are configured.
func Health(paymentsConfigured, aiConfigured bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"payments": paymentsConfigured,
			"ai":       aiConfigured,
		})
	}
}
