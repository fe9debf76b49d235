package handlers

import (
	"net/http"
)

// HealthCheck reports that the gateway is serving.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "UP"})
}
