package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"pro5/backend/restheart"
	"pro5/backend/services"

	"go.uber.org/zap"
)

// Problem is the JSON error body returned by the API.
type Problem struct {
	Title      string `json:"title"`
	Status     int    `json:"status"`
	Detail     string `json:"detail,omitempty"`
	EntityName string `json:"entityName,omitempty"`
	ErrorKey   string `json:"errorKey,omitempty"`
}

// badRequest describes the id errors the services report.
var badRequest = []struct {
	err   error
	title string
	key   string
}{
	{services.ErrIDNull, "Invalid id", "idnull"},
	{services.ErrIDInvalid, "Invalid ID", "idinvalid"},
	{services.ErrEntityNotFound, "Entity not found", "idnotfound"},
	{services.ErrIDMismatch, "ID in URL and request body must match", "idnotmatch"},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	json.NewEncoder(w).Encode(p)
}

// writeError maps a service error onto an HTTP problem response.
func writeError(w http.ResponseWriter, logger *zap.Logger, appName, entityName string, err error) {
	for _, br := range badRequest {
		if errors.Is(err, br.err) {
			w.Header().Set("X-"+appName+"-error", "error."+br.key)
			w.Header().Set("X-"+appName+"-params", entityName)
			writeProblem(w, Problem{
				Title:      br.title,
				Status:     http.StatusBadRequest,
				EntityName: entityName,
				ErrorKey:   br.key,
			})
			return
		}
	}

	if errors.Is(err, services.ErrNotFound) {
		writeProblem(w, Problem{Title: "Not Found", Status: http.StatusNotFound, EntityName: entityName})
		return
	}

	if restheart.IsUnavailable(err) {
		logger.Warn("Entity store failed", zap.Error(err))
		writeProblem(w, Problem{
			Title:      "Bad Gateway",
			Status:     http.StatusBadGateway,
			Detail:     "The entity store is not available.",
			EntityName: entityName,
		})
		return
	}

	logger.Error("Request failed", zap.Error(err))
	writeProblem(w, Problem{
		Title:      "Internal Server Error",
		Status:     http.StatusInternalServerError,
		Detail:     "An unexpected error occurred.",
		EntityName: entityName,
	})
}
