package api

import (
	"net/http"
	"time"

	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/config"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/errors"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/logger"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/tasks/store"
)

var startTime = time.Now()

// HealthResponse provides detailed health information
type HealthResponse struct {
	Status       string `json:"status"`
	Timestamp    string `json:"timestamp"`
	Uptime       string `json:"uptime"`
	StoreBackend string `json:"store_backend"`
	TaskCount    int    `json:"task_count"`
	Version      string `json:"version,omitempty"`
}

// NewHealthHandler returns a health check handler
func NewHealthHandler(cfg *config.Config, st store.TaskStore, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := st.Count(r.Context())
		if err != nil {
			respondWithError(w, errors.NewInternalError("store unavailable"), lg)
			return
		}

		respondWithJSON(w, http.StatusOK, HealthResponse{
			Status:       "healthy",
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
			Uptime:       time.Since(startTime).String(),
			StoreBackend: cfg.StoreBackend,
			TaskCount:    count,
			Version:      cfg.Version,
		}, lg)
	}
}
