package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/errors"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/logger"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/tasks"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/tasks/tracker"
)

const maxBodySize = 1024 * 1024 // 1 MB

const statusSuccess = "Success"

// errorResponse defines the JSON structure for error responses
type errorResponse struct {
	Error   string         `json:"error"`
	Type    string         `json:"type,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// createTaskRequest defines the expected payload for creating a task.
type createTaskRequest struct {
	Title       string `json:"Title"`
	Description string `json:"Description"`
	Done        bool   `json:"done"`
}

// TaskResponse wraps a task snapshot for GET responses.
type TaskResponse struct {
	Status string      `json:"Status"`
	Task   *tasks.Task `json:"Task"`
}

// TaskAddedResponse wraps the created task for POST responses.
// The "Task Added" key is part of the wire contract.
type TaskAddedResponse struct {
	Status    string      `json:"Status"`
	TaskAdded *tasks.Task `json:"Task Added"`
}

// MessageResponse confirms an update or delete without echoing the record.
type MessageResponse struct {
	Status  string `json:"Status"`
	Message string `json:"Message"`
}

// NewGetTaskHandler returns an HTTP handler that serves task lookups.
func NewGetTaskHandler(tr tracker.Tracker, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseTaskID(r)
		if err != nil {
			respondWithError(w, err, lg)
			return
		}

		task, err := tr.GetTask(r.Context(), id)
		if err != nil {
			respondWithError(w, err, lg)
			return
		}

		respondWithJSON(w, http.StatusOK, TaskResponse{
			Status: statusSuccess,
			Task:   task,
		}, lg)
	}
}

// NewCreateTaskHandler returns an HTTP handler that processes task creation.
func NewCreateTaskHandler(tr tracker.Tracker, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Limit request body size - this will cause Decode to fail if exceeded
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

		var req createTaskRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithError(w, err, lg)
			return
		}

		task, err := tr.CreateTask(r.Context(), req.Title, req.Description, req.Done)
		if err != nil {
			respondWithError(w, err, lg)
			return
		}

		respondWithJSON(w, http.StatusCreated, TaskAddedResponse{
			Status:    statusSuccess,
			TaskAdded: task,
		}, lg)
	}
}

// NewUpdateTaskHandler returns an HTTP handler that applies partial updates.
func NewUpdateTaskHandler(tr tracker.Tracker, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseTaskID(r)
		if err != nil {
			respondWithError(w, err, lg)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

		var patch tasks.TaskPatch
		if err := decodeBody(r, &patch); err != nil {
			respondWithError(w, err, lg)
			return
		}

		if err := tr.UpdateTask(r.Context(), id, patch); err != nil {
			respondWithError(w, err, lg)
			return
		}

		respondWithJSON(w, http.StatusOK, MessageResponse{
			Status:  statusSuccess,
			Message: "Task Updated Successfully",
		}, lg)
	}
}

// NewDeleteTaskHandler returns an HTTP handler that removes tasks.
func NewDeleteTaskHandler(tr tracker.Tracker, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseTaskID(r)
		if err != nil {
			respondWithError(w, err, lg)
			return
		}

		if err := tr.DeleteTask(r.Context(), id); err != nil {
			respondWithError(w, err, lg)
			return
		}

		respondWithJSON(w, http.StatusOK, MessageResponse{
			Status:  statusSuccess,
			Message: fmt.Sprintf("Task with ID %d deleted", id),
		}, lg)
	}
}

// parseTaskID extracts the {id} path value. Non-numeric values get the same
// invalid_argument treatment as non-positive ones.
func parseTaskID(r *http.Request) (int, error) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewInvalidArgumentError("task ID must be a positive integer", map[string]any{
			"task_id": raw,
		})
	}
	return id, nil
}

// decodeBody parses a JSON request body into dst. The caller applies the
// size limit; malformed JSON and oversized bodies are both reported as
// validation failures.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		// Check if the error is due to request size limit
		if strings.Contains(err.Error(), "http: request body too large") {
			return errors.NewValidationError("request body too large", map[string]any{
				"max_size_bytes": maxBodySize,
			})
		}

		return errors.NewValidationError("invalid JSON payload", map[string]any{
			"error": err.Error(),
		})
	}
	return nil
}

func respondWithJSON(w http.ResponseWriter, code int, payload any, lg *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already written; all we can do is record the failure.
		lg.Error("failed to encode response", map[string]any{
			"error": err.Error(),
		})
	}
}

// respondWithError sends a structured error response
func respondWithError(w http.ResponseWriter, err error, lg *logger.Logger) {
	taskErr, ok := errors.IsTaskError(err)
	if !ok {
		taskErr = errors.NewInternalError(err.Error())
	}

	lg.Error("HTTP error response", map[string]any{
		"error_type":    string(taskErr.Type),
		"error_message": taskErr.Message,
		"status_code":   taskErr.Code,
		"error_details": taskErr.Details,
	})

	respondWithJSON(w, taskErr.Code, errorResponse{
		Error:   taskErr.Message,
		Type:    string(taskErr.Type),
		Details: taskErr.Details,
	}, lg)
}
