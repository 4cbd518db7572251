package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"flowy/app/middleware"
	"flowy/app/models"
	"flowy/app/services"
)

// DefaultMaxBodyBytes bounds the size of a POST /set body.
const DefaultMaxBodyBytes = 1 << 20

// TaskController handles HTTP requests for tasks.
type TaskController struct {
	Store        services.TaskStore
	Logger       *log.Logger
	MaxBodyBytes int64
}

// NewTaskController creates a new TaskController.
func NewTaskController(store services.TaskStore, logger *log.Logger) *TaskController {
	return &TaskController{Store: store, Logger: logger, MaxBodyBytes: DefaultMaxBodyBytes}
}

var okResponse = map[string]bool{"ok": true}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// NotFound is the JSON not-found handler, also used for requests the API
// key gate forwards.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

// writeStoreError maps store failures to responses. Backend errors are
// logged but never echoed to the client.
func (c *TaskController) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, services.ErrNotFound.Error())
		return
	}
	c.Logger.Error("store failure",
		"rid", middleware.RequestIDFromContext(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"err", err,
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// taskID returns the unescaped {id} path variable.
func taskID(r *http.Request) (string, error) {
	return url.PathUnescape(mux.Vars(r)["id"])
}

// SetTask handles POST /set.
func (c *TaskController) SetTask(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, c.MaxBodyBytes)

	var task models.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := task.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := c.Store.SetTask(r.Context(), &task); err != nil {
		c.writeStoreError(w, r, err)
		return
	}
	c.Logger.Debug("task set", "task_id", task.ID, "children", len(task.Children))
	writeJSON(w, http.StatusOK, okResponse)
}

// GetTask handles GET /{id}.
func (c *TaskController) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	task, err := c.Store.GetTask(r.Context(), id)
	if err != nil {
		c.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /{id}.
func (c *TaskController) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	if err := c.Store.DeleteTask(r.Context(), id); err != nil {
		c.writeStoreError(w, r, err)
		return
	}
	c.Logger.Debug("task deleted", "task_id", id)
	writeJSON(w, http.StatusOK, okResponse)
}
