package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/harrisonrobin/taskmate/pkg/logging"
)

// RequestIDHeader carries the per-request ID.
const RequestIDHeader = "X-Request-ID"

// RegisterRoutes sets up all routes for the application.
func RegisterRoutes(router *mux.Router, c *TaskController) {
	router.HandleFunc("/", c.Index).Methods(http.MethodGet)
	router.HandleFunc("/tasks", c.SubmitTask).Methods(http.MethodPost)
	router.HandleFunc("/api/tasks", c.GetTasks).Methods(http.MethodGet)
	router.HandleFunc("/api/tasks", c.CreateTask).Methods(http.MethodPost)
	router.HandleFunc("/api/tasks/priority", c.ChangePriority).Methods(http.MethodPut)
}

// NewRouter returns a router with all routes and request logging.
func NewRouter(c *TaskController, log *logging.Logger) *mux.Router {
	router := mux.NewRouter()
	RegisterRoutes(router, c)
	router.Use(requestLogger(log))
	return router
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogger(log *logging.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)

			log.Info().
				Str("request_id", id).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
