package routes

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"flowy/app/controllers"
	"flowy/app/middleware"
)

// RegisterRoutes sets up all routes for the application. Every route is
// behind the API key gate. Paths are matched escaped so an id containing
// "/" is reachable as /a%2Fb.
func RegisterRoutes(router *mux.Router, taskController *controllers.TaskController, gate *middleware.Gate) {
	router.UseEncodedPath()
	router.NotFoundHandler = http.HandlerFunc(controllers.NotFound)
	router.Use(gate.Middleware)

	router.HandleFunc("/set", taskController.SetTask).Methods(http.MethodPost)
	router.HandleFunc("/{id}", taskController.GetTask).Methods(http.MethodGet)
	router.HandleFunc("/{id}", taskController.DeleteTask).Methods(http.MethodDelete)
}

// NewHandler builds the full request chain:
// request id -> access log -> CORS envelope -> router -> gate -> handler.
func NewHandler(taskController *controllers.TaskController, apiKey string, logger *log.Logger) http.Handler {
	router := mux.NewRouter()
	gate := middleware.NewGate(apiKey, http.HandlerFunc(controllers.NotFound))
	RegisterRoutes(router, taskController, gate)

	var handler http.Handler = router
	handler = middleware.CORS(handler)
	handler = middleware.AccessLog(logger)(handler)
	handler = middleware.RequestID(handler)
	return handler
}
