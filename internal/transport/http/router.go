package http

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"maturity-quiz-service/internal/app"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	DefaultBankID  string
	AllowedOrigins []string
}

// NewRouter mounts the REST API and the websocket endpoint behind CORS and panic recovery.
func NewRouter(service *app.AssessmentService, logger *zap.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := mux.NewRouter()
	NewAPIHandler(service, logger).SetupRoutes(r)
	r.HandleFunc("/ws", NewWSHandler(service, logger, opts.DefaultBankID, opts.AllowedOrigins).ServeWS)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(logger)),
		handlers.PrintRecoveryStack(false),
	)
	return recovery(cors(r))
}
