package httpapi

import (
	"net/http"

	"github.com/courtside/matchday/internal/platform/logging"
)

func NewRouter(handler *Handler, logger *logging.Logger, corsAllowedOrigins []string) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerBoardRoutes(mux, handler)
	registerEditRoutes(mux, handler)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerBoardRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/board", handler.GetBoard)
	mux.HandleFunc("PUT /v1/filter/season", handler.SetSeasonFilter)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/stats", handler.GetSeasonStats)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/rankings", handler.GetSeasonRankings)
}

func registerEditRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/sessions/{sessionID}/edit", handler.BeginEdit)
	mux.HandleFunc("POST /v1/sessions/{sessionID}/matches", handler.CreateMatch)
	mux.HandleFunc("PUT /v1/sessions/{sessionID}/matches/{matchID}", handler.UpdateMatch)
	mux.HandleFunc("DELETE /v1/sessions/{sessionID}/matches/{matchID}", handler.DeleteMatch)
	mux.HandleFunc("POST /v1/sessions/{sessionID}/commit", handler.CommitSession)
	mux.HandleFunc("POST /v1/sessions/{sessionID}/discard", handler.DiscardSession)
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
