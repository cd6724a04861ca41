package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bsco/arena-lobby-backend/internal/repo"
)

func SetupRoutes(rep *repo.Repository, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(recoverer(log))

	// Public routes
	r.Post("/lobby", HandleLobbyAction(rep, log))
	r.Get("/lobby", HandleLobbyGet(rep, log))
	r.Get("/healthz", Healthz)
	return r
}

// recoverer turns panics into a logged 500 with a generic body, so no raw
// error detail reaches the client.
func recoverer(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic in handler", zap.Any("panic", rec), zap.String("path", req.URL.Path))
					writeJSON(w, http.StatusInternalServerError, lobbyResponse{Error: "server error"})
				}
			}()
			next.ServeHTTP(w, req)
		})
	}
}
