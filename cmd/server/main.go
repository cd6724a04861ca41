package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/bsco/arena-lobby-backend/internal/config"
	"github.com/bsco/arena-lobby-backend/internal/httpapi"
	"github.com/bsco/arena-lobby-backend/internal/repo"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	ctx := context.Background()
	cfg := config.Load()

	st, err := cfg.OpenStore(ctx, log)
	if err != nil {
		log.Fatal("failed to open store", zap.Error(err))
	}

	rep := repo.New(st, log)

	// Build the router *with* the repository injected
	handler := httpapi.SetupRoutes(rep, log)

	log.Info("listening", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
