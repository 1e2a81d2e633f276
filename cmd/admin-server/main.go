package main

import (
	"context"
	"net/http"
	"time"

	"hagere-admin/internal/app/auth"
	"hagere-admin/internal/backend"
	"hagere-admin/internal/config"
	"hagere-admin/internal/dashboard"
	"hagere-admin/internal/logging"
	"hagere-admin/internal/store"
	httptransport "hagere-admin/internal/transport/http"

	"github.com/rs/zerolog/log"
)

func main() {
	app, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(app.Log)
	cfg := app.Server
	backendCfg := app.Backend

	st, err := store.New(cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}

	bc := backend.New(backendCfg)
	authSvc := auth.NewService(st, bc, cfg)
	authSvc.StartJanitor(context.Background(), time.Duration(cfg.SessionSweepMinutes)*time.Minute)
	coord := dashboard.NewCoordinator(bc)

	r := httptransport.NewRouter(st, authSvc, coord, bc)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.HTTPAddr).Str("backend", backendCfg.BaseURL).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
