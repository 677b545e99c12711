// Command mock-authority is a development game authority: it runs the
// simulation server-side and streams its events to connected clients.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"casino-livesync/internal/authority"
	"casino-livesync/internal/catalog"
	"casino-livesync/internal/config"
	"casino-livesync/internal/logging"

	"github.com/rs/zerolog/log"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(logCfg); err != nil {
		panic(err)
	}
	cfg, err := config.LoadAuthority()
	if err != nil {
		log.Fatal().Err(err).Msg("load authority config failed")
	}
	simCfg, err := config.LoadSimulation()
	if err != nil {
		log.Fatal().Err(err).Msg("load simulation config failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := authority.NewServer(cfg, simCfg, catalog.BuiltinSource{})
	if err != nil {
		log.Fatal().Err(err).Msg("authority init failed")
	}
	if err := srv.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("authority start failed")
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.Addr).Bool("auth", cfg.TokenSecret != "").Msg("authority listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	srv.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}
