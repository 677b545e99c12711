package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"casino-livesync/internal/catalog"
	"casino-livesync/internal/config"
	"casino-livesync/internal/logging"
	"casino-livesync/internal/protocol"
	"casino-livesync/internal/session"
	httptransport "casino-livesync/internal/transport/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func main() {
	schemaOnly := pflag.Bool("schema", false, "print the wire protocol JSON schema and exit")
	pflag.Parse()
	if *schemaOnly {
		if err := writeSchema(os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("write schema failed")
		}
		return
	}

	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(cfg.Log); err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, closeSource := openCatalog(ctx, cfg.Server)
	defer closeSource()

	sess, err := session.New(cfg, source)
	if err != nil {
		log.Fatal().Err(err).Msg("session init failed")
	}
	sess.Start(ctx)

	r := httptransport.NewRouter(sess, cfg.Server)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	sess.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}

// openCatalog prefers Postgres when a DSN is configured; an unreachable
// database falls back to the builtin lobby.
func openCatalog(ctx context.Context, cfg config.ServerConfig) (catalog.Source, func()) {
	if cfg.CatalogPostgresDSN == "" {
		return catalog.BuiltinSource{}, func() {}
	}
	pg, err := catalog.NewPostgresSource(ctx, cfg.CatalogPostgresDSN)
	if err == nil {
		err = pg.Ping(ctx)
		if err != nil {
			pg.Close()
		}
	}
	if err != nil {
		log.Warn().Err(err).Msg("catalog_postgres_unavailable_using_builtin")
		return catalog.BuiltinSource{}, func() {}
	}
	return pg, pg.Close
}

func writeSchema(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(protocol.Schema())
}
