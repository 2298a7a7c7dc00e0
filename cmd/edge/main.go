// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

// Command edge is the entry point for the Acadia edge proxy.
//
// # Role
//
// The edge terminates bearer-token authentication for the whole platform:
// it verifies access tokens, strips any client-supplied identity header,
// and forwards authenticated traffic upstream with the verified username
// injected. Internal services never see a JWT.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Build the token codec from the shared HMAC key.
//  4. Parse the upstream address.
//  5. Start the proxy server with graceful shutdown.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/acadia-lms/acadia/internal/edge"
	"github.com/acadia-lms/acadia/internal/platform/config"
	"github.com/acadia-lms/acadia/internal/platform/constants"
	"github.com/acadia-lms/acadia/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", constants.AppName+"-edge"))
	slog.SetDefault(log)

	log.Info("[Acadia] edge_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("upstream", cfg.UpstreamURL),
	)

	// ── 3. Token Codec ────────────────────────────────────────────────────
	// Verification only: the edge never mints tokens, it checks the ones
	// the user service issued with the same key.
	codec, err := sec.NewCodec(cfg.JWTSecret, constants.AuthIssuer)
	must(log, err, "initialize token codec")

	// ── 4. Upstream ───────────────────────────────────────────────────────
	upstream, err := cfg.Upstream()
	must(log, err, "parse upstream address")

	// ── 5. Proxy Server ───────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	handler := edge.NewHandler(serverCtx, cfg, upstream, codec, log)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadTimeout:       constants.DefaultReadTimeout,
		WriteTimeout:      constants.DefaultWriteTimeout,
		IdleTimeout:       constants.DefaultIdleTimeout,
		ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
	}

	// ── 6. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("edge starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("edge stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
