// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package edge

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/acadia-lms/acadia/internal/platform/apperr"
	"github.com/acadia-lms/acadia/internal/platform/config"
	"github.com/acadia-lms/acadia/internal/platform/constants"
	"github.com/acadia-lms/acadia/internal/platform/ctxutil"
	"github.com/acadia-lms/acadia/internal/platform/middleware"
	"github.com/acadia-lms/acadia/internal/platform/respond"
)

// upstreamTimeout bounds a single proxied round trip.
const upstreamTimeout = 30 * time.Second

// NewHandler assembles the full edge handler: middleware chain, the
// authentication filter, and the reverse proxy to the upstream API.
func NewHandler(ctx context.Context, cfg *config.Config, upstream *url.URL, verifier TokenVerifier, logger *slog.Logger) http.Handler {
	router := chi.NewRouter()

	// Global middleware chain. Order matters:
	// trace -> log -> safety -> rate limit -> CORS -> auth filter -> proxy.
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(logger))
	router.Use(middleware.PanicRecovery(logger))
	router.Use(middleware.RateLimit(ctx))
	router.Use(middleware.CORS(cfg))
	router.Use(Filter(verifier))

	router.Handle("/*", newProxy(upstream, logger))

	return router
}

// newProxy builds the reverse proxy that forwards filtered traffic upstream.
func newProxy(upstream *url.URL, logger *slog.Logger) http.Handler {
	proxy := &httputil.ReverseProxy{
		Rewrite: func(request *httputil.ProxyRequest) {
			request.SetURL(upstream)
			request.SetXForwarded()

			// Propagate the correlation ID so upstream logs join up with ours.
			if requestID := ctxutil.GetRequestID(request.In.Context()); requestID != "" {
				request.Out.Header.Set(constants.HeaderXRequestID, requestID)
			}
		},
		ErrorHandler: func(writer http.ResponseWriter, request *http.Request, err error) {
			reqLogger := ctxutil.GetLogger(request.Context())
			reqLogger.ErrorContext(request.Context(), "edge_upstream_unreachable",
				slog.String("upstream", upstream.String()),
				slog.Any("error", err),
			)
			respond.Error(writer, request, apperr.ServiceUnavailable("Upstream service unavailable"))
		},
		Transport: &http.Transport{
			ResponseHeaderTimeout: upstreamTimeout,
		},
	}

	return proxy
}
