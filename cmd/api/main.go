package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qalab/page-test-gen/internal/analyzer"
	"github.com/qalab/page-test-gen/internal/pagetest"
	"github.com/qalab/page-test-gen/internal/platform/config"
	"github.com/qalab/page-test-gen/internal/platform/logger"
	"github.com/qalab/page-test-gen/internal/platform/middleware"
)

const shutdownGrace = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	fetcher := pagetest.NewHTTPFetcher(pagetest.FetcherOptions{
		ConnectTimeout: cfg.ConnectTimeout,
		ReadTimeout:    cfg.ReadTimeout,
		MaxRetries:     cfg.MaxRetries,
	}, log)
	language := pagetest.NewLanguageAnalyzer(pagetest.DefaultLanguageCodes())
	checker := pagetest.NewChecker(cfg.LinkCheckConcurrency, cfg.ProbeTimeout)
	engine := pagetest.NewEngine(fetcher, language, checker)

	service := analyzer.NewService(engine, log)
	transport := analyzer.NewTransport(service, log)

	mux := http.NewServeMux()
	transport.RegisterRoutes(mux)

	handler := middleware.RequestID(middleware.Logging(log)(mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}
