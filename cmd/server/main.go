package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/siit-asr/faqserve/internal/api"
	"github.com/siit-asr/faqserve/internal/config"
	"github.com/siit-asr/faqserve/internal/index"
	"github.com/siit-asr/faqserve/internal/linkcheck"
	"github.com/siit-asr/faqserve/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Load the FAQ corpus once at startup; documents are immutable
	// after this until replaced through the admin API.
	st := store.New()
	if err := st.LoadDir(cfg.DataDir, log); err != nil {
		log.Error("corpus load failed", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}

	idx, err := index.Build(st.List())
	if err != nil {
		log.Error("index build failed", "error", err)
		os.Exit(1)
	}
	log.Info("index built", "entries", idx.Count(), "topics", len(idx.Topics()))

	checker := linkcheck.NewChecker(cfg.LinkCheckTimeout, cfg.LinkCheckConcurrency, cfg.LinkCheckDeepPDF, log)

	srv := api.NewServer(st, idx, checker, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting faqserve", "port", cfg.Port, "data_dir", cfg.DataDir)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
