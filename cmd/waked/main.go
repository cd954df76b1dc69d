package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gowake/wakesim/internal/wake"
	"github.com/gowake/wakesim/internal/waked"
	"github.com/gowake/wakesim/pkg/config"
	"github.com/gowake/wakesim/pkg/logger"
)

func main() {
	var httpAddr string
	var logLevel string
	var configPath string

	flag.StringVar(&httpAddr, "http-addr", ":8080", "HTTP listen address")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.StringVar(&configPath, "config", "", "daemon config file (yaml), overrides flags")
	flag.Parse()

	shutdownTimeout := 10 * time.Second
	maxParallel := 0
	if configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			logger.Error("failed to load config", "path", configPath, "error", err)
			os.Exit(1)
		}
		httpAddr = cfg.ListenAddr
		logLevel = cfg.LogLevel
		maxParallel = cfg.MaxParallel
		if d, err := cfg.GetShutdownTimeout(); err == nil {
			shutdownTimeout = d
		}
	}

	logger.SetDefault(logger.NewText(logLevel, os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	solver := wake.NewSolver()
	store := waked.NewRunStore()
	executor := waked.NewRunExecutor(store, solver)
	executor.MaxParallel = maxParallel

	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           waked.NewHTTPServer(store, solver, executor).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", httpAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown requested")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
}
