package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tapirio/techlife/app/analysis"
	"github.com/tapirio/techlife/app/api"
	"github.com/tapirio/techlife/app/assets"
	"github.com/tapirio/techlife/app/blog"
	"github.com/tapirio/techlife/app/cfg"
	"github.com/tapirio/techlife/app/episode"
	"github.com/tapirio/techlife/app/feed"
	"github.com/tapirio/techlife/app/questions"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting techlife server", "version", appCfg.Version)

	data, err := os.ReadFile(appCfg.FeedPath)
	if err != nil {
		slog.Error("Failed to read podcast feed", "path", appCfg.FeedPath, "error", err)
		os.Exit(1)
	}

	podcast, episodes, err := feed.NewParser().Run(data)
	if err != nil {
		slog.Error("Failed to parse podcast feed", "path", appCfg.FeedPath, "error", err)
		os.Exit(1)
	}
	slog.Info("Podcast feed parsed", "title", podcast.Title, "episodes", len(episodes))

	// Missing or broken analysis data degrades to plain feed content
	records, err := analysis.Load(appCfg.AnalysisPath)
	if err != nil {
		slog.Warn("Episode analysis unavailable, serving episodes without tags and summaries",
			"path", appCfg.AnalysisPath, "error", err)
		records = nil
	} else {
		slog.Info("Episode analysis loaded", "records", len(records))
	}

	catalog := episode.NewCatalog(episode.Enrich(episodes, records))

	library, err := blog.NewLibrary(appCfg.ArticlesDir)
	if err != nil {
		slog.Error("Failed to load blog articles", "dir", appCfg.ArticlesDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Blog articles loaded", "articles", library.Count())

	cacheBuster := assets.NewCacheBuster(appCfg.PublicDir)
	if err := cacheBuster.Refresh(); err != nil {
		slog.Warn("Asset manifest refresh failed", "dir", appCfg.PublicDir, "error", err)
	} else {
		slog.Info("Asset manifest ready", "assets", cacheBuster.Count())
	}

	store := questions.NewStore(appCfg.QuestionsPath)
	gate := questions.NewGate(store)

	handler := api.NewHandler(podcast, catalog, library, gate, store, cacheBuster)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port, "baseUrl", appCfg.BaseUrl)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
