package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/rss-relay/app/api"
	"github.com/lysyi3m/rss-relay/app/cfg"
	"github.com/lysyi3m/rss-relay/app/database"
	"github.com/lysyi3m/rss-relay/app/feed"
	"github.com/lysyi3m/rss-relay/app/llm"
	"github.com/lysyi3m/rss-relay/app/scanner"
	"github.com/lysyi3m/rss-relay/app/sink"
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

	setupLogging(appCfg.Debug)
	slog.Info("Starting RSS Relay", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "migration_version", version, "dirty", dirty)

	httpClient, err := newHTTPClient(appCfg)
	if err != nil {
		slog.Error("Failed to configure HTTP client", "error", err)
		os.Exit(1)
	}

	itemRepo := database.NewItemRepository(db)
	scanRepo := database.NewScanRepository(db)

	var summarizer feed.Summarizer
	if appCfg.LLMAPIURL != "" {
		summarizer = llm.NewClient(httpClient, appCfg.LLMAPIURL, appCfg.LLMAPIKey,
			appCfg.LLMModel, appCfg.LLMTemperature, appCfg.LLMMaxTokens)
	} else {
		slog.Info("Summarization disabled (LLM_API_URL not set)")
	}

	fetcher := feed.NewFetcher(httpClient, appCfg.UserAgent)
	classifier := feed.NewClassifier()
	enricher := feed.NewEnricher(httpClient, summarizer, appCfg.UserAgent)
	dispatcher := sink.NewClient(httpClient, appCfg.SinkURL, appCfg.SinkFolder)
	processor := feed.NewProcessor(fetcher, classifier, enricher, dispatcher, itemRepo)

	feedScanner := scanner.NewScanner(processor, scanRepo, appCfg.FeedsFile, appCfg.WorkerCount)
	scheduler := scanner.NewScheduler(feedScanner, time.Duration(appCfg.ScanInterval)*time.Second)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(itemRepo, scanRepo)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP status server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer; it waits for the in-flight scan
	slog.Info("Shutdown complete")
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// newHTTPClient builds the shared outbound client. Proxy selection is
// explicit per-client configuration, never process environment.
func newHTTPClient(appCfg *cfg.Cfg) (*http.Client, error) {
	transport := &http.Transport{}

	if appCfg.ProxyURL != "" {
		proxyURL, err := url.Parse(appCfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &http.Client{
		Timeout:   time.Duration(appCfg.HTTPTimeout) * time.Second,
		Transport: transport,
	}, nil
}
