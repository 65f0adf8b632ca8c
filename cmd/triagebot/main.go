package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/mozilla/triage-bot/internal/adapter/inbound/httpapi"
	"github.com/mozilla/triage-bot/internal/adapter/outbound/credential"
	natsqueue "github.com/mozilla/triage-bot/internal/adapter/outbound/queue/nats"
	slackadapter "github.com/mozilla/triage-bot/internal/adapter/outbound/slack"
	"github.com/mozilla/triage-bot/internal/adapter/outbound/persistence/sqlite"
	"github.com/mozilla/triage-bot/internal/config"
	"github.com/mozilla/triage-bot/internal/domain/service"
	"github.com/mozilla/triage-bot/pkg/health"
	"github.com/mozilla/triage-bot/pkg/version"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	printVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *printVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = buildLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Credential store ---
	store, err := sqlite.NewStore(sqlite.Config{
		Path:              cfg.Database.SQLite.Path,
		MaxOpenConns:      cfg.Database.SQLite.MaxOpenConns,
		PragmaJournalMode: cfg.Database.SQLite.PragmaJournalMode,
		PragmaBusyTimeout: cfg.Database.SQLite.PragmaBusyTimeout,
	})
	if err != nil {
		logger.Error("failed to open sqlite store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	tokenRepo := sqlite.NewTokenRepo(store, cfg.Credentials.ParameterPrefix)
	tokenCache := credential.NewCache(tokenRepo)

	// --- Downstream queue ---
	publisher, err := natsqueue.Connect(ctx, natsqueue.Config{
		URL:     cfg.Queue.URL,
		Stream:  cfg.Queue.Stream,
		Subject: cfg.Queue.Subject,
	})
	if err != nil {
		logger.Error("failed to connect to queue", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	// --- Slack ---
	slackClient := slackadapter.NewClient(slackadapter.Config{
		DomainName:   cfg.Slack.DomainName,
		ClientID:     cfg.Slack.ClientID,
		ClientSecret: cfg.Slack.ClientSecret,
		APITimeout:   cfg.Slack.APITimeout,
	}, tokenCache)

	responder := slackadapter.NewResponder(cfg.Slack.ResponseTimeout, logger)

	// --- Domain services ---
	triage := service.NewTriage(slackClient, slackClient, logger)
	pipeline := httpapi.NewInteractionPipeline(publisher, responder, logger)

	// --- HTTP surface ---
	handler := httpapi.NewHandler(
		triage,
		pipeline,
		slackClient,
		tokenCache,
		cfg.Slack.ClientID,
		publisher,
		logger,
	)
	apiServer := httpapi.NewServer(httpapi.ServerConfig{
		Port:              cfg.Server.Port,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
		RequestsPerMinute: cfg.Server.RequestsPerMinute,
		SigningSecret:     cfg.Slack.SigningSecret,
	}, handler, logger)

	// --- Health surface ---
	checker := health.NewChecker()
	checker.Register("database", func(ctx context.Context) error {
		return store.DB.PingContext(ctx)
	})
	checker.Register("queue", publisher.HealthCheck)

	metricsMux := http.NewServeMux()
	metricsMux.HandleFunc("/healthz", checker.LivenessHandler())
	metricsMux.HandleFunc("/readyz", checker.ReadinessHandler())
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: metricsMux,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting api server", "port", cfg.Server.Port)
		return apiServer.Start(gCtx)
	})

	g.Go(func() error {
		logger.Info("starting metrics server", "port", cfg.Server.MetricsPort)
		errCh := make(chan error, 1)
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
			close(errCh)
		}()
		select {
		case <-gCtx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return metricsServer.Shutdown(shutdownCtx)
		case err := <-errCh:
			return err
		}
	})

	logger.Info("triage-bot started", "version", version.String())

	if err := g.Wait(); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}

	logger.Info("triage-bot stopped")
}

// buildLogger constructs a slog.Logger based on config.
func buildLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
