package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/veristream/veristream/internal/notify"
	"github.com/veristream/veristream/internal/pipeline"
	"github.com/veristream/veristream/internal/provider"
	"github.com/veristream/veristream/internal/server"
	"github.com/veristream/veristream/internal/store"
)

var (
	listenAddr string
	mysqlDSN   string
	redisURL   string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server and the claim processing loop",
	Long: `Serve runs the full service in one process:
- HTTP API for submitting claims and reading verification results
- Event consumer that processes each newly created claim
- Outcome and refresh fan-out to subscribers

Without --mysql-dsn claims live in process memory; without --redis-url the
creation events stay on an in-process channel and outcomes are logged.

Example:
  veristream serve --listen :8080
  veristream serve --mysql-dsn "user:pass@tcp(localhost:3306)/veristream?parseTime=true" --redis-url redis://localhost:6379/0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&mysqlDSN, "mysql-dsn", "", "MySQL DSN (overrides config)")
	serveCmd.Flags().StringVar(&redisURL, "redis-url", "", "redis URL (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if listenAddr != "" {
		cfg.Server.Listen = listenAddr
	}
	if mysqlDSN != "" {
		cfg.Database.DSN = mysqlDSN
	}
	if redisURL != "" {
		cfg.Redis.URL = redisURL
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var st store.Store
	if cfg.Database.DSN != "" {
		mysqlStore, err := store.Open(cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		st = mysqlStore
	} else {
		logger.Warn("no database configured; claims are lost on restart")
		st = store.NewMemory()
	}

	providers := provider.New(cfg)
	processor := pipeline.NewProcessor(st, providers, logger)

	var (
		publisher   notify.Publisher
		source      notify.Source
		broadcaster notify.Broadcaster
	)
	if cfg.Redis.URL != "" {
		rdb, err := notify.NewRedis(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		bus := notify.NewRedisBus(rdb)
		publisher, source, broadcaster = bus, bus, bus
	} else {
		logger.Warn("no redis configured; events stay in process")
		bus := notify.NewChannelBus(64)
		publisher, source = bus, bus
		broadcaster = notify.LogBroadcaster{Logger: logger}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	notifier := notify.NewNotifier(source, processor, broadcaster, logger)
	go func() {
		if err := notifier.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("notifier stopped", "err", err)
		}
	}()

	srv := server.New(st, processor, publisher, logger)
	httpServer := &http.Server{
		Addr:    cfg.Server.Listen,
		Handler: srv.Router(cfg.Server.AllowedOrigins),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.Server.Listen, "providers", len(providers))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
