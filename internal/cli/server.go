package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"maturity-quiz-service/internal/app"
	"maturity-quiz-service/internal/config"
	"maturity-quiz-service/internal/infra/file"
	"maturity-quiz-service/internal/infra/memory"
	"maturity-quiz-service/internal/infra/postgres"
	infraredis "maturity-quiz-service/internal/infra/redis"
	"maturity-quiz-service/internal/infra/sqlite"
	"maturity-quiz-service/internal/scoring"
	transport "maturity-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the assessment server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), st.cfg, st.port, st.logger)
		},
	}
}

func runServer(ctx context.Context, cfg config.Config, portFlag string, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, logger); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = config.OrDefault(cfg.Server.Port, "8080")
	}
	defaultBank := config.OrDefault(cfg.Bank.Default, scoring.DefaultBankID)

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		var err error
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	// Lookup order: bank files, Postgres, then the built-in bank.
	var loader memory.FallbackLoader
	if cfg.Bank.Dir != "" {
		loader = append(loader, file.NewBankLoader(cfg.Bank.Dir))
	}
	if pool != nil {
		loader = append(loader, postgres.NewBankLoader(pool))
	}
	loader = append(loader, memory.NewStaticBankLoader(scoring.BuiltinBank()))

	bankTTL := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)
	var banks app.BankRepository
	if redisClient != nil {
		banks = infraredis.NewBankRepository(redisClient, loader, bankTTL, logger)
	} else {
		banks = memory.NewBankRepository(loader, bankTTL)
	}

	// Refuse to start on a default bank that fails validation.
	if _, err := banks.GetBank(ctx, defaultBank); err != nil {
		return fmt.Errorf("default bank %q: %w", defaultBank, err)
	}

	var sessions app.SessionRepository
	if redisClient != nil {
		sessionTTL := config.TTLDuration(cfg.Session.TTL, config.TTLDuration(cfg.Redis.TTL, 30*time.Minute))
		sessions = infraredis.NewSessionStore(redisClient, sessionTTL)
	} else {
		sessions = memory.NewSessionStore()
	}

	var submissions app.SubmissionRepository
	switch {
	case pool != nil:
		submissions = postgres.NewSubmissionStore(pool)
	case cfg.SQLite.Path != "":
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		submissions = store
	default:
		logger.Warn("no submission database configured; submissions are kept in memory")
		submissions = memory.NewSubmissionStore()
	}

	service := app.NewAssessmentService(sessions, banks, submissions, logger)
	handler := transport.NewRouter(service, logger, transport.RouterOptions{
		DefaultBankID:  defaultBank,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	server := &http.Server{
		Addr:    ":" + finalPort,
		Handler: handler,
		// No read/write timeouts: they would also cut off long-lived websocket connections.
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting assessment service", zap.String("addr", server.Addr), zap.String("defaultBank", defaultBank))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
