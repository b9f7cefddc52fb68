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
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/xavlacey/katakana-game/internal/app"
	"github.com/xavlacey/katakana-game/internal/config"
	"github.com/xavlacey/katakana-game/internal/fixtures"
	"github.com/xavlacey/katakana-game/internal/infra/memory"
	pgwords "github.com/xavlacey/katakana-game/internal/infra/postgres"
	redisstore "github.com/xavlacey/katakana-game/internal/infra/redis"
	"github.com/xavlacey/katakana-game/internal/infra/remote"
	"github.com/xavlacey/katakana-game/internal/logging"
	transport "github.com/xavlacey/katakana-game/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Pretty)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = newRedisClient(cfg)
		defer redisClient.Close()
	}

	loader, cleanup, err := wordLoader(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	wordsTTL := config.TTLDuration(cfg.Words.TTL, 10*time.Minute)
	var words app.WordRepository
	if redisClient != nil {
		words = redisstore.NewWordRepository(redisClient, loader, wordsTTL, log)
	} else {
		words = memory.NewWordRepository(loader, wordsTTL)
	}

	var players app.PlayerRepository
	if redisClient != nil {
		players = redisstore.NewPlayerStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	} else {
		players = memory.NewPlayerStore()
	}

	delays := app.Delays{
		Correct: config.TTLDuration(cfg.Game.CorrectDelay, app.DefaultDelays.Correct),
		Reveal:  config.TTLDuration(cfg.Game.RevealDelay, app.DefaultDelays.Reveal),
	}
	service := app.NewQuizService(players, words, log, app.WithDelays(delays))

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           transport.NewRouter(service, words, log),
		ReadHeaderTimeout: 15 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", finalPort).Str("words", cfg.WordSource()).Msg("starting quiz service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// wordLoader builds the backing word source selected by the config.
func wordLoader(ctx context.Context, cfg config.Config, log zerolog.Logger) (memory.WordLoader, func(), error) {
	noop := func() {}
	switch cfg.WordSource() {
	case "postgres":
		if cfg.Postgres.URL == "" {
			return nil, noop, fmt.Errorf("postgres url not configured")
		}
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return nil, noop, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, noop, err
		}
		return pgwords.NewWordLoader(pool), pool.Close, nil
	case "remote":
		timeout := config.TTLDuration(cfg.Words.Timeout, 5*time.Second)
		return remote.NewWordClient(cfg.Words.RemoteURL, timeout), noop, nil
	default:
		return memory.NewStaticWordLoader(fixtures.ByDifficulty(fixtures.Default())), noop, nil
	}
}

func newRedisClient(cfg config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
