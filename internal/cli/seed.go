package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/xavlacey/katakana-game/internal/config"
	"github.com/xavlacey/katakana-game/internal/fixtures"
	"github.com/xavlacey/katakana-game/internal/infra/postgres"
	redisstore "github.com/xavlacey/katakana-game/internal/infra/redis"
	"github.com/xavlacey/katakana-game/internal/logging"
)

// NewSeedCmd loads fixture words into Postgres, updating existing entries.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load katakana words from a fixture file into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log := logging.New(cfg.Log.Level, cfg.Log.Pretty)
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}

			words := fixtures.Default()
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("fixtures file not found: %w", err)
				}
				defer f.Close()
				if words, err = fixtures.Parse(f); err != nil {
					return err
				}
			}

			if err := runMigrationsWithConfig(cmd.Context(), cfg, log); err != nil {
				return err
			}
			db := postgres.OpenBun(cfg.Postgres.URL)
			defer db.Close()

			res, err := postgres.NewWordSeeder(db).Seed(cmd.Context(), words)
			if err != nil {
				return err
			}
			log.Info().Int("created", res.Created).Int("updated", res.Updated).Msg("words loaded")
			if err := invalidateWordCache(cmd.Context(), cfg, log); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully loaded %d new words and updated %d existing words\n", res.Created, res.Updated)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "fixture JSON file (defaults to the bundled word list)")
	return cmd
}

// invalidateWordCache drops the Redis word lists so seeded words are served
// right away. It does nothing when Redis is not configured.
func invalidateWordCache(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	if cfg.Redis.Addr == "" {
		return nil
	}
	client := newRedisClient(cfg)
	defer client.Close()

	if err := redisstore.NewWordRepository(client, nil, 0, log).Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate word cache: %w", err)
	}
	log.Info().Msg("word cache invalidated")
	return nil
}
