package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"

	"github.com/xavlacey/katakana-game/internal/config"
	"github.com/xavlacey/katakana-game/internal/domain"
	"github.com/xavlacey/katakana-game/internal/infra/memory"
	"github.com/xavlacey/katakana-game/internal/infra/remote"
)

func TestRootRegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"start", "migrate", "seed"} {
		if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
			t.Fatalf("expected %s subcommand, got %v", name, err)
		}
	}
}

func TestWordLoaderDefaultsToBundledWords(t *testing.T) {
	loader, cleanup, err := wordLoader(context.Background(), config.Config{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("word loader: %v", err)
	}
	defer cleanup()

	if _, ok := loader.(*memory.StaticWordLoader); !ok {
		t.Fatalf("expected static loader, got %T", loader)
	}
	words, err := loader.FetchWords(context.Background(), domain.Beginner)
	if err != nil || len(words) == 0 {
		t.Fatalf("expected bundled beginner words, got %d (%v)", len(words), err)
	}
}

func TestWordLoaderRemote(t *testing.T) {
	cfg := config.Config{}
	cfg.Words.Source = "remote"
	cfg.Words.RemoteURL = "http://localhost:1"

	loader, cleanup, err := wordLoader(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("word loader: %v", err)
	}
	defer cleanup()
	if _, ok := loader.(*remote.WordClient); !ok {
		t.Fatalf("expected remote client, got %T", loader)
	}
}

func TestMigrateRequiresPostgres(t *testing.T) {
	err := runMigrationsWithConfig(context.Background(), config.Config{}, zerolog.Nop())
	if err == nil || !strings.Contains(err.Error(), "postgres url not configured") {
		t.Fatalf("expected missing url error, got %v", err)
	}
}

func TestSeedRequiresPostgres(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: error\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"seed", "--config", path})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected seed to fail without postgres")
	}
}

func TestInvalidateWordCacheDropsCachedLevels(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	for _, key := range []string{"words:beginner", "words:advanced"} {
		if _, err := mr.Push(key, `{"katakana":"パン","english":"bread"}`); err != nil {
			t.Fatalf("push %s: %v", key, err)
		}
	}

	cfg := config.Config{}
	cfg.Redis.Addr = mr.Addr()
	if err := invalidateWordCache(context.Background(), cfg, zerolog.Nop()); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists("words:beginner") || mr.Exists("words:advanced") {
		t.Fatalf("expected cached word lists removed")
	}
}

func TestInvalidateWordCacheWithoutRedis(t *testing.T) {
	if err := invalidateWordCache(context.Background(), config.Config{}, zerolog.Nop()); err != nil {
		t.Fatalf("expected no-op without redis, got %v", err)
	}
}
