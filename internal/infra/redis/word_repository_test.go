package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/xavlacey/katakana-game/internal/domain"
	"github.com/xavlacey/katakana-game/internal/infra/memory"
)

func TestWordRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{WordLoader: memory.NewStaticWordLoader(sampleWords())}
	repo := NewWordRepository(client, loader, time.Minute, zerolog.Nop())

	words, err := repo.FetchWords(context.Background(), domain.Beginner)
	if err != nil {
		t.Fatalf("fetch words: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("words:beginner") {
		t.Fatalf("expected list cached in redis")
	}

	// Second call should hit cache, loader not incremented.
	cached, err := repo.FetchWords(context.Background(), domain.Beginner)
	if err != nil {
		t.Fatalf("fetch cached words: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if len(cached) != len(words) {
		t.Fatalf("expected %d cached words, got %d", len(words), len(cached))
	}
	for i := range words {
		if cached[i] != words[i] {
			t.Fatalf("cached order differs at %d: %+v vs %+v", i, cached[i], words[i])
		}
	}
}

func TestWordRepositoryInvalidate(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{WordLoader: memory.NewStaticWordLoader(sampleWords())}
	repo := NewWordRepository(newClient(mr), loader, time.Minute, zerolog.Nop())

	_, _ = repo.FetchWords(context.Background(), domain.Beginner)
	if err := repo.Invalidate(context.Background(), domain.Beginner); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, _ = repo.FetchWords(context.Background(), domain.Beginner)
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls=%d", loader.calls)
	}
}

func TestWordRepositoryInvalidateAllLevels(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{WordLoader: memory.NewStaticWordLoader(sampleWords())}
	repo := NewWordRepository(newClient(mr), loader, time.Minute, zerolog.Nop())

	_, _ = repo.FetchWords(context.Background(), domain.Beginner)
	_, _ = repo.FetchWords(context.Background(), domain.Intermediate)
	if err := repo.Invalidate(context.Background()); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists("words:beginner") || mr.Exists("words:intermediate") {
		t.Fatalf("expected every cached level dropped")
	}
}

func TestWordRepositorySkipsEmptyLists(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{WordLoader: memory.NewStaticWordLoader(sampleWords())}
	repo := NewWordRepository(newClient(mr), loader, time.Minute, zerolog.Nop())

	words, err := repo.FetchWords(context.Background(), domain.Advanced)
	if err != nil {
		t.Fatalf("fetch words: %v", err)
	}
	if len(words) != 0 || mr.Exists("words:advanced") {
		t.Fatalf("expected empty list left uncached")
	}
}

type countingLoader struct {
	memory.WordLoader
	calls int
}

func (l *countingLoader) FetchWords(ctx context.Context, difficulty domain.Difficulty) ([]domain.WordRecord, error) {
	l.calls++
	return l.WordLoader.FetchWords(ctx, difficulty)
}

func sampleWords() map[domain.Difficulty][]domain.WordRecord {
	return map[domain.Difficulty][]domain.WordRecord{
		domain.Beginner: {
			{ID: 1, Source: "カメラ", Translation: "camera", Phonetic: "kamera"},
			{ID: 2, Source: "ホテル", Translation: "hotel", Phonetic: "hoteru"},
			{ID: 3, Source: "バス", Translation: "bus", Phonetic: "basu"},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
