package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xavlacey/katakana-game/internal/domain"
)

func TestWordRepositoryCaches(t *testing.T) {
	loader := &countingLoader{WordLoader: NewStaticWordLoader(sampleWords())}
	repo := NewWordRepository(loader, time.Minute)

	words, err := repo.FetchWords(context.Background(), domain.Beginner)
	if err != nil {
		t.Fatalf("fetch words: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	words[0].Translation = "mutated"
	again, err := repo.FetchWords(context.Background(), domain.Beginner)
	if err != nil {
		t.Fatalf("fetch words 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
	if again[0].Translation == "mutated" {
		t.Fatalf("cached list leaked to caller")
	}
}

func TestWordRepositoryExpires(t *testing.T) {
	loader := &countingLoader{WordLoader: NewStaticWordLoader(sampleWords())}
	repo := NewWordRepository(loader, time.Minute)
	now := time.Now()
	repo.clock = func() time.Time { return now }

	_, _ = repo.FetchWords(context.Background(), domain.Beginner)
	now = now.Add(2 * time.Minute)
	_, _ = repo.FetchWords(context.Background(), domain.Beginner)
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.calls)
	}
}

func TestWordRepositoryDoesNotCacheEmpty(t *testing.T) {
	loader := &countingLoader{WordLoader: NewStaticWordLoader(sampleWords())}
	repo := NewWordRepository(loader, time.Minute)

	for i := 0; i < 2; i++ {
		words, err := repo.FetchWords(context.Background(), domain.Advanced)
		if err != nil {
			t.Fatalf("fetch words: %v", err)
		}
		if len(words) != 0 {
			t.Fatalf("expected no advanced words, got %d", len(words))
		}
	}
	if loader.calls != 2 {
		t.Fatalf("expected empty result to bypass cache, loader calls %d", loader.calls)
	}
}

func TestStaticWordLoaderRejectsUnknownLevel(t *testing.T) {
	_, err := NewStaticWordLoader(sampleWords()).FetchWords(context.Background(), domain.Difficulty("expert"))
	if !errors.Is(err, domain.ErrInvalidDifficulty) {
		t.Fatalf("expected invalid difficulty, got %v", err)
	}
}

type countingLoader struct {
	WordLoader
	calls int
}

func (l *countingLoader) FetchWords(ctx context.Context, difficulty domain.Difficulty) ([]domain.WordRecord, error) {
	l.calls++
	return l.WordLoader.FetchWords(ctx, difficulty)
}

func sampleWords() map[domain.Difficulty][]domain.WordRecord {
	return map[domain.Difficulty][]domain.WordRecord{
		domain.Beginner: {
			{Source: "コーヒー", Translation: "coffee", Phonetic: "koohii"},
			{Source: "テレビ", Translation: "television", Phonetic: "terebi"},
		},
	}
}
