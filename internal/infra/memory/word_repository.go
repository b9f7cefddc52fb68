package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/xavlacey/katakana-game/internal/domain"
	"golang.org/x/sync/singleflight"
)

// WordLoader fetches word lists from a backing store (e.g., Postgres or the remote API).
type WordLoader interface {
	FetchWords(ctx context.Context, difficulty domain.Difficulty) ([]domain.WordRecord, error)
}

// WordRepository caches word lists with TTL to avoid repeated loader hits.
type WordRepository struct {
	loader WordLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[domain.Difficulty]cachedWords
}

type cachedWords struct {
	words     []domain.WordRecord
	expiresAt time.Time
}

func NewWordRepository(loader WordLoader, ttl time.Duration) *WordRepository {
	return &WordRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[domain.Difficulty]cachedWords),
	}
}

// FetchWords returns the cached list for difficulty, loading it on a miss.
// Empty lists are not cached so newly seeded words show up immediately.
func (r *WordRepository) FetchWords(ctx context.Context, difficulty domain.Difficulty) ([]domain.WordRecord, error) {
	if words, ok := r.lookup(difficulty, r.clock()); ok {
		return words, nil
	}

	result, err, _ := r.sf.Do(string(difficulty), func() (interface{}, error) {
		now := r.clock()
		if words, ok := r.lookup(difficulty, now); ok {
			return words, nil
		}

		words, err := r.loader.FetchWords(ctx, difficulty)
		if err != nil {
			return nil, err
		}
		if len(words) > 0 && r.ttl > 0 {
			r.mu.Lock()
			r.cache[difficulty] = cachedWords{
				words:     words,
				expiresAt: now.Add(r.ttlWithJitter()),
			}
			r.mu.Unlock()
		}
		return words, nil
	})
	if err != nil {
		return nil, err
	}
	return clone(result.([]domain.WordRecord)), nil
}

func (r *WordRepository) lookup(difficulty domain.Difficulty, now time.Time) ([]domain.WordRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[difficulty]
	if !ok || !entry.expiresAt.After(now) {
		return nil, false
	}
	return clone(entry.words), true
}

func (r *WordRepository) ttlWithJitter() time.Duration {
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

func clone(words []domain.WordRecord) []domain.WordRecord {
	out := make([]domain.WordRecord, len(words))
	copy(out, words)
	return out
}

// StaticWordLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticWordLoader struct {
	words map[domain.Difficulty][]domain.WordRecord
}

func NewStaticWordLoader(words map[domain.Difficulty][]domain.WordRecord) *StaticWordLoader {
	return &StaticWordLoader{words: words}
}

// FetchWords returns the configured list; unknown levels yield an empty list.
func (l *StaticWordLoader) FetchWords(_ context.Context, difficulty domain.Difficulty) ([]domain.WordRecord, error) {
	if !difficulty.Valid() {
		return nil, domain.ErrInvalidDifficulty
	}
	return clone(l.words[difficulty]), nil
}
