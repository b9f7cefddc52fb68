package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/xavlacey/katakana-game/internal/domain"
	"golang.org/x/sync/singleflight"
)

// WordLoader fetches word lists from a backing store (e.g., Postgres).
type WordLoader interface {
	FetchWords(ctx context.Context, difficulty domain.Difficulty) ([]domain.WordRecord, error)
}

// WordRepository caches word lists in Redis and falls back to a loader on cache miss.
// Each level is stored in order as: RPUSH words:{difficulty} {json record}...
type WordRepository struct {
	client *redis.Client
	loader WordLoader
	ttl    time.Duration
	log    zerolog.Logger
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewWordRepository(client *redis.Client, loader WordLoader, ttl time.Duration, log zerolog.Logger) *WordRepository {
	return &WordRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		log:    log,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *WordRepository) FetchWords(ctx context.Context, difficulty domain.Difficulty) ([]domain.WordRecord, error) {
	if words, ok := r.cached(ctx, difficulty); ok {
		return words, nil
	}

	result, err, _ := r.sf.Do(string(difficulty), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if words, ok := r.cached(ctx, difficulty); ok {
			return words, nil
		}

		words, err := r.loader.FetchWords(ctx, difficulty)
		if err != nil {
			return nil, err
		}
		if len(words) > 0 {
			if err := r.store(ctx, difficulty, words); err != nil {
				// cache fill is best effort
				r.log.Warn().Err(err).Str("difficulty", difficulty.String()).Msg("cache word list")
			}
		}
		return words, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.WordRecord), nil
}

// Invalidate drops the cached lists of the given levels, or of every level
// when none is given. The seed command calls it after writing new words.
func (r *WordRepository) Invalidate(ctx context.Context, levels ...domain.Difficulty) error {
	if len(levels) == 0 {
		levels = domain.Levels
	}
	keys := make([]string, 0, len(levels))
	for _, d := range levels {
		keys = append(keys, r.key(d))
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *WordRepository) cached(ctx context.Context, difficulty domain.Difficulty) ([]domain.WordRecord, bool) {
	raw, err := r.client.LRange(ctx, r.key(difficulty), 0, -1).Result()
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	words := make([]domain.WordRecord, 0, len(raw))
	for _, item := range raw {
		var w domain.WordRecord
		if err := json.Unmarshal([]byte(item), &w); err != nil {
			r.log.Warn().Err(err).Str("difficulty", difficulty.String()).Msg("corrupt cached word")
			return nil, false
		}
		words = append(words, w)
	}
	return words, true
}

func (r *WordRepository) store(ctx context.Context, difficulty domain.Difficulty, words []domain.WordRecord) error {
	values := make([]interface{}, 0, len(words))
	for _, w := range words {
		data, err := json.Marshal(w)
		if err != nil {
			return fmt.Errorf("marshal word: %w", err)
		}
		values = append(values, string(data))
	}

	key := r.key(difficulty)
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.RPush(ctx, key, values...)
	if ttl := r.ttlWithJitter(); ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *WordRepository) key(difficulty domain.Difficulty) string {
	return "words:" + string(difficulty)
}

func (r *WordRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
