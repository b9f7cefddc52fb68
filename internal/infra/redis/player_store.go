package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xavlacey/katakana-game/internal/app"
)

type playerEntry struct {
	player *app.Player
	conns  int
}

// PlayerStore is a Redis-aware implementation of app.PlayerRepository.
// Notes:
//   - Players (and their timers) live in a local map; sessions are never
//     persisted.
//   - Redis holds a liveness marker per connected player so operators can
//     count players across instances.
type PlayerStore struct {
	client  *redis.Client
	ttl     time.Duration
	mu      sync.RWMutex
	players map[string]*playerEntry
}

func NewPlayerStore(client *redis.Client, ttl time.Duration) *PlayerStore {
	return &PlayerStore{
		client:  client,
		ttl:     ttl,
		players: make(map[string]*playerEntry),
	}
}

func (s *PlayerStore) Acquire(playerID string, create func() *app.Player) *app.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.players[playerID]
	if ok {
		entry.conns++
	} else {
		entry = &playerEntry{player: create(), conns: 1}
		s.players[playerID] = entry
	}
	s.touch(playerID)
	return entry.player
}

func (s *PlayerStore) Get(playerID string) (*app.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.players[playerID]
	if !ok {
		return nil, false
	}
	return entry.player, true
}

func (s *PlayerStore) Release(playerID string) (*app.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.players[playerID]
	if !ok {
		return nil, false
	}
	entry.conns--
	if entry.conns > 0 {
		return nil, false
	}
	delete(s.players, playerID)
	_ = s.client.Del(context.Background(), s.key(playerID)).Err()
	return entry.player, true
}

// touch refreshes the best-effort liveness marker.
func (s *PlayerStore) touch(playerID string) {
	_ = s.client.Set(context.Background(), s.key(playerID), "1", s.ttl).Err()
}

func (s *PlayerStore) key(playerID string) string {
	return "quiz:player:" + playerID
}
