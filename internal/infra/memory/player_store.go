package memory

import (
	"sync"

	"github.com/xavlacey/katakana-game/internal/app"
)

type playerEntry struct {
	player *app.Player
	conns  int
}

// PlayerStore is an in-memory implementation of app.PlayerRepository.
type PlayerStore struct {
	mu      sync.RWMutex
	players map[string]*playerEntry
}

func NewPlayerStore() *PlayerStore {
	return &PlayerStore{
		players: make(map[string]*playerEntry),
	}
}

func (s *PlayerStore) Acquire(playerID string, create func() *app.Player) *app.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.players[playerID]; ok {
		entry.conns++
		return entry.player
	}
	entry := &playerEntry{player: create(), conns: 1}
	s.players[playerID] = entry
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
	return entry.player, true
}

// Len returns the number of connected players.
func (s *PlayerStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}
