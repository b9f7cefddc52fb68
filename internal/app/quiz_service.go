package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/xavlacey/katakana-game/internal/domain"
)

// PlayerRepository abstracts how connected players are tracked (in-memory, Redis, etc).
// Several connections may share one player ID; Acquire and Release count them
// and the player is forgotten only when the last connection is released.
type PlayerRepository interface {
	Acquire(playerID string, create func() *Player) *Player
	Get(playerID string) (*Player, bool)
	// Release drops one connection and returns the player once none remain.
	Release(playerID string) (*Player, bool)
}

// WordRepository loads the word list of a difficulty level (from cache/backing store).
type WordRepository interface {
	FetchWords(ctx context.Context, difficulty domain.Difficulty) ([]domain.WordRecord, error)
}

// User-facing messages for failures while loading a level.
const (
	msgRetrievalFailed = "Failed to load words. Please try again."
	msgEmptyWordSet    = "No words found for this difficulty level"
)

// QuizService contains the core quiz use cases.
type QuizService struct {
	players PlayerRepository
	words   WordRepository
	log     zerolog.Logger
	opts    []PlayerOption
}

// NewQuizService wires the use cases. opts are applied to every new player.
func NewQuizService(players PlayerRepository, words WordRepository, log zerolog.Logger, opts ...PlayerOption) *QuizService {
	return &QuizService{
		players: players,
		words:   words,
		log:     log,
		opts:    append([]PlayerOption{WithLogger(log)}, opts...),
	}
}

// Connect registers a connection for a player, returning the existing player
// for a known ID.
func (s *QuizService) Connect(playerID string) *Player {
	return s.players.Acquire(playerID, func() *Player {
		return NewPlayer(playerID, s.opts...)
	})
}

// StartLevel fetches the words for difficulty and starts a fresh session for
// the player. Retrieval failures and empty word lists are reported to sink
// as an error event and returned; nothing is retried.
func (s *QuizService) StartLevel(ctx context.Context, playerID string, difficulty domain.Difficulty, sink domain.Sink) error {
	player, ok := s.players.Get(playerID)
	if !ok {
		return domain.ErrPlayerNotFound
	}
	if !difficulty.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidDifficulty, difficulty)
	}

	player.Reset()
	words, err := s.words.FetchWords(ctx, difficulty)
	if err != nil {
		s.log.Error().Err(err).Str("player", playerID).Str("difficulty", difficulty.String()).Msg("fetch words")
		notify(sink, domain.ErrorEvent{Message: msgRetrievalFailed})
		if !errors.Is(err, domain.ErrRetrieval) {
			err = fmt.Errorf("%w: %w", domain.ErrRetrieval, err)
		}
		return err
	}

	if err := player.Begin(difficulty, words, sink); err != nil {
		if errors.Is(err, domain.ErrEmptyWordSet) {
			s.log.Warn().Str("player", playerID).Str("difficulty", difficulty.String()).Msg("empty word set")
			notify(sink, domain.ErrorEvent{Message: msgEmptyWordSet})
		}
		return err
	}
	return nil
}

// SubmitAnswer evaluates an answer for the player's current word.
func (s *QuizService) SubmitAnswer(_ context.Context, playerID, text string) (Outcome, error) {
	player, ok := s.players.Get(playerID)
	if !ok {
		return Outcome{}, domain.ErrPlayerNotFound
	}
	return player.Submit(text)
}

// RevealAnswer discloses the player's current answer after three misses.
func (s *QuizService) RevealAnswer(_ context.Context, playerID string) error {
	player, ok := s.players.Get(playerID)
	if !ok {
		return domain.ErrPlayerNotFound
	}
	return player.Reveal()
}

// Disconnect releases one connection of the player. The last one cancels the
// player's pending work and forgets it.
func (s *QuizService) Disconnect(playerID string) {
	player, last := s.players.Release(playerID)
	if !last {
		return
	}
	player.Close()
}

func notify(sink domain.Sink, ev domain.Event) {
	if sink != nil {
		sink.Notify(ev)
	}
}
