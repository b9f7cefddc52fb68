package app

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/xavlacey/katakana-game/internal/domain"
)

// Timer is a cancellable deferred task.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemScheduler schedules on the wall clock.
var SystemScheduler Scheduler = clockScheduler{}

// Delays controls how long feedback stays visible before the next word.
type Delays struct {
	Correct time.Duration
	Reveal  time.Duration
}

// DefaultDelays keeps a revealed answer on screen longer than a correct one.
var DefaultDelays = Delays{Correct: time.Second, Reveal: 2 * time.Second}

// PlayerOption customizes a Player.
type PlayerOption func(*Player)

// WithScheduler replaces the wall-clock scheduler (used by tests).
func WithScheduler(s Scheduler) PlayerOption {
	return func(p *Player) { p.scheduler = s }
}

// WithDelays sets the advance delays.
func WithDelays(d Delays) PlayerOption {
	return func(p *Player) { p.delays = d }
}

// WithRandom sets the shuffle source.
func WithRandom(r Random) PlayerOption {
	return func(p *Player) { p.rnd = r }
}

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) PlayerOption {
	return func(p *Player) { p.log = l }
}

// Player owns the active session of one client together with its pending
// advance. All methods are safe for concurrent use.
type Player struct {
	id        string
	scheduler Scheduler
	delays    Delays
	rnd       Random
	log       zerolog.Logger

	mu         sync.Mutex
	session    *Session
	pending    Timer
	generation uint64
}

// NewPlayer builds a player with wall-clock scheduling and default delays.
func NewPlayer(id string, opts ...PlayerOption) *Player {
	p := &Player{
		id:        id,
		scheduler: SystemScheduler,
		delays:    DefaultDelays,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With().Str("player", id).Logger()
	return p
}

// ID returns the player identifier.
func (p *Player) ID() string {
	return p.id
}

// Reset cancels any pending advance and drops the active session. The
// player is in PhaseLoading until Begin succeeds.
func (p *Player) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelPendingLocked()
	p.session = nil
}

// Begin replaces the active session with a fresh play-through of words.
// A pending advance belonging to the previous session is cancelled.
func (p *Player) Begin(difficulty domain.Difficulty, words []domain.WordRecord, sink domain.Sink) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cancelPendingLocked()
	p.session = nil

	session, err := Start(difficulty, words, sink, p.rnd)
	if err != nil {
		return err
	}
	p.session = session
	p.log.Debug().Str("difficulty", difficulty.String()).Int("words", len(words)).Msg("level started")
	return nil
}

// Submit evaluates an answer. Correct answers schedule the advance; input
// is rejected with domain.ErrAdvancePending until it has run.
func (p *Player) Submit(raw string) (Outcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.acceptingLocked(); err != nil {
		return Outcome{}, err
	}
	out := p.session.SubmitAnswer(raw)
	if out.Kind == OutcomeCorrect {
		p.scheduleAdvanceLocked(p.delays.Correct)
	}
	return out, nil
}

// Reveal discloses the current answer and schedules the advance.
func (p *Player) Reveal() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.acceptingLocked(); err != nil {
		return err
	}
	if !p.session.CanReveal() {
		return domain.ErrRevealNotOffered
	}
	p.session.RevealAnswer()
	p.scheduleAdvanceLocked(p.delays.Reveal)
	return nil
}

// Close cancels a pending advance. The session is kept for inspection.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelPendingLocked()
}

// Phase reports the lifecycle stage of the active session.
func (p *Player) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return PhaseLoading
	}
	return p.session.Phase()
}

// State returns a snapshot of the active session.
func (p *Player) State() (domain.SessionState, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return domain.SessionState{}, false
	}
	return p.session.State(), true
}

// AdvancePending reports whether input is disabled awaiting the next word.
func (p *Player) AdvancePending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending != nil
}

func (p *Player) acceptingLocked() error {
	switch {
	case p.session == nil:
		return domain.ErrNoActiveSession
	case p.session.Terminal():
		return domain.ErrSessionTerminal
	case p.pending != nil:
		return domain.ErrAdvancePending
	}
	return nil
}

func (p *Player) scheduleAdvanceLocked(delay time.Duration) {
	p.generation++
	gen := p.generation
	session := p.session
	p.pending = p.scheduler.AfterFunc(delay, func() {
		p.runAdvance(session, gen)
	})
}

// runAdvance applies a scheduled advance unless it has been superseded.
func (p *Player) runAdvance(session *Session, gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session != session || p.generation != gen || p.pending == nil {
		p.log.Debug().Uint64("generation", gen).Msg("dropping stale advance")
		return
	}
	p.pending = nil
	res := session.Advance()
	if res.Complete {
		p.log.Info().
			Str("difficulty", res.Summary.Difficulty.String()).
			Int("correct", res.Summary.Correct).
			Int("incorrect", res.Summary.Incorrect).
			Int("accuracy", res.Summary.Accuracy).
			Msg("level complete")
	}
}

func (p *Player) cancelPendingLocked() {
	if p.pending != nil {
		p.pending.Stop()
		p.pending = nil
	}
	p.generation++
}
