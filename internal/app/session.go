package app

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/xavlacey/katakana-game/internal/domain"
)

// Phase is the lifecycle stage of a play-through.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseActive
	PhaseTerminal
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseActive:
		return "active"
	case PhaseTerminal:
		return "terminal"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// OutcomeKind classifies the evaluation of a submitted answer.
type OutcomeKind int

const (
	// OutcomeIgnored is returned for input that normalizes to nothing.
	OutcomeIgnored OutcomeKind = iota
	OutcomeCorrect
	OutcomeIncorrect
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrect:
		return "incorrect"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome is the result of SubmitAnswer. Attempts holds the wrong-attempt
// count on the current word after an incorrect answer.
type Outcome struct {
	Kind     OutcomeKind
	Attempts int
}

// AdvanceResult reports whether an advance completed the level.
type AdvanceResult struct {
	Complete bool
	Summary  domain.LevelComplete
}

// Random supplies shuffle indices in [0, n). *rand.Rand satisfies it.
type Random interface {
	Intn(n int) int
}

// revealThreshold is the wrong-attempt count at which the answer can be revealed.
const revealThreshold = 3

// Session is one play-through of one difficulty level. It is not safe for
// concurrent use; Player serializes access to it.
type Session struct {
	difficulty domain.Difficulty
	sequence   []domain.WordRecord
	position   int
	correct    int
	incorrect  int
	attempts   int
	sink       domain.Sink
}

// Start shuffles words into a new session and shows the first word.
// An empty word list fails with domain.ErrEmptyWordSet.
func Start(difficulty domain.Difficulty, words []domain.WordRecord, sink domain.Sink, rnd Random) (*Session, error) {
	if len(words) == 0 {
		return nil, domain.ErrEmptyWordSet
	}
	if sink == nil {
		sink = domain.SinkFunc(func(domain.Event) {})
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Session{
		difficulty: difficulty,
		sequence:   Shuffle(words, rnd),
		sink:       sink,
	}
	s.showCurrent()
	s.sink.Notify(domain.ScoreChanged{})
	return s, nil
}

// Shuffle returns a uniformly random permutation of words (Fisher-Yates).
// The input slice is left untouched.
func Shuffle(words []domain.WordRecord, rnd Random) []domain.WordRecord {
	out := make([]domain.WordRecord, len(words))
	copy(out, words)
	for i := len(out) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Difficulty returns the level being played.
func (s *Session) Difficulty() domain.Difficulty {
	return s.difficulty
}

// Terminal reports whether every word has been answered or revealed.
func (s *Session) Terminal() bool {
	return s.position == len(s.sequence)
}

// Phase reports PhaseActive or PhaseTerminal.
func (s *Session) Phase() Phase {
	if s.Terminal() {
		return PhaseTerminal
	}
	return PhaseActive
}

// CanReveal reports whether the reveal offer is open for the current word.
func (s *Session) CanReveal() bool {
	return !s.Terminal() && s.attempts >= revealThreshold
}

// State returns a snapshot of the session.
func (s *Session) State() domain.SessionState {
	seq := make([]domain.WordRecord, len(s.sequence))
	copy(seq, s.sequence)
	return domain.SessionState{
		Difficulty: s.difficulty,
		Sequence:   seq,
		Position:   s.position,
		Correct:    s.correct,
		Incorrect:  s.incorrect,
		Attempts:   s.attempts,
		Terminal:   s.Terminal(),
	}
}

// CurrentWord returns the word on display. Calling it on a terminal session
// panics.
func (s *Session) CurrentWord() domain.WordRecord {
	mustHold(!s.Terminal(), "current word requested after level completed")
	return s.sequence[s.position]
}

// SubmitAnswer evaluates raw against the current word. Input is trimmed and
// compared case-insensitively; blank input is ignored.
func (s *Session) SubmitAnswer(raw string) Outcome {
	mustHold(!s.Terminal(), "answer submitted after level completed")

	answer := normalize(raw)
	if answer == "" {
		return Outcome{Kind: OutcomeIgnored}
	}

	word := s.CurrentWord()
	if answer == normalize(word.Translation) {
		s.correct++
		s.sink.Notify(domain.Feedback{Kind: domain.FeedbackCorrect, Message: "Correct!"})
		s.notifyScore()
		return Outcome{Kind: OutcomeCorrect}
	}

	s.incorrect++
	s.attempts++
	s.sink.Notify(retryFeedback(s.attempts, word))
	s.notifyScore()
	return Outcome{Kind: OutcomeIncorrect, Attempts: s.attempts}
}

// RevealAnswer discloses the translation of the current word. It is only
// valid once the reveal offer is open; the counters are not touched.
func (s *Session) RevealAnswer() {
	mustHold(s.CanReveal(), "reveal requested with %d wrong attempts", s.attempts)
	word := s.CurrentWord()
	s.sink.Notify(domain.Feedback{
		Kind:    domain.FeedbackRevealed,
		Message: "The answer was: " + word.Translation,
		Answer:  word.Translation,
	})
}

// Advance moves to the next word, or completes the level after the last one.
func (s *Session) Advance() AdvanceResult {
	mustHold(!s.Terminal(), "advance requested after level completed")

	s.position++
	s.attempts = 0

	if s.Terminal() {
		summary := s.summary()
		s.sink.Notify(summary)
		return AdvanceResult{Complete: true, Summary: summary}
	}
	s.showCurrent()
	return AdvanceResult{}
}

func (s *Session) showCurrent() {
	s.sink.Notify(domain.WordShown{Word: s.sequence[s.position]})
	s.sink.Notify(domain.Progress{Current: s.position + 1, Total: len(s.sequence)})
}

func (s *Session) notifyScore() {
	s.sink.Notify(domain.ScoreChanged{Correct: s.correct, Incorrect: s.incorrect})
}

func (s *Session) summary() domain.LevelComplete {
	next, _ := domain.NextLevel(s.difficulty)
	msg := fmt.Sprintf("Great job! You completed the %s level.", s.difficulty)
	if next == "" {
		msg += " Congratulations! You've completed all levels!"
	}
	return domain.LevelComplete{
		Difficulty: s.difficulty,
		Correct:    s.correct,
		Incorrect:  s.incorrect,
		Accuracy:   Accuracy(s.correct, s.incorrect),
		NextLevel:  next,
		Title:      s.difficulty.Title() + " Level Complete!",
		Message:    msg,
	}
}

// retryFeedback escalates help with the wrong-attempt count: a plain retry,
// then the phonetic hint, then a standing offer to reveal the answer.
func retryFeedback(attempts int, word domain.WordRecord) domain.Feedback {
	switch {
	case attempts == 1:
		return domain.Feedback{Kind: domain.FeedbackRetryPlain, Message: "Try again"}
	case attempts == 2:
		return domain.Feedback{Kind: domain.FeedbackRetryWithHint, Message: "Try again", Hint: word.Phonetic}
	default:
		return domain.Feedback{Kind: domain.FeedbackRetryWithRevealOffer, Message: "Still incorrect"}
	}
}

// Accuracy is the percentage of correct answers among evaluated ones,
// rounded half away from zero. It is 0 when nothing was evaluated.
func Accuracy(correct, incorrect int) int {
	total := correct + incorrect
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func mustHold(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Errorf("%w: "+format, append([]any{domain.ErrPrecondition}, args...)...))
	}
}
