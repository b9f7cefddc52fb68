package domain

// EventType names a notification emitted by a quiz session.
type EventType string

const (
	EventWordShown     EventType = "wordShown"
	EventProgress      EventType = "progress"
	EventFeedback      EventType = "feedback"
	EventScoreChanged  EventType = "scoreChanged"
	EventLevelComplete EventType = "levelComplete"
	EventError         EventType = "error"
)

// Event is implemented by every notification payload.
type Event interface {
	EventType() EventType
}

// Sink receives session notifications. Implementations must not call back
// into the session that emitted the event.
type Sink interface {
	Notify(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Notify(ev Event) { f(ev) }

// FeedbackKind classifies the feedback for an answer or reveal.
type FeedbackKind string

const (
	FeedbackCorrect              FeedbackKind = "correct"
	FeedbackRetryPlain           FeedbackKind = "retryPlain"
	FeedbackRetryWithHint        FeedbackKind = "retryWithHint"
	FeedbackRetryWithRevealOffer FeedbackKind = "retryWithRevealOffer"
	FeedbackRevealed             FeedbackKind = "revealed"
)

type WordShown struct {
	Word WordRecord `json:"word"`
}

type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Feedback carries the hint or revealed answer when the kind has one.
type Feedback struct {
	Kind    FeedbackKind `json:"kind"`
	Message string       `json:"message"`
	Hint    string       `json:"hint,omitempty"`
	Answer  string       `json:"answer,omitempty"`
}

type ScoreChanged struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// LevelComplete summarizes a finished play-through. NextLevel is empty when
// every level has been completed.
type LevelComplete struct {
	Difficulty Difficulty `json:"difficulty"`
	Correct    int        `json:"correct"`
	Incorrect  int        `json:"incorrect"`
	Accuracy   int        `json:"accuracy"`
	NextLevel  Difficulty `json:"nextLevel,omitempty"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
}

// HasNextLevel reports whether progression can continue.
func (l LevelComplete) HasNextLevel() bool {
	return l.NextLevel != ""
}

type ErrorEvent struct {
	Message string `json:"message"`
}

func (WordShown) EventType() EventType     { return EventWordShown }
func (Progress) EventType() EventType      { return EventProgress }
func (Feedback) EventType() EventType      { return EventFeedback }
func (ScoreChanged) EventType() EventType  { return EventScoreChanged }
func (LevelComplete) EventType() EventType { return EventLevelComplete }
func (ErrorEvent) EventType() EventType    { return EventError }
