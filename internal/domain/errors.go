package domain

import "errors"

var (
	// ErrRetrieval is returned when the word list could not be fetched.
	ErrRetrieval = errors.New("word retrieval failed")
	// ErrEmptyWordSet indicates a successful fetch that returned no words.
	ErrEmptyWordSet = errors.New("no words found for this difficulty level")
	// ErrInvalidDifficulty indicates a level outside the progression.
	ErrInvalidDifficulty = errors.New("invalid difficulty level")
	// ErrPrecondition marks a session operation called in an invalid state.
	// It is a caller defect and surfaces as a panic.
	ErrPrecondition = errors.New("session precondition violated")

	// ErrPlayerNotFound is returned when a player has not connected.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrNoActiveSession is returned when a player acts before starting a level.
	ErrNoActiveSession = errors.New("no active quiz session")
	// ErrSessionTerminal is returned for input after the level completed.
	ErrSessionTerminal = errors.New("quiz session already complete")
	// ErrAdvancePending rejects input while the next word is being scheduled.
	ErrAdvancePending = errors.New("waiting for next word")
	// ErrRevealNotOffered rejects a reveal before three wrong attempts.
	ErrRevealNotOffered = errors.New("answer reveal not available yet")
)
