package domain

import (
	"fmt"
	"strings"
)

// Difficulty is one stage of the fixed content progression.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Levels lists every difficulty in progression order.
var Levels = []Difficulty{Beginner, Intermediate, Advanced}

// ParseDifficulty maps free-form user input onto a known level, ignoring
// case and surrounding whitespace.
func ParseDifficulty(raw string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(raw)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, raw)
	}
	return d, nil
}

// LookupDifficulty accepts only the exact level name, as used in URLs.
func LookupDifficulty(raw string) (Difficulty, error) {
	d := Difficulty(raw)
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, raw)
	}
	return d, nil
}

// Valid reports whether d is part of the progression.
func (d Difficulty) Valid() bool {
	for _, level := range Levels {
		if level == d {
			return true
		}
	}
	return false
}

// Title returns the level name with its first letter upper-cased.
func (d Difficulty) Title() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

func (d Difficulty) String() string {
	return string(d)
}

// NextLevel returns the level following d. The last level, and anything
// outside the progression, has no successor.
func NextLevel(d Difficulty) (Difficulty, bool) {
	for i, level := range Levels {
		if level == d && i+1 < len(Levels) {
			return Levels[i+1], true
		}
	}
	return "", false
}
