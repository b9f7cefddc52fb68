package domain

// WordRecord is one quiz unit: the displayed term, its expected answer and a
// pronunciation hint. Records are never mutated once fetched.
type WordRecord struct {
	ID          int64  `json:"id,omitempty"`
	Source      string `json:"katakana" validate:"required"`
	Translation string `json:"english" validate:"required"`
	Phonetic    string `json:"romaji"`
}

// SessionState is a read-only snapshot of a play-through.
type SessionState struct {
	Difficulty Difficulty
	Sequence   []WordRecord
	Position   int
	Correct    int
	Incorrect  int
	Attempts   int
	Terminal   bool
}

// Total returns the number of words in the play-through.
func (s SessionState) Total() int {
	return len(s.Sequence)
}
