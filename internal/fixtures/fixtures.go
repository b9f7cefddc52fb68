// Package fixtures holds the bundled word list and the fixture file format
// shared by the seed command and the in-memory word loader.
package fixtures

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/xavlacey/katakana-game/internal/domain"
)

//go:embed initial_words.json
var initialWords []byte

var validate = validator.New()

// Word is one entry of a fixture file.
type Word struct {
	Katakana   string            `json:"katakana" validate:"required,max=100"`
	Romaji     string            `json:"romaji" validate:"max=100"`
	English    string            `json:"english" validate:"required,max=100"`
	Difficulty domain.Difficulty `json:"difficulty" validate:"required,oneof=beginner intermediate advanced"`
}

// Record converts the fixture entry into a quiz word.
func (w Word) Record() domain.WordRecord {
	return domain.WordRecord{
		Source:      w.Katakana,
		Translation: w.English,
		Phonetic:    w.Romaji,
	}
}

// Parse decodes and validates a JSON array of fixture words.
func Parse(r io.Reader) ([]Word, error) {
	var words []Word
	if err := json.NewDecoder(r).Decode(&words); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	for i, w := range words {
		if err := validateWord(w); err != nil {
			return nil, fmt.Errorf("fixture %d (%s): %w", i, w.Katakana, err)
		}
	}
	return words, nil
}

// Default returns the bundled word list.
func Default() []Word {
	words, err := Parse(bytes.NewReader(initialWords))
	if err != nil {
		panic(err)
	}
	return words
}

// ByDifficulty groups words per level, ordered as in the input.
func ByDifficulty(words []Word) map[domain.Difficulty][]domain.WordRecord {
	out := make(map[domain.Difficulty][]domain.WordRecord, len(domain.Levels))
	for _, w := range words {
		out[w.Difficulty] = append(out[w.Difficulty], w.Record())
	}
	return out
}

func validateWord(w Word) error {
	err := validate.Struct(w)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("Field: %s, Tag: %s, Param: %s", fe.Field(), fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}
