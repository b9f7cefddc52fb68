package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/xavlacey/katakana-game/internal/domain"
)

// WordLoader reads word lists from the words table.
type WordLoader struct {
	pool *pgxpool.Pool
}

func NewWordLoader(pool *pgxpool.Pool) *WordLoader {
	return &WordLoader{pool: pool}
}

// FetchWords returns the words of difficulty ordered by katakana. Query
// failures wrap domain.ErrRetrieval.
func (l *WordLoader) FetchWords(ctx context.Context, difficulty domain.Difficulty) ([]domain.WordRecord, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT id, katakana, english, romaji FROM words WHERE difficulty=$1 ORDER BY katakana`,
		string(difficulty))
	if err != nil {
		return nil, fmt.Errorf("%w: query words: %v", domain.ErrRetrieval, err)
	}
	defer rows.Close()

	var words []domain.WordRecord
	for rows.Next() {
		var w domain.WordRecord
		if err := rows.Scan(&w.ID, &w.Source, &w.Translation, &w.Phonetic); err != nil {
			return nil, fmt.Errorf("%w: scan word: %v", domain.ErrRetrieval, err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read words: %v", domain.ErrRetrieval, err)
	}
	return words, nil
}
