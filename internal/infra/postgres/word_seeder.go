package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/xavlacey/katakana-game/internal/fixtures"
)

type wordRow struct {
	bun.BaseModel `bun:"table:words"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Katakana   string    `bun:"katakana,notnull,unique"`
	Romaji     string    `bun:"romaji,notnull"`
	English    string    `bun:"english,notnull"`
	Difficulty string    `bun:"difficulty,notnull"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// SeedResult counts the rows touched by a seed run.
type SeedResult struct {
	Created int
	Updated int
}

// WordSeeder upserts fixture words keyed by katakana.
type WordSeeder struct {
	db *bun.DB
}

func NewWordSeeder(db *bun.DB) *WordSeeder {
	return &WordSeeder{db: db}
}

// Seed inserts new words and updates the romaji, english and difficulty of
// existing ones, all in one transaction.
func (s *WordSeeder) Seed(ctx context.Context, words []fixtures.Word) (SeedResult, error) {
	var res SeedResult
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, w := range words {
			exists, err := tx.NewSelect().Model((*wordRow)(nil)).Where("katakana = ?", w.Katakana).Exists(ctx)
			if err != nil {
				return fmt.Errorf("lookup %q: %w", w.Katakana, err)
			}

			row := &wordRow{
				Katakana:   w.Katakana,
				Romaji:     w.Romaji,
				English:    w.English,
				Difficulty: string(w.Difficulty),
			}
			if exists {
				_, err = tx.NewUpdate().Model(row).
					Column("romaji", "english", "difficulty").
					Where("katakana = ?", w.Katakana).
					Exec(ctx)
				res.Updated++
			} else {
				_, err = tx.NewInsert().Model(row).Exec(ctx)
				res.Created++
			}
			if err != nil {
				return fmt.Errorf("upsert %q: %w", w.Katakana, err)
			}
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}
	return res, nil
}
