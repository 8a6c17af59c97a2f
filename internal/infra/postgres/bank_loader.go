package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"ham-quiz-trainer/internal/domain"
)

// BankLoader loads the section index and question JSONB from Postgres.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

func (l *BankLoader) LoadSections(ctx context.Context) ([]domain.Section, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, label, file, count FROM bank_sections ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}
	defer rows.Close()

	var sections []domain.Section
	for rows.Next() {
		var sec domain.Section
		if err := rows.Scan(&sec.ID, &sec.Label, &sec.File, &sec.Count); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}
	if len(sections) == 0 {
		return nil, domain.ErrBankNotFound
	}
	return sections, nil
}

func (l *BankLoader) LoadSection(ctx context.Context, section domain.Section) ([]domain.Question, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM bank_section_questions WHERE section_id=$1`, section.ID).Scan(&raw)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrSectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load section %s: %w", section.ID, err)
	}

	var all []domain.Question
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("unmarshal section %s: %w", section.ID, err)
	}
	questions := make([]domain.Question, 0, len(all))
	for _, q := range all {
		if q.Valid() {
			questions = append(questions, q)
		}
	}
	return questions, nil
}
