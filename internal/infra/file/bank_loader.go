package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ham-quiz-trainer/internal/domain"
)

// IndexFile names the section index inside the bank directory.
const IndexFile = "banks.json"

// BankLoader reads a question bank from a directory: an index file listing
// the sections plus one JSON file of questions per section.
type BankLoader struct {
	dir string
}

func NewBankLoader(dir string) *BankLoader {
	return &BankLoader{dir: dir}
}

func (l *BankLoader) LoadSections(ctx context.Context) ([]domain.Section, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, IndexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrBankNotFound
		}
		return nil, fmt.Errorf("read bank index: %w", err)
	}
	var bank domain.Bank
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("unmarshal bank index: %w", err)
	}
	if len(bank.Sections) == 0 {
		return nil, domain.ErrBankNotFound
	}
	return bank.Sections, nil
}

// LoadSection reads and filters a section's questions. Malformed records are
// dropped silently; a section that ends up empty is still a valid section.
func (l *BankLoader) LoadSection(ctx context.Context, section domain.Section) ([]domain.Question, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, section.File))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrSectionNotFound
		}
		return nil, fmt.Errorf("read section %s: %w", section.ID, err)
	}
	var raw []domain.Question
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal section %s: %w", section.ID, err)
	}

	questions := make([]domain.Question, 0, len(raw))
	for _, q := range raw {
		if q.Valid() {
			questions = append(questions, q)
		}
	}
	return questions, nil
}
