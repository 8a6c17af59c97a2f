package memory

import (
	"context"
	"testing"
	"time"

	"ham-quiz-trainer/internal/domain"
)

func TestBankRepositoryCaches(t *testing.T) {
	loader := &countingLoader{BankLoader: NewStaticBankLoader(sampleSections())}
	repo := NewBankRepository(loader, time.Minute)

	if _, err := repo.Questions(context.Background(), []string{"s1"}); err != nil {
		t.Fatalf("questions: %v", err)
	}
	if loader.sectionCalls != 1 {
		t.Fatalf("expected loader once, got %d", loader.sectionCalls)
	}

	if _, err := repo.Questions(context.Background(), []string{"s1"}); err != nil {
		t.Fatalf("questions 2: %v", err)
	}
	if loader.sectionCalls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.sectionCalls)
	}
}

func TestQuestionsConcatenatesSections(t *testing.T) {
	repo := NewBankRepository(NewStaticBankLoader(sampleSections()), time.Minute)

	questions, err := repo.Questions(context.Background(), []string{"s1", "s2"})
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}

	if _, err := repo.Questions(context.Background(), []string{"missing"}); err != domain.ErrSectionNotFound {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
}

type countingLoader struct {
	BankLoader
	sectionCalls int
}

func (l *countingLoader) LoadSection(ctx context.Context, section domain.Section) ([]domain.Question, error) {
	l.sectionCalls++
	return l.BankLoader.LoadSection(ctx, section)
}

func sampleSections() ([]domain.Section, map[string][]domain.Question) {
	sections := []domain.Section{
		{ID: "s1", Label: "Първи", Count: 2},
		{ID: "s2", Label: "Втори", Count: 1},
	}
	questions := map[string][]domain.Question{
		"s1": {sampleQuestion("q1"), sampleQuestion("q2")},
		"s2": {sampleQuestion("q3")},
	}
	return sections, questions
}

func sampleQuestion(id string) domain.Question {
	return domain.Question{
		ID:   id,
		Text: "въпрос " + id,
		Choices: map[domain.Letter]string{
			domain.LetterA: "първи",
			domain.LetterB: "втори",
			domain.LetterV: "трети",
			domain.LetterG: "четвърти",
		},
		Answer: domain.LetterA,
	}
}
