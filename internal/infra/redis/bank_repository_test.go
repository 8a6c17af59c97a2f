package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"ham-quiz-trainer/internal/domain"
	"ham-quiz-trainer/internal/infra/memory"
)

func TestBankRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{BankLoader: memory.NewStaticBankLoader(sampleSections())}
	repo := NewBankRepository(newClient(mr), loader, time.Minute)

	if _, err := repo.Questions(context.Background(), []string{"s1"}); err != nil {
		t.Fatalf("questions: %v", err)
	}
	if loader.sectionCalls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.sectionCalls)
	}
	if !mr.Exists("bank:section:s1") {
		t.Fatalf("expected section cached in redis")
	}

	// Second call should hit the cache.
	if _, err := repo.Questions(context.Background(), []string{"s1"}); err != nil {
		t.Fatalf("questions 2: %v", err)
	}
	if loader.sectionCalls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.sectionCalls)
	}
}

func TestBankRepositorySurvivesCorruptCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{BankLoader: memory.NewStaticBankLoader(sampleSections())}
	repo := NewBankRepository(newClient(mr), loader, time.Minute)

	if err := mr.Set("bank:section:s1", "not json"); err != nil {
		t.Fatalf("seed corrupt cache: %v", err)
	}
	questions, err := repo.Questions(context.Background(), []string{"s1"})
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(questions) != 2 || loader.sectionCalls != 1 {
		t.Fatalf("expected loader fallback, got %d questions, %d calls", len(questions), loader.sectionCalls)
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
	sections := []domain.Section{{ID: "s1", Label: "Първи", Count: 2}}
	questions := map[string][]domain.Question{
		"s1": {sampleQuestion("q1"), sampleQuestion("q2")},
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
