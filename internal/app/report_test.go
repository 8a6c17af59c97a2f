package app

import (
	"testing"
	"time"

	"ham-quiz-trainer/internal/domain"
	"ham-quiz-trainer/internal/progress"
)

func TestSummarizeListsWrongAnswers(t *testing.T) {
	questions := []domain.Question{
		fourChoiceQuestion("q1", "T", domain.LetterA),
		fourChoiceQuestion("q2", "T", domain.LetterB),
		fourChoiceQuestion("q3", "T", domain.LetterV),
	}
	answers := map[string]domain.AnswerRecord{
		"q1": {Selected: domain.LetterA},
		"q2": {Selected: domain.LetterA},
		"q3": {Selected: domain.LetterV},
	}

	summary := Summarize(questions, answers, 2)
	if summary.Total != 3 || summary.Correct != 2 || summary.Percentage != 67 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(summary.Wrong) != 1 || summary.Wrong[0].Question.ID != "q2" || summary.Wrong[0].Selected != domain.LetterA {
		t.Fatalf("expected q2 with selected А, got %+v", summary.Wrong)
	}
}

func TestWeakTopicsFiltersAndRanks(t *testing.T) {
	p := progress.New()
	record(p, "T1", 10, 2) // 20%
	record(p, "T2", 4, 4)  // 100%, below min attempts
	record(p, "T3", 8, 4)  // 50%

	weak := WeakTopics(p, 5, 5)
	if len(weak) != 2 {
		t.Fatalf("expected 2 topics, got %+v", weak)
	}
	if weak[0].Topic != "T1" || weak[0].Percentage != 20 {
		t.Fatalf("expected T1 weakest, got %+v", weak[0])
	}
	if weak[1].Topic != "T3" {
		t.Fatalf("expected T3 second, got %+v", weak[1])
	}
}

func TestWeakTopicsStableOnTies(t *testing.T) {
	p := progress.New()
	record(p, "B", 10, 5)
	record(p, "A", 10, 5)
	record(p, "C", 10, 5)

	weak := WeakTopics(p, 5, 5)
	if len(weak) != 3 {
		t.Fatalf("expected 3 topics, got %d", len(weak))
	}
	if weak[0].Topic != "A" || weak[1].Topic != "B" || weak[2].Topic != "C" {
		t.Fatalf("expected name order on ties, got %+v", weak)
	}
}

func TestWeakTopicsHonorsLimit(t *testing.T) {
	p := progress.New()
	record(p, "T1", 10, 1)
	record(p, "T2", 10, 2)
	record(p, "T3", 10, 3)

	weak := WeakTopics(p, 5, 2)
	if len(weak) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(weak))
	}
	if weak[0].Topic != "T1" || weak[1].Topic != "T2" {
		t.Fatalf("expected two weakest topics, got %+v", weak)
	}
}

func record(p *progress.Progress, topic string, attempts, correct int) {
	q := fourChoiceQuestion("q-"+topic, topic, domain.LetterA)
	for i := 0; i < attempts; i++ {
		p.Update(q, i < correct, time.Now())
	}
}

func fourChoiceQuestion(id, topic string, answer domain.Letter) domain.Question {
	return domain.Question{
		ID:    id,
		Topic: topic,
		Text:  "въпрос " + id,
		Choices: map[domain.Letter]string{
			domain.LetterA: "първи",
			domain.LetterB: "втори",
			domain.LetterV: "трети",
			domain.LetterG: "четвърти",
		},
		Answer: answer,
	}
}
