package app

import (
	"sort"

	"ham-quiz-trainer/internal/domain"
	"ham-quiz-trainer/internal/progress"
)

// Weak-topic ranking defaults: topics need at least MinTopicAttempts recorded
// answers to qualify, and at most WeakTopicLimit entries are reported.
const (
	MinTopicAttempts = 5
	WeakTopicLimit   = 5
)

// Summarize derives the results view of a finished session.
func Summarize(questions []domain.Question, answers map[string]domain.AnswerRecord, correctCount int) domain.Summary {
	wrong := make([]domain.WrongAnswer, 0)
	for _, q := range questions {
		if rec, ok := answers[q.ID]; ok && rec.Selected != q.Answer {
			wrong = append(wrong, domain.WrongAnswer{Question: q, Selected: rec.Selected})
		}
	}
	return domain.Summary{
		Total:      len(questions),
		Correct:    correctCount,
		Percentage: progress.Percentage(correctCount, len(questions)),
		Wrong:      wrong,
	}
}

// WeakTopics ranks topics with at least minAttempts answers by ascending
// accuracy, weakest first, capped at limit. Equal percentages keep topic
// name order so the ranking is stable across renders.
func WeakTopics(p *progress.Progress, minAttempts, limit int) []domain.TopicScore {
	scores := make([]domain.TopicScore, 0, len(p.ByTopic))
	for topic, stats := range p.ByTopic {
		if stats.Attempts < minAttempts {
			continue
		}
		scores = append(scores, domain.TopicScore{
			Topic:      topic,
			Attempts:   stats.Attempts,
			Correct:    stats.Correct,
			Percentage: progress.Percentage(stats.Correct, stats.Attempts),
		})
	}
	sort.Slice(scores, func(i, j int) bool {
		return scores[i].Topic < scores[j].Topic
	})
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Percentage < scores[j].Percentage
	})
	if limit >= 0 && len(scores) > limit {
		scores = scores[:limit]
	}
	return scores
}
