package app

import (
	"math/rand"

	"ham-quiz-trainer/internal/domain"
)

// Shuffle returns a copy of questions in uniformly random order using a
// Fisher–Yates pass. The input slice is never mutated.
func Shuffle(rnd *rand.Rand, questions []domain.Question) []domain.Question {
	shuffled := make([]domain.Question, len(questions))
	copy(shuffled, questions)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// Sample shuffles questions and returns the first n. An n beyond the pool
// size is clamped, not rejected.
func Sample(rnd *rand.Rand, questions []domain.Question, n int) []domain.Question {
	shuffled := Shuffle(rnd, questions)
	if n < 0 {
		n = 0
	}
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
