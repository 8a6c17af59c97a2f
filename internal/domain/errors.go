package domain

import "errors"

var (
	// ErrBankNotFound indicates the question bank index could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrSectionNotFound indicates an unknown section id was requested.
	ErrSectionNotFound = errors.New("bank section not found")
	// ErrSessionNotFound is returned when a trainer session has not been initialized.
	ErrSessionNotFound = errors.New("trainer session not found")
	// ErrNotInQuiz is returned when a quiz-only action fires outside quiz mode.
	ErrNotInQuiz = errors.New("no quiz in progress")
	// ErrNotInResults is returned when a results-only action fires before the quiz ends.
	ErrNotInResults = errors.New("quiz not finished")
	// ErrAlreadyAnswered rejects a second answer for the same question in one session.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrNotAnswered is returned when advancing past a question that has no answer yet.
	ErrNotAnswered = errors.New("current question not answered")
	// ErrNoPendingSelection is returned when confirming without a proposed letter.
	ErrNoPendingSelection = errors.New("no pending selection")
	// ErrNoWrongAnswers is returned when a review session would be empty.
	ErrNoWrongAnswers = errors.New("no wrong answers to review")
	// ErrNoQuestions is returned when starting with an empty question pool.
	ErrNoQuestions = errors.New("no questions selected")
	// ErrInvalidLetter rejects choices outside А, Б, В, Г.
	ErrInvalidLetter = errors.New("invalid choice letter")
)
