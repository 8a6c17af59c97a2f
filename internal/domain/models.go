package domain

import "time"

// Letter identifies one of the four fixed answer choices. The exam uses the
// Cyrillic letters А, Б, В and Г.
type Letter string

const (
	LetterA Letter = "А"
	LetterB Letter = "Б"
	LetterV Letter = "В"
	LetterG Letter = "Г"
)

// Letters is the canonical presentation order of the choices.
var Letters = []Letter{LetterA, LetterB, LetterV, LetterG}

// Valid reports whether l is one of the four exam letters.
func (l Letter) Valid() bool {
	for _, known := range Letters {
		if l == known {
			return true
		}
	}
	return false
}

// Question models a four-choice exam question with exactly one correct letter.
type Question struct {
	ID          string            `json:"id"`
	Num         int               `json:"num"`
	Topic       string            `json:"topic,omitempty"`
	Text        string            `json:"question"`
	Choices     map[Letter]string `json:"choices"`
	Answer      Letter            `json:"answer,omitempty"`
	Explanation string            `json:"explanation,omitempty"`
}

// Valid reports whether the question carries an id, text and all four
// choices. Loaders drop invalid records instead of failing the whole bank.
func (q Question) Valid() bool {
	if q.ID == "" || q.Text == "" || q.Choices == nil {
		return false
	}
	for _, letter := range Letters {
		if q.Choices[letter] == "" {
			return false
		}
	}
	return true
}

// Section is a named subset of the question bank backed by its own source file.
type Section struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	File  string `json:"file"`
	Count int    `json:"count"`
}

// Bank is the section index of a question bank.
type Bank struct {
	Sections []Section `json:"sections"`
}

// AnswerRecord is the committed choice for one question within a session.
// Once recorded it is never overwritten.
type AnswerRecord struct {
	Selected Letter    `json:"selected"`
	At       time.Time `json:"at"`
}

// PendingSelection is a tentative choice awaiting confirmation. It exists only
// between the pick and the confirm/cancel that resolves it.
type PendingSelection struct {
	QID    string `json:"qid"`
	Letter Letter `json:"letter"`
}

// WrongAnswer pairs a missed question with the letter the user picked.
type WrongAnswer struct {
	Question Question `json:"question"`
	Selected Letter   `json:"selected"`
}

// Summary is the outcome of one finished session.
type Summary struct {
	Total      int           `json:"total"`
	Correct    int           `json:"correct"`
	Percentage int           `json:"percentage"`
	Wrong      []WrongAnswer `json:"wrong"`
}

// TopicScore is one entry of the weak-topic ranking.
type TopicScore struct {
	Topic      string `json:"topic"`
	Attempts   int    `json:"attempts"`
	Correct    int    `json:"correct"`
	Percentage int    `json:"percentage"`
}
