package progress

import (
	"math"
	"time"

	"ham-quiz-trainer/internal/domain"
)

// DefaultTopic buckets questions that carry no topic of their own.
const DefaultTopic = "Общи"

// QuestionStats is the cumulative record for a single question.
type QuestionStats struct {
	Attempts    int       `json:"attempts"`
	Correct     int       `json:"correct"`
	LastCorrect bool      `json:"lastCorrect"`
	LastSeen    time.Time `json:"lastSeen"`
}

// TopicStats is the cumulative record for a topic.
type TopicStats struct {
	Attempts int `json:"attempts"`
	Correct  int `json:"correct"`
}

// Tally is a plain attempts/correct pair.
type Tally struct {
	Attempts int `json:"attempts"`
	Correct  int `json:"correct"`
}

// SessionResult is the outcome of the most recently finished session.
type SessionResult struct {
	Total      int       `json:"total"`
	Correct    int       `json:"correct"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Progress accumulates accuracy statistics across sessions. All mutation goes
// through Update; the per-question, per-topic and total tallies stay consistent
// because every answer event routes through it exactly once.
type Progress struct {
	ByQid       map[string]*QuestionStats `json:"byQid"`
	ByTopic     map[string]*TopicStats    `json:"byTopic"`
	Total       Tally                     `json:"total"`
	BestStreak  int                       `json:"bestStreak"`
	LastSession *SessionResult            `json:"lastSession,omitempty"`
}

// New returns a zero-valued Progress with allocated maps.
func New() *Progress {
	return &Progress{
		ByQid:   make(map[string]*QuestionStats),
		ByTopic: make(map[string]*TopicStats),
	}
}

// normalize backfills maps that a stored blob may be missing.
func (p *Progress) normalize() {
	if p.ByQid == nil {
		p.ByQid = make(map[string]*QuestionStats)
	}
	if p.ByTopic == nil {
		p.ByTopic = make(map[string]*TopicStats)
	}
}

// Update records one answer event for q. It increments the total, per-question
// and per-topic tallies in lockstep.
func (p *Progress) Update(q domain.Question, correct bool, now time.Time) {
	p.normalize()

	topic := q.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	p.Total.Attempts++
	if correct {
		p.Total.Correct++
	}

	pq, ok := p.ByQid[q.ID]
	if !ok {
		pq = &QuestionStats{}
		p.ByQid[q.ID] = pq
	}
	pq.Attempts++
	if correct {
		pq.Correct++
	}
	pq.LastCorrect = correct
	pq.LastSeen = now

	pt, ok := p.ByTopic[topic]
	if !ok {
		pt = &TopicStats{}
		p.ByTopic[topic] = pt
	}
	pt.Attempts++
	if correct {
		pt.Correct++
	}
}

// Percentage reports correct/attempts as a rounded integer percentage.
// Zero attempts yields 0, not an error.
func Percentage(correct, attempts int) int {
	if attempts == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(attempts) * 100))
}
