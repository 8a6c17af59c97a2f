package app

import (
	"math/rand"
	"sync"
	"time"

	"ham-quiz-trainer/internal/domain"
)

// Mode is the lifecycle phase of a trainer session.
type Mode string

const (
	ModeIntro   Mode = "intro"
	ModeQuiz    Mode = "quiz"
	ModeResults Mode = "results"
)

// Session owns one user's quiz run: the dealt questions, the cursor, the
// recorded answers and the running score. It is created in intro mode and
// cycles intro → quiz → results → intro.
type Session struct {
	id  string
	now func() time.Time
	rnd *rand.Rand

	mu           sync.Mutex
	mode         Mode
	questions    []domain.Question
	idx          int
	answers      map[string]domain.AnswerRecord
	correctCount int
	streak       int
	pending      *domain.PendingSelection
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string) *Session {
	return newSession(id, time.Now, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// newSession allows deterministic clocks and randomness in tests.
func newSession(id string, now func() time.Time, rnd *rand.Rand) *Session {
	return &Session{
		id:      id,
		now:     now,
		rnd:     rnd,
		mode:    ModeIntro,
		answers: make(map[string]domain.AnswerRecord),
	}
}

// start deals a fresh session of up to size questions from pool.
func (s *Session) start(pool []domain.Question, size int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(pool) == 0 {
		return domain.ErrNoQuestions
	}
	s.questions = Sample(s.rnd, pool, size)
	s.resetRunLocked()
	s.mode = ModeQuiz
	return nil
}

// reviewWrong replaces the finished session with its shuffled wrong answers.
func (s *Session) reviewWrong() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeResults {
		return domain.ErrNotInResults
	}
	wrong := wrongQuestions(s.questions, s.answers)
	if len(wrong) == 0 {
		return domain.ErrNoWrongAnswers
	}
	s.questions = Shuffle(s.rnd, wrong)
	s.resetRunLocked()
	s.mode = ModeQuiz
	return nil
}

func (s *Session) resetRunLocked() {
	s.idx = 0
	s.answers = make(map[string]domain.AnswerRecord)
	s.correctCount = 0
	s.streak = 0
	s.pending = nil
}

// propose stages letter for the current question without committing it.
func (s *Session) propose(letter domain.Letter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeQuiz {
		return domain.ErrNotInQuiz
	}
	if !letter.Valid() {
		return domain.ErrInvalidLetter
	}
	q := s.questions[s.idx]
	if _, answered := s.answers[q.ID]; answered {
		return domain.ErrAlreadyAnswered
	}
	s.pending = &domain.PendingSelection{QID: q.ID, Letter: letter}
	return nil
}

// cancel drops any pending selection. Safe to call with none staged.
func (s *Session) cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// confirm commits the pending selection through the same path as answer.
func (s *Session) confirm() (domain.Question, bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return domain.Question{}, false, 0, domain.ErrNoPendingSelection
	}
	letter := s.pending.Letter
	s.pending = nil
	return s.answerLocked(letter)
}

// answer commits letter for the current question; a second answer for the
// same question is rejected with ErrAlreadyAnswered rather than double-counted.
func (s *Session) answer(letter domain.Letter) (domain.Question, bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	return s.answerLocked(letter)
}

func (s *Session) answerLocked(letter domain.Letter) (domain.Question, bool, int, error) {
	if s.mode != ModeQuiz {
		return domain.Question{}, false, 0, domain.ErrNotInQuiz
	}
	if !letter.Valid() {
		return domain.Question{}, false, 0, domain.ErrInvalidLetter
	}
	q := s.questions[s.idx]
	if _, answered := s.answers[q.ID]; answered {
		return domain.Question{}, false, 0, domain.ErrAlreadyAnswered
	}

	correct := letter == q.Answer
	s.answers[q.ID] = domain.AnswerRecord{Selected: letter, At: s.now()}
	if correct {
		s.correctCount++
		s.streak++
	} else {
		s.streak = 0
	}
	return q, correct, s.streak, nil
}

// next advances the cursor, or finishes the session on the last question.
// The current question must be answered first.
func (s *Session) next() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeQuiz {
		return false, domain.ErrNotInQuiz
	}
	q := s.questions[s.idx]
	if _, answered := s.answers[q.ID]; !answered {
		return false, domain.ErrNotAnswered
	}
	s.pending = nil
	if s.idx >= len(s.questions)-1 {
		s.mode = ModeResults
		return true, nil
	}
	s.idx++
	return false, nil
}

// reset clears the run and returns to intro.
func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = nil
	s.resetRunLocked()
	s.mode = ModeIntro
}

// IsIdle reports whether the session is back on the intro screen.
func (s *Session) IsIdle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode == ModeIntro
}

// view is a consistent copy of the session internals for snapshot building.
type sessionView struct {
	mode         Mode
	questions    []domain.Question
	idx          int
	answers      map[string]domain.AnswerRecord
	correctCount int
	streak       int
	pending      *domain.PendingSelection
}

func (s *Session) view() sessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	answers := make(map[string]domain.AnswerRecord, len(s.answers))
	for id, rec := range s.answers {
		answers[id] = rec
	}
	questions := make([]domain.Question, len(s.questions))
	copy(questions, s.questions)

	var pending *domain.PendingSelection
	if s.pending != nil {
		copied := *s.pending
		pending = &copied
	}
	return sessionView{
		mode:         s.mode,
		questions:    questions,
		idx:          s.idx,
		answers:      answers,
		correctCount: s.correctCount,
		streak:       s.streak,
		pending:      pending,
	}
}

// wrongQuestions filters the questions whose recorded answer missed.
func wrongQuestions(questions []domain.Question, answers map[string]domain.AnswerRecord) []domain.Question {
	var wrong []domain.Question
	for _, q := range questions {
		if rec, ok := answers[q.ID]; ok && rec.Selected != q.Answer {
			wrong = append(wrong, q)
		}
	}
	return wrong
}
