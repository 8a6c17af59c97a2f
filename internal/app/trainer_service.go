package app

import (
	"context"

	"ham-quiz-trainer/internal/domain"
	"ham-quiz-trainer/internal/progress"
)

// SessionSize is how many questions a fresh session deals (fewer if the
// selected pool is smaller).
const SessionSize = 30

// SessionRepository abstracts how trainer sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(userID string) *Session
	Get(userID string) (*Session, bool)
	DeleteIfIdle(userID string)
}

// BankRepository loads question bank content (from cache/backing store).
type BankRepository interface {
	Sections(ctx context.Context) ([]domain.Section, error)
	Questions(ctx context.Context, sectionIDs []string) ([]domain.Question, error)
}

// TrainerService contains the core trainer use cases: dealing sessions,
// confirmation-gated answering, progress bookkeeping and results reporting.
type TrainerService struct {
	sessions    SessionRepository
	bank        BankRepository
	progress    *progress.Store
	sessionSize int
}

func NewTrainerService(sessions SessionRepository, bank BankRepository, store *progress.Store, sessionSize int) *TrainerService {
	if sessionSize <= 0 {
		sessionSize = SessionSize
	}
	return &TrainerService{
		sessions:    sessions,
		bank:        bank,
		progress:    store,
		sessionSize: sessionSize,
	}
}

// Connect registers (or refreshes) a user's session and returns the snapshot
// for whatever mode the session is in.
func (t *TrainerService) Connect(ctx context.Context, userID string) (Snapshot, error) {
	session := t.sessions.GetOrCreate(userID)
	return t.snapshot(ctx, userID, session)
}

// Start deals a new session from the user's selected sections.
func (t *TrainerService) Start(ctx context.Context, userID string) (Snapshot, error) {
	session, ok := t.sessions.Get(userID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	pool, err := t.selectedPool(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	if err := session.start(pool, t.sessionSize); err != nil {
		return Snapshot{}, err
	}
	return t.snapshot(ctx, userID, session)
}

// Propose stages a letter for the current question pending confirmation.
func (t *TrainerService) Propose(ctx context.Context, userID string, letter domain.Letter) (Snapshot, error) {
	session, ok := t.sessions.Get(userID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	if err := session.propose(letter); err != nil {
		return Snapshot{}, err
	}
	return t.snapshot(ctx, userID, session)
}

// Cancel drops the pending selection without recording anything.
func (t *TrainerService) Cancel(ctx context.Context, userID string) (Snapshot, error) {
	session, ok := t.sessions.Get(userID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	session.cancel()
	return t.snapshot(ctx, userID, session)
}

// Confirm commits the pending selection.
func (t *TrainerService) Confirm(ctx context.Context, userID string) (Snapshot, error) {
	session, ok := t.sessions.Get(userID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	q, correct, streak, err := session.confirm()
	if err != nil {
		return Snapshot{}, err
	}
	t.recordAnswer(ctx, userID, session, q, correct, streak)
	return t.snapshot(ctx, userID, session)
}

// Answer commits a letter for the current question directly, bypassing the
// confirmation layer. Answering the same question twice fails with
// domain.ErrAlreadyAnswered.
func (t *TrainerService) Answer(ctx context.Context, userID string, letter domain.Letter) (Snapshot, error) {
	session, ok := t.sessions.Get(userID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	q, correct, streak, err := session.answer(letter)
	if err != nil {
		return Snapshot{}, err
	}
	t.recordAnswer(ctx, userID, session, q, correct, streak)
	return t.snapshot(ctx, userID, session)
}

// Next advances to the following question, or to results after the last one.
func (t *TrainerService) Next(ctx context.Context, userID string) (Snapshot, error) {
	session, ok := t.sessions.Get(userID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	finished, err := session.next()
	if err != nil {
		return Snapshot{}, err
	}
	if finished {
		t.recordFinished(ctx, userID, session)
	}
	return t.snapshot(ctx, userID, session)
}

// Reset abandons the current run and returns to the section picker.
func (t *TrainerService) Reset(ctx context.Context, userID string) (Snapshot, error) {
	session, ok := t.sessions.Get(userID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	session.reset()
	return t.snapshot(ctx, userID, session)
}

// ReviewWrong deals a new session from the wrong answers of the finished run.
// With nothing wrong it fails with domain.ErrNoWrongAnswers instead of
// entering quiz mode with zero questions.
func (t *TrainerService) ReviewWrong(ctx context.Context, userID string) (Snapshot, error) {
	session, ok := t.sessions.Get(userID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	if err := session.reviewWrong(); err != nil {
		return Snapshot{}, err
	}
	return t.snapshot(ctx, userID, session)
}

// ToggleSection flips one section in the persisted selection.
func (t *TrainerService) ToggleSection(ctx context.Context, userID, sectionID string) (Snapshot, error) {
	session, ok := t.sessions.Get(userID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	sections, err := t.bank.Sections(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	if !sectionKnown(sections, sectionID) {
		return Snapshot{}, domain.ErrSectionNotFound
	}

	selected := t.progress.LoadSelection(ctx, userID, sectionIDs(sections))
	toggled := make([]string, 0, len(selected)+1)
	removed := false
	for _, id := range selected {
		if id == sectionID {
			removed = true
			continue
		}
		toggled = append(toggled, id)
	}
	if !removed {
		toggled = append(toggled, sectionID)
	}
	t.progress.SaveSelection(ctx, userID, toggled)
	return t.snapshot(ctx, userID, session)
}

// SelectAll selects every bank section.
func (t *TrainerService) SelectAll(ctx context.Context, userID string) (Snapshot, error) {
	session, ok := t.sessions.Get(userID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	sections, err := t.bank.Sections(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	t.progress.SaveSelection(ctx, userID, sectionIDs(sections))
	return t.snapshot(ctx, userID, session)
}

// Leave drops the session once it is back on the intro screen. Progress
// outlives the session either way.
func (t *TrainerService) Leave(_ context.Context, userID string) {
	t.sessions.DeleteIfIdle(userID)
}

// recordAnswer is the single path from a committed answer into the progress
// store. Persistence is best-effort; the quiz flow never fails on it.
func (t *TrainerService) recordAnswer(ctx context.Context, userID string, session *Session, q domain.Question, correct bool, streak int) {
	p := t.progress.Load(ctx, userID)
	p.Update(q, correct, session.now())
	if streak > p.BestStreak {
		p.BestStreak = streak
	}
	t.progress.Save(ctx, userID, p)
}

func (t *TrainerService) recordFinished(ctx context.Context, userID string, session *Session) {
	v := session.view()
	p := t.progress.Load(ctx, userID)
	p.LastSession = &progress.SessionResult{
		Total:      len(v.questions),
		Correct:    v.correctCount,
		FinishedAt: session.now(),
	}
	t.progress.Save(ctx, userID, p)
}

func (t *TrainerService) selectedPool(ctx context.Context, userID string) ([]domain.Question, error) {
	sections, err := t.bank.Sections(ctx)
	if err != nil {
		return nil, err
	}
	selected := t.progress.LoadSelection(ctx, userID, sectionIDs(sections))
	return t.bank.Questions(ctx, selected)
}

func (t *TrainerService) snapshot(ctx context.Context, userID string, session *Session) (Snapshot, error) {
	v := session.view()
	switch v.mode {
	case ModeQuiz:
		return quizSnapshot(v), nil
	case ModeResults:
		return resultsSnapshot(v, t.progress.Load(ctx, userID)), nil
	default:
		sections, err := t.bank.Sections(ctx)
		if err != nil {
			return Snapshot{}, err
		}
		selected := t.progress.LoadSelection(ctx, userID, sectionIDs(sections))
		return introSnapshot(sections, selected, t.sessionSize), nil
	}
}

func sectionIDs(sections []domain.Section) []string {
	ids := make([]string, 0, len(sections))
	for _, sec := range sections {
		ids = append(ids, sec.ID)
	}
	return ids
}

func sectionKnown(sections []domain.Section, id string) bool {
	for _, sec := range sections {
		if sec.ID == id {
			return true
		}
	}
	return false
}
