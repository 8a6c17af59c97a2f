package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"ham-quiz-trainer/internal/domain"
)

// BankLoader fetches bank content from a backing store (files, Postgres, etc).
type BankLoader interface {
	LoadSections(ctx context.Context) ([]domain.Section, error)
	LoadSection(ctx context.Context, section domain.Section) ([]domain.Question, error)
}

// BankRepository caches the section index and per-section question lists with
// TTL to avoid repeated backing-store hits.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu       sync.RWMutex
	index    []domain.Section
	indexExp time.Time
	sections map[string]cachedSection
}

type cachedSection struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader:   loader,
		ttl:      ttl,
		clock:    time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		sections: make(map[string]cachedSection),
	}
}

func (r *BankRepository) Sections(ctx context.Context) ([]domain.Section, error) {
	now := r.clock()

	r.mu.RLock()
	if r.index != nil && r.indexExp.After(now) {
		index := r.index
		r.mu.RUnlock()
		return index, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("index", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.index != nil && r.indexExp.After(now) {
			index := r.index
			r.mu.RUnlock()
			return index, nil
		}
		r.mu.RUnlock()

		index, err := r.loader.LoadSections(ctx)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.index = index
		r.indexExp = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return index, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Section), nil
}

// Questions returns the concatenated pools of the requested sections.
func (r *BankRepository) Questions(ctx context.Context, sectionIDs []string) ([]domain.Question, error) {
	index, err := r.Sections(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Section, len(index))
	for _, sec := range index {
		byID[sec.ID] = sec
	}

	var pool []domain.Question
	for _, id := range sectionIDs {
		sec, ok := byID[id]
		if !ok {
			return nil, domain.ErrSectionNotFound
		}
		questions, err := r.sectionQuestions(ctx, sec)
		if err != nil {
			return nil, err
		}
		pool = append(pool, questions...)
	}
	return pool, nil
}

func (r *BankRepository) sectionQuestions(ctx context.Context, sec domain.Section) ([]domain.Question, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.sections[sec.ID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.questions, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("section:"+sec.ID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.sections[sec.ID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.questions, nil
		}
		r.mu.RUnlock()

		questions, err := r.loader.LoadSection(ctx, sec)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.sections[sec.ID] = cachedSection{
			questions: questions,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticBankLoader serves a fixed bank from memory (useful for tests/demos).
type StaticBankLoader struct {
	sections  []domain.Section
	questions map[string][]domain.Question
}

func NewStaticBankLoader(sections []domain.Section, questions map[string][]domain.Question) *StaticBankLoader {
	return &StaticBankLoader{sections: sections, questions: questions}
}

func (l *StaticBankLoader) LoadSections(_ context.Context) ([]domain.Section, error) {
	if len(l.sections) == 0 {
		return nil, domain.ErrBankNotFound
	}
	return l.sections, nil
}

func (l *StaticBankLoader) LoadSection(_ context.Context, section domain.Section) ([]domain.Question, error) {
	questions, ok := l.questions[section.ID]
	if !ok {
		return nil, domain.ErrSectionNotFound
	}
	return questions, nil
}
