package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"ham-quiz-trainer/internal/domain"
)

// BankLoader fetches bank content from a backing store (files, Postgres, etc).
type BankLoader interface {
	LoadSections(ctx context.Context) ([]domain.Section, error)
	LoadSection(ctx context.Context, section domain.Section) ([]domain.Question, error)
}

// BankRepository caches bank content in Redis and falls back to a loader on
// cache miss. Content is stored as:
//
//	SET bank:index            {sections JSON}
//	SET bank:section:{id}     {questions JSON}
type BankRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewBankRepository(client *redis.Client, loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) Sections(ctx context.Context) ([]domain.Section, error) {
	if sections, ok := r.cachedSections(ctx); ok {
		return sections, nil
	}

	result, err, _ := r.sf.Do(r.indexKey(), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if sections, ok := r.cachedSections(ctx); ok {
			return sections, nil
		}
		sections, err := r.loader.LoadSections(ctx)
		if err != nil {
			return nil, err
		}
		r.cache(ctx, r.indexKey(), sections)
		return sections, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Section), nil
}

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
	key := r.sectionKey(sec.ID)
	if questions, ok := cachedJSON[[]domain.Question](ctx, r.client, key); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		if questions, ok := cachedJSON[[]domain.Question](ctx, r.client, key); ok {
			return questions, nil
		}
		questions, err := r.loader.LoadSection(ctx, sec)
		if err != nil {
			return nil, err
		}
		r.cache(ctx, key, questions)
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *BankRepository) cachedSections(ctx context.Context) ([]domain.Section, bool) {
	return cachedJSON[[]domain.Section](ctx, r.client, r.indexKey())
}

// cache writes v as JSON, best-effort. A failed cache write only costs a
// reload on the next miss.
func (r *BankRepository) cache(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = r.client.Set(ctx, key, data, r.ttlWithJitter()).Err()
}

func cachedJSON[T any](ctx context.Context, client *redis.Client, key string) (T, bool) {
	var out T
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil and transport errors both count as a miss
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, false
	}
	return out, true
}

func (r *BankRepository) indexKey() string {
	return "bank:index"
}

func (r *BankRepository) sectionKey(id string) string {
	return "bank:section:" + id
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
