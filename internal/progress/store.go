package progress

import (
	"context"
	"encoding/json"
	"log"
)

// Blob abstracts the key-value store the trainer persists into (in-memory,
// Redis, etc). Get reports found=false for a missing key.
type Blob interface {
	Get(ctx context.Context, key string) (data []byte, found bool, err error)
	Set(ctx context.Context, key string, data []byte) error
}

// Store persists Progress blobs and section selections per user. Reads fall
// back to zero-valued defaults on any failure; writes are best-effort. A
// broken store degrades progress tracking but never interrupts a quiz.
type Store struct {
	blob Blob
}

func NewStore(blob Blob) *Store {
	return &Store{blob: blob}
}

// Load returns the stored Progress for userID, or a fresh zero-valued one when
// the key is absent or the blob does not parse.
func (s *Store) Load(ctx context.Context, userID string) *Progress {
	data, found, err := s.blob.Get(ctx, progressKey(userID))
	if err != nil || !found {
		return New()
	}
	p := New()
	if err := json.Unmarshal(data, p); err != nil {
		return New()
	}
	p.normalize()
	return p
}

// Save persists p. Failures are logged and swallowed.
func (s *Store) Save(ctx context.Context, userID string, p *Progress) {
	data, err := json.Marshal(p)
	if err != nil {
		log.Printf("progress: marshal for %s failed: %v", userID, err)
		return
	}
	if err := s.blob.Set(ctx, progressKey(userID), data); err != nil {
		log.Printf("progress: save for %s failed: %v", userID, err)
	}
}

// LoadSelection returns the stored section selection for userID, or defaults
// when the key is absent, empty or corrupt. Ids no longer present in defaults
// are dropped so a selection outlives bank reshuffles; when nothing survives
// the defaults apply.
func (s *Store) LoadSelection(ctx context.Context, userID string, defaults []string) []string {
	data, found, err := s.blob.Get(ctx, selectionKey(userID))
	if err != nil || !found {
		return defaults
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return defaults
	}
	known := make(map[string]bool, len(defaults))
	for _, id := range defaults {
		known[id] = true
	}
	kept := ids[:0]
	for _, id := range ids {
		if known[id] {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		return defaults
	}
	return kept
}

// SaveSelection persists the section selection, best-effort.
func (s *Store) SaveSelection(ctx context.Context, userID string, ids []string) {
	data, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := s.blob.Set(ctx, selectionKey(userID), data); err != nil {
		log.Printf("progress: save selection for %s failed: %v", userID, err)
	}
}

func progressKey(userID string) string {
	return "trainer:progress:" + userID
}

func selectionKey(userID string) string {
	return "trainer:sections:" + userID
}
