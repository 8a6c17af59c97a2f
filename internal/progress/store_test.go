package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"ham-quiz-trainer/internal/domain"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newFakeBlob())

	p := New()
	p.Update(domain.Question{ID: "q1", Topic: "T1"}, true, time.Now())
	p.BestStreak = 4
	store.Save(ctx, "u1", p)

	loaded := store.Load(ctx, "u1")
	if loaded.Total.Attempts != 1 || loaded.Total.Correct != 1 || loaded.BestStreak != 4 {
		t.Fatalf("unexpected progress %+v", loaded)
	}
	if loaded.ByTopic["T1"] == nil || loaded.ByTopic["T1"].Attempts != 1 {
		t.Fatalf("expected T1 stats, got %+v", loaded.ByTopic)
	}
}

func TestLoadFallsBackToZeroValue(t *testing.T) {
	ctx := context.Background()
	blob := newFakeBlob()
	store := NewStore(blob)

	// Missing key.
	p := store.Load(ctx, "u1")
	if p.Total.Attempts != 0 || p.ByQid == nil || p.ByTopic == nil {
		t.Fatalf("expected zero-valued progress, got %+v", p)
	}

	// Corrupt blob.
	_ = blob.Set(ctx, "trainer:progress:u1", []byte("{not json"))
	p = store.Load(ctx, "u1")
	if p.Total.Attempts != 0 {
		t.Fatalf("expected fallback on corrupt blob, got %+v", p)
	}

	// Failing backend.
	blob.err = errors.New("backend down")
	p = store.Load(ctx, "u1")
	if p == nil || p.Total.Attempts != 0 {
		t.Fatalf("expected fallback on failing backend, got %+v", p)
	}
}

func TestSaveSwallowsBackendErrors(t *testing.T) {
	ctx := context.Background()
	blob := newFakeBlob()
	blob.err = errors.New("quota exceeded")
	store := NewStore(blob)

	// Must not panic or propagate.
	store.Save(ctx, "u1", New())
	store.SaveSelection(ctx, "u1", []string{"s1"})
}

func TestSelectionFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	blob := newFakeBlob()
	store := NewStore(blob)
	defaults := []string{"s1", "s2"}

	got := store.LoadSelection(ctx, "u1", defaults)
	if len(got) != 2 {
		t.Fatalf("expected defaults on missing key, got %v", got)
	}

	store.SaveSelection(ctx, "u1", []string{"s2"})
	got = store.LoadSelection(ctx, "u1", defaults)
	if len(got) != 1 || got[0] != "s2" {
		t.Fatalf("expected stored selection, got %v", got)
	}

	// An empty stored list counts as invalid and yields the defaults.
	store.SaveSelection(ctx, "u1", nil)
	got = store.LoadSelection(ctx, "u1", defaults)
	if len(got) != 2 {
		t.Fatalf("expected defaults on empty selection, got %v", got)
	}

	_ = blob.Set(ctx, "trainer:sections:u1", []byte("not json"))
	got = store.LoadSelection(ctx, "u1", defaults)
	if len(got) != 2 {
		t.Fatalf("expected defaults on corrupt selection, got %v", got)
	}
}

func TestSelectionDropsUnknownSections(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newFakeBlob())
	defaults := []string{"s1", "s2"}

	// A section removed from the bank disappears from the stored selection.
	store.SaveSelection(ctx, "u1", []string{"s1", "ghost"})
	got := store.LoadSelection(ctx, "u1", defaults)
	if len(got) != 1 || got[0] != "s1" {
		t.Fatalf("expected stale id dropped, got %v", got)
	}

	// A selection of nothing but removed sections yields the defaults.
	store.SaveSelection(ctx, "u1", []string{"ghost", "phantom"})
	got = store.LoadSelection(ctx, "u1", defaults)
	if len(got) != 2 {
		t.Fatalf("expected defaults when nothing survives, got %v", got)
	}
}

type fakeBlob struct {
	data map[string][]byte
	err  error
}

func newFakeBlob() *fakeBlob {
	return &fakeBlob{data: make(map[string][]byte)}
}

func (b *fakeBlob) Get(_ context.Context, key string) ([]byte, bool, error) {
	if b.err != nil {
		return nil, false, b.err
	}
	data, ok := b.data[key]
	return data, ok, nil
}

func (b *fakeBlob) Set(_ context.Context, key string, data []byte) error {
	if b.err != nil {
		return b.err
	}
	b.data[key] = data
	return nil
}
