package memory

import "testing"

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	session := store.GetOrCreate("u1")
	if session == nil {
		t.Fatalf("expected session")
	}
	if again := store.GetOrCreate("u1"); again != session {
		t.Fatalf("expected same session on repeat GetOrCreate")
	}
	if _, ok := store.Get("u1"); !ok {
		t.Fatalf("expected session present")
	}

	store.DeleteIfIdle("u1")
	if _, ok := store.Get("u1"); ok {
		t.Fatalf("expected idle session removed")
	}
}
