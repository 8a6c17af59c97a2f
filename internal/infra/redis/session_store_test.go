package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)

	_ = store.GetOrCreate("u1")
	if !mr.Exists("trainer:session:u1") {
		t.Fatalf("expected redis key to be set")
	}

	store.DeleteIfIdle("u1")
	if mr.Exists("trainer:session:u1") {
		t.Fatalf("expected redis key to be removed")
	}
}
