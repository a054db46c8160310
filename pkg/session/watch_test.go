package session

import (
	"context"
	"testing"
	"time"
)

func TestFileStoreWatch(t *testing.T) {
	s, _ := NewFileStore(t.TempDir())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changes := make(chan Change, 16)
	done := make(chan error, 1)
	go func() {
		done <- s.Watch(ctx, func(c Change) { changes <- c })
	}()
	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	if _, err := s.Save(ctx, "watched", sampleText); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changes, Change{Name: "watched", Kind: ChangeSaved})

	if err := s.Delete(ctx, "watched"); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changes, Change{Name: "watched", Kind: ChangeRemoved})

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch() = %v", err)
	}
}

func waitFor(t *testing.T, changes <-chan Change, want Change) {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case c := <-changes:
			if c == want {
				return
			}
		case <-timeout:
			t.Fatalf("no %+v event", want)
		}
	}
}
