package session

import (
	"context"
	"testing"
	"time"

	"github.com/flickergrid/flickergrid/pkg/errors"
)

const sampleText = "0,p-1,720,540,384,432,13.42,5.00;\n1,p-2,1200,540,384,432,17.90,0.33"

// storeContract runs the behavior every Store must share.
func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	names, err := s.List(ctx)
	if err != nil || len(names) != 0 {
		t.Fatalf("List() on empty store = %v, %v", names, err)
	}

	name, err := s.Save(ctx, " beta.csv ", sampleText)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if name != "beta" {
		t.Errorf("Save returned %q, want beta", name)
	}
	if _, err := s.Save(ctx, "alpha", "0, p-1 ,720.0,540,384,432,13.42,5"); err != nil {
		t.Fatalf("Save with float geometry: %v", err)
	}

	names, _ = s.List(ctx)
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("List() = %v, want [alpha beta]", names)
	}

	got, err := s.Get(ctx, "beta.csv")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != sampleText {
		t.Errorf("Get() =\n%s\nwant\n%s", got, sampleText)
	}
	got, _ = s.Get(ctx, "alpha")
	if got != "0,p-1,720,540,384,432,13.42,5.00" {
		t.Errorf("stored text should be normalized, got %q", got)
	}

	auto, err := s.Save(ctx, "", sampleText)
	if err != nil {
		t.Fatalf("Save with blank name: %v", err)
	}
	if len(auto) < len("20060102-150405-2-") {
		t.Errorf("auto name = %q", auto)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("Get(missing) error = %v, want SESSION_NOT_FOUND", err)
	}
	if _, err := s.Get(ctx, " "); !errors.Is(err, errors.ErrCodeInvalidSessionName) {
		t.Errorf("Get(blank) error = %v, want INVALID_SESSION_NAME", err)
	}
	if _, err := s.Save(ctx, "../x", sampleText); !errors.Is(err, errors.ErrCodeInvalidSessionName) {
		t.Errorf("Save(../x) error = %v, want INVALID_SESSION_NAME", err)
	}
	if _, err := s.Save(ctx, "bad", "0,p-1,1,2"); !errors.Is(err, errors.ErrCodeInvalidDesign) {
		t.Errorf("Save(bad text) error = %v, want INVALID_DESIGN", err)
	}
	if _, err := s.Save(ctx, "empty", " ; "); !errors.Is(err, errors.ErrCodeInvalidDesign) {
		t.Errorf("Save(empty) error = %v, want INVALID_DESIGN", err)
	}

	if err := s.Delete(ctx, "beta"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "beta"); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("second Delete error = %v, want SESSION_NOT_FOUND", err)
	}
	names, _ = s.List(ctx)
	if len(names) != 2 {
		t.Errorf("List() after delete = %v", names)
	}
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	storeContract(t, s)
}

func TestAutoNameUsesClock(t *testing.T) {
	s := NewMemoryStore()
	s.now = func() time.Time { return time.Date(2024, 6, 4, 9, 5, 1, 0, time.Local) }
	name, err := s.Save(context.Background(), "", sampleText)
	if err != nil {
		t.Fatal(err)
	}
	if name[:18] != "20240604-090501-2-" {
		t.Errorf("auto name = %q", name)
	}
}
