package session

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind says what happened to a watched session file.
type ChangeKind string

const (
	ChangeSaved   ChangeKind = "saved"
	ChangeRemoved ChangeKind = "removed"
)

// Change is a session file event seen by [FileStore.Watch].
type Change struct {
	Name string
	Kind ChangeKind
}

// Watch reports sessions saved or removed in the store directory, including
// by other processes, until ctx is done. Events for files that are not
// sessions are ignored. Watch blocks.
func (s *FileStore) Watch(ctx context.Context, onChange func(Change)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch sessions: %w", err)
	}
	defer w.Close()

	if err := w.Add(s.baseDir); err != nil {
		return fmt.Errorf("watch %s: %w", s.baseDir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if c, ok := changeFor(ev); ok {
				onChange(c)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch sessions: %w", err)
		}
	}
}

func changeFor(ev fsnotify.Event) (Change, bool) {
	base := filepath.Base(ev.Name)
	if !strings.HasSuffix(base, Ext) || strings.HasPrefix(base, ".") {
		return Change{}, false
	}
	name := strings.TrimSuffix(base, Ext)
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return Change{Name: name, Kind: ChangeRemoved}, true
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		return Change{Name: name, Kind: ChangeSaved}, true
	}
	return Change{}, false
}
