package session

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/flickergrid/flickergrid/pkg/design"
	"github.com/flickergrid/flickergrid/pkg/errors"
)

// csvHeader is the header row of a session file.
var csvHeader = []string{"i", "name", "x", "y", "w", "h", "omega", "phi"}

// FileStore keeps one CSV file per session in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
	now     func() time.Time
}

// NewFileStore creates a file-based session store.
// If baseDir is empty, defaults to ~/.config/flickergrid/sessions/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "flickergrid", "sessions")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{baseDir: baseDir, now: time.Now}, nil
}

func (s *FileStore) sessionPath(name string) string {
	return filepath.Join(s.baseDir, name+Ext)
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read session dir: %w", err)
	}
	names := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), Ext))
	}
	sort.Strings(names)
	return names, nil
}

func (s *FileStore) Get(ctx context.Context, name string) (string, error) {
	name, err := lookupName(name)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.sessionPath(name))
	if os.IsNotExist(err) {
		return "", notFound(name)
	}
	if err != nil {
		return "", fmt.Errorf("open session file: %w", err)
	}
	defer f.Close()

	patches, err := ReadCSV(f)
	if err != nil {
		return "", fmt.Errorf("session %q: %w", name, err)
	}
	return design.Serialize(patches), nil
}

func (s *FileStore) Save(ctx context.Context, name, text string) (string, error) {
	name, patches, err := prepare(name, text, s.now())
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Write to a temp file first so a failed save never truncates an
	// existing session.
	tmp, err := os.CreateTemp(s.baseDir, ".save-*")
	if err != nil {
		return "", fmt.Errorf("create session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, patches); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.sessionPath(name)); err != nil {
		return "", fmt.Errorf("write session file: %w", err)
	}
	return name, nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	name, err := lookupName(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = os.Remove(s.sessionPath(name))
	if os.IsNotExist(err) {
		return notFound(name)
	}
	if err != nil {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for session files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)

// WriteCSV writes patches as a session file: a header row followed by one
// row per patch, omega and phi with two decimals.
func WriteCSV(w io.Writer, patches []design.Patch) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i, p := range patches {
		row := []string{
			strconv.Itoa(i),
			p.PID,
			strconv.Itoa(p.X),
			strconv.Itoa(p.Y),
			strconv.Itoa(p.W),
			strconv.Itoa(p.H),
			strconv.FormatFloat(p.Omega, 'f', 2, 64),
			strconv.FormatFloat(p.Phi, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a session file. Files written by older tools with float
// geometry ("720.0") are accepted.
func ReadCSV(r io.Reader) ([]design.Patch, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDesign, err, "read session csv")
	}
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDesign, "empty session file")
	}
	if strings.Join(rows[0], ",") != strings.Join(csvHeader, ",") {
		return nil, errors.New(errors.ErrCodeInvalidDesign, "unexpected header %v", rows[0])
	}

	lines := make([]string, len(rows)-1)
	for i, row := range rows[1:] {
		lines[i] = strings.Join(row, ",")
	}
	return design.ParseSpectral(strings.Join(lines, ";"))
}
