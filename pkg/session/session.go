// Package session persists named designs.
//
// A session is a design text saved under a name so an operator can reload a
// layout later. Three backends implement [Store]:
//   - [FileStore]: one CSV file per session, the layout used on the lab PC
//   - [RedisStore]: a Redis hash, for a server shared by several displays
//   - [MongoStore]: a MongoDB collection, for long-lived archives
//
// # Names
//
// [NormalizeName] applies the naming rules shared by every backend:
// whitespace is trimmed, a trailing ".csv" is dropped, and names that could
// escape a directory are rejected. Saving under a blank name stores the
// design under [AutoName].
//
// # Validation
//
// Save only accepts text that reads back with [design.ParseSpectral] and
// stores its normalized serialization, so every stored session can be
// loaded and analyzed later.
//
//	store, err := session.NewFileStore("")
//	name, err := store.Save(ctx, "", text)   // "20240604-153012-12-9f86d081"
//	text, err = store.Get(ctx, name)
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flickergrid/flickergrid/pkg/design"
	"github.com/flickergrid/flickergrid/pkg/errors"
)

// Ext is the suffix session files carry on disk. Names given with it are
// accepted and stored without it.
const Ext = ".csv"

// Store is the interface for session storage backends.
type Store interface {
	// List returns every session name in sorted order.
	List(ctx context.Context) ([]string, error)

	// Get returns the design text saved under name, or an error with code
	// SESSION_NOT_FOUND.
	Get(ctx context.Context, name string) (string, error)

	// Save stores text under name, overwriting any previous session with
	// that name, and returns the name actually used.
	Save(ctx context.Context, name, text string) (string, error)

	// Delete removes a session. Deleting a missing session returns
	// SESSION_NOT_FOUND.
	Delete(ctx context.Context, name string) error

	Close() error
}

// NormalizeName trims name, drops a trailing ".csv" and validates the
// result. A blank name is returned as "" without error.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, Ext)
	if name == "" {
		return "", nil
	}
	if err := errors.ValidateSessionName(name); err != nil {
		return "", err
	}
	return name, nil
}

// AutoName returns a name of the form <YYYYmmdd-HHMMSS>-<patches>-<8 hex>.
func AutoName(now time.Time, patches int) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%d-%s", now.Format("20060102-150405"), patches, id[:8])
}

// prepare normalizes name and text for saving. It returns the name to store
// under, the parsed patches and their normalized serialization.
func prepare(name, text string, now time.Time) (string, []design.Patch, error) {
	patches, err := design.ParseSpectral(text)
	if err != nil {
		return "", nil, err
	}
	if len(patches) == 0 {
		return "", nil, errors.New(errors.ErrCodeInvalidDesign, "design has no patches")
	}
	name, err = NormalizeName(name)
	if err != nil {
		return "", nil, err
	}
	if name == "" {
		name = AutoName(now, len(patches))
	}
	return name, patches, nil
}

// lookupName normalizes a name for Get and Delete, where blank is an error.
func lookupName(name string) (string, error) {
	n, err := NormalizeName(name)
	if err != nil {
		return "", err
	}
	if n == "" {
		return "", errors.New(errors.ErrCodeInvalidSessionName, "session name is required")
	}
	return n, nil
}

func notFound(name string) error {
	return errors.New(errors.ErrCodeSessionNotFound, "session %q not found", name)
}
