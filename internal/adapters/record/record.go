// Package record writes the audit record of every rendered letter.
//
// The record reveals every pairing; it is write-only output and is never read
// back as state. Each entry is the rendered letter followed by a separator line.
package record

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// File layout constants.
const (
	separatorWidth = 80
	filePermission = 0o600
	dirPermission  = 0o750
	lockSuffix     = ".lock"

	defaultLockTimeout = 5 * time.Second
	lockRetryDelay     = 100 * time.Millisecond
)

// Separator is written after every entry.
var Separator = strings.Repeat("*", separatorWidth) + "\n" //nolint:gochecknoglobals // fixed layout

// Option applies a configuration option to the Recorder.
type Option func(*Recorder)

// WithLockTimeout sets how long Open waits for another run to release the record.
func WithLockTimeout(d time.Duration) Option {
	return func(r *Recorder) {
		if d > 0 {
			r.lockTimeout = d
		}
	}
}

// Recorder appends entries to a record file. It holds an advisory lock on
// <path>.lock from Open until Close so concurrent runs cannot interleave.
type Recorder struct {
	path        string
	lock        *flock.Flock
	lockTimeout time.Duration
}

// Open locks the record at path and truncates it.
func Open(ctx context.Context, path string, opts ...Option) (*Recorder, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoPath
	}
	r := &Recorder{path: path, lockTimeout: defaultLockTimeout}
	for _, opt := range opts {
		opt(r)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermission); err != nil {
			return nil, fmt.Errorf("creating record directory: %w", err)
		}
	}

	r.lock = flock.New(path + lockSuffix)
	lockCtx, cancel := context.WithTimeout(ctx, r.lockTimeout)
	defer cancel()
	locked, err := r.lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLocked, path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	if err := r.truncate(); err != nil {
		_ = r.lock.Unlock()
		return nil, err
	}
	return r, nil
}

// Path returns the record file path.
func (r *Recorder) Path() string { return r.path }

func (r *Recorder) truncate() error {
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Append writes entry and the separator. The file is opened and closed per
// call so everything written before a crash stays on disk.
func (r *Recorder) Append(entry string) (err error) {
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrWrite, cerr)
		}
	}()

	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if _, err := f.WriteString(Separator); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Close releases the lock. The lock file is left in place.
func (r *Recorder) Close() error {
	if r.lock == nil {
		return nil
	}
	return r.lock.Unlock()
}
