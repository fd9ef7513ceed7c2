package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/charliek/slotview/internal/constants"
	"github.com/charliek/slotview/internal/domain"
	"github.com/charliek/slotview/internal/logging"
)

// FollowerConfig holds configuration for a Follower
type FollowerConfig struct {
	Follow       bool          // Keep reading appended data after the initial read
	PollInterval time.Duration // Fallback re-check for filesystems that miss write events
	Logger       *logging.Logger
}

// DefaultFollowerConfig returns the default configuration
func DefaultFollowerConfig() FollowerConfig {
	return FollowerConfig{
		Follow:       true,
		PollInterval: time.Second,
	}
}

// Follower reads a log file from the beginning and, when following, emits
// lines appended later. Truncation restarts reading at offset 0. A different
// file at the path (rotation) is read from the start once the old file's
// unterminated last line has been emitted.
type Follower struct {
	path     string
	config   FollowerConfig
	logger   *logging.Logger
	offset   int64
	file     os.FileInfo
	splitter lineSplitter
}

// NewFollower creates a Follower for path
func NewFollower(path string, config FollowerConfig) *Follower {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultFollowerConfig().PollInterval
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &Follower{
		path:   path,
		config: config,
		logger: logger.With("component", "source", "path", path),
	}
}

// Path returns the absolute path being read
func (f *Follower) Path() string {
	return f.path
}

// Run emits batches in file order until the file is fully read (not
// following) or ctx is cancelled (following). emit is called from the
// calling goroutine only.
func (f *Follower) Run(ctx context.Context, emit func(Batch)) error {
	if !f.config.Follow {
		err := f.readNew(emit)
		f.flushPartial(emit)
		if err != nil {
			emit(Batch{Err: err})
		}
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return &domain.SourceError{Path: f.path, Err: fmt.Errorf("create watcher: %w", err)}
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		return &domain.SourceError{Path: f.path, Err: fmt.Errorf("watch directory: %w", err)}
	}

	if err := f.readNew(emit); err != nil {
		emit(Batch{Err: err})
	}

	ticker := time.NewTicker(f.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != f.path {
				continue
			}
			f.handleEvent(ev, emit)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger.Warn("watcher error", "error", err)
			emit(Batch{Err: &domain.SourceError{Path: f.path, Err: err}})

		case <-ticker.C:
			if err := f.readNew(emit); err != nil && !errors.Is(err, os.ErrNotExist) {
				f.logger.Debug("poll read failed", "error", err)
			}
		}
	}
}

// handleEvent dispatches watcher events for the followed file
func (f *Follower) handleEvent(ev fsnotify.Event, emit func(Batch)) {
	switch {
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create):
		if err := f.readNew(emit); err != nil {
			emit(Batch{Err: err})
		}

	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		if _, err := os.Stat(f.path); errors.Is(err, os.ErrNotExist) {
			f.logger.Info("file removed or rotated", "op", ev.Op.String())
			f.flushPartial(emit)
			f.reset()
			return
		}
		// Already replaced; readNew tells the files apart
		if err := f.readNew(emit); err != nil && !errors.Is(err, os.ErrNotExist) {
			emit(Batch{Err: err})
		}
	}
}

// reset forgets the current file so the next read starts at offset 0
func (f *Follower) reset() {
	f.offset = 0
	f.file = nil
	f.splitter.reset()
}

// readNew reads from the last offset to EOF and emits complete lines
func (f *Follower) readNew(emit func(Batch)) error {
	file, err := os.Open(f.path)
	if err != nil {
		return &domain.SourceError{Path: f.path, Err: err}
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return &domain.SourceError{Path: f.path, Err: err}
	}
	if f.file != nil && !os.SameFile(f.file, info) {
		f.logger.Info("file replaced, reading from start")
		f.flushPartial(emit)
		f.reset()
	}
	if info.Size() < f.offset {
		f.logger.Info("file truncated, reading from start", "size", info.Size(), "offset", f.offset)
		f.reset()
	}
	f.file = info

	if info.Size() == f.offset {
		return nil
	}

	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return &domain.SourceError{Path: f.path, Err: err}
	}

	var lines []string
	chunk := make([]byte, constants.ReadChunkSize)
	for {
		n, readErr := file.Read(chunk)
		if n > 0 {
			f.offset += int64(n)
			lines = f.splitter.split(chunk[:n], lines)
			for len(lines) >= constants.MaxBatchLines {
				emit(Batch{Lines: lines[:constants.MaxBatchLines:constants.MaxBatchLines]})
				lines = lines[constants.MaxBatchLines:]
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			if len(lines) > 0 {
				emit(Batch{Lines: lines})
			}
			return &domain.SourceError{Path: f.path, Err: readErr}
		}
	}

	if len(lines) > 0 {
		emit(Batch{Lines: lines})
	}
	return nil
}

// flushPartial emits the unterminated last line, if any
func (f *Follower) flushPartial(emit func(Batch)) {
	if line, ok := f.splitter.flush(); ok {
		emit(Batch{Lines: []string{line}})
	}
}
