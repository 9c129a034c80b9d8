// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when source files below a directory change.
//
// Events are filtered by file extension and coalesced over a debounce window,
// so an editor's write-then-rename sequence triggers a single callback.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Config.Debounce is not positive.
const DefaultDebounce = 300 * time.Millisecond

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// BaseDir is the watched root. Empty means the working directory.
		BaseDir string

		// Extensions selects the files that trigger the callback, e.g. ".cpp".
		// Matching is case-sensitive. An empty list matches every file.
		Extensions []string

		// SkipHidden excludes files and directories whose name starts with '.'.
		SkipHidden bool

		// Ignore lists paths relative to BaseDir that never trigger the
		// callback, typically the generated output file.
		Ignore []string

		// Debounce is the quiet period after the last event before the
		// callback fires.
		Debounce time.Duration

		// OnChange receives the sorted, deduplicated changed paths relative to
		// BaseDir. A returned error is logged and watching continues.
		OnChange func(ctx context.Context, changed []string) error

		// Logger receives watcher diagnostics. nil discards them.
		Logger *log.Logger
	}

	// Watcher monitors a directory tree and fires a debounced callback when
	// matching files change. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		logger   *log.Logger
		debounce time.Duration
		baseDir  string
		ignore   map[string]struct{}
		started  atomic.Bool
	}
)

// New resolves BaseDir, creates the fsnotify watcher and registers every
// directory below BaseDir that is not skipped.
func New(cfg Config) (*Watcher, error) {
	baseDir := cfg.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		baseDir = wd
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ignore := make(map[string]struct{}, len(cfg.Ignore))
	for _, p := range cfg.Ignore {
		ignore[filepath.ToSlash(filepath.Clean(p))] = struct{}{}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		logger:   logger,
		debounce: debounce,
		baseDir:  absBase,
		ignore:   ignore,
	}

	if err := w.addDirectories(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("close watcher after init failure", "err", closeErr)
		}
		return nil, err
	}
	return w, nil
}

// BaseDir returns the absolute watched root.
func (w *Watcher) BaseDir() string { return w.baseDir }

// Run blocks until ctx is canceled, dispatching debounced callbacks. It
// returns nil on cancellation and an error when the watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire may run after cancellation via time.AfterFunc. A callback that is
	// still busy reschedules the timer instead of running concurrently.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("previous run still in progress, retrying")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.OnChange == nil {
			return
		}
		if err := w.cfg.OnChange(ctx, changed); err != nil {
			w.logger.Error("regeneration failed", "err", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close fsnotify", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
				continue
			}

			rel, err := filepath.Rel(w.baseDir, evt.Name)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			// New directories extend the watch before any filtering, since
			// they carry no extension themselves.
			queued := []string{rel}
			if evt.Has(fsnotify.Create) {
				if files, isDir := w.addNewDir(evt.Name); isDir {
					queued = files
				}
			}

			mu.Lock()
			matched := false
			for _, r := range queued {
				if w.Matches(r) {
					pending[r] = struct{}{}
					matched = true
				}
			}
			if matched {
				if timer == nil {
					timer = time.AfterFunc(w.debounce, fire)
				} else {
					timer.Reset(w.debounce)
				}
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// Matches reports whether a slash-separated path relative to BaseDir would
// trigger the callback.
func (w *Watcher) Matches(rel string) bool {
	if _, ignored := w.ignore[rel]; ignored {
		return false
	}
	if w.skipped(rel) {
		return false
	}
	if len(w.cfg.Extensions) == 0 {
		return true
	}
	return slices.Contains(w.cfg.Extensions, filepath.Ext(rel))
}

// skipped reports whether any element of rel is hidden and hidden paths are
// excluded.
func (w *Watcher) skipped(rel string) bool {
	if !w.cfg.SkipHidden || rel == "." {
		return false
	}
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

func (w *Watcher) addDirectories() error {
	walkErr := filepath.WalkDir(w.baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("skipping inaccessible path", "path", path, "err", err)
			return nil //nolint:nilerr // unreadable subtrees are not watched
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(w.baseDir, path)
		if relErr != nil {
			return nil //nolint:nilerr // not below the base directory
		}
		if w.skipped(filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk directory tree: %w", walkErr)
	}
	return nil
}

// addNewDir watches a directory created after startup, including its
// subdirectories, and returns the matching files already inside it. A tree
// moved into BaseDir arrives whole and its files raise no events of their own.
// isDir is false when path is not a directory.
func (w *Watcher) addNewDir(path string) (files []string, isDir bool) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil, false
	}

	walkErr := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("skipping inaccessible path", "path", p, "err", err)
			return nil //nolint:nilerr // unreadable subtrees are not watched
		}
		rel, relErr := filepath.Rel(w.baseDir, p)
		if relErr != nil {
			return nil //nolint:nilerr // not below the base directory
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if w.skipped(rel) {
				return filepath.SkipDir
			}
			if addErr := w.fsw.Add(p); addErr != nil {
				w.logger.Warn("watch new directory", "path", p, "err", addErr)
			}
			return nil
		}
		if d.Type().IsRegular() && w.Matches(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if walkErr != nil {
		w.logger.Warn("scan new directory", "path", path, "err", walkErr)
	}
	return files, true
}
