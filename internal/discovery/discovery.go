// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charlievieth/fastwalk"

	"github.com/hashlog/hashlog/internal/issue"
	"github.com/hashlog/hashlog/pkg/hashlog"
)

const (
	initialLineBuffer = 64 * 1024
	// MaxLineLength is the longest source line that can be scanned.
	MaxLineLength = 64 * 1024 * 1024
)

// DefaultExtensions are the source file extensions scanned when none are configured.
var DefaultExtensions = []string{".h", ".inl", ".cpp"}

type (
	// Option configures a Discovery.
	Option func(*Discovery)

	// Discovery extracts logging messages from a source tree.
	Discovery struct {
		root           string
		severities     []string
		extensions     []string
		skipHidden     bool
		followSymlinks bool
		workers        int
		observer       Observer
	}

	// Result is the outcome of a successful Discover pass.
	Result struct {
		// Table holds every unique message in discovery order.
		Table *hashlog.Table
		// Files is the number of source files scanned.
		Files int
		// Calls is the number of log calls extracted, duplicates included.
		Calls int
		// Diagnostics lists non-fatal findings in scan order.
		Diagnostics []Diagnostic
	}

	// CollisionError places a hashlog.CollisionError at the two call sites
	// whose messages collide.
	CollisionError struct {
		Err         *hashlog.CollisionError
		Existing    Location
		Conflicting Location
	}

	// scanState is the per-pass bookkeeping threaded through file scans.
	scanState struct {
		table     *hashlog.Table
		firstSeen map[hashlog.Hash]Location
		result    *Result
	}
)

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s (first seen at %s, again at %s)", e.Err, e.Existing, e.Conflicting)
}

func (e *CollisionError) Unwrap() error {
	return e.Err
}

// WithSeverities sets the log-call tokens. An empty list keeps the defaults.
func WithSeverities(tokens ...string) Option {
	return func(d *Discovery) {
		if len(tokens) > 0 {
			d.severities = slices.Clone(tokens)
		}
	}
}

// WithExtensions sets the scanned file extensions, each including its dot.
// An empty list keeps the defaults.
func WithExtensions(exts ...string) Option {
	return func(d *Discovery) {
		if len(exts) > 0 {
			d.extensions = slices.Clone(exts)
		}
	}
}

// WithSkipHidden controls whether names starting with '.' are skipped.
func WithSkipHidden(skip bool) Option {
	return func(d *Discovery) {
		d.skipHidden = skip
	}
}

// WithFollowSymlinks controls whether symbolic links are followed. Links are
// followed by default; when disabled, every skipped link that resolves to a
// directory or a source file is reported as a warning diagnostic.
func WithFollowSymlinks(follow bool) Option {
	return func(d *Discovery) {
		d.followSymlinks = follow
	}
}

// WithWorkers sets the directory walker concurrency. Zero uses the walker default.
func WithWorkers(n int) Option {
	return func(d *Discovery) {
		d.workers = n
	}
}

// WithObserver installs o to receive progress callbacks.
func WithObserver(o Observer) Option {
	return func(d *Discovery) {
		if o != nil {
			d.observer = o
		}
	}
}

// New creates a Discovery rooted at root.
func New(root string, opts ...Option) *Discovery {
	d := &Discovery{
		root:           root,
		severities:     slices.Clone(DefaultSeverities),
		extensions:     slices.Clone(DefaultExtensions),
		skipHidden:     true,
		followSymlinks: true,
		observer:       nopObserver{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Root returns the directory the Discovery scans.
func (d *Discovery) Root() string {
	return d.root
}

// Discover scans every matching file below the root and inserts each decoded
// message into table. Files are scanned in lexical path order. The pass stops
// at the first unreadable file, message collision or context cancellation;
// table may then hold a partial result and must not be written.
func (d *Discovery) Discover(ctx context.Context, table *hashlog.Table) (*Result, error) {
	matcher, err := NewMatcher(d.severities...)
	if err != nil {
		return nil, err
	}

	files, skipped, err := d.walk(ctx)
	if err != nil {
		return nil, err
	}

	st := &scanState{
		table:     table,
		firstSeen: make(map[hashlog.Hash]Location),
		result:    &Result{Table: table, Diagnostics: skipped},
	}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := d.scanFile(matcher, path, st); err != nil {
			return nil, err
		}
		st.result.Files++
	}
	return st.result, nil
}

// Files returns the sorted paths of all source files below the root.
func (d *Discovery) Files(ctx context.Context) ([]string, error) {
	files, _, err := d.walk(ctx)
	return files, err
}

// walk enumerates the source files below the root, along with a warning for
// each symbolic link left unfollowed. Both are sorted by path.
func (d *Discovery) walk(ctx context.Context) ([]string, []Diagnostic, error) {
	info, err := os.Stat(d.root)
	if err != nil {
		return nil, nil, walkError(d.root, err)
	}
	if !info.IsDir() {
		return nil, nil, walkError(d.root, fmt.Errorf("%s is not a directory", d.root))
	}

	var (
		mu      sync.Mutex
		files   []string
		skipped []Diagnostic
	)
	conf := &fastwalk.Config{
		Follow:     d.followSymlinks,
		NumWorkers: d.workers,
	}
	err = fastwalk.Walk(conf, d.root, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return walkError(path, err)
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if path == d.root {
			return nil
		}

		name := de.Name()
		if d.skipHidden && strings.HasPrefix(name, ".") {
			if de.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if de.IsDir() {
			return nil
		}
		isSource := slices.Contains(d.extensions, filepath.Ext(name))
		if de.Type()&fs.ModeSymlink != 0 {
			if !d.followSymlinks {
				if diag, ok := d.skippedLink(path, isSource); ok {
					mu.Lock()
					skipped = append(skipped, diag)
					mu.Unlock()
				}
				return nil
			}
			// Linked directories are traversed by the walker itself.
			if !isSource {
				return nil
			}
			target, serr := os.Stat(path)
			if serr != nil {
				return walkError(path, serr)
			}
			if !target.Mode().IsRegular() {
				return nil
			}
		} else if !isSource || !de.Type().IsRegular() {
			return nil
		}

		mu.Lock()
		files = append(files, path)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	slices.Sort(files)
	slices.SortFunc(skipped, func(a, b Diagnostic) int {
		return strings.Compare(a.Location.Path, b.Location.Path)
	})
	return files, skipped, nil
}

// skippedLink describes an unfollowed link whose target could hold messages:
// a directory, a source file, or a source-named link that does not resolve.
func (d *Discovery) skippedLink(path string, isSource bool) (Diagnostic, bool) {
	target, err := os.Stat(path)
	switch {
	case err != nil && !isSource:
		return Diagnostic{}, false
	case err == nil && !target.IsDir() && !isSource:
		return Diagnostic{}, false
	}
	return Diagnostic{
		Severity: SeverityWarning,
		Code:     CodeSymlinkNotFollowed,
		Message:  "symbolic link not followed; its messages are not in the table",
		Location: Location{Path: path},
	}, true
}

func (d *Discovery) scanFile(matcher *Matcher, path string, st *scanState) error {
	d.observer.Scanning(path)

	f, err := os.Open(path)
	if err != nil {
		return readError(path, err)
	}
	defer func() { _ = f.Close() }()

	return d.scan(matcher, f, path, st)
}

func (d *Discovery) scan(matcher *Matcher, r io.Reader, path string, st *scanState) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, initialLineBuffer), MaxLineLength)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		matches, misses := matcher.scan(sc.Text())

		for _, m := range misses {
			st.result.Diagnostics = append(st.result.Diagnostics, missDiagnostic(m, Location{Path: path, Line: lineNo, Column: m.column}))
		}

		for _, m := range matches {
			at := Location{Path: path, Line: lineNo, Column: m.Column}
			if err := d.record(m, at, st); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			err = fmt.Errorf("line %d is longer than %d bytes: %w", lineNo+1, MaxLineLength, err)
		}
		return readError(path, err)
	}
	return nil
}

func (d *Discovery) record(m Match, at Location, st *scanState) error {
	msg := Unescape(m.Raw)
	if !utf8.ValidString(msg) {
		return issue.NewErrorContext().
			WithOperation("decode logging message").
			WithResource(at.String()).
			WithSuggestion("Save the source file as UTF-8").
			WithIssue(issue.SourceUnreadableId).
			Wrap(hashlog.ErrInvalidUTF8).
			BuildError()
	}

	entry, inserted, err := st.table.Insert(msg)
	if err != nil {
		var collErr *hashlog.CollisionError
		if errors.As(err, &collErr) {
			return &CollisionError{Err: collErr, Existing: st.firstSeen[collErr.Hash], Conflicting: at}
		}
		return err
	}

	st.result.Calls++
	if inserted {
		st.firstSeen[entry.Hash] = at
		d.observer.Discovered(entry, at)
	}
	return nil
}

func missDiagnostic(m miss, at Location) Diagnostic {
	switch m.code {
	case CodeUnterminatedLiteral:
		return Diagnostic{
			Severity: SeverityWarning,
			Code:     m.code,
			Message:  fmt.Sprintf("%s( string literal is not closed on this line; call skipped", m.token),
			Location: at,
		}
	default:
		return Diagnostic{
			Severity: SeverityInfo,
			Code:     m.code,
			Message:  fmt.Sprintf(`%s("...") is not followed by ", "; call skipped`, m.token),
			Location: at,
		}
	}
}

func walkError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("scan source tree").
		WithResource(path).
		WithIssue(issue.SourceUnreadableId).
		Wrap(err).
		BuildError()
}

func readError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("read source file").
		WithResource(path).
		WithIssue(issue.SourceUnreadableId).
		Wrap(err).
		BuildError()
}
