// Package watcher reports changes to builder documents on disk, grouping
// bursts of filesystem events into a single batch.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/layera/stylegen/internal/catalog"
	stylerr "github.com/layera/stylegen/internal/errors"
	"github.com/layera/stylegen/internal/logging"
)

// ChangeEvent is one debounced file change.
type ChangeEvent struct {
	Type    EventType
	Path    string
	ModTime time.Time
	Size    int64
}

// EventType is the kind of file change.
type EventType int

const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
	EventTypeRenamed
)

func (e EventType) String() string {
	switch e {
	case EventTypeCreated:
		return "created"
	case EventTypeModified:
		return "modified"
	case EventTypeDeleted:
		return "deleted"
	case EventTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// FileFilter reports whether a path is of interest. All filters must agree.
type FileFilter func(path string) bool

// ChangeHandler receives one debounced batch, sorted by path.
type ChangeHandler func(ctx context.Context, events []ChangeEvent) error

// FileWatcher watches directories for changes.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	filters   []FileFilter
	handlers  []ChangeHandler
	logger    logging.Logger
	mutex     sync.RWMutex
}

// Debouncer collects events until no new event arrives for delay, then emits
// them as one batch with a single entry per path.
type Debouncer struct {
	delay   time.Duration
	events  chan ChangeEvent
	output  chan []ChangeEvent
	timer   *time.Timer
	pending map[string]ChangeEvent
	mutex   sync.Mutex
}

func newDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		events:  make(chan ChangeEvent, 100),
		output:  make(chan []ChangeEvent, 10),
		pending: make(map[string]ChangeEvent),
	}
}

// NewFileWatcher creates a watcher with the given debounce delay.
func NewFileWatcher(debounceDelay time.Duration, logger logging.Logger) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, stylerr.WrapIO(err, stylerr.ErrCodeReadFailed, "cannot create file watcher")
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &FileWatcher{
		watcher:   w,
		debouncer: newDebouncer(debounceDelay),
		logger:    logger.WithComponent("watcher"),
	}, nil
}

// AddFilter adds a file filter.
func (fw *FileWatcher) AddFilter(filter FileFilter) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.filters = append(fw.filters, filter)
}

// AddHandler adds a change handler.
func (fw *FileWatcher) AddHandler(handler ChangeHandler) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.handlers = append(fw.handlers, handler)
}

// AddPath watches a single directory.
func (fw *FileWatcher) AddPath(path string) error {
	clean, err := validateDir(path)
	if err != nil {
		return err
	}
	if err := fw.watcher.Add(clean); err != nil {
		return stylerr.WrapIO(err, stylerr.ErrCodeReadFailed, "cannot watch "+clean)
	}
	return nil
}

// AddRecursive watches root and every directory below it, skipping hidden
// directories.
func (fw *FileWatcher) AddRecursive(root string) error {
	clean, err := validateDir(root)
	if err != nil {
		return err
	}
	return filepath.WalkDir(clean, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != clean && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			return stylerr.WrapIO(err, stylerr.ErrCodeReadFailed, "cannot watch "+path)
		}
		return nil
	})
}

func validateDir(path string) (string, error) {
	clean := filepath.Clean(path)
	if strings.ContainsRune(clean, 0) {
		return "", stylerr.ErrInvalidPath(path)
	}
	info, err := os.Stat(clean)
	if err != nil {
		return "", stylerr.WrapIO(err, stylerr.ErrCodeInvalidPath, "cannot watch "+path)
	}
	if !info.IsDir() {
		return "", stylerr.NewValidationError(stylerr.ErrCodeInvalidPath, "watch path is not a directory: "+path)
	}
	return clean, nil
}

// Start runs the watcher until ctx is cancelled.
func (fw *FileWatcher) Start(ctx context.Context) error {
	go fw.debouncer.start(ctx)
	go fw.processEvents(ctx)
	go fw.watchLoop(ctx)
	return nil
}

// Stop releases the underlying watcher.
func (fw *FileWatcher) Stop() error {
	fw.debouncer.mutex.Lock()
	if fw.debouncer.timer != nil {
		fw.debouncer.timer.Stop()
	}
	fw.debouncer.mutex.Unlock()
	return fw.watcher.Close()
}

func (fw *FileWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleFsnotifyEvent(ctx, event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn(ctx, err, "File watcher error")
		}
	}
}

func (fw *FileWatcher) handleFsnotifyEvent(ctx context.Context, event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}

	fw.mutex.RLock()
	filters := fw.filters
	fw.mutex.RUnlock()
	for _, filter := range filters {
		if !filter(event.Name) {
			return
		}
	}

	change := ChangeEvent{Path: event.Name}
	if info, err := os.Stat(event.Name); err == nil {
		change.ModTime = info.ModTime()
		change.Size = info.Size()
	}

	switch {
	case event.Has(fsnotify.Create):
		change.Type = EventTypeCreated
	case event.Has(fsnotify.Write):
		change.Type = EventTypeModified
	case event.Has(fsnotify.Remove):
		change.Type = EventTypeDeleted
	case event.Has(fsnotify.Rename):
		change.Type = EventTypeRenamed
	default:
		change.Type = EventTypeModified
	}

	select {
	case fw.debouncer.events <- change:
	default:
		fw.logger.Warn(ctx, nil, "Event queue full, dropping change", "path", event.Name)
	}
}

func (fw *FileWatcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case events := <-fw.debouncer.output:
			fw.mutex.RLock()
			handlers := fw.handlers
			fw.mutex.RUnlock()

			for _, handler := range handlers {
				if err := handler(ctx, events); err != nil {
					fw.logger.Error(ctx, err, "Change handler failed", "changes", len(events))
				}
			}
		}
	}
}

func (d *Debouncer) start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.events:
			d.addEvent(event)
		}
	}
}

func (d *Debouncer) addEvent(event ChangeEvent) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.pending[event.Path] = event
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *Debouncer) flush() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if len(d.pending) == 0 {
		return
	}

	events := make([]ChangeEvent, 0, len(d.pending))
	for _, event := range d.pending {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })

	select {
	case d.output <- events:
		d.pending = make(map[string]ChangeEvent)
	default:
		// Keep the batch for the next flush.
		d.timer = time.AfterFunc(d.delay, d.flush)
	}
}

// DocumentFilter accepts builder documents.
func DocumentFilter(path string) bool {
	return catalog.IsDocument(filepath.Base(path))
}

// NoEditorTempFilter rejects editor swap and backup files.
func NoEditorTempFilter(path string) bool {
	base := filepath.Base(path)
	return !strings.HasSuffix(base, "~") &&
		!strings.HasSuffix(base, ".swp") &&
		!strings.HasPrefix(base, ".#")
}

// NoGitFilter rejects paths inside a .git directory.
func NoGitFilter(path string) bool {
	slashed := filepath.ToSlash(path)
	return !strings.HasPrefix(slashed, ".git/") && !strings.Contains(slashed, "/.git/")
}

// Paths returns the distinct paths of a batch.
func Paths(events []ChangeEvent) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Path)
	}
	return out
}
