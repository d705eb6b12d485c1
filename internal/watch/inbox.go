package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 500 * time.Millisecond

// Inbox watches one directory and reports each matching file once it has
// stopped changing for the debounce window. Handlers run on the Run
// goroutine, one at a time.
type Inbox struct {
	dir      string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	filter   *PatternFilter
	onReady  func(ctx context.Context, path string)

	ready chan string
}

// NewInbox starts watching dir. A zero debounce uses DefaultDebounce and a
// nil filter uses DefaultFilter.
func NewInbox(dir string, debounce time.Duration, filter *PatternFilter, onReady func(ctx context.Context, path string)) (*Inbox, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("inbox %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("inbox %s: not a directory", dir)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if filter == nil {
		filter = DefaultFilter()
	}
	return &Inbox{
		dir:      dir,
		watcher:  w,
		debounce: debounce,
		filter:   filter,
		onReady:  onReady,
		ready:    make(chan string, 16),
	}, nil
}

// Existing lists the matching files already in the directory, sorted by
// name.
func (in *Inbox) Existing() ([]string, error) {
	entries, err := os.ReadDir(in.dir)
	if err != nil {
		return nil, fmt.Errorf("reading inbox: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(in.dir, e.Name())
		if in.filter.Matches(path) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Run blocks until ctx is cancelled or the watcher fails.
func (in *Inbox) Run(ctx context.Context) error {
	defer in.watcher.Close()

	stop := make(chan struct{})
	settle := newSettleQueue(in.debounce, func(path string) {
		select {
		case in.ready <- path:
		case <-ctx.Done():
		case <-stop:
		}
	})
	defer settle.Drop()
	defer close(stop)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case path := <-in.ready:
			if in.onReady != nil {
				in.onReady(ctx, path)
			}

		case event, ok := <-in.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !in.filter.Matches(event.Name) {
				continue
			}
			settle.Touch(event.Name)

		case err, ok := <-in.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}
