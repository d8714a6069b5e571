// Package watch notifies about changes to the metadata of Mercurial working
// copies: new commits, bookmark moves, branch switches and updates.
package watch

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
)

// DefaultDebounce is used when no debounce is configured.
const DefaultDebounce = 500 * time.Millisecond

// ignoredNames are files hg rewrites while merely reading the repository.
var ignoredNames = []string{"wlock", "lock", "wlock.data"}

// Watcher watches .hg metadata directories and calls onChange, debounced,
// with the root of the working copy that changed.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func(root string)
	log      logze.Logger

	// watchedPaths maps watched filesystem paths to working copy roots.
	// Shared stores map to every working copy that uses them.
	watchedPaths   map[string][]string
	watchedPathsMu sync.Mutex

	debounceTimers   map[string]*time.Timer
	debounceTimersMu sync.Mutex

	stopCh   chan struct{}
	stopOnce sync.Once
}

// New creates a watcher. onChange runs on a timer goroutine.
func New(debounce time.Duration, onChange func(root string)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errm.Wrap(err, "create watcher")
	}
	return &Watcher{
		watcher:        w,
		debounce:       lang.Check(debounce, DefaultDebounce),
		onChange:       onChange,
		log:            logze.With("component", "hg-watcher"),
		watchedPaths:   make(map[string][]string),
		debounceTimers: make(map[string]*time.Timer),
		stopCh:         make(chan struct{}),
	}, nil
}

// Start launches the event loop goroutine.
func (hw *Watcher) Start() {
	go hw.eventLoop()
	hw.log.Debug("started")
}

// Stop closes the watcher and cancels all pending timers.
// Safe to call multiple times.
func (hw *Watcher) Stop() {
	hw.stopOnce.Do(func() {
		close(hw.stopCh)
		hw.watcher.Close()

		hw.debounceTimersMu.Lock()
		for _, t := range hw.debounceTimers {
			t.Stop()
		}
		hw.debounceTimersMu.Unlock()

		hw.log.Debug("stopped")
	})
}

// Add watches the metadata of the working copy rooted at root.
func (hw *Watcher) Add(root string) error {
	hgDir := filepath.Join(root, ".hg")
	if info, err := os.Stat(hgDir); err != nil || !info.IsDir() {
		return errm.Errorf("no .hg directory in %s", root)
	}

	// .hg holds dirstate, branch, bookmarks and the working copy parent
	hw.addWatch(hgDir, root)

	storeDir := resolveStore(hgDir)
	hw.addWatch(storeDir, root)

	hw.log.Info("watching", "root", root, "store", storeDir)
	return nil
}

// Remove drops all watches for root and cancels its pending notification.
func (hw *Watcher) Remove(root string) {
	hw.watchedPathsMu.Lock()
	var pathsToRemove []string
	for path, roots := range hw.watchedPaths {
		filtered := slices.DeleteFunc(slices.Clone(roots), func(r string) bool { return r == root })
		if len(filtered) == 0 {
			pathsToRemove = append(pathsToRemove, path)
			delete(hw.watchedPaths, path)
		} else {
			hw.watchedPaths[path] = filtered
		}
	}
	hw.watchedPathsMu.Unlock()

	for _, path := range pathsToRemove {
		hw.watcher.Remove(path)
	}

	hw.debounceTimersMu.Lock()
	if t, ok := hw.debounceTimers[root]; ok {
		t.Stop()
		delete(hw.debounceTimers, root)
	}
	hw.debounceTimersMu.Unlock()

	hw.log.Debug("unwatched", "root", root)
}

func (hw *Watcher) eventLoop() {
	for {
		select {
		case event, ok := <-hw.watcher.Events:
			if !ok {
				return
			}
			hw.handleEvent(event)
		case err, ok := <-hw.watcher.Errors:
			if !ok {
				return
			}
			hw.log.Warn("watch error", "error", err)
		case <-hw.stopCh:
			return
		}
	}
}

func (hw *Watcher) handleEvent(event fsnotify.Event) {
	if slices.Contains(ignoredNames, filepath.Base(event.Name)) {
		return
	}
	for _, root := range hw.findRoots(event.Name) {
		hw.resetDebounce(root)
	}
}

// findRoots returns the working copies associated with path or its parents.
func (hw *Watcher) findRoots(path string) []string {
	hw.watchedPathsMu.Lock()
	defer hw.watchedPathsMu.Unlock()

	if roots, ok := hw.watchedPaths[path]; ok {
		return roots
	}
	dir := filepath.Dir(path)
	for dir != "/" && dir != "." {
		if roots, ok := hw.watchedPaths[dir]; ok {
			return roots
		}
		dir = filepath.Dir(dir)
	}
	return nil
}

func (hw *Watcher) resetDebounce(root string) {
	hw.debounceTimersMu.Lock()
	defer hw.debounceTimersMu.Unlock()

	if t, ok := hw.debounceTimers[root]; ok {
		t.Reset(hw.debounce)
		return
	}
	hw.debounceTimers[root] = time.AfterFunc(hw.debounce, func() {
		hw.notify(root)
	})
}

func (hw *Watcher) notify(root string) {
	select {
	case <-hw.stopCh:
		return
	default:
	}
	hw.log.Debug("change detected", "root", root)
	if hw.onChange != nil {
		hw.onChange(root)
	}
}

// addWatch adds a filesystem watch and maps the path to root.
func (hw *Watcher) addWatch(path, root string) {
	if _, err := os.Stat(path); err != nil {
		return
	}

	hw.watchedPathsMu.Lock()
	roots := hw.watchedPaths[path]
	needsAdd := len(roots) == 0
	if !slices.Contains(roots, root) {
		hw.watchedPaths[path] = append(roots, root)
	}
	hw.watchedPathsMu.Unlock()

	if needsAdd {
		if err := hw.watcher.Add(path); err != nil {
			hw.log.Warn("cannot watch", "path", path, "error", err)
		}
	}
}

// resolveStore returns the store directory of a .hg directory. Working copies
// created with "hg share" keep the path of the source .hg in .hg/sharedpath.
func resolveStore(hgDir string) string {
	store := filepath.Join(hgDir, "store")

	data, err := os.ReadFile(filepath.Join(hgDir, "sharedpath"))
	if err != nil {
		return store
	}
	shared := strings.TrimSpace(string(data))
	if shared == "" {
		return store
	}
	if !filepath.IsAbs(shared) {
		shared = filepath.Join(hgDir, shared)
	}
	sharedStore := filepath.Join(filepath.Clean(shared), "store")
	if _, err := os.Stat(sharedStore); err != nil {
		return store
	}
	return sharedStore
}
