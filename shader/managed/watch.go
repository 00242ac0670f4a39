package managed

import (
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/shaderkit"
	"github.com/gogpu/shaderkit/asset"
)

// Watcher marks ManagedPrograms as changed when one of their files changes
// on disk. Events arrive on a background goroutine and are collected into a
// pending set; the render thread drains it with Pending and reloads the
// programs itself. The watcher never touches a program.
type Watcher struct {
	res *asset.Folder
	fw  *fsnotify.Watcher

	mu       sync.Mutex
	programs []*ManagedProgram
	files    map[string][]*ManagedProgram
	dirs     map[string]bool
	pending  map[*ManagedProgram]bool
	closed   bool

	changes chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// NewWatcher starts a watcher for assets resolved through res.
func NewWatcher(res *asset.Folder) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("managed: create watcher: %w", err)
	}
	w := &Watcher{
		res:     res,
		fw:      fw,
		files:   make(map[string][]*ManagedProgram),
		dirs:    make(map[string]bool),
		pending: make(map[*ManagedProgram]bool),
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Watch registers the directories of every dependency of mp. Call it again
// after a reload to pick up new includes; known files are skipped.
func (w *Watcher) Watch(mp *ManagedProgram) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}
	if !slices.Contains(w.programs, mp) {
		w.programs = append(w.programs, mp)
	}
	for _, dep := range mp.Dependencies() {
		file := filepath.Clean(w.res.Resolve(dep))
		if !slices.Contains(w.files[file], mp) {
			w.files[file] = append(w.files[file], mp)
		}
		dir := filepath.Dir(file)
		if w.dirs[dir] {
			continue
		}
		if err := w.fw.Add(dir); err != nil {
			return fmt.Errorf("managed: watch %s: %w", dir, err)
		}
		w.dirs[dir] = true
		shaderkit.Logger().Debug("watching shader directory", "dir", dir)
	}
	return nil
}

// Changes is signalled when the pending set becomes non-empty. It is never
// closed.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

// Pending drains the set of changed programs without blocking. Programs are
// returned in the order they were first watched.
func (w *Watcher) Pending() []*ManagedProgram {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return nil
	}
	out := make([]*ManagedProgram, 0, len(w.pending))
	for _, mp := range w.programs {
		if w.pending[mp] {
			out = append(out, mp)
		}
	}
	clear(w.pending)
	return out
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.done)
		err = w.fw.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			switch {
			case event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create ||
				event.Op&fsnotify.Rename == fsnotify.Rename ||
				event.Op&fsnotify.Remove == fsnotify.Remove:
				w.mark(filepath.Clean(event.Name))
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			shaderkit.Logger().Warn("shader watcher error", "err", err)
		}
	}
}

func (w *Watcher) mark(file string) {
	w.mu.Lock()
	progs := w.files[file]
	for _, mp := range progs {
		w.pending[mp] = true
	}
	w.mu.Unlock()
	if len(progs) == 0 {
		return
	}
	shaderkit.Logger().Debug("shader file changed", "file", file, "programs", len(progs))
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
