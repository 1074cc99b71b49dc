// Package watch recompiles an IDL file whenever it or one of the files it
// imports changes.
package watch

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/idlc/compile"
	"github.com/teranos/idlc/errors"
	"github.com/teranos/idlc/logger"
)

// DefaultDebounce is the quiet period after the last change before a rebuild.
const DefaultDebounce = 500 * time.Millisecond

// JobFactory creates a fresh job for each rebuild.
type JobFactory func() (*compile.Job, error)

// ResultFunc receives every finished build, successful or not.
type ResultFunc func(job *compile.Job, err error)

// Watcher rebuilds on change of the input file or any file it imports,
// directly or transitively. The set of watched files is refreshed after
// every successful parse.
type Watcher struct {
	compiler *compile.Compiler
	newJob   JobFactory
	onResult ResultFunc
	debounce time.Duration
	log      *zap.SugaredLogger

	fsw *fsnotify.Watcher

	mu    sync.Mutex
	files map[string]bool
	dirs  map[string]bool
}

// Option configures a Watcher.
type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

func OnResult(fn ResultFunc) Option {
	return func(w *Watcher) { w.onResult = fn }
}

func New(c *compile.Compiler, newJob JobFactory, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	w := &Watcher{
		compiler: c,
		newJob:   newJob,
		onResult: func(*compile.Job, error) {},
		debounce: DefaultDebounce,
		log:      logger.WithStage(logger.ComponentLogger("watch"), logger.StageWatch),
		fsw:      fsw,
		files:    map[string]bool{},
		dirs:     map[string]bool{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Files returns the watched files in sorted order.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Run builds once, then rebuilds on every debounced change until ctx is
// done. Build failures are reported through the result callback and do not
// stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	if err := w.build(ctx); err != nil {
		return err
	}

	var (
		timer   *time.Timer
		trigger <-chan time.Time
	)
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
	}
	defer stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debugw("Change detected", logger.FieldFile, event.Name, "op", event.Op.String())
			stopTimer()
			timer = time.NewTimer(w.debounce)
			trigger = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("Watcher error", logger.FieldError, err)

		case <-trigger:
			trigger = nil
			if err := w.build(ctx); err != nil {
				return err
			}
		}
	}
}

// build runs one job and refreshes the watch set. Only errors that make
// watching impossible are returned.
func (w *Watcher) build(ctx context.Context) error {
	job, err := w.newJob()
	if err != nil {
		return err
	}
	logger.StageInfow(logger.StageWatch, "Building", logger.FieldFile, job.Input)

	runErr := w.compiler.Run(ctx, job)
	if ctx.Err() != nil {
		return nil
	}

	files := append([]string{job.Input}, job.ImportedPaths...)
	if err := w.track(files, runErr == nil); err != nil {
		return err
	}
	w.onResult(job, runErr)
	return nil
}

// track watches the directories holding files. A failed build only adds
// files, so fixing a broken import is still noticed.
func (w *Watcher) track(files []string, replace bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if replace {
		w.files = map[string]bool{}
	}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return errors.Wrapf(err, "failed to resolve %s", f)
		}
		w.files[abs] = true

		dir := filepath.Dir(abs)
		if w.dirs[dir] {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			return errors.Wrapf(err, "failed to watch %s", dir)
		}
		w.dirs[dir] = true
		w.log.Debugw("Watching directory", logger.FieldFile, dir)
	}
	return nil
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[abs]
}
