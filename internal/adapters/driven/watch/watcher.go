// Package watch feeds directory changes into document uploads. A watcher
// covers one directory tree recursively and reports files once their writes
// have settled.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/logger"
)

// DefaultDebounce is how long a file must stay quiet after its last write
// before it is reported. Editors often emit several writes per save.
const DefaultDebounce = 400 * time.Millisecond

// UploadFunc receives the absolute path of a settled file. It runs on a
// timer goroutine and must be safe to call concurrently.
type UploadFunc func(path string)

// Watcher reports created and modified files with supported extensions
// under a directory tree.
type Watcher struct {
	root     string
	onUpload UploadFunc
	debounce time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	fw      *fsnotify.Watcher
	pending map[string]*time.Timer
}

// New creates a watcher rooted at dir. dir must exist and be a directory.
func New(dir string, onUpload UploadFunc) (*Watcher, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, dir)
	}

	return &Watcher{
		root:     root,
		onUpload: onUpload,
		debounce: DefaultDebounce,
		log:      logger.For("watch"),
		pending:  make(map[string]*time.Timer),
	}, nil
}

// Root returns the absolute path being watched.
func (w *Watcher) Root() string {
	return w.root
}

// Run watches until ctx is cancelled. Cancellation is the normal way to
// stop a watch, so it returns nil rather than the context error.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	w.mu.Lock()
	w.fw = fw
	w.mu.Unlock()

	if err := w.addTree(w.root); err != nil {
		return fmt.Errorf("watch %s: %w", w.root, err)
	}
	w.log.Info().Str("root", w.root).Msg("watching for changes")

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				w.log.Warn().Err(err).Msg("watch error")
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
		w.cancelDebounce(ev.Name)
		return
	}
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) {
		return
	}

	info, err := os.Stat(ev.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		// fsnotify does not recurse on its own, so directories created
		// after startup are added here. Files already inside one (moved
		// in as a unit) are reported by the walk.
		if err := w.addTree(ev.Name); err != nil {
			w.log.Warn().Err(err).Str("dir", ev.Name).Msg("cannot watch new directory")
		}
		return
	}
	if !shouldUpload(ev.Name) {
		return
	}
	w.schedule(ev.Name)
}

// addTree registers dir and every directory beneath it, scheduling any
// supported files found along the way when the tree appeared mid-run.
func (w *Watcher) addTree(dir string) error {
	w.mu.Lock()
	fw := w.fw
	w.mu.Unlock()
	if fw == nil {
		return nil
	}

	midRun := dir != w.root
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.Add(path)
		}
		if midRun && shouldUpload(path) {
			w.schedule(path)
		}
		return nil
	})
}

// schedule arms (or re-arms) the debounce timer for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		w.log.Debug().Str("path", path).Msg("file settled")
		if w.onUpload != nil {
			w.onUpload(path)
		}
	})
}

func (w *Watcher) cancelDebounce(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

// shouldUpload reports whether the path names a file worth uploading.
// Hidden files and unsupported extensions are skipped.
func shouldUpload(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return domain.IsSupportedExtension(strings.ToLower(filepath.Ext(path)))
}
