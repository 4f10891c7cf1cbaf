// Package assets loads model assets off the main loop and hands them back on it.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/quiet-measure/internal/engine/model"
	"github.com/Faultbox/quiet-measure/internal/logger"
	"github.com/Faultbox/quiet-measure/pkg/formats"
)

// ErrInvalidPath is returned for asset paths that do not name a file.
var ErrInvalidPath = errors.New("invalid asset path")

// LoadError reports a failed asset load. The model stays absent; loads are
// never retried.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Callback receives a freshly built scene graph, or a *LoadError.
// It always runs on the goroutine that calls Poll or Await.
type Callback func(m *model.Model, err error)

type result struct {
	path    string
	doc     *formats.GLTF
	err     error
	elapsed time.Duration
}

// Loader reads and parses assets on background goroutines. Results are
// applied only inside Poll or Await, so callbacks never race the frame loop.
type Loader struct {
	fsys  fs.FS
	cache *Cache
	opts  model.BuildOptions
	log   *zap.Logger

	done chan result
	wg   sync.WaitGroup

	// Owned by the polling goroutine.
	waiting map[string][]Callback
	ready   []result
	closed  bool
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string, opts model.BuildOptions) *Loader {
	return NewLoaderFS(os.DirFS(dir), opts)
}

// NewLoaderFS creates a loader reading from fsys.
func NewLoaderFS(fsys fs.FS, opts model.BuildOptions) *Loader {
	return &Loader{
		fsys:    fsys,
		cache:   NewCache(),
		opts:    opts,
		log:     logger.Named("assets"),
		done:    make(chan result, 8),
		waiting: make(map[string][]Callback),
	}
}

// Cache returns the loader's document cache.
func (l *Loader) Cache() *Cache {
	return l.cache
}

// Resolve maps a page-style path such as "/phoenix_bird.glb" to a key
// inside the asset root.
func Resolve(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	key := strings.TrimPrefix(path.Clean("/"+p), "/")
	if key == "" || !fs.ValidPath(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	return key, nil
}

// Request starts loading p and returns immediately. cb runs during a later
// Poll or Await. Concurrent requests for the same path share one read.
func (l *Loader) Request(p string, cb Callback) {
	if l.closed {
		return
	}

	key, err := Resolve(p)
	if err != nil {
		key = p
	}

	if cbs, inFlight := l.waiting[key]; inFlight {
		l.waiting[key] = append(cbs, cb)
		return
	}
	l.waiting[key] = []Callback{cb}

	if err != nil {
		l.ready = append(l.ready, result{path: key, err: err})
		return
	}

	if doc, ok := l.cache.Get(key); ok {
		l.ready = append(l.ready, result{path: key, doc: doc})
		return
	}

	l.log.Debug("loading asset", zap.String("path", key))
	l.wg.Add(1)
	go l.load(key)
}

// Preload warms the cache for p without a subscriber.
func (l *Loader) Preload(p string) {
	l.Request(p, nil)
}

func (l *Loader) load(key string) {
	defer l.wg.Done()
	start := time.Now()

	data, err := fs.ReadFile(l.fsys, key)
	if err != nil {
		l.done <- result{path: key, err: err, elapsed: time.Since(start)}
		return
	}
	doc, err := formats.Parse(data)
	l.done <- result{path: key, doc: doc, err: err, elapsed: time.Since(start)}
}

// Pending returns the number of paths with undelivered results.
func (l *Loader) Pending() int {
	return len(l.waiting)
}

// Poll delivers every finished load without blocking and returns how many
// paths completed.
func (l *Loader) Poll() int {
	n := 0
	for len(l.ready) > 0 {
		r := l.ready[0]
		l.ready = l.ready[1:]
		l.deliver(r)
		n++
	}
	for {
		select {
		case r := <-l.done:
			l.deliver(r)
			n++
		default:
			return n
		}
	}
}

// Await blocks until every outstanding request has been delivered.
func (l *Loader) Await(ctx context.Context) error {
	for {
		l.Poll()
		if len(l.waiting) == 0 {
			return nil
		}
		select {
		case r := <-l.done:
			l.deliver(r)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Loader) deliver(r result) {
	cbs := l.waiting[r.path]
	delete(l.waiting, r.path)

	if r.err != nil {
		l.log.Warn("asset load failed", zap.String("path", r.path), zap.Error(r.err))
		fail(r.path, cbs, r.err)
		return
	}

	// A document that parses but cannot be built is a failed load and is
	// not cached.
	first, err := model.FromGLTF(r.doc, l.opts)
	if err != nil {
		l.log.Warn("asset build failed", zap.String("path", r.path), zap.Error(err))
		fail(r.path, cbs, err)
		return
	}

	l.cache.Set(r.path, r.doc)
	if r.elapsed > 0 {
		l.log.Info("asset loaded",
			zap.String("path", r.path),
			zap.Int("nodes", len(r.doc.Nodes)),
			zap.Int("animations", len(r.doc.Animations)),
			zap.Duration("elapsed", r.elapsed))
	}

	for _, cb := range cbs {
		if cb == nil {
			continue
		}
		m := first
		first = nil
		if m == nil {
			if m, err = model.FromGLTF(r.doc, l.opts); err != nil {
				cb(nil, &LoadError{Path: r.path, Err: err})
				continue
			}
		}
		cb(m, nil)
	}
}

func fail(path string, cbs []Callback, err error) {
	loadErr := &LoadError{Path: path, Err: err}
	for _, cb := range cbs {
		if cb != nil {
			cb(nil, loadErr)
		}
	}
}

// Close drops undelivered results, waits for background reads and clears
// the cache. Requests after Close are ignored.
func (l *Loader) Close() {
	if l.closed {
		return
	}
	l.closed = true

	stop := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(stop)
	}()
	for {
		select {
		case <-l.done:
		case <-stop:
			l.waiting = make(map[string][]Callback)
			l.ready = nil
			l.cache.Clear()
			return
		}
	}
}
