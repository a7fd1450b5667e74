// Package watch reloads a sphinx configuration file when it changes on
// disk, handing the freshly parsed document to a callback. The daemon pair
// this format configures re-reads its configuration on rotation; watch gives
// tooling the same view without polling.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"

	backend "github.com/honeybbq/sphinxconf/backend/sphinx"
	ast "github.com/honeybbq/sphinxconf/pkg/ast/sphinx"
	"github.com/honeybbq/sphinxconf/pkg/sphinxconf"
)

// Handler receives the freshly parsed document after each reload.
type Handler func(doc *ast.Document)

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger; the default logs nothing.
func WithLogger(logger hclog.Logger) Option {
	return func(w *Watcher) { w.logger = logger }
}

// WithDebounce sets how long bursts of write events are coalesced.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithParseOptions sets the options used for each reload parse.
func WithParseOptions(opts sphinxconf.ParseOptions) Option {
	return func(w *Watcher) { w.parseOpts = opts }
}

// Watcher monitors a single configuration file.
//
// 监听文件所在目录而不是文件本身：编辑器和部署工具通常用 rename 原子替换文件，
// 直接 watch 文件会在替换后失效。
type Watcher struct {
	path      string
	handler   Handler
	logger    hclog.Logger
	debounce  time.Duration
	parseOpts sphinxconf.ParseOptions

	fsw       *fsnotify.Watcher
	closeOnce sync.Once
	closeCh   chan struct{}
	wg        sync.WaitGroup
}

// New starts watching path and invokes handler after every successful
// reload. The caller owns the returned Watcher and must Close it.
func New(path string, handler Handler, opts ...Option) (*Watcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("watch: nil handler")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		handler:  handler,
		logger:   hclog.NewNullLogger(),
		debounce: 100 * time.Millisecond,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.loop()

	w.logger.Debug("watching configuration", "path", abs)
	return w, nil
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.closeCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// debounce: 合并连续写事件，只在静默期后重载一次
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "path", w.path, "error", err)
		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

// reload parses the file and hands the document to the handler. Parse
// failures are logged and the previous document stays with the caller.
func (w *Watcher) reload() {
	cfg := backend.New()
	src, err := sphinxconf.ReadSource(w.path)
	if err != nil {
		w.logger.Error("reload failed", "path", w.path, "error", err)
		return
	}
	if err := cfg.Parse(context.Background(), src, w.parseOpts); err != nil {
		w.logger.Error("reload failed", "path", w.path, "error", err)
		return
	}
	doc := cfg.Document()
	w.logger.Info("configuration reloaded", "path", w.path, "sections", doc.Len())
	w.handler(doc)
}
