package api

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/steamsearcher/steamsearcher-web/internal/card"
	"github.com/steamsearcher/steamsearcher-web/internal/watcher"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

//go:embed static
var embeddedStatic embed.FS

// View names accepted by Renderer.Render.
const (
	ViewSearch  = "search"
	ViewResults = "results"
	ViewGrid    = "grid"
)

// view is one renderable template set: the files parsed together and the
// template executed from it.
type view struct {
	files []string
	entry string
}

var views = map[string]view{
	ViewSearch:  {files: []string{"base.html", "search.html"}, entry: "base"},
	ViewResults: {files: []string{"base.html", "results.html"}, entry: "base"},
	ViewGrid:    {files: []string{"grid.html", "card.html"}, entry: "grid"},
}

var funcs = template.FuncMap{
	"fallbackImage": func() string { return card.FallbackImage },
}

// Renderer executes the page templates. With a template directory configured it
// reads from disk and reparses whenever a file there changes; otherwise it uses
// the embedded copies.
type Renderer struct {
	mu    sync.RWMutex
	sets  map[string]*template.Template
	fsys  fs.FS
	dir   string
	log   *slog.Logger

	watch *watcher.Watcher
	done  chan struct{}
	wg    sync.WaitGroup
}

// NewRenderer parses all views from dir, or from the embedded templates when dir is empty.
func NewRenderer(dir string, logger *slog.Logger) (*Renderer, error) {
	var fsys fs.FS
	if dir == "" {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, fmt.Errorf("embedded templates: %w", err)
		}
		fsys = sub
	} else {
		fsys = os.DirFS(dir)
	}

	r := &Renderer{fsys: fsys, dir: dir, log: logger}
	if err := r.reload(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) reload() error {
	sets := make(map[string]*template.Template, len(views))
	for name, v := range views {
		t, err := template.New(name + ".view").Funcs(funcs).ParseFS(r.fsys, v.files...)
		if err != nil {
			return fmt.Errorf("parse %s templates: %w", name, err)
		}
		sets[name] = t
	}

	r.mu.Lock()
	r.sets = sets
	r.mu.Unlock()
	return nil
}

// Render executes a view into a buffer first so a template error never leaves
// a half-written page behind.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) {
	r.mu.RLock()
	t, ok := r.sets[name]
	r.mu.RUnlock()

	if !ok {
		r.log.Error("unknown view", "view", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, views[name].entry, data); err != nil {
		r.log.Error("failed to execute template", "view", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.log.Debug("failed to write page", "view", name, "error", err)
	}
}

// Watch starts reloading templates on change. It does nothing for embedded templates.
func (r *Renderer) Watch(ctx context.Context) error {
	if r.dir == "" {
		return nil
	}

	w, err := watcher.New(r.log, watcher.Options{})
	if err != nil {
		return err
	}
	if err := w.Watch(r.dir); err != nil {
		_ = w.Stop()
		return err
	}
	r.watch = w
	r.done = make(chan struct{})
	w.Start(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case ev, ok := <-w.Events():
				if !ok {
					return
				}
				if err := r.reload(); err != nil {
					// Keep serving the last good templates.
					r.log.Warn("template reload failed", "path", ev.Path, "error", err)
					continue
				}
				r.log.Info("templates reloaded", "path", ev.Path, "event", ev.Type.String())
			case err := <-w.Errors():
				r.log.Warn("template watcher error", "error", err)
			case <-ctx.Done():
				return
			case <-r.done:
				return
			}
		}
	}()

	r.log.Info("watching templates", "dir", r.dir)
	return nil
}

// Close stops the template watcher, if any.
func (r *Renderer) Close() error {
	if r.watch == nil {
		return nil
	}
	close(r.done)
	r.wg.Wait()
	err := r.watch.Stop()
	r.watch = nil
	return err
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		panic(fmt.Sprintf("embedded static assets: %v", err))
	}
	return http.FileServerFS(sub)
}
