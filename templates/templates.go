// Package templates holds the embedded HTML pages. Each page is parsed
// together with the shared layout.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
)

//go:embed layout.html pages/*.html
var files embed.FS

type Renderer struct {
	pages map[string]*template.Template
	log   *slog.Logger
}

// New parses every page under pages/ with the layout and funcs.
func New(funcs template.FuncMap, log *slog.Logger) (*Renderer, error) {
	if log == nil {
		log = slog.Default()
	}

	names, err := fs.Glob(files, "pages/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(names)), log: log}
	for _, name := range names {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(files, "layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[strings.TrimSuffix(path.Base(name), ".html")] = tmpl
	}
	for _, page := range Pages {
		if !r.Has(page) {
			return nil, fmt.Errorf("missing page %s", page)
		}
	}
	return r, nil
}

// Pages lists every page the handlers render. New fails if one is missing.
var Pages = []string{"dashboard", "goal_new", "goal_detail", "leaderboard", "profile", "login", "loading", "error"}

// Has reports whether page exists.
func (r *Renderer) Has(page string) bool {
	_, ok := r.pages[page]
	return ok
}

// Render executes page into a buffer first so a template failure never
// leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := r.pages[page]
	if !ok {
		r.log.Error("unknown page", slog.String("page", page))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.log.Error("render failed", slog.String("page", page), slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
