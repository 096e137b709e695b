// Package web serves the browser frontend for the playlist generator.
//
// The frontend is a single embedded page that drives the JSON API: it checks
// auth state, submits the mood prompt, renders the generated songs, and
// triggers playlist creation.
package web

import (
	_ "embed"
	"html/template"
	"net/http"

	"github.com/charmbracelet/log"
	"moodlist/internal/shared"
)

//go:embed index.html
var indexHTML string

// PageData carries template values for the index page.
type PageData struct {
	Title string
}

// Handler serves the embedded frontend at the site root.
type Handler struct {
	tmpl   *template.Template
	logger *log.Logger
}

// NewHandler parses the embedded page template.
func NewHandler(logger *log.Logger) (*Handler, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	tmpl, err := template.New("index").Parse(indexHTML)
	if err != nil {
		return nil, err
	}

	return &Handler{tmpl: tmpl, logger: logger}, nil
}

// Routes returns the path patterns this handler serves.
func (h *Handler) Routes() []string {
	return []string{"/"}
}

// ServeHTTP renders the index page. Any other path under / is a 404.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, PageData{Title: "Moodlist"}); err != nil {
		h.logger.Error("failed to render index", "error", err)
	}
}
