// Package view renders the task overview page: the app header, the
// date-stamped heading, the progress bar and the status tabs.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	dom "taskmanager/internal/domain"
	"taskmanager/internal/service"
)

// LayoutTemplate is the name of the full-page template.
const LayoutTemplate = "layout"

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static/app.css
var AppCSS []byte

// Page is the data passed to the layout template.
type Page struct {
	Snapshot  service.Snapshot
	ActiveTab dom.Status
}

// NewPage selects the active tab: the requested status if the snapshot has
// such a tab, otherwise the first one.
func NewPage(s service.Snapshot, requested string) Page {
	p := Page{Snapshot: s}
	for _, tab := range s.Tabs {
		if string(tab.Status) == requested {
			p.ActiveTab = tab.Status
			return p
		}
	}
	if len(s.Tabs) > 0 {
		p.ActiveTab = s.Tabs[0].Status
	}
	return p
}

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New(LayoutTemplate).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Template exposes the parsed set, e.g. for gin's SetHTMLTemplate.
func (r *Renderer) Template() *template.Template {
	return r.tmpl
}

// Header renders the static app bar.
func (r *Renderer) Header(w io.Writer) error {
	return r.tmpl.ExecuteTemplate(w, "header", nil)
}

// Page renders the whole document.
func (r *Renderer) Page(w io.Writer, p Page) error {
	return r.tmpl.ExecuteTemplate(w, LayoutTemplate, p)
}
